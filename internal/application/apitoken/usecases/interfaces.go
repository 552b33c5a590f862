package usecases

import "time"

type TokenGenerator interface {
	Generate(prefix string) (plainToken string, hash string, err error)
	Hash(plainToken string) string
	DisplayPrefix(plainToken string) string
}

// Clock lets tests pin the current time.
type Clock func() time.Time
