package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
)

type fakeTokenRepo struct {
	mu       sync.Mutex
	nextID   uint
	tokens   map[uint]*apitoken.APIToken
	cutoff   time.Time
	toDelete int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uint]*apitoken.APIToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *apitoken.APIToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if err := t.SetID(r.nextID); err != nil {
		return err
	}
	r.tokens[t.ID()] = t
	return nil
}

func (r *fakeTokenRepo) GetBySID(_ context.Context, sid string) (*apitoken.APIToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.SID() == sid {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) GetByTokenHash(_ context.Context, hash string) (*apitoken.APIToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash() == hash {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) ListByUserID(_ context.Context, userID uint) ([]*apitoken.APIToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*apitoken.APIToken
	for i := uint(1); i <= r.nextID; i++ {
		if t, ok := r.tokens[i]; ok && t.UserID() == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) Update(_ context.Context, t *apitoken.APIToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.ID()] = t
	return nil
}

func (r *fakeTokenRepo) UpdateLastUsed(context.Context, uint, time.Time) error { return nil }

func (r *fakeTokenRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.toDelete, nil
}

type fakeUserRepo struct {
	users map[uint]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*user.User)}
	for _, u := range users {
		r.users[u.ID()] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*user.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.users[u.ID()] = u
	return nil
}

func newTestUser(id uint, role authorization.UserRole) *user.User {
	u, err := user.NewUser(fmt.Sprintf("user%d@example.com", id), "User", role)
	if err != nil {
		panic(err)
	}
	if err := u.SetID(id); err != nil {
		panic(err)
	}
	return u
}

type stubGenerator struct {
	n int
}

func (g *stubGenerator) Generate(prefix string) (string, string, error) {
	g.n++
	plain := fmt.Sprintf("%ssecret%04d", prefix, g.n)
	return plain, g.Hash(plain), nil
}

func (g *stubGenerator) Hash(plain string) string { return "hash:" + plain }

func (g *stubGenerator) DisplayPrefix(plain string) string {
	if len(plain) > 12 {
		return plain[:12]
	}
	return plain
}
