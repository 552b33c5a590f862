package order

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Status is the canonical order status. Only these values are stored.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipping   Status = "shipping"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// statusAliases maps spellings found in imported data and older clients to the canonical value.
// Keys are NFC-normalized and lower-cased.
var statusAliases = map[string]Status{
	"pending":    StatusPending,
	"new":        StatusPending,
	"chờ xử lý":  StatusPending,
	"processing": StatusProcessing,
	"confirmed":  StatusProcessing,
	"đang xử lý": StatusProcessing,
	"shipping":   StatusShipping,
	"shipped":    StatusShipping,
	"đang giao":  StatusShipping,
	"completed":  StatusCompleted,
	"complete":   StatusCompleted,
	"success":    StatusCompleted,
	"delivered":  StatusCompleted,
	"hoàn thành": StatusCompleted,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"đã hủy":     StatusCancelled,
	"đã huỷ":     StatusCancelled,
	"refunded":   StatusRefunded,
	"hoàn tiền":  StatusRefunded,
}

// ParseStatus normalizes a status string from any client or import into the canonical value.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipping, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusShipping, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusShipping, StatusCompleted, StatusCancelled},
	StatusShipping:   {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Label is the Vietnamese display name used in exports and mails.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Chờ xử lý"
	case StatusProcessing:
		return "Đang xử lý"
	case StatusShipping:
		return "Đang giao"
	case StatusCompleted:
		return "Hoàn thành"
	case StatusCancelled:
		return "Đã hủy"
	case StatusRefunded:
		return "Hoàn tiền"
	default:
		return string(s)
	}
}
