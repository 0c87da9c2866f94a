// internal/domain/order/status.go
package order

import "strings"

// Status represents the rental order lifecycle state
type Status string

const (
	StatusOrdered   Status = "ordered"
	StatusShipping  Status = "shipping"
	StatusUsing     Status = "using"
	StatusReturn    Status = "return"
	StatusChecking  Status = "checking"
	StatusCompleted Status = "completed"
)

// DefaultStatus is assigned to new orders
const DefaultStatus = StatusOrdered

// Statuses lists every valid status in lifecycle order
var Statuses = []Status{
	StatusOrdered,
	StatusShipping,
	StatusUsing,
	StatusReturn,
	StatusChecking,
	StatusCompleted,
}

// ParseStatus normalizes a raw status value. ok is false for unknown values.
func ParseStatus(raw string) (status Status, ok bool) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Statuses {
		if s == candidate {
			return s, true
		}
	}
	return "", false
}

// IsValid checks the status against the known set
func (s Status) IsValid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

func (s Status) String() string {
	return string(s)
}
