// internal/domain/order/timeline.go
package order

import (
	"fmt"
	"strings"
	"time"
)

// PendingDate is the placeholder date of a step that has not happened yet
const PendingDate = "Pending"

// Canonical timeline step titles, in lifecycle order
const (
	StepOrderPlaced = "Order Placed"
	StepShipping    = "Shipping"
	StepReceived    = "Received"
	StepUsing       = "Using"
	StepReturn      = "Return"
	StepChecking    = "Checking"
	StepCompleted   = "Completed"
)

var canonicalSteps = []Step{
	{Title: StepOrderPlaced, Description: "Order created."},
	{Title: StepShipping, Description: "Awaiting shipment."},
	{Title: StepReceived, Description: "Customer to confirm delivery."},
	{Title: StepUsing, Description: "Rental is currently in progress."},
	{Title: StepReturn, Description: "Preparing for return."},
	{Title: StepChecking, Description: "Seller inspecting the returned item."},
	{Title: StepCompleted, Description: "Order ready to be closed."},
}

// completedPrefix is the number of canonical steps done for each status.
// Received has no status of its own and completes together with using.
var completedPrefix = map[Status]int{
	StatusOrdered:   1,
	StatusShipping:  2,
	StatusUsing:     4,
	StatusReturn:    5,
	StatusChecking:  6,
	StatusCompleted: 7,
}

// CompletedSteps returns the canonical titles considered done for a status.
// Unknown statuses fall back to DefaultStatus.
func CompletedSteps(status Status) []string {
	n, ok := completedPrefix[status]
	if !ok {
		n = completedPrefix[DefaultStatus]
	}
	titles := make([]string, 0, n)
	for _, step := range canonicalSteps[:n] {
		titles = append(titles, step.Title)
	}
	return titles
}

// DefaultTimeline builds the seven step timeline of a freshly placed order
func DefaultTimeline(placedAt time.Time) []Step {
	timeline := make([]Step, len(canonicalSteps))
	for i, step := range canonicalSteps {
		step.Date = PendingDate
		timeline[i] = step
	}
	timeline[0].Date = formatDate(placedAt)
	timeline[0].Completed = true
	return timeline
}

// SyncTimeline marks every step in the status's completed-prefix as done and
// every other step as pending. Completed steps keep a real date and are
// stamped with now otherwise. An empty timeline is replaced by the default one
// first. Steps without a title are passed through untouched.
func SyncTimeline(timeline []Step, status Status, placedAt, now time.Time) []Step {
	if len(timeline) == 0 {
		timeline = DefaultTimeline(placedAt)
	}

	done := completedSet(status)
	stamp := formatDate(now)

	synced := make([]Step, len(timeline))
	for i, step := range timeline {
		if step.Title == "" {
			synced[i] = step
			continue
		}

		if done[strings.ToLower(step.Title)] {
			step.Completed = true
			if !hasRealDate(step.Date) {
				step.Date = stamp
			}
		} else {
			step.Completed = false
			if step.Date == "" {
				step.Date = PendingDate
			}
		}
		synced[i] = step
	}
	return synced
}

// NormalizeTimeline fills in missing titles and dates of a caller supplied timeline
func NormalizeTimeline(timeline []Step) []Step {
	normalized := make([]Step, len(timeline))
	for i, step := range timeline {
		step.Title = strings.TrimSpace(step.Title)
		if step.Title == "" {
			step.Title = fmt.Sprintf("Step %d", i+1)
		}
		if step.Date == "" {
			step.Date = PendingDate
		}
		normalized[i] = step
	}
	return normalized
}

// ValidateTimeline checks that completion flags agree with the status: every
// canonical step in the completed-prefix is done with a real date and no
// later canonical step is done. Non-canonical steps are not checked.
func ValidateTimeline(timeline []Step, status Status) error {
	done := completedSet(status)
	seen := make(map[string]bool, len(timeline))

	for _, step := range timeline {
		key := strings.ToLower(step.Title)
		if !isCanonical(key) {
			continue
		}
		seen[key] = true

		if done[key] {
			if !step.Completed || !hasRealDate(step.Date) {
				return ErrInconsistentTimeline
			}
		} else if step.Completed {
			return ErrInconsistentTimeline
		}
	}

	for key := range done {
		if !seen[key] {
			return ErrInconsistentTimeline
		}
	}
	return nil
}

func completedSet(status Status) map[string]bool {
	titles := CompletedSteps(status)
	set := make(map[string]bool, len(titles))
	for _, title := range titles {
		set[strings.ToLower(title)] = true
	}
	return set
}

func isCanonical(key string) bool {
	for _, step := range canonicalSteps {
		if strings.ToLower(step.Title) == key {
			return true
		}
	}
	return false
}

func hasRealDate(date string) bool {
	return date != "" && date != PendingDate
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
