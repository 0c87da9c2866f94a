package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	placedAt = time.Date(2025, 7, 8, 9, 30, 0, 0, time.UTC)
	later    = time.Date(2025, 7, 12, 14, 0, 0, 0, time.UTC)
)

func TestDefaultTimeline(t *testing.T) {
	timeline := DefaultTimeline(placedAt)
	require.Len(t, timeline, 7)

	assert.Equal(t, Step{Title: StepOrderPlaced, Date: "2025-07-08T09:30:00.000Z", Completed: true, Description: "Order created."}, timeline[0])
	for _, step := range timeline[1:] {
		assert.False(t, step.Completed, step.Title)
		assert.Equal(t, PendingDate, step.Date, step.Title)
		assert.NotEmpty(t, step.Description)
	}
}

func TestSyncTimelineCompletedPrefix(t *testing.T) {
	want := map[Status][]bool{
		StatusOrdered:   {true, false, false, false, false, false, false},
		StatusShipping:  {true, true, false, false, false, false, false},
		StatusUsing:     {true, true, true, true, false, false, false},
		StatusReturn:    {true, true, true, true, true, false, false},
		StatusChecking:  {true, true, true, true, true, true, false},
		StatusCompleted: {true, true, true, true, true, true, true},
	}

	for _, status := range Statuses {
		t.Run(string(status), func(t *testing.T) {
			synced := SyncTimeline(nil, status, placedAt, later)
			require.Len(t, synced, 7)

			for i, step := range synced {
				assert.Equal(t, want[status][i], step.Completed, step.Title)
				if step.Completed {
					assert.NotEqual(t, PendingDate, step.Date, step.Title)
				} else {
					assert.Equal(t, PendingDate, step.Date, step.Title)
				}
			}
			assert.NoError(t, ValidateTimeline(synced, status))
		})
	}
}

func TestSyncTimelineIsFixedPoint(t *testing.T) {
	for _, status := range Statuses {
		once := SyncTimeline(nil, status, placedAt, later)
		twice := SyncTimeline(once, status, placedAt, later.Add(48*time.Hour))
		assert.Equal(t, once, twice, string(status))
	}
}

func TestSyncTimelineKeepsRealDates(t *testing.T) {
	shipping := SyncTimeline(nil, StatusShipping, placedAt, later)
	shippedAt := shipping[1].Date

	completedAt := later.Add(72 * time.Hour)
	completed := SyncTimeline(shipping, StatusCompleted, placedAt, completedAt)

	assert.Equal(t, "2025-07-08T09:30:00.000Z", completed[0].Date)
	assert.Equal(t, shippedAt, completed[1].Date)
	for _, step := range completed[2:] {
		assert.True(t, step.Completed)
		assert.Equal(t, "2025-07-15T14:00:00.000Z", step.Date, step.Title)
	}
}

func TestSyncTimelineMovingBackwardUncompletes(t *testing.T) {
	completed := SyncTimeline(nil, StatusCompleted, placedAt, later)
	back := SyncTimeline(completed, StatusShipping, placedAt, later)

	assert.True(t, back[1].Completed)
	for _, step := range back[2:] {
		assert.False(t, step.Completed, step.Title)
		assert.Equal(t, completed[2].Date, step.Date, "stale dates are kept on pending steps")
	}
}

func TestSyncTimelineMatchesTitlesCaseInsensitively(t *testing.T) {
	timeline := []Step{
		{Title: "order placed", Date: "2025-07-01"},
		{Title: "SHIPPING"},
		{Title: "Gift wrap", Date: "2025-07-02", Completed: true},
		{Date: "untouched", Completed: true},
	}

	synced := SyncTimeline(timeline, StatusShipping, placedAt, later)

	assert.Equal(t, Step{Title: "order placed", Date: "2025-07-01", Completed: true}, synced[0])
	assert.Equal(t, Step{Title: "SHIPPING", Date: "2025-07-12T14:00:00.000Z", Completed: true}, synced[1])
	assert.Equal(t, Step{Title: "Gift wrap", Date: "2025-07-02", Completed: false}, synced[2])
	assert.Equal(t, timeline[3], synced[3])
}

func TestNormalizeTimeline(t *testing.T) {
	normalized := NormalizeTimeline([]Step{
		{Title: "  Order Placed ", Date: "2025-07-01", Completed: true},
		{},
	})

	assert.Equal(t, "Order Placed", normalized[0].Title)
	assert.Equal(t, Step{Title: "Step 2", Date: PendingDate}, normalized[1])
}

func TestValidateTimeline(t *testing.T) {
	valid := SyncTimeline(nil, StatusUsing, placedAt, later)
	assert.NoError(t, ValidateTimeline(valid, StatusUsing))

	ahead := SyncTimeline(nil, StatusReturn, placedAt, later)
	assert.ErrorIs(t, ValidateTimeline(ahead, StatusUsing), ErrInconsistentTimeline)

	behind := SyncTimeline(nil, StatusShipping, placedAt, later)
	assert.ErrorIs(t, ValidateTimeline(behind, StatusUsing), ErrInconsistentTimeline)

	undated := SyncTimeline(nil, StatusUsing, placedAt, later)
	undated[3].Date = PendingDate
	assert.ErrorIs(t, ValidateTimeline(undated, StatusUsing), ErrInconsistentTimeline)

	missing := valid[1:]
	assert.ErrorIs(t, ValidateTimeline(missing, StatusUsing), ErrInconsistentTimeline)
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("  Completed ")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, status)

	_, ok = ParseStatus("returned")
	assert.False(t, ok)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestCompletedSteps(t *testing.T) {
	assert.Equal(t, []string{StepOrderPlaced, StepShipping, StepReceived, StepUsing}, CompletedSteps(StatusUsing))
	assert.Equal(t, []string{StepOrderPlaced}, CompletedSteps(Status("bogus")))
}
