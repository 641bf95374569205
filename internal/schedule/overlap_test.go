package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountConflictsSingleResource(t *testing.T) {
	db := newTestDB(t)
	addInterval(t, db, "AULA01", "2024-06-01 09:00", "2024-06-01 10:00")
	addInterval(t, db, "AULA01", "2024-06-01 09:30", "2024-06-01 11:00")
	addInterval(t, db, "AULA02", "2024-06-01 09:00", "2024-06-01 10:00")

	e := NewOverlapEngine(db)
	counts, err := e.CountConflicts(context.Background(), []string{"AULA01"},
		mustWindow(t, "2024-06-01 09:30", "2024-06-01 10:30"))
	require.NoError(t, err)

	assert.Equal(t, 2, counts.Count("AULA01"))
}

func TestCountConflictsGroupedAbsentMeansZero(t *testing.T) {
	db := newTestDB(t)
	addInterval(t, db, "AULA01", "2024-06-01 09:00", "2024-06-01 10:00")

	e := NewOverlapEngine(db)
	counts, err := e.CountConflicts(context.Background(), []string{"AULA01", "AULA02"},
		mustWindow(t, "2024-06-01 09:30", "2024-06-01 10:30"))
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Count("AULA01"))
	// AULA02 has no conflicts, so the grouped query omits it entirely.
	_, present := counts["AULA02"]
	assert.False(t, present)
	assert.Equal(t, 0, counts.Count("AULA02"))
	assert.False(t, counts.Busy("AULA02"))
}

func TestBackToBackIntervalsDoNotConflict(t *testing.T) {
	db := newTestDB(t)
	addInterval(t, db, "AULA01", "2024-06-01 10:00", "2024-06-01 11:00")

	e := NewOverlapEngine(db)

	// Window starting exactly when the reservation ends.
	counts, err := e.CountConflicts(context.Background(), []string{"AULA01"},
		mustWindow(t, "2024-06-01 11:00", "2024-06-01 12:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Count("AULA01"))

	// Window ending exactly when the reservation starts.
	counts, err = e.CountConflicts(context.Background(), []string{"AULA01"},
		mustWindow(t, "2024-06-01 09:00", "2024-06-01 10:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Count("AULA01"))
}

func TestConflictCountMonotonicUnderWindowWidening(t *testing.T) {
	db := newTestDB(t)
	addInterval(t, db, "AULA01", "2024-06-01 08:00", "2024-06-01 09:00")
	addInterval(t, db, "AULA01", "2024-06-01 10:00", "2024-06-01 11:00")
	addInterval(t, db, "AULA01", "2024-06-01 14:00", "2024-06-01 15:00")

	e := NewOverlapEngine(db)
	windows := []Window{
		mustWindow(t, "2024-06-01 10:15", "2024-06-01 10:45"),
		mustWindow(t, "2024-06-01 09:30", "2024-06-01 11:30"),
		mustWindow(t, "2024-06-01 08:30", "2024-06-01 12:00"),
		mustWindow(t, "2024-06-01 07:00", "2024-06-01 16:00"),
	}

	previous := 0
	for _, w := range windows {
		counts, err := e.CountConflicts(context.Background(), []string{"AULA01"}, w)
		require.NoError(t, err)
		n := counts.Count("AULA01")
		assert.GreaterOrEqual(t, n, previous, "widening the window must not drop conflicts")
		previous = n
	}
	assert.Equal(t, 3, previous)
}

func TestZeroLengthWindowHasNoConflicts(t *testing.T) {
	db := newTestDB(t)
	addInterval(t, db, "AULA01", "2024-06-01 09:00", "2024-06-01 10:00")

	e := NewOverlapEngine(db)
	counts, err := e.CountConflicts(context.Background(), []string{"AULA01"},
		mustWindow(t, "2024-06-01 09:30", "2024-06-01 09:30"))
	require.NoError(t, err)

	// Strict inequalities: no interval can start before and end after the
	// same instant unless it properly contains it. An interval spanning the
	// instant does conflict; the boundary instants do not.
	assert.Equal(t, 1, counts.Count("AULA01"))

	counts, err = e.CountConflicts(context.Background(), []string{"AULA01"},
		mustWindow(t, "2024-06-01 10:00", "2024-06-01 10:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Count("AULA01"))
}

func TestCountConflictsEmptyIDSet(t *testing.T) {
	db := newTestDB(t)

	e := NewOverlapEngine(db)
	counts, err := e.CountConflicts(context.Background(), nil,
		mustWindow(t, "2024-06-01 09:00", "2024-06-01 10:00"))
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestBusyResources(t *testing.T) {
	db := newTestDB(t)
	addInterval(t, db, "AULA01", "2024-06-01 09:00", "2024-06-01 10:00")
	addInterval(t, db, "AULA01", "2024-06-01 10:30", "2024-06-01 11:00")
	addInterval(t, db, "FIAT01", "2024-06-01 09:00", "2024-06-01 17:00")
	addInterval(t, db, "PROJ01", "2024-06-02 09:00", "2024-06-02 10:00")

	e := NewOverlapEngine(db)
	busy, err := e.BusyResources(context.Background(),
		mustWindow(t, "2024-06-01 09:30", "2024-06-01 10:30"))
	require.NoError(t, err)

	assert.Len(t, busy, 2)
	assert.Contains(t, busy, "AULA01")
	assert.Contains(t, busy, "FIAT01")
	assert.NotContains(t, busy, "PROJ01")
}
