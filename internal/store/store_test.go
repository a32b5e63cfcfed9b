package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinc-sig/pyramid/internal/output"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "reports.db") + "?_pragma=busy_timeout(5000)"
	s, err := Open(context.Background(), DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func report(id string, score int, at time.Time) *output.Report {
	return &output.Report{
		ID:        id,
		Status:    "graded",
		Score:     score,
		Tier:      "good",
		Feedback:  "ok",
		Tests:     []output.Test{{Name: "Test 1: n=1", Input: "1\n", Passed: true, Expected: []string{"*"}, Actual: []string{"*"}}},
		Executed:  1,
		Total:     1,
		StartedAt: at,
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("mysql"), "")
	assert.ErrorContains(t, err, "unsupported driver: mysql")
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, report("a", 80, at)))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, 80, got.Score)
	assert.Equal(t, []string{"*"}, got.Tests[0].Actual)
	assert.True(t, at.Equal(got.StartedAt))
}

func TestSaveReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, s.Save(ctx, report("a", 10, at)))
	updated := report("a", 90, at)
	updated.Tier = "excellent"
	require.NoError(t, s.Save(ctx, updated))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Score)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "excellent", list[0].Tier)
}

func TestSaveRequiresID(t *testing.T) {
	s := openTestStore(t)
	err := s.Save(context.Background(), &output.Report{})
	assert.ErrorContains(t, err, "report has no id")
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, s.Save(ctx, report(id, 10*i, base.Add(time.Duration(i)*time.Minute))))
	}

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].ID)
	assert.Equal(t, "first", list[2].ID)
	assert.Equal(t, 20, list[0].Score)
	assert.True(t, base.Add(2*time.Minute).Equal(list[0].CreatedAt))

	list, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	list, err := s.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}
