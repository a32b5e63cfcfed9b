package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/grading"
	"github.com/zinc-sig/pyramid/internal/output"
	"github.com/zinc-sig/pyramid/internal/store"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "history.db")

	st, err := store.Open(context.Background(), store.DriverSQLite, dsn)
	require.NoError(t, err)
	defer st.Close()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reports := []*output.Report{
		{ID: "older", Status: grading.StatusGraded, Score: 64, Tier: "good", StartedAt: base},
		{ID: "newer", Status: grading.StatusExecutionFailed, Score: 0, Tier: "poor", StartedAt: base.Add(time.Hour)},
	}
	for _, r := range reports {
		require.NoError(t, st.Save(context.Background(), r))
	}
	return dsn
}

func resetHistoryFlags(dsn string) {
	historyStore = config.StoreConfig{Driver: "sqlite", DSN: dsn}
	historyLimit = store.DefaultLimit
	historyJSON = false
}

func TestHistoryCommandTable(t *testing.T) {
	resetHistoryFlags(seedHistory(t))

	c, stdout, _ := testCommand("")
	require.NoError(t, historyCommand(c, nil))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "newer"))
	assert.Contains(t, lines[1], "2026-03-01T10:00:00Z")
	assert.Contains(t, lines[1], "execution_failed")
	assert.True(t, strings.HasPrefix(lines[2], "older"))
	assert.Contains(t, lines[2], "64")
}

func TestHistoryCommandJSON(t *testing.T) {
	resetHistoryFlags(seedHistory(t))
	historyJSON = true
	historyLimit = 1

	c, stdout, _ := testCommand("")
	require.NoError(t, historyCommand(c, nil))

	var list []store.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "newer", list[0].ID)
}

func TestHistoryCommandEmptyStore(t *testing.T) {
	resetHistoryFlags("file:" + filepath.Join(t.TempDir(), "empty.db"))
	historyJSON = true

	c, stdout, _ := testCommand("")
	require.NoError(t, historyCommand(c, nil))
	assert.Equal(t, "[]\n", stdout.String())
}
