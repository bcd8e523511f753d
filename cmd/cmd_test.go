package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/store"
)

func TestAggregateUsage(t *testing.T) {
	events := []store.LLMRequestEvent{
		{LLMRequestEventData: store.LLMRequestEventData{Model: "a", Purpose: "narrate", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "b", Purpose: "narrate", InputTokens: 20, OutputTokens: 1, LatencyMs: 300}},
		{LLMRequestEventData: store.LLMRequestEventData{Model: "a", Purpose: "other", InputTokens: 1, OutputTokens: 1, LatencyMs: 50, Success: true}},
	}

	byPurpose := aggregateUsage(events, func(e store.LLMRequestEvent) string { return e.Purpose })
	require.Len(t, byPurpose, 2)
	assert.Equal(t, usageRow{Key: "narrate", Calls: 2, Failures: 1, InputTokens: 30, OutputTokens: 6, LatencyMs: 400}, byPurpose[0])
	assert.Equal(t, int64(200), byPurpose[0].avgLatencyMs())
	assert.Equal(t, "other", byPurpose[1].Key)

	byModel := aggregateUsage(events, func(e store.LLMRequestEvent) string { return e.Model })
	require.Len(t, byModel, 2)
	assert.Equal(t, "a", byModel[0].Key)
	assert.Equal(t, 2, byModel[0].Calls)

	assert.Empty(t, aggregateUsage(nil, func(e store.LLMRequestEvent) string { return e.Model }))
	assert.Zero(t, usageRow{}.avgLatencyMs())
}

func TestFilterPurpose(t *testing.T) {
	events := []store.LLMRequestEvent{
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "narrate"}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "other"}},
	}
	got := filterPurpose(events, "narrate")
	require.Len(t, got, 1)
	assert.Equal(t, "narrate", got[0].Purpose)
	assert.Equal(t, "other", events[1].Purpose, "input must not be modified")
}

func TestParseFlags(t *testing.T) {
	g, err := parseGrade("k")
	require.NoError(t, err)
	assert.Equal(t, curriculum.GradeK, g)
	_, err = parseGrade("13")
	assert.Error(t, err)

	c, err := parseCategory("Word Problems")
	require.NoError(t, err)
	assert.Equal(t, curriculum.CategoryWordProblems, c)
	_, err = parseCategory("astrology")
	assert.ErrorContains(t, err, "addition")

	tier, err := parseTier("hard")
	require.NoError(t, err)
	assert.Equal(t, curriculum.TierAdvanced, tier)
	_, err = parseTier("impossible")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestReadObservations(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "obs.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"category":"addition","correct":true,"response_ms":4000},
		{"category":"fractions","correct":false,"response_ms":9000}
	]`), 0o644))
	obs, err := readObservations(good)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, curriculum.CategoryAddition, obs[0].Category)
	assert.False(t, obs[1].Correct)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"category":"astrology"}]`), 0o644))
	_, err = readObservations(bad)
	assert.ErrorContains(t, err, "unknown category")

	_, err = readObservations(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// runCLI executes the root command with an isolated config dir and
// database.
func runCLI(t *testing.T, dbPath string, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	rootCmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))
	return rootCmd.ExecuteContext(context.Background())
}

func TestCLI_ResetAndCalibrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mathgenius.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	repo := st.ObservationRepo()
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Record(context.Background(), "ada", store.ObservationRecord{
			Observation: calibration.Observation{
				Category:   curriculum.CategoryAddition,
				Correct:    true,
				ResponseMs: 3000,
				Timestamp:  time.Now(),
			},
		}))
	}
	require.NoError(t, st.Close())

	require.NoError(t, runCLI(t, dbPath, "calibrate", "--learner", "ada", "--json"))
	require.NoError(t, runCLI(t, dbPath, "stats", "--learner", "ada"))
	require.NoError(t, runCLI(t, dbPath, "reset", "--learner", "ada", "--yes", "--cache"))

	st, err = store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	obs, err := st.ObservationRepo().RecentWindow(context.Background(), "ada", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestCLI_Distractors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mathgenius.db")
	assert.NoError(t, runCLI(t, dbPath, "distractors", "7", "-n", "3", "--seed", "42"))
	assert.Error(t, runCLI(t, dbPath, "distractors", "seven"))
	assert.Error(t, runCLI(t, dbPath, "distractors", "0"))
	assert.Error(t, runCLI(t, dbPath, "distractors", "--", "-5"))
	assert.Error(t, runCLI(t, dbPath, "distractors", "1000000001"))
	assert.NoError(t, runCLI(t, dbPath, "distractors", "1000000000", "--seed", "1"))
}

func TestParseRepository(t *testing.T) {
	owner, repo, err := parseRepository("acme/mg-fork")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "mg-fork", repo)

	for _, bad := range []string{"", "acme", "/mg", "acme/", "a/b/c"} {
		_, _, err := parseRepository(bad)
		assert.Error(t, err, bad)
	}
}
