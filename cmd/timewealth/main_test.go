package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/insights"
	"example.com/timewealth/internal/persistence/file"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd(&bytes.Buffer{}).Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"onboard", "insights", "activity", "priorities", "reflect", "seed"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestOnboardLogAndReport(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "tw.json")
	common := []string{"--snapshot", snap, "--today", "2024-06-05"}

	_, err := run(t, append([]string{"onboard", "--value", "Family", "--value", "Health"}, common...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"activity", "add", "--name", "Dinner", "--value", "Family", "--start", "19:00", "--duration", "90"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1h 30m")

	_, err = run(t, append([]string{"activity", "add", "--name", "Run", "--value", "Health", "--date", "2024-06-04", "--start", "07:00", "--end", "07:30"}, common...)...)
	require.NoError(t, err)

	out, err = run(t, append([]string{"insights", "--range", "week", "--json"}, common...)...)
	require.NoError(t, err)
	var report insights.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2024-06-03", report.Window.Start)
	assert.Equal(t, 2, report.ActivityCount)
	assert.Equal(t, 120, report.TotalMinutes)
	require.Len(t, report.Stats, 2)
	assert.Equal(t, domain.ValueName("Family"), report.Stats[0].Value)
	assert.Equal(t, 75, report.Stats[0].ActualPercentage)

	out, err = run(t, append([]string{"activity", "log"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Dinner")
	assert.NotContains(t, out, "Run")
}

func TestActivityAddRejectsDurationMismatch(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "tw.json")
	common := []string{"--snapshot", snap, "--today", "2024-06-05"}

	_, err := run(t, append([]string{"onboard", "--value", "Health"}, common...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"activity", "add", "--name", "Run", "--value", "Health", "--start", "07:00", "--end", "07:30", "--duration", "90"}, common...)...)
	require.ErrorIs(t, err, domain.ErrMalformedActivity)

	snapshot, err := file.NewStore(snap).Load()
	require.NoError(t, err)
	require.Empty(t, snapshot.Activities)
}

func TestActivityRemove(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "tw.json")
	common := []string{"--snapshot", snap, "--today", "2024-06-05"}

	_, err := run(t, append([]string{"onboard", "--value", "Learning"}, common...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"activity", "add", "--name", "Read", "--value", "Learning", "--start", "08:00", "--duration", "30"}, common...)...)
	require.NoError(t, err)

	snapshot, err := file.NewStore(snap).Load()
	require.NoError(t, err)
	require.Len(t, snapshot.Activities, 1)

	_, err = run(t, append([]string{"activity", "rm", snapshot.Activities[0].ID}, common...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"activity", "rm", snapshot.Activities[0].ID}, common...)...)
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestPrioritiesSetAndReset(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "tw.json")
	common := []string{"--snapshot", snap, "--json"}

	_, err := run(t, append([]string{"onboard", "--value", "Family", "--value", "Health"}, common...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"priorities", "set", "Family", "80"}, common...)...)
	require.NoError(t, err)
	var profile domain.ValueProfile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.InDelta(t, 62, profile.Priorities["Family"], 0.001)
	assert.InDelta(t, 38, profile.Priorities["Health"], 0.001)

	out, err = run(t, append([]string{"priorities", "reset"}, common...)...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.InDelta(t, 50, profile.Priorities["Family"], 0.001)

	_, err = run(t, append([]string{"priorities", "set", "Family", "lots"}, common...)...)
	require.Error(t, err)
}

func TestReflectScoresAnswers(t *testing.T) {
	out, err := run(t, "reflect",
		"--answer", "time=Strongly Agree",
		"--answer", "time2=Strongly Agree",
		"--answer", "time3=Strongly Agree",
		"--answer", "time4=Strongly Agree",
		"--answer", "time5=Strongly Agree",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "score 25: Time Master")
	assert.NotContains(t, out, "follow-up")

	out, err = run(t, "reflect", "--answer", "time=Disagree")
	require.NoError(t, err)
	assert.Contains(t, out, "follow-up")

	_, err = run(t, "reflect", "--answer", "time")
	require.Error(t, err)

	out, err = run(t, "reflect")
	require.NoError(t, err)
	assert.Contains(t, out, "followup1")
}

func TestSeedThenInsights(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "tw.json")
	common := []string{"--snapshot", snap, "--today", "2024-06-05"}

	out, err := run(t, append([]string{"seed", "--seed", "7"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 30 days")

	out, err = run(t, append([]string{"insights", "--range", "month"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "2024-06-01 to 2024-06-05")
	assert.Contains(t, out, "Family")
}

func TestInvalidTodayFlag(t *testing.T) {
	_, err := run(t, "insights", "--today", "June 5th", "--snapshot", filepath.Join(t.TempDir(), "tw.json"))
	require.ErrorContains(t, err, "invalid --today")
}
