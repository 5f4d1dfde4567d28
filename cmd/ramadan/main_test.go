package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/ramadan-api/internal/auth"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	// Defaults only; a stray .env or environment must not leak in.
	for _, v := range []string{"ENV", "API_KEY_HASH", "PERIOD_START", "PERIOD_LENGTH", "TIMEZONE", "LATITUDE", "LONGITUDE"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestNow_DuringPeriod(t *testing.T) {
	out, err := execute(t, "", "now", "--at", "2026-02-18T12:00:00+01:00")
	require.NoError(t, err)

	assert.Contains(t, out, "onsdag 18. februar 2026")
	assert.Contains(t, out, "Ramadan dag 1 av 29")
	assert.Contains(t, out, "Dager fullført 0 · Dager igjen 29 · Gjenstår 100%")
	assert.Contains(t, out, "Første dag av Ramadan")
	assert.Contains(t, out, "Du er på dag 1")
}

func TestNow_JSONWithSelection(t *testing.T) {
	out, err := execute(t, "", "now", "--json", "--at", "2026-03-20T12:00:00+01:00", "--select", "2026-03-16")
	require.NoError(t, err)

	var d dashboard.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "Ramadan oversikt", d.Title)
	assert.Equal(t, 0, d.Progress.CompletedDays)
	require.NotNil(t, d.Selected)
	assert.True(t, d.Selected.Unlocked)
	assert.Len(t, d.Selected.Events, 3)
}

func TestNow_BadFlags(t *testing.T) {
	_, err := execute(t, "", "now", "--at", "tomorrow")
	assert.Error(t, err)

	_, err = execute(t, "", "now", "--at", "2026-02-20T12:00:00+01:00", "--select", "2026-05-01")
	assert.ErrorIs(t, err, dashboard.ErrUnknownDay)
}

func TestDays(t *testing.T) {
	out, err := execute(t, "", "days", "--at", "2026-03-12T09:00:00+01:00")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 30) // header + 29 days
	assert.Contains(t, lines[0], "MARKERINGER")
	assert.Contains(t, lines[17], "Nuzul al Quran")
	assert.Contains(t, lines[23], dashboard.HintToday) // day 23 is 12 March
	assert.Contains(t, lines[27], dashboard.HintLocked)
	assert.NotContains(t, lines[27], "Laylat al Qadr")
}

func TestHashKey_FromStdin(t *testing.T) {
	out, err := execute(t, "a-long-enough-api-key\n", "hash-key")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	ok, err := auth.VerifyKey("a-long-enough-api-key", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashKey_TooShort(t *testing.T) {
	_, err := execute(t, "short\n", "hash-key")
	assert.ErrorIs(t, err, auth.ErrKeyTooShort)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "░░░░", bar(0, 4))
	assert.Equal(t, "██░░", bar(0.5, 4))
	assert.Equal(t, "████", bar(2, 4))
}

func TestHorizon(t *testing.T) {
	assert.Equal(t, "☀····", horizon(0, 5))
	assert.Equal(t, "··☀··", horizon(0.5, 5))
	assert.Equal(t, "····☀", horizon(1, 5))
}

func TestClockFor(t *testing.T) {
	clock, err := clockFor("")
	require.NoError(t, err)
	assert.IsType(t, dashboard.SystemClock{}, clock)

	clock, err = clockFor("2026-02-18T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, clock.Now().Equal(time.Date(2026, time.February, 18, 12, 0, 0, 0, time.UTC)))
}
