package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"disability-jobs/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdListsCommands(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	for _, name := range []string{"sync", "geocode-pending", "geocode-batch", "schedule", "migrate", "seed"} {
		assert.True(t, strings.Contains(out, name), "help should list %s", name)
	}
}

func TestGeocodeBatchResetFlag(t *testing.T) {
	cmd := newGeocodeBatchCmd()
	f := cmd.Flags().Lookup("reset")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}

func TestSyncCmdFailsWithoutConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"sync"})

	assert.Equal(t, 1, execute(cmd))
	assert.Contains(t, buf.String(), "load config")
}

func TestSchedulerConfig(t *testing.T) {
	sc := config.SyncConfig{
		CronSync:           "0 3 * * *",
		CronGeocodePending: "0 */6 * * *",
		CronTimeZone:       "Asia/Seoul",
		InitialRunDelay:    10 * time.Second,
	}

	cfg := schedulerConfig(sc, false)
	assert.Equal(t, "0 3 * * *", cfg.SyncSpec)
	assert.Equal(t, "0 */6 * * *", cfg.SweepSpec)
	assert.Equal(t, "Asia/Seoul", cfg.TimeZone)
	assert.Equal(t, 10*time.Second, cfg.InitialDelay)

	cfg = schedulerConfig(sc, true)
	assert.Less(t, cfg.InitialDelay, time.Duration(0))
}
