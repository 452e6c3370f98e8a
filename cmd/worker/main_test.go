package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badCronConfig = `
app:
  env: development
  timezone: UTC
  log_level: error
database:
  host: localhost
  port: 5432
  user: eventbooking
  password: eventbooking
  name: eventbooking
  ssl_mode: disable
redis:
  addr: localhost:6379
kafka:
  brokers: ["localhost:9092"]
  booking_events_topic: booking-events
  group_id: eventbooking-worker
mail:
  dev: true
worker:
  warm_cron: "not a schedule"
  warm_days: 1
`

func TestRun_ReturnsSetupErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(badCronConfig), 0o600))
	t.Setenv("CONFIG_PATH", path)

	err := run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule warm job")
}

func TestRun_MissingConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	err := run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
