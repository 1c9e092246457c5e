package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/errors"
)

func TestConfigEdits_RoundTripsDefaults(t *testing.T) {
	cfg := config.DefaultConfig()

	got, err := editsFromConfig(cfg).apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigEdits_Apply(t *testing.T) {
	cfg := config.DefaultConfig()
	edits := editsFromConfig(cfg)
	edits.CheckInterval = " 10 "
	edits.CPUThreshold = "72.5"
	edits.TemperatureThreshold = "90"
	edits.AlertEnabled = false

	got, err := edits.apply(cfg)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CheckInterval)
	assert.Equal(t, 72.5, got.CPUThreshold)
	assert.Equal(t, 90.0, got.TemperatureThreshold)
	assert.False(t, got.AlertEnabled)
	assert.Equal(t, cfg.LogFile, got.LogFile, "fields outside the form are kept")
}

func TestConfigEdits_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *configEdits)
		want   string
	}{
		{"non-numeric interval", func(e *configEdits) { e.CheckInterval = "soon" }, "whole number"},
		{"zero interval", func(e *configEdits) { e.CheckInterval = "0" }, "check_interval"},
		{"non-numeric threshold", func(e *configEdits) { e.DiskThreshold = "lots" }, "disk threshold"},
		{"threshold over 100", func(e *configEdits) { e.MemoryThreshold = "120" }, "memory_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			edits := editsFromConfig(cfg)
			tt.mutate(&edits)

			got, err := edits.apply(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, cfg, got, "config is unchanged on error")
		})
	}
}

func TestWriteConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConfigJSON(&buf, config.DefaultConfig()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 80.0, doc["cpu_threshold"])
	assert.Equal(t, 5.0, doc["check_interval"])
	assert.Equal(t, true, doc["log_enabled"])
}

func TestConfigPathCommand(t *testing.T) {
	original := cfgFile
	defer func() { cfgFile = original }()
	cfgFile = filepath.Join(t.TempDir(), "sxmon.json")

	var buf bytes.Buffer
	configPathCmd.SetOut(&buf)
	defer configPathCmd.SetOut(nil)

	require.NoError(t, configPathCmd.RunE(configPathCmd, nil))
	assert.Equal(t, cfgFile, strings.TrimSpace(buf.String()))
}

func TestConfigShowCommand(t *testing.T) {
	original := cfgFile
	defer func() { cfgFile = original }()
	cfgFile = filepath.Join(t.TempDir(), "sxmon.json")

	cfg := config.DefaultConfig()
	cfg.DiskThreshold = 70
	require.NoError(t, config.Save(cfgFile, cfg))

	var buf bytes.Buffer
	configShowCmd.SetOut(&buf)
	defer configShowCmd.SetOut(nil)

	require.NoError(t, configShowCmd.RunE(configShowCmd, nil))
	assert.Contains(t, buf.String(), `"disk_threshold": 70`)
}
