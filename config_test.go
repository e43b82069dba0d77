package mclang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.True(t, cfg.GetBool("codegen.hex_literals"))
	require.True(t, cfg.GetBool("build.async"))
	require.True(t, cfg.GetBool("layer.strict_masks"))
	require.Equal(t, "nearest", cfg.GetString("sampler.default_filter"))
	require.Equal(t, 0, cfg.GetInt("layer.max_version_history"))
}

func TestConfigTypedGetSetMismatchPanics(t *testing.T) {
	cfg := NewConfig()
	require.Panics(t, func() { cfg.GetInt("build.async") })
	require.Panics(t, func() { cfg.GetString("build.async") })
	require.Panics(t, func() { cfg.GetBool("sampler.default_filter") })
}

func TestConfigGetUnknownKeyPanics(t *testing.T) {
	cfg := NewConfig()
	require.Panics(t, func() { cfg.GetBool("does.not.exist") })
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.SetBool("build.async", false)
	cfg.SetString("sampler.default_filter", "linear")

	data, err := cfg.DumpYAML()
	require.NoError(t, err)

	loaded := NewConfig()
	require.NoError(t, loaded.LoadYAML(data))
	require.False(t, loaded.GetBool("build.async"))
	require.Equal(t, "linear", loaded.GetString("sampler.default_filter"))
	require.True(t, loaded.GetBool("layer.strict_masks"))
}

func TestConfigLoadYAMLRejectsUnknownKey(t *testing.T) {
	cfg := NewConfig()
	err := cfg.LoadYAML([]byte("build.async: false\nnot.a.real.key: true\n"))
	require.Error(t, err)
}

func TestConfigLoadYAMLRejectsTypeMismatch(t *testing.T) {
	cfg := NewConfig()
	err := cfg.LoadYAML([]byte("build.async: \"yes\"\n"))
	require.Error(t, err)
}

func TestDefaultFilterFollowsConfig(t *testing.T) {
	require.Equal(t, FilterNearest, DefaultFilter(nil))

	cfg := NewConfig()
	require.Equal(t, FilterNearest, DefaultFilter(cfg))

	cfg.SetString("sampler.default_filter", "linear")
	require.Equal(t, FilterLinear, DefaultFilter(cfg))
}
