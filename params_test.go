package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c-linkage/software-post/config"
)

func parseParams(t *testing.T, args ...string) (commandParams, error) {
	var c commandParams
	err := c.parse(append([]string{"software-post"}, args...), io.Discard)
	return c, err
}

func TestParamsDefaults(t *testing.T) {
	c, err := parseParams(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c.config)
	assert.False(t, c.debug)
	assert.False(t, c.version)
}

func TestParamsSelfTestSwitches(t *testing.T) {
	for _, args := range [][]string{
		{"-self-test"},
		{"--self-test"},
		{"/SELF-TEST"},
		{"/self-test"},
		{"/Self-Test", "-debug"},
	} {
		t.Run(args[0], func(t *testing.T) {
			c, err := parseParams(t, args...)
			require.NoError(t, err)
			assert.True(t, c.config.SelfTest)
		})
	}
}

func TestExtractWindowsSelfTestSwitch(t *testing.T) {
	args := []string{"-debug", "/self-TEST", "-seed", "3"}
	rest, found := extractWindowsSelfTestSwitch(args)
	assert.True(t, found)
	assert.Equal(t, []string{"-debug", "-seed", "3"}, rest)
	assert.Equal(t, []string{"-debug", "/self-TEST", "-seed", "3"}, args)

	rest, found = extractWindowsSelfTestSwitch([]string{"-self-test"})
	assert.False(t, found)
	assert.Equal(t, []string{"-self-test"}, rest)
}

func TestParamsFlags(t *testing.T) {
	c, err := parseParams(t, "-stop-on-failure", "-backend", "padded", "-seed", "12", "-debug", "-version")
	require.NoError(t, err)
	assert.True(t, c.config.StopOnFailure)
	assert.Equal(t, "padded", c.config.Backend)
	assert.Equal(t, int64(12), c.config.Seed)
	assert.True(t, c.debug)
	assert.True(t, c.version)
}

func TestParamsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selfTest: true\nbackend: section\nseed: 5\nmaxTries: 3\n"), 0600))

	c, err := parseParams(t, "-config", path)
	require.NoError(t, err)
	assert.True(t, c.config.SelfTest)
	assert.Equal(t, "section", c.config.Backend)
	assert.Equal(t, int64(5), c.config.Seed)
	assert.Equal(t, 3, c.config.MaxTries)

	c, err = parseParams(t, "-config", path, "-seed", "9", "-backend", "padded", "-self-test=false")
	require.NoError(t, err)
	assert.False(t, c.config.SelfTest)
	assert.Equal(t, "padded", c.config.Backend)
	assert.Equal(t, int64(9), c.config.Seed)
	assert.Equal(t, 3, c.config.MaxTries)
}

func TestParamsErrors(t *testing.T) {
	_, err := parseParams(t, "-no-such-flag")
	assert.Error(t, err)

	_, err = parseParams(t, "extra")
	assert.Error(t, err)

	_, err = parseParams(t, "-config", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
