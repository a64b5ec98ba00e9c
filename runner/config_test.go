package runner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "disttest.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesFileValuesOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
worldSize: 4
backend: tensor-pipe
rendezvousDir: /mnt/shared/disttest
timeoutSeconds: 10
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.WorldSize)
	assert.Equal(t, "tensor-pipe", c.Backend)
	assert.Equal(t, "/mnt/shared/disttest", c.RendezvousDir)
	assert.Equal(t, time.Second*10, c.Timeout())
}

func TestLoadConfigKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeConfigFile(t, `worldSize: 3`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.WorldSize)
	assert.Empty(t, c.Backend)
	assert.Equal(t, DefaultConfig().TimeoutSeconds, c.TimeoutSeconds)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	for _, p := range []struct {
		desc    string
		content string
	}{
		{"zero world size", `worldSize: 0`},
		{"negative world size", `worldSize: -2`},
		{"zero timeout", `timeoutSeconds: 0`},
		{"malformed yaml", `worldSize: [`},
	} {
		t.Run(p.desc, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, p.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFailsForMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "no-such-file.yml"))
	assert.Error(t, err)
}
