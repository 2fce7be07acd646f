package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vppkit/sdkbuild/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "vpp-api-gen", cfg.Bindings.Generator)
	assert.Equal(t, []string{"bin", "src"}, cfg.Bindings.Ignore)
	assert.Len(t, cfg.Artifacts.Arches, 2)
	assert.Equal(t, "libvppapiclient.so", cfg.Artifacts.Library)
	assert.Equal(t, 300, cfg.Artifacts.FetchTimeoutSeconds)
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bindings:
  generator: /opt/tools/api-gen
  ignore: [bin, src, scratch]
artifacts:
  library: libvppapiclient.so.2
  fetch_timeout_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/tools/api-gen", cfg.Bindings.Generator)
	assert.Equal(t, []string{"bin", "src", "scratch"}, cfg.Bindings.Ignore)
	assert.Equal(t, "libvppapiclient.so.2", cfg.Artifacts.Library)
	assert.Equal(t, 60, cfg.Artifacts.FetchTimeoutSeconds)

	// untouched keys keep their defaults
	assert.Equal(t, "vpp-native-client-lib-sys", cfg.Bindings.SysRoot)
	assert.Len(t, cfg.Artifacts.Arches, 2)
	assert.Contains(t, cfg.Artifacts.Base.URL, "packagecloud.io/fdio")
}

func TestLoadOverridesArches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
artifacts:
  arches:
    - token: riscv64
      canonical: riscv64
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Artifacts.Arches, 1)
	assert.Equal(t, "riscv64", cfg.Artifacts.Arches[0].Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConfiguration, kind)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings: ["), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConfiguration, kind)
}
