package bindings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/domain"
	"github.com/vppkit/sdkbuild/internal/pipeline"
)

// recordingGenerator records the versions it was asked to generate and can
// be told to fail on a specific one.
type recordingGenerator struct {
	calls  []string
	failOn string
}

func (g *recordingGenerator) Generate(_ context.Context, version string) error {
	g.calls = append(g.calls, version)
	if version == g.failOn {
		return &domain.OpError{Op: "bindings.generate", Kind: domain.KindExternalTool, Path: version}
	}
	return nil
}

func stageConfig(t *testing.T, versions ...string) config.Bindings {
	t.Helper()

	sysRoot := t.TempDir()
	for _, v := range versions {
		require.NoError(t, os.MkdirAll(filepath.Join(sysRoot, v, "api"), 0o755))
	}
	require.NoError(t, os.Mkdir(filepath.Join(sysRoot, "bin"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(sysRoot, "src"), 0o755))

	return config.Bindings{
		SysRoot: sysRoot,
		Dest:    filepath.Join(t.TempDir(), "gen"),
		Ignore:  []string{"bin", "src"},
	}
}

func TestDriverGeneratesEveryVersion(t *testing.T) {
	cfg := stageConfig(t, "24.06", "25.10-release")
	gen := &recordingGenerator{}

	driver := NewDriver(cfg, gen)
	err := driver.Run(context.Background(), pipeline.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"24.06", "25.10-release"}, gen.calls)

	for _, v := range []string{"24.06", "25.10-release"} {
		assert.DirExists(t, filepath.Join(cfg.Dest, v, "src"))
	}
}

func TestDriverAbortsOnGeneratorFailure(t *testing.T) {
	cfg := stageConfig(t, "24.06", "24.10", "25.10-release")
	gen := &recordingGenerator{failOn: "24.10"}

	driver := NewDriver(cfg, gen)
	err := driver.Run(context.Background(), pipeline.New())

	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindExternalTool, kind)

	// fail fast: the version after the broken one must not be processed
	assert.Equal(t, []string{"24.06", "24.10"}, gen.calls)
}

func TestDriverMissingSysRoot(t *testing.T) {
	cfg := config.Bindings{
		SysRoot: filepath.Join(t.TempDir(), "absent"),
		Dest:    t.TempDir(),
	}

	driver := NewDriver(cfg, &recordingGenerator{})
	err := driver.Run(context.Background(), pipeline.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, &domain.OpError{Kind: domain.KindMissingPrerequisite}))
}

func TestDriverPackageDirCreationIsIdempotent(t *testing.T) {
	cfg := stageConfig(t, "24.06")
	gen := &recordingGenerator{}

	driver := NewDriver(cfg, gen)
	require.NoError(t, driver.Run(context.Background(), pipeline.New()))
	require.NoError(t, driver.Run(context.Background(), pipeline.New()))

	assert.Equal(t, []string{"24.06", "24.06"}, gen.calls)
}

func TestToolGeneratorArgumentContract(t *testing.T) {
	cfg := stageConfig(t, "24.06")

	// stub generator script records its arguments
	argsFile := filepath.Join(t.TempDir(), "args")
	generator := filepath.Join(t.TempDir(), "fake-gen")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" > %s\n", argsFile)
	require.NoError(t, os.WriteFile(generator, []byte(script), 0o755))
	cfg.Generator = generator

	gen := NewToolGenerator(cfg)
	require.NoError(t, gen.Generate(context.Background(), "24.06"))

	raw, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := string(raw)

	assert.Contains(t, args, "--in-file "+filepath.Join(cfg.SysRoot, "24.06", "api"))
	assert.Contains(t, args, "--parse-type Tree")
	assert.Contains(t, args, "--package-name 24.06")
	assert.Contains(t, args, "--package-path "+cfg.Dest)
	for _, flag := range []string{"--print-message-names", "--create-binding", "--create-package", "--generate-code", "-v -v"} {
		assert.Contains(t, args, flag)
	}
}

func TestToolGeneratorNonZeroExit(t *testing.T) {
	cfg := stageConfig(t, "24.06")

	generator := filepath.Join(t.TempDir(), "fake-gen")
	require.NoError(t, os.WriteFile(generator, []byte("#!/bin/sh\nexit 3\n"), 0o755))
	cfg.Generator = generator

	gen := NewToolGenerator(cfg)
	err := gen.Generate(context.Background(), "24.06")

	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindExternalTool, kind)
	assert.True(t, strings.Contains(err.Error(), "24.06"))
}
