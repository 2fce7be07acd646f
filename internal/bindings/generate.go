package bindings

import (
	"context"
	"path/filepath"

	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/domain"
	"github.com/vppkit/sdkbuild/internal/pipeline"
	"github.com/vppkit/sdkbuild/internal/term"
)

// CodeGenerator produces the source bindings for one API version.
// The production implementation shells out to the external generator; tests
// substitute their own.
type CodeGenerator interface {
	Generate(ctx context.Context, version string) error
}

// ToolGenerator invokes the external code generator binary with the fixed
// argument contract it expects: the version's API tree as input, the
// version name as package name and the shared destination as package path.
type ToolGenerator struct {
	cfg config.Bindings
}

// NewToolGenerator builds a generator invoker from the stage configuration.
func NewToolGenerator(cfg config.Bindings) *ToolGenerator {
	return &ToolGenerator{cfg: cfg}
}

func (g *ToolGenerator) Generate(ctx context.Context, version string) error {
	err := pipeline.Run(
		ctx,
		g.cfg.Generator,
		pipeline.WithArgs(
			"--in-file", filepath.Join(g.cfg.SysRoot, version, "api"),
			"--out-file", "",
			"--parse-type", "Tree",
			"--package-name", version,
			"--package-path", g.cfg.Dest,
			"--print-message-names",
			"--create-binding",
			"--create-package",
			"--generate-code",
			"-v", "-v",
		),
	)
	if err != nil {
		return &domain.OpError{
			Op:   "bindings.generate",
			Kind: domain.KindExternalTool,
			Path: version,
			Err:  err,
		}
	}

	return nil
}

// Driver walks the discovered versions and produces one generated package
// per version. A failed generator invocation aborts the remaining versions:
// a broken binding for one version indicates a tool or environment problem
// likely to affect all of them.
type Driver struct {
	cfg config.Bindings
	gen CodeGenerator
}

// NewDriver wires a driver; a nil generator defaults to the external tool.
func NewDriver(cfg config.Bindings, gen CodeGenerator) *Driver {
	if gen == nil {
		gen = NewToolGenerator(cfg)
	}
	return &Driver{cfg: cfg, gen: gen}
}

// Run discovers versions and executes one generation task per version on
// the given pipeline.
func (d *Driver) Run(ctx context.Context, pipe *pipeline.Pipeline) error {
	versions, err := Discover(d.cfg.SysRoot, d.cfg.Ignore)
	if err != nil {
		return err
	}

	tasks := make([]pipeline.Task, 0, len(versions))
	for _, version := range versions {
		tasks = append(tasks, d.taskFor(version))
	}

	return pipe.Execute(ctx, tasks...)
}

func (d *Driver) taskFor(version string) pipeline.Task {
	return func(ctx context.Context) error {
		term.Step("generating bindings for " + version)

		if err := ensurePackageDir(d.cfg.Dest, version); err != nil {
			return err
		}

		return d.gen.Generate(ctx, version)
	}
}

func packageSrcPath(dest, version string) string {
	return filepath.Join(dest, version, srcDir)
}
