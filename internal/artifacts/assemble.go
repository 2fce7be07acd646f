package artifacts

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/domain"
	"github.com/vppkit/sdkbuild/internal/pipeline"
	"github.com/vppkit/sdkbuild/internal/term"
)

// Layout names the three destination roots the assembler produces. This
// tree is the contract downstream build steps compile and link against.
type Layout struct {
	root string
}

// NewLayout roots the canonical destination layout at root.
func NewLayout(root string) Layout {
	return Layout{root: root}
}

// CoreAPI is where API definitions from the base package land.
func (l Layout) CoreAPI() string { return filepath.Join(l.root, "api", "core") }

// PluginAPI is where API definitions from the plugin package land.
func (l Layout) PluginAPI() string { return filepath.Join(l.root, "api", "plugins") }

// LibRoot holds one subdirectory per canonical architecture, each with the
// shared client library for it.
func (l Layout) LibRoot() string { return filepath.Join(l.root, "lib") }

// LibDir is the library directory for one canonical architecture.
func (l Layout) LibDir(canonical string) string {
	return filepath.Join(l.LibRoot(), canonical)
}

// Request carries the caller-supplied parameters of one assembly run.
type Request struct {
	Release       string
	Dest          string
	Distro        string
	DistroVersion string
}

// Assembler orchestrates fetching and extracting the base and plugin
// packages for every architecture in the catalog, and copies the API JSON
// files and the shared client library into the destination layout.
type Assembler struct {
	catalog   *Catalog
	base      PackageSpec
	plugin    PackageSpec
	library   string
	fetcher   Fetcher
	extractor Extractor
	tempRoot  string
}

// AssemblerOption customizes assembler construction.
type AssemblerOption func(a *Assembler)

// WithFetcher replaces the HTTP fetcher, mostly for tests.
func WithFetcher(fetcher Fetcher) AssemblerOption {
	return func(a *Assembler) {
		a.fetcher = fetcher
	}
}

// WithExtractor replaces the deb extractor, mostly for tests.
func WithExtractor(extractor Extractor) AssemblerOption {
	return func(a *Assembler) {
		a.extractor = extractor
	}
}

// WithTempRoot places the per-package scratch directories under root
// instead of the system temp directory.
func WithTempRoot(root string) AssemblerOption {
	return func(a *Assembler) {
		a.tempRoot = root
	}
}

// NewAssembler validates the architecture catalog and wires the assembler.
func NewAssembler(cfg config.Artifacts, opts ...AssemblerOption) (*Assembler, error) {
	catalog, err := NewCatalog(cfg.Arches)
	if err != nil {
		return nil, err
	}

	asm := Assembler{
		catalog:   catalog,
		base:      newPackageSpec(cfg.Base),
		plugin:    newPackageSpec(cfg.Plugin),
		library:   cfg.Library,
		fetcher:   NewHTTPFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second),
		extractor: DebExtractor{},
	}

	for _, opt := range opts {
		opt(&asm)
	}

	return &asm, nil
}

// Run assembles the destination layout for every architecture in catalog
// order, one task per architecture. Fetch and extract failures and a
// missing shared library are fatal; a package without an API-definitions
// directory only logs a warning.
func (a *Assembler) Run(ctx context.Context, pipe *pipeline.Pipeline, req Request) error {
	layout := NewLayout(req.Dest)

	tokens := a.catalog.Tokens()
	tasks := make([]pipeline.Task, 0, len(tokens))
	for _, token := range tokens {
		tasks = append(tasks, a.taskFor(token, layout, req))
	}

	return pipe.Execute(ctx, tasks...)
}

func (a *Assembler) taskFor(token string, layout Layout, req Request) pipeline.Task {
	return func(ctx context.Context) error {
		canonical, err := a.catalog.CanonicalFor(token)
		if err != nil {
			return err
		}

		term.Step(fmt.Sprintf("assembling %s artifacts (%s)", token, canonical))

		params := Params{
			Release:       req.Release,
			Distro:        req.Distro,
			DistroVersion: req.DistroVersion,
			Arch:          token,
		}

		baseRoot, cleanup, err := a.fetchAndExtract(ctx, a.base, params)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := copyAPIFiles(baseRoot, a.base.APIDir(), layout.CoreAPI()); err != nil {
			return err
		}

		if err := a.copyLibrary(baseRoot, token, layout.LibDir(canonical)); err != nil {
			return err
		}

		pluginRoot, cleanup, err := a.fetchAndExtract(ctx, a.plugin, params)
		if err != nil {
			return err
		}
		defer cleanup()

		return copyAPIFiles(pluginRoot, a.plugin.APIDir(), layout.PluginAPI())
	}
}

// fetchAndExtract downloads one package archive into a fresh scratch
// directory and extracts it there, returning the extracted package root
// and a cleanup func for the scratch space.
func (a *Assembler) fetchAndExtract(ctx context.Context, pkg PackageSpec, params Params) (string, func(), error) {
	name, err := pkg.FileName(params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve package name: %w", err)
	}
	params.Name = name

	url, err := pkg.URL(params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve package url: %w", err)
	}

	scratch, err := os.MkdirTemp(a.tempRoot, "sdkbuild-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	archive := filepath.Join(scratch, name)
	if err := a.fetcher.Fetch(ctx, url, archive); err != nil {
		cleanup()
		return "", nil, err
	}

	root := filepath.Join(scratch, "root")
	if err := os.MkdirAll(root, 0o755); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}

	if err := a.extractor.Extract(archive, root); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}

	return root, cleanup, nil
}

// copyLibrary locates the shared client library in the extracted tree and
// copies it into the per-architecture library directory. The library is
// mandatory output: downstream linking breaks without it, so absence
// fails the run with its own error kind.
func (a *Assembler) copyLibrary(root, token, dest string) error {
	library, err := findLibrary(root, a.library)
	if err != nil {
		return err
	}
	if library == "" {
		return &domain.OpError{
			Op:   "artifacts.library",
			Kind: domain.KindMandatoryArtifact,
			Path: token,
			Err:  fmt.Errorf("shared library %s not found for architecture %s", a.library, token),
		}
	}

	target := filepath.Join(dest, filepath.Base(library))
	term.Detail(fmt.Sprintf("copying %s to %s", filepath.Base(library), dest))
	return copyFile(library, target)
}

// findLibrary walks the extracted tree looking for a file whose name
// starts with the library's canonical name, e.g. libvppapiclient.so.25.10.
func findLibrary(root, library string) (string, error) {
	var found string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if strings.HasPrefix(entry.Name(), library) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search for %s: %w", library, err)
	}

	return found, nil
}

// copyAPIFiles copies every JSON file found up to two levels deep under
// the package's API-definitions directory into dest, overwriting files of
// the same name. A package without the directory is fine; API JSON is
// best-effort per package.
func copyAPIFiles(root, apidir, dest string) error {
	source := filepath.Join(root, filepath.FromSlash(apidir))

	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		term.Warn(fmt.Sprintf("no API definitions at %s, skipping", apidir))
		return nil
	}

	copied := 0
	err = walkDepth(source, 2, func(path string) error {
		if !strings.HasSuffix(path, ".json") {
			return nil
		}
		copied++
		return copyFile(path, filepath.Join(dest, filepath.Base(path)))
	})
	if err != nil {
		return fmt.Errorf("failed to copy API files from %s: %w", source, err)
	}

	term.Detail(fmt.Sprintf("copied %d API definitions to %s", copied, dest))
	return nil
}

// walkDepth visits regular files under root down to the given number of
// directory levels.
func walkDepth(root string, depth int, visit func(path string) error) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		if entry.IsDir() {
			if depth > 1 {
				if err := walkDepth(path, depth-1, visit); err != nil {
					return err
				}
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		if err := visit(path); err != nil {
			return err
		}
	}

	return nil
}

// copyFile copies a single file, creating the destination directory and
// replacing any previous copy. The copy is staged next to the target and
// renamed into place so each file commits whole: concurrent architecture
// tasks may copy same-named files to the same destination, and a reader
// must never observe a mix of two writers.
func copyFile(source, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(destination), err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(destination), ".staged-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", destination, err)
	}
	defer os.Remove(out.Name())

	_ = out.Chmod(0o644)

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", destination, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", destination, err)
	}

	if err := os.Rename(out.Name(), destination); err != nil {
		return fmt.Errorf("failed to commit %s: %w", destination, err)
	}

	return nil
}
