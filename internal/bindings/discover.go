// Package bindings implements stage A of the SDK build: discovering the
// API versions shipped with the native client sys tree and driving the
// external code generator once per version.
package bindings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/vppkit/sdkbuild/internal/domain"
)

// Discover returns the candidate version identifiers under root: every
// immediate subdirectory name that is not listed in ignore. Non-directory
// entries are skipped and ignore names are matched by exact equality.
//
// The result is sorted oldest version first so runs are deterministic.
// A missing root is fatal for the whole run, not per version.
func Discover(root string, ignore []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		kind := domain.KindConfiguration
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindMissingPrerequisite
		}
		return nil, &domain.OpError{
			Op:   "bindings.discover",
			Kind: kind,
			Path: root,
			Err:  err,
		}
	}

	skip := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[name] = struct{}{}
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ignored := skip[entry.Name()]; ignored {
			continue
		}
		versions = append(versions, entry.Name())
	}

	sortVersions(versions)
	return versions, nil
}

// sortVersions orders release-tag shaped names semantically where possible
// (24.06 before 24.10 before 25.10-release) and falls back to plain string
// comparison for names semver can't make sense of.
func sortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(versions[i])
		vj, errj := semver.NewVersion(versions[j])
		if erri != nil || errj != nil {
			return versions[i] < versions[j]
		}
		return vi.LessThan(vj)
	})
}

// srcDir is the subtree the generator expects to exist inside every
// per-version output package before it runs.
const srcDir = "src"

func ensurePackageDir(dest, version string) error {
	path := packageSrcPath(dest, version)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create package dir %s: %w", path, err)
	}
	return nil
}
