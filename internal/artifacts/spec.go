package artifacts

import (
	"strings"
	"text/template"

	"github.com/vppkit/sdkbuild/internal/config"
)

// Params contains the fields used to resolve package name and URL
// templates for one architecture of one release.
type Params struct {
	// Release is the upstream release version string, e.g. "25.10-release".
	Release string
	// Distro is the distribution name the packages are built for, e.g. "ubuntu".
	Distro string
	// DistroVersion is the distribution release name, e.g. "jammy".
	DistroVersion string
	// Arch is the package-naming architecture token, e.g. "amd64".
	Arch string
	// Name is the resolved package file name, available to URL templates
	// as {{.Name}}. It is filled in after the name template resolves, so
	// the name template itself must not reference it.
	Name string
}

// Resolve executes the provided format string as a template with the
// Params' fields. It returns the resolved string and any error that
// occurred during template parsing or execution.
func (p Params) Resolve(format string) (string, error) {
	tmpl, err := template.New("pkg").Parse(format)
	if err != nil {
		return "", err
	}

	var bld strings.Builder
	if err := tmpl.Execute(&bld, p); err != nil {
		return "", err
	}

	return bld.String(), nil
}

// PackageSpec describes one downloadable package: its name and URL
// templates and the relative path of the API-definitions directory inside
// the extracted tree.
type PackageSpec struct {
	name   string
	url    string
	apidir string
}

func newPackageSpec(pkg config.Package) PackageSpec {
	return PackageSpec{
		name:   pkg.Name,
		url:    pkg.URL,
		apidir: pkg.APIDir,
	}
}

// FileName resolves the archive file name for the given parameters.
func (s PackageSpec) FileName(params Params) (string, error) {
	return params.Resolve(s.name)
}

// URL resolves the download URL for the given parameters.
func (s PackageSpec) URL(params Params) (string, error) {
	return params.Resolve(s.url)
}

// APIDir is the relative path of the API-definitions directory under the
// package root. Its presence in a given package is optional.
func (s PackageSpec) APIDir() string {
	return s.apidir
}
