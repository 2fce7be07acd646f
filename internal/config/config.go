// Package config carries the explicit configuration passed into every
// pipeline component. All paths and templates are resolved here; no
// component reads ambient process state on its own.
package config

// ArchEntry maps a package-naming architecture token to the canonical
// architecture name used in the destination layout.
type ArchEntry struct {
	Token     string `yaml:"token"`
	Canonical string `yaml:"canonical"`
}

// Package describes one downloadable distribution package: the template for
// its file name and the template for the URL it can be fetched from, plus
// the relative path of the API-definitions directory inside the extracted
// tree. Templates are resolved against artifacts.Params.
type Package struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	APIDir string `yaml:"api_dir"`
}

// Bindings configures stage A, the per-version binding generation.
type Bindings struct {
	// SysRoot is the directory whose immediate subdirectories are the
	// candidate API versions; each version holds an api/ subtree.
	SysRoot string `yaml:"sys_root"`
	// Dest is where the generated packages get written, one
	// <Dest>/<version>/ tree per version.
	Dest string `yaml:"dest"`
	// Generator is the external code generator executable.
	Generator string `yaml:"generator"`
	// Ignore lists directory names under SysRoot that are never versions.
	Ignore []string `yaml:"ignore"`
}

// Artifacts configures stage B, the per-architecture package assembly.
type Artifacts struct {
	Arches []ArchEntry `yaml:"arches"`
	Base   Package     `yaml:"base"`
	Plugin Package     `yaml:"plugin"`
	// Library is the canonical shared library name; files whose name
	// starts with it match.
	Library string `yaml:"library"`
	// FetchTimeoutSeconds bounds each package download.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// Config is the root configuration for both pipelines.
type Config struct {
	Bindings  Bindings  `yaml:"bindings"`
	Artifacts Artifacts `yaml:"artifacts"`
}

// Default returns the built-in configuration targeting the fd.io package
// repositories and the vpp-api-gen generator.
func Default() Config {
	return Config{
		Bindings: Bindings{
			SysRoot:   "vpp-native-client-lib-sys",
			Dest:      "vpp-api-client/gen",
			Generator: "vpp-api-gen",
			Ignore:    []string{"bin", "src"},
		},
		Artifacts: Artifacts{
			Arches: []ArchEntry{
				{Token: "amd64", Canonical: "x86_64"},
				{Token: "arm64", Canonical: "aarch64"},
			},
			Base: Package{
				Name:   "vpp_{{.Release}}_{{.Arch}}.deb",
				URL:    "https://packagecloud.io/fdio/release/packages/{{.Distro}}/{{.DistroVersion}}/{{.Name}}/download.deb",
				APIDir: "usr/share/vpp/api/core",
			},
			Plugin: Package{
				Name:   "vpp-plugin-core_{{.Release}}_{{.Arch}}.deb",
				URL:    "https://packagecloud.io/fdio/release/packages/{{.Distro}}/{{.DistroVersion}}/{{.Name}}/download.deb",
				APIDir: "usr/share/vpp/api/plugins",
			},
			Library:             "libvppapiclient.so",
			FetchTimeoutSeconds: 300,
		},
	}
}
