package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/domain"
)

func defaultEntries() []config.ArchEntry {
	return []config.ArchEntry{
		{Token: "amd64", Canonical: "x86_64"},
		{Token: "arm64", Canonical: "aarch64"},
	}
}

func TestCatalogResolvesEveryToken(t *testing.T) {
	catalog, err := NewCatalog(defaultEntries())
	require.NoError(t, err)

	assert.Equal(t, []string{"amd64", "arm64"}, catalog.Tokens())

	for _, token := range catalog.Tokens() {
		canonical, err := catalog.CanonicalFor(token)
		require.NoError(t, err)
		assert.NotEmpty(t, canonical)
	}
}

func TestCatalogMappingIsInjective(t *testing.T) {
	catalog, err := NewCatalog(defaultEntries())
	require.NoError(t, err)

	seen := make(map[string]string)
	for _, token := range catalog.Tokens() {
		canonical, err := catalog.CanonicalFor(token)
		require.NoError(t, err)
		prev, dup := seen[canonical]
		assert.False(t, dup, "tokens %s and %s share canonical name %s", prev, token, canonical)
		seen[canonical] = token
	}
}

func TestCatalogUnknownToken(t *testing.T) {
	catalog, err := NewCatalog(defaultEntries())
	require.NoError(t, err)

	_, err = catalog.CanonicalFor("riscv64")
	require.Error(t, err)

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConfiguration, kind)
}

func TestCatalogRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []config.ArchEntry
	}{
		{name: "empty", entries: nil},
		{
			name: "duplicate token",
			entries: []config.ArchEntry{
				{Token: "amd64", Canonical: "x86_64"},
				{Token: "amd64", Canonical: "x64"},
			},
		},
		{
			name: "shared canonical",
			entries: []config.ArchEntry{
				{Token: "amd64", Canonical: "x86_64"},
				{Token: "x64", Canonical: "x86_64"},
			},
		},
		{
			name:    "missing canonical",
			entries: []config.ArchEntry{{Token: "amd64"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.entries)
			require.Error(t, err)

			kind, ok := domain.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, domain.KindConfiguration, kind)
		})
	}
}
