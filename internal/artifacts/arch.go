// Package artifacts implements stage B of the SDK build: fetching the
// distribution packages for every supported architecture, extracting them
// and assembling the API definitions and the shared client library into
// the canonical destination layout.
package artifacts

import (
	"fmt"

	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/domain"
)

// Catalog maps package-naming architecture tokens (amd64, arm64) to the
// canonical architecture names used in the destination layout (x86_64,
// aarch64) and fixes the order in which architectures are processed.
//
// The mapping is validated at construction: every token in the processing
// list has exactly one canonical name and no two tokens share one.
type Catalog struct {
	order []string
	canon map[string]string
}

// NewCatalog validates the configured entries and builds the catalog.
func NewCatalog(entries []config.ArchEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, &domain.OpError{
			Op:   "artifacts.catalog",
			Kind: domain.KindConfiguration,
			Err:  fmt.Errorf("no architectures configured"),
		}
	}

	cat := Catalog{
		order: make([]string, 0, len(entries)),
		canon: make(map[string]string, len(entries)),
	}
	seen := make(map[string]string, len(entries))

	for _, entry := range entries {
		if entry.Token == "" || entry.Canonical == "" {
			return nil, &domain.OpError{
				Op:   "artifacts.catalog",
				Kind: domain.KindConfiguration,
				Err:  fmt.Errorf("incomplete mapping %q -> %q", entry.Token, entry.Canonical),
			}
		}
		if _, dup := cat.canon[entry.Token]; dup {
			return nil, &domain.OpError{
				Op:   "artifacts.catalog",
				Kind: domain.KindConfiguration,
				Err:  fmt.Errorf("duplicate token %q", entry.Token),
			}
		}
		if token, dup := seen[entry.Canonical]; dup {
			return nil, &domain.OpError{
				Op:   "artifacts.catalog",
				Kind: domain.KindConfiguration,
				Err:  fmt.Errorf("tokens %q and %q both map to %q", token, entry.Token, entry.Canonical),
			}
		}

		cat.order = append(cat.order, entry.Token)
		cat.canon[entry.Token] = entry.Canonical
		seen[entry.Canonical] = entry.Token
	}

	return &cat, nil
}

// Tokens returns the architecture tokens in processing order.
func (c *Catalog) Tokens() []string {
	tokens := make([]string, len(c.order))
	copy(tokens, c.order)
	return tokens
}

// CanonicalFor resolves the destination-layout name for a token.
// An unregistered token is a programming error for the fixed supported
// set, surfaced as a configuration failure.
func (c *Catalog) CanonicalFor(token string) (string, error) {
	canonical, ok := c.canon[token]
	if !ok {
		return "", &domain.OpError{
			Op:   "artifacts.catalog",
			Kind: domain.KindConfiguration,
			Err:  fmt.Errorf("unknown architecture %q", token),
		}
	}
	return canonical, nil
}
