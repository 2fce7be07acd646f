package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/vppkit/sdkbuild/internal/domain"
	"github.com/vppkit/sdkbuild/internal/term"
)

// Fetcher retrieves a remote package archive to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, destination string) error
}

// HTTPFetcher downloads packages over plain HTTP GET with a bounded
// timeout. Downloads show a progress bar when running in a terminal.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher whose requests are bounded by timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url, destination string) (err error) {
	term.Detail(fmt.Sprintf("downloading %s to %s", url, destination))
	defer term.Timed(&err)()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.OpError{Op: "artifacts.fetch", Kind: domain.KindNetwork, Path: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &domain.OpError{Op: "artifacts.fetch", Kind: domain.KindNetwork, Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.OpError{
			Op:   "artifacts.fetch",
			Kind: domain.KindNetwork,
			Path: url,
			Err:  fmt.Errorf("unexpected response: http%d", resp.StatusCode),
		}
	}

	data, finish := term.Progress(resp.Body, resp.ContentLength)
	defer finish()

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destination, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		return fmt.Errorf("failed to copy data to file %s: %w", destination, err)
	}

	return nil
}
