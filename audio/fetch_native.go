//go:build !js

package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// FileFetcher reads samples from the local filesystem. It accepts file://
// URLs and plain paths; relative paths resolve against Root.
type FileFetcher struct {
	Root string
}

func (f FileFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "file" {
		path = u.Path
	} else if err == nil && u.Scheme == "" {
		path = u.Path
	}
	if !filepath.IsAbs(path) && f.Root != "" {
		path = filepath.Join(f.Root, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return data, nil
}

// HTTPFetcher downloads samples over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrLoadFailed, rawURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return data, nil
}

// NewNativeFetcher serves file paths from root and http(s) URLs from the network.
func NewNativeFetcher(root string) Fetcher {
	hf := HTTPFetcher{}
	return SchemeFetcher{
		"file":  FileFetcher{Root: root},
		"http":  hf,
		"https": hf,
	}
}
