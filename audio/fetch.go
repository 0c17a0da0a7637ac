package audio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Fetcher retrieves the raw bytes of a sample file.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// SchemeFetcher dispatches on the URL scheme. Plain paths use the "file" entry.
type SchemeFetcher map[string]Fetcher

func (m SchemeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	scheme := "file"
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		scheme = strings.ToLower(u.Scheme)
	}
	f, ok := m[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no fetcher for scheme %q", ErrLoadFailed, scheme)
	}
	return f.Fetch(ctx, rawURL)
}

// ResolveURL resolves a catalog sample reference against base.
// An empty base leaves the reference untouched.
func ResolveURL(base, ref string) (string, error) {
	if base == "" {
		return ref, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: base url %q: %v", ErrLoadFailed, base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: sample url %q: %v", ErrLoadFailed, ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
