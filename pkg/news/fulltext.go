package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/OFFIS-RIT/newsgraph/pkg/logger"

	"codeberg.org/readeck/go-readability/v2"
)

const maxPageBytes = 5 << 20

// FullTextFetcher extracts the main readable text of an article page.
type FullTextFetcher struct {
	httpClient *http.Client
}

func NewFullTextFetcher(httpClient *http.Client) *FullTextFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FullTextFetcher{httpClient: httpClient}
}

// Fetch downloads pageURL and returns its readable text.
func (f *FullTextFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), u)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", fmt.Errorf("failed to render article text: %w", err)
	}

	return strings.TrimSpace(builder.String()), nil
}

// Enrich returns the page's full text, or snippet when the page cannot be
// fetched or has no readable text.
func (f *FullTextFetcher) Enrich(ctx context.Context, pageURL, snippet string) string {
	text, err := f.Fetch(ctx, pageURL)
	if err != nil {
		logger.Debug("[News] Full text unavailable, using snippet", "url", pageURL, "err", err)
		return snippet
	}
	if text == "" {
		return snippet
	}
	return text
}
