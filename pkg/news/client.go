// Package news fetches articles from the NewsAPI "everything" endpoint.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
)

const (
	DefaultBaseURL  = "https://newsapi.org"
	DefaultLanguage = "en"
	DefaultPageSize = 5
	maxPageSize     = 100
)

// Query selects articles. From and To are inclusive dates formatted as
// YYYY-MM-DD; either may be empty.
type Query struct {
	Q        string
	From     string
	To       string
	Language string
	PageSize int
}

// NewsClient is the article source consumed by the ingestion pipeline.
type NewsClient interface {
	FetchArticles(ctx context.Context, q Query) ([]common.Article, error)
}

// NewsAPIClient talks to NewsAPI over plain HTTP.
//
// A NewsAPIClient should be created using NewNewsAPIClient.
type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fullText   *FullTextFetcher
}

type NewNewsAPIClientParams struct {
	ApiKey  string
	BaseURL string
	Timeout time.Duration
	// FetchFullText replaces the truncated API content with the readable
	// text of the linked page when it can be fetched.
	FetchFullText bool
}

func NewNewsAPIClient(params NewNewsAPIClientParams) *NewsAPIClient {
	baseURL := strings.TrimRight(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	c := &NewsAPIClient{
		apiKey:     params.ApiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
	if params.FetchFullText {
		c.fullText = NewFullTextFetcher(httpClient)
	}
	return c
}

// FetchArticles returns the most relevant articles for q.
func (c *NewsAPIClient) FetchArticles(ctx context.Context, q Query) ([]common.Article, error) {
	if strings.TrimSpace(q.Q) == "" {
		return nil, errors.New("news query is required")
	}
	if c.apiKey == "" {
		return nil, errors.New("news api key is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.everythingURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read: %w", err)
	}

	var raw newsAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || raw.Status != "ok" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: raw.Code, Message: raw.Message}
	}

	articles := make([]common.Article, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			publishedAt = time.Time{}
		}
		a := common.Article{
			Title:       item.Title,
			Content:     item.Content,
			Description: item.Description,
			URL:         item.URL,
			Source:      item.Source.Name,
			PublishedAt: publishedAt,
		}
		if c.fullText != nil && a.URL != "" {
			a.Content = c.fullText.Enrich(ctx, a.URL, a.Content)
		}
		articles = append(articles, a)
	}

	return articles, nil
}

func (c *NewsAPIClient) everythingURL(q Query) string {
	language := q.Language
	if language == "" {
		language = DefaultLanguage
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	values := url.Values{}
	values.Set("q", q.Q)
	values.Set("language", language)
	values.Set("sortBy", "relevancy")
	values.Set("pageSize", strconv.Itoa(pageSize))
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("to", q.To)
	}

	return c.baseURL + "/v2/everything?" + values.Encode()
}

// APIError is returned when NewsAPI rejects a request.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("newsapi error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("newsapi error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

type newsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
