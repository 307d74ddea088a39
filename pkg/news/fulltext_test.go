package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Apple partners with OpenAI</title></head>
<body>
<nav><a href="/">Home</a> <a href="/tech">Tech</a></nav>
<article>
<h1>Apple partners with OpenAI</h1>
<p>Apple announced on Monday that it has partnered with OpenAI to bring generative models to its devices.
The companies said the integration would roll out to users in California first, followed by the rest of the country.</p>
<p>Analysts expect the partnership to reshape the smartphone market over the coming years, as rivals race to
ship comparable features. Apple did not disclose the financial terms of the agreement.</p>
<p>OpenAI, which is based in San Francisco, has signed similar agreements with several other technology companies
in recent months, according to people familiar with the matter.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestFullTextEnrich(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(articlePage))
		case "/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFullTextFetcher(srv.Client())
	ctx := context.Background()

	got := f.Enrich(ctx, srv.URL+"/article", "snippet")
	if !strings.Contains(got, "partnered with OpenAI") {
		t.Fatalf("expected article text, got %q", got)
	}

	for _, path := range []string{"/pdf", "/missing"} {
		if got := f.Enrich(ctx, srv.URL+path, "snippet"); got != "snippet" {
			t.Fatalf("%s: expected snippet fallback, got %q", path, got)
		}
	}
}
