package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/bootstrap"
	"github.com/OFFIS-RIT/newsgraph/internal/config"
	"github.com/OFFIS-RIT/newsgraph/internal/storage"
	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/news"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"

	"github.com/spf13/cobra"
)

const downloadLinkTTL = 24 * time.Hour

type options struct {
	query   news.Query
	top     int
	outDir  string
	noStore bool
	rawText bool
	upload  bool
}

func optionsFromFlags(cmd *cobra.Command) (options, error) {
	f := cmd.Flags()
	q, _ := f.GetString("query")
	from, _ := f.GetString("from")
	to, _ := f.GetString("to")
	lang, _ := f.GetString("language")
	pageSize, _ := f.GetInt("page-size")
	top, _ := f.GetInt("top")
	out, _ := f.GetString("out")
	noStore, _ := f.GetBool("no-store")
	rawText, _ := f.GetBool("raw-text")
	upload, _ := f.GetBool("upload")

	if q == "" {
		return options{}, errors.New("--query must not be empty")
	}
	if pageSize < 1 || pageSize > 100 {
		return options{}, fmt.Errorf("--page-size must be between 1 and 100, got %d", pageSize)
	}

	return options{
		query: news.Query{
			Q:        q,
			From:     from,
			To:       to,
			Language: lang,
			PageSize: pageSize,
		},
		top:     top,
		outDir:  out,
		noStore: noStore,
		rawText: rawText,
		upload:  upload,
	}, nil
}

func run(ctx context.Context, w io.Writer, opts options) error {
	util.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	bootstrap.InitLogger(cfg.Log, "ingest")
	defer logger.Close()

	aiClient, err := bootstrap.NewAIClient(cfg.AI)
	if err != nil {
		return err
	}

	var graphStore store.GraphStorage
	if !opts.noStore {
		graphStore, err = bootstrap.NewGraphStorage(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer graphStore.Close(context.Background())
	}

	graphClient, err := bootstrap.NewGraphClient(cfg, aiClient, graphStore, nil, opts.rawText)
	if err != nil {
		return err
	}

	newsClient := news.NewNewsAPIClient(news.NewNewsAPIClientParams{
		ApiKey:        cfg.News.APIKey,
		BaseURL:       cfg.News.URL,
		FetchFullText: cfg.News.FetchFullText,
	})

	articles, err := newsClient.FetchArticles(ctx, opts.query)
	if err != nil {
		return fmt.Errorf("failed to fetch articles: %w", err)
	}
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found. Please check your News API key and query parameters.")
		return nil
	}

	res, err := processAndReport(ctx, w, graphClient, aiClient, articles, opts.top)
	if err != nil {
		return err
	}

	if res.Graph.NodeCount() == 0 {
		fmt.Fprintln(w, "No entities or relationships extracted. Unable to create graph.")
		return nil
	}

	files, err := writeExports(opts.outDir, res.RunID, res.Graph.Snapshot())
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(w, "Wrote %s\n", f)
	}

	if opts.upload {
		return uploadExports(ctx, w, cfg.S3, res.RunID, files)
	}
	return nil
}

// processAndReport runs the pipeline and prints the summary, model usage and
// rankings. A run aborted by a store error still reports what it
// accumulated before returning the error.
func processAndReport(
	ctx context.Context,
	w io.Writer,
	graphClient *graph.GraphClient,
	aiClient ai.GraphAIClient,
	articles []common.Article,
	top int,
) (*graph.RunResult, error) {
	res, err := graphClient.ProcessArticles(ctx, articles)
	if res != nil {
		printSummary(w, res)
		printModelUsage(w, aiClient.GetMetrics())
		printRankings(w, res.Graph, top)
	}
	if err != nil {
		if res != nil {
			fmt.Fprintln(w, "\nRun aborted, the results above are partial.")
		}
		return res, err
	}
	return res, nil
}

func uploadExports(ctx context.Context, w io.Writer, cfg config.S3Config, runID string, files []string) error {
	if !cfg.Enabled() {
		return errors.New("--upload requires AWS_BUCKET to be set")
	}

	client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	exporter := storage.NewExporter(client, cfg.Bucket, cfg.Prefix)

	for _, path := range files {
		key, err := uploadFile(ctx, exporter, runID, path)
		if err != nil {
			return err
		}
		link, err := storage.GenerateDownloadLink(ctx, client, cfg.Bucket, key, downloadLinkTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Uploaded s3://%s/%s\n  %s\n", cfg.Bucket, key, link)
	}
	return nil
}

func uploadFile(ctx context.Context, exporter *storage.Exporter, runID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return exporter.PutFile(ctx, runID, fileName(path), f)
}
