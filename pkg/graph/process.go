package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/text"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RunResult summarises one pipeline run. Graph holds everything accumulated,
// including the articles processed before a fatal error.
type RunResult struct {
	RunID string
	Graph *Accumulator

	Processed int
	Skipped   int
	Failed    int

	EntitiesSaved        int
	RelationshipsSaved   int
	RelationshipsSkipped int

	Duration time.Duration
}

type extraction struct {
	entities  []common.Entity
	relations []common.Relationship
}

// ProcessArticles runs the pipeline over articles one at a time, in order.
//
// A failure while extracting one article (model error, malformed reply or
// panic) is logged and the run moves on to the next article. A storage
// error aborts the run and is returned together with the partial result.
func (g *GraphClient) ProcessArticles(
	ctx context.Context,
	articles []common.Article,
) (*RunResult, error) {
	start := time.Now()

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run ID: %w", err)
	}

	res := &RunResult{
		RunID: runID,
		Graph: NewAccumulator(g.policy),
	}
	defer func() {
		res.Duration = time.Since(start)
		if g.recorder != nil {
			g.recorder.RecordRunDuration(res.Duration)
		}
	}()

	logger.Info("[Graph] Processing", "run_id", runID, "total_articles", len(articles))

	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		title := article.Title
		body := articleBody(article)
		if strings.TrimSpace(body) == "" {
			logger.Info("[Graph] Article has no content, skipping", "run_id", runID, "article", title)
			g.record(OutcomeSkipped)
			res.Skipped++
			continue
		}

		ex, err := g.extractArticle(ctx, body)
		if err != nil {
			logger.Error("[Graph] Error processing article", "run_id", runID, "article", title, "err", err)
			g.record(OutcomeFailed)
			res.Failed++
			continue
		}
		if len(ex.entities) == 0 {
			logger.Info("[Graph] No entities extracted, skipping relationship extraction", "run_id", runID, "article", title)
			g.record(OutcomeSkipped)
			res.Skipped++
			continue
		}

		g.accumulate(res, ex)

		if g.storage != nil {
			if err := g.persist(ctx, res, ex); err != nil {
				return res, err
			}
		}

		logger.Info("[Graph] Article processed",
			"run_id", runID,
			"article", title,
			"entities", len(ex.entities),
			"relationships", len(ex.relations),
		)
		g.record(OutcomeProcessed)
		res.Processed++
	}

	logger.Info("[Graph] Run completed",
		"run_id", runID,
		"processed", res.Processed,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"nodes", res.Graph.NodeCount(),
		"edges", res.Graph.EdgeCount(),
	)

	return res, nil
}

func articleBody(a common.Article) string {
	if strings.TrimSpace(a.Content) != "" {
		return a.Content
	}
	return a.Description
}

// extractArticle runs both extraction steps for one article. Panics are
// turned into errors so that one article cannot end the run.
func (g *GraphClient) extractArticle(ctx context.Context, body string) (ex extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing article: %v", r)
		}
	}()

	cleaned := body
	if !g.rawText {
		cleaned = text.Normalize(body)
	}

	ex.entities, err = g.entities.ExtractEntities(ctx, cleaned)
	if err != nil {
		return extraction{}, err
	}
	g.recordExtracted("entity", len(ex.entities))
	if len(ex.entities) == 0 {
		return ex, nil
	}

	ex.relations, err = g.relationships.ExtractRelationships(ctx, cleaned, ex.entities)
	if err != nil {
		return extraction{}, err
	}
	g.recordExtracted("relationship", len(ex.relations))

	return ex, nil
}

func (g *GraphClient) accumulate(res *RunResult, ex extraction) {
	for _, e := range ex.entities {
		res.Graph.AddEntity(e)
	}
	for _, r := range ex.relations {
		if err := res.Graph.AddRelationship(r); err != nil {
			logger.Debug("[Graph] Relationship not added", "run_id", res.RunID, "err", err)
		}
	}
}

func (g *GraphClient) persist(ctx context.Context, res *RunResult, ex extraction) error {
	saved, err := g.storage.SaveEntities(ctx, ex.entities)
	if err != nil {
		return fmt.Errorf("failed to save entities: %w", err)
	}
	res.EntitiesSaved += saved

	if len(ex.relations) == 0 {
		return nil
	}

	rs, err := g.storage.SaveRelationships(ctx, ex.relations)
	if err != nil {
		return fmt.Errorf("failed to save relationships: %w", err)
	}
	res.RelationshipsSaved += rs.Saved
	res.RelationshipsSkipped += rs.Skipped
	return nil
}

func (g *GraphClient) record(outcome string) {
	if g.recorder != nil {
		g.recorder.RecordArticle(outcome)
	}
}

func (g *GraphClient) recordExtracted(kind string, n int) {
	if g.recorder != nil {
		g.recorder.RecordExtracted(kind, n)
	}
}
