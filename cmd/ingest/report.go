package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
	"github.com/OFFIS-RIT/newsgraph/pkg/visualization"
)

func printSummary(w io.Writer, res *graph.RunResult) {
	fmt.Fprintf(w, "\nRun %s finished in %s\n", res.RunID, res.Duration.Round(1e6))
	fmt.Fprintf(w, "  articles: %d processed, %d skipped, %d failed\n", res.Processed, res.Skipped, res.Failed)
	fmt.Fprintf(w, "  graph:    %d nodes, %d edges\n", res.Graph.NodeCount(), res.Graph.EdgeCount())
	if res.EntitiesSaved > 0 || res.RelationshipsSaved > 0 || res.RelationshipsSkipped > 0 {
		fmt.Fprintf(w, "  stored:   %d entities, %d relationships (%d skipped)\n",
			res.EntitiesSaved, res.RelationshipsSaved, res.RelationshipsSkipped)
	}
}

func printModelUsage(w io.Writer, m ai.ModelMetrics) {
	if m.Requests == 0 {
		return
	}
	fmt.Fprintf(w, "  model:    %d requests, %d input / %d output tokens\n",
		m.Requests, m.InputTokens, m.OutputTokens)
}

func printRankings(w io.Writer, g *graph.Accumulator, k int) {
	technology := common.EntityTypeTechnology
	organization := common.EntityTypeOrganization

	sections := []struct {
		title  string
		filter *common.EntityType
	}{
		{"Top entities by degree", nil},
		{"Top technologies", &technology},
		{"Most influential organizations", &organization},
	}

	for _, s := range sections {
		fmt.Fprintf(w, "\n%s:\n", s.title)
		ranked := g.TopKByDegree(k, s.filter)
		if len(ranked) == 0 {
			fmt.Fprintln(w, "  (none)")
			continue
		}
		for i, nd := range ranked {
			label := nd.Entity.Name
			if nd.Entity.Type != "" {
				label = fmt.Sprintf("%s (%s)", label, nd.Entity.Type)
			}
			fmt.Fprintf(w, "  %d. %s: %d\n", i+1, label, nd.Degree)
		}
	}
}

// writeExports writes graph.svg and graph.json into dir/runID and returns
// their paths.
func writeExports(dir, runID string, snap graph.Snapshot) ([]string, error) {
	runDir := filepath.Join(dir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	svgPath := filepath.Join(runDir, "graph.svg")
	svgFile, err := os.Create(svgPath)
	if err != nil {
		return nil, err
	}
	if err := visualization.RenderSVG(svgFile, snap, visualization.DefaultLayoutConfig()); err != nil {
		svgFile.Close()
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	if err := svgFile.Close(); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(runDir, "graph.json")
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return nil, err
	}

	return []string{svgPath, jsonPath}, nil
}

func fileName(path string) string {
	return filepath.Base(path)
}
