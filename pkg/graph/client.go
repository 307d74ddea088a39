package graph

import (
	"errors"
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/store"
)

// Article outcomes reported to a Recorder.
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Recorder receives pipeline measurements. pkg/metrics provides a
// Prometheus-backed implementation.
type Recorder interface {
	RecordArticle(outcome string)
	RecordExtracted(kind string, count int)
	RecordRunDuration(d time.Duration)
}

// GraphClient runs the article pipeline: normalize, extract entities, extract
// relationships, accumulate and optionally persist.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	entities      *EntityExtractor
	relationships *RelationshipExtractor

	storage  store.GraphStorage
	policy   common.EndpointPolicy
	rawText  bool
	recorder Recorder
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// AIClient is required. Storage is optional; without it the run only
// accumulates in memory. EndpointPolicy applies to the in-memory graph and
// should match the policy the storage was opened with. RawText skips text
// normalization before extraction. Recorder is optional.
type NewGraphClientParams struct {
	AIClient ai.GraphAIClient
	Storage  store.GraphStorage

	EndpointPolicy common.EndpointPolicy
	Sampling       Sampling
	LenientJSON    bool
	TokenEncoder   string
	MaxInputTokens int
	RawText        bool

	Recorder Recorder
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		AIClient:       aiClient,
//		Storage:        neo4jStore,
//		EndpointPolicy: common.AutoCreateEndpoints,
//		Sampling:       graph.DefaultSampling(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	if params.AIClient == nil {
		return nil, errors.New("graph client requires an AI client")
	}

	policy := params.EndpointPolicy
	if policy == "" {
		policy = common.AutoCreateEndpoints
	}

	xp := ExtractorParams{
		Client:         params.AIClient,
		Sampling:       params.Sampling,
		Lenient:        params.LenientJSON,
		TokenEncoder:   params.TokenEncoder,
		MaxInputTokens: params.MaxInputTokens,
	}

	return &GraphClient{
		entities:      NewEntityExtractor(xp),
		relationships: NewRelationshipExtractor(xp),
		storage:       params.Storage,
		policy:        policy,
		rawText:       params.RawText,
		recorder:      params.Recorder,
	}, nil
}
