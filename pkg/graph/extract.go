package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
)

type extractEntity struct {
	Entity string `json:"entity" jsonschema_description:"Name of the entity as written in the text"`
	Type   string `json:"type" jsonschema:"enum=PERSON,enum=ORGANIZATION,enum=LOCATION,enum=DATE,enum=TECHNOLOGY" jsonschema_description:"One of the provided entity types"`
}

type extractRelationship struct {
	Subject   string `json:"subject" jsonschema_description:"Name of the subject entity, exactly as listed"`
	Predicate string `json:"predicate" jsonschema_description:"Short verb phrase relating subject to object"`
	Object    string `json:"object" jsonschema_description:"Name of the object entity, exactly as listed"`
}

// Sampling holds the generation settings used for extraction calls.
type Sampling struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// DefaultSampling biases the model toward deterministic, well-formed JSON.
func DefaultSampling() Sampling {
	return Sampling{
		Temperature:     0.2,
		TopP:            0.95,
		TopK:            64,
		MaxOutputTokens: 1024,
	}
}

func (s Sampling) options(schema any) []ai.GenerateOption {
	return []ai.GenerateOption{
		ai.WithTemperature(s.Temperature),
		ai.WithTopP(s.TopP),
		ai.WithTopK(s.TopK),
		ai.WithMaxOutputTokens(s.MaxOutputTokens),
		ai.WithSchema(schema),
	}
}

// ExtractorParams configures both extractors.
//
// Lenient enables JSON repair of malformed replies. MaxInputTokens bounds
// the article text embedded in a prompt (0 disables truncation) using the
// TokenEncoder encoding.
type ExtractorParams struct {
	Client         ai.GraphAIClient
	Sampling       Sampling
	Lenient        bool
	TokenEncoder   string
	MaxInputTokens int
}

type extractor struct {
	client         ai.GraphAIClient
	sampling       Sampling
	lenient        bool
	tokenEncoder   string
	maxInputTokens int
}

func newExtractor(params ExtractorParams) extractor {
	sampling := params.Sampling
	if sampling == (Sampling{}) {
		sampling = DefaultSampling()
	}
	return extractor{
		client:         params.Client,
		sampling:       sampling,
		lenient:        params.Lenient,
		tokenEncoder:   params.TokenEncoder,
		maxInputTokens: params.MaxInputTokens,
	}
}

// complete runs prompt through the model and decodes the JSON array in the
// reply into out. A malformed reply is logged and reported as (false, nil).
func (x extractor) complete(ctx context.Context, kind string, prompt string, out any) (bool, error) {
	if x.client == nil {
		return false, errors.New("extractor has no AI client")
	}

	raw, err := x.client.GenerateCompletion(ctx, prompt, x.sampling.options(out)...)
	if err != nil {
		return false, fmt.Errorf("failed to generate %s: %w", kind, err)
	}

	if err := ai.ParseJSONArray(raw, out, x.lenient); err != nil {
		logger.Warn("[Extract] Could not parse model response", "kind", kind, "err", err, "response", raw)
		return false, nil
	}
	return true, nil
}

func (x extractor) prepareText(text string) (string, error) {
	if x.maxInputTokens <= 0 {
		return text, nil
	}
	return ai.TruncateToTokens(text, x.tokenEncoder, x.maxInputTokens)
}

// EntityExtractor turns article text into typed entities.
type EntityExtractor struct {
	extractor
}

// NewEntityExtractor creates an EntityExtractor.
func NewEntityExtractor(params ExtractorParams) *EntityExtractor {
	return &EntityExtractor{extractor: newExtractor(params)}
}

// ExtractEntities asks the model for the named entities in text.
//
// Malformed replies yield an empty slice and a nil error; only a failed
// model call is returned as an error. Records with an empty name or an
// unknown type are dropped.
func (x *EntityExtractor) ExtractEntities(ctx context.Context, text string) ([]common.Entity, error) {
	text, err := x.prepareText(text)
	if err != nil {
		return nil, err
	}

	types := make([]string, len(common.EntityTypes))
	for i, t := range common.EntityTypes {
		types[i] = string(t)
	}
	prompt := fmt.Sprintf(ai.EntityPrompt, strings.Join(types, ", "), text)

	var raw []extractEntity
	ok, err := x.complete(ctx, "entities", prompt, &raw)
	if err != nil || !ok {
		return []common.Entity{}, err
	}

	return toEntities(raw), nil
}

func toEntities(raw []extractEntity) []common.Entity {
	entities := make([]common.Entity, 0, len(raw))
	for _, r := range raw {
		t, err := common.ParseEntityType(r.Type)
		if err != nil {
			logger.Debug("[Extract] Dropping entity", "entity", r.Entity, "err", err)
			continue
		}
		e := common.Entity{Name: util.SanitizeText(r.Entity), Type: t}
		if err := e.Validate(); err != nil {
			logger.Debug("[Extract] Dropping entity", "entity", r.Entity, "err", err)
			continue
		}
		entities = append(entities, e)
	}
	return entities
}

// RelationshipExtractor turns article text and its known entities into
// relationships.
type RelationshipExtractor struct {
	extractor
}

// NewRelationshipExtractor creates a RelationshipExtractor.
func NewRelationshipExtractor(params ExtractorParams) *RelationshipExtractor {
	return &RelationshipExtractor{extractor: newExtractor(params)}
}

// ExtractRelationships asks the model for relationships between the given
// entities. It follows the same failure policy as ExtractEntities.
func (x *RelationshipExtractor) ExtractRelationships(
	ctx context.Context,
	text string,
	entities []common.Entity,
) ([]common.Relationship, error) {
	text, err := x.prepareText(text)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.Name
	}
	prompt := fmt.Sprintf(ai.RelationshipPrompt, text, strings.Join(names, ", "))

	var raw []extractRelationship
	ok, err := x.complete(ctx, "relationships", prompt, &raw)
	if err != nil || !ok {
		return []common.Relationship{}, err
	}

	return toRelationships(raw), nil
}

func toRelationships(raw []extractRelationship) []common.Relationship {
	relations := make([]common.Relationship, 0, len(raw))
	for _, r := range raw {
		rel := common.Relationship{
			Subject:   util.SanitizeText(r.Subject),
			Predicate: util.SanitizeText(r.Predicate),
			Object:    util.SanitizeText(r.Object),
		}
		if err := rel.Validate(); err != nil {
			logger.Debug("[Extract] Dropping relationship", "subject", r.Subject, "object", r.Object, "err", err)
			continue
		}
		relations = append(relations, rel)
	}
	return relations
}
