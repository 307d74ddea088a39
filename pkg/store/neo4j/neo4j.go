// Package neo4j persists the news graph in Neo4j. Entities are (:Entity)
// nodes keyed by name; relationships are [:RELATED {predicate}] edges.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const defaultBatchSize = 500

// GraphNeo4jStorage implements store.GraphStorage on a Neo4j database.
type GraphNeo4jStorage struct {
	driver    neo4j.DriverWithContext
	database  string
	policy    common.EndpointPolicy
	useAPOC   bool
	batchSize int
}

// NewGraphNeo4jStorageParams configures the connection.
//
// UseAPOC selects apoc.path.subgraphAll for subgraph expansion; without it a
// plain variable-length Cypher pattern is used. ConnectRetries bounds the
// connectivity check at startup.
type NewGraphNeo4jStorageParams struct {
	URI      string
	User     string
	Password string
	Database string

	Policy         common.EndpointPolicy
	UseAPOC        bool
	ConnectRetries int
	BatchSize      int
}

// NewGraphNeo4jStorage opens a driver, waits for the database to answer and
// makes sure the entity name constraint exists.
func NewGraphNeo4jStorage(ctx context.Context, params NewGraphNeo4jStorageParams) (*GraphNeo4jStorage, error) {
	driver, err := neo4j.NewDriverWithContext(params.URI, neo4j.BasicAuth(params.User, params.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	err = util.RetryErrWithBackoff(ctx, params.ConnectRetries, time.Second, func(ctx context.Context) error {
		err := driver.VerifyConnectivity(ctx)
		if err != nil {
			logger.Warn("[Neo4j] Database not reachable yet", "uri", params.URI, "err", err)
		}
		return err
	})
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	policy := params.Policy
	if policy == "" {
		policy = common.AutoCreateEndpoints
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	s := &GraphNeo4jStorage{
		driver:    driver,
		database:  params.Database,
		policy:    policy,
		useAPOC:   params.UseAPOC,
		batchSize: batchSize,
	}

	if err := s.ensureSchema(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *GraphNeo4jStorage) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

func (s *GraphNeo4jStorage) ensureSchema(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, entityConstraintQuery, nil)
	if err == nil {
		_, err = result.Consume(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to create entity constraint: %w", err)
	}
	return nil
}

func (s *GraphNeo4jStorage) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *GraphNeo4jStorage) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
