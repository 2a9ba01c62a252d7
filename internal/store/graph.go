package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Graph holds each campaign document as a JSON property on a
// (:Campaign {id}) node in Memgraph/Neo4j, for deployments already
// running the graph database alongside other services. Each Put is a
// single Cypher write, so whole-document atomicity comes from the
// database transaction.
type Graph struct {
	driver neo4j.DriverWithContext
	log    *zap.Logger
}

func NewGraph(uri, username, password string, logger *zap.Logger) (*Graph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}
	g := &Graph{driver: driver, log: logger}
	// Index may already exist; Memgraph errors on re-creation.
	if _, err := g.run(context.Background(), "CREATE INDEX ON :Campaign(id);", nil); err != nil {
		g.log.Warn("create campaign index", zap.Error(err))
	}
	return g, nil
}

func (g *Graph) run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, g.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return result, nil
}

func (g *Graph) Get(ctx context.Context, id string) ([]byte, error) {
	result, err := g.run(ctx,
		"MATCH (c:Campaign {id: $id}) RETURN c.document AS document",
		map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, ErrNotFound
	}
	doc, ok := result.Records[0].Get("document")
	if !ok {
		return nil, ErrNotFound
	}
	raw, ok := doc.(string)
	if !ok {
		return nil, fmt.Errorf("campaign %s document property is %T, want string", id, doc)
	}
	return []byte(raw), nil
}

func (g *Graph) Put(ctx context.Context, id string, doc []byte) error {
	_, err := g.run(ctx,
		"MERGE (c:Campaign {id: $id}) SET c.document = $document",
		map[string]any{"id": id, "document": string(doc)})
	return err
}

func (g *Graph) List(ctx context.Context) ([]string, error) {
	result, err := g.run(ctx, "MATCH (c:Campaign) RETURN c.id AS id", nil)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, rec := range result.Records {
		if id, ok := rec.Get("id"); ok {
			if s, ok := id.(string); ok {
				ids = append(ids, s)
			}
		}
	}
	return ids, nil
}

func (g *Graph) Close() error {
	return g.driver.Close(context.Background())
}
