package postgres

import (
	"context"
	"errors"
	"fmt"

	"city-guide/internal/domain/geo"
	"city-guide/internal/general/graph"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GraphRepo persists the city street graph using pgx and plain SQL.
type GraphRepo struct {
	pool *pgxpool.Pool
}

// NewGraphRepo constructs a new GraphRepo.
func NewGraphRepo(pool *pgxpool.Pool) *GraphRepo {
	return &GraphRepo{pool: pool}
}

// EnsureSchema creates the graph tables if they do not exist.
func (repo *GraphRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS graph_nodes (
    city TEXT        NOT NULL,
    id   TEXT        NOT NULL,
    lat  DOUBLE PRECISION NOT NULL,
    lon  DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (city, id)
);
CREATE TABLE IF NOT EXISTS graph_edges (
    city      TEXT NOT NULL,
    from_node TEXT NOT NULL,
    to_node   TEXT NOT NULL,
    street    TEXT NOT NULL,
    length_m  DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (city, from_node, to_node)
);
CREATE INDEX IF NOT EXISTS idx_graph_edges_from ON graph_edges (city, from_node);`

	if _, err := repo.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure graph schema: %w", err)
	}
	return nil
}

// ImportCity replaces the stored graph for g.City with the given graph
// in a single transaction.
func (repo *GraphRepo) ImportCity(ctx context.Context, g *graph.Graph) error {
	if g == nil || g.City == "" {
		return errors.New("graph with a city name is required")
	}

	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM graph_edges WHERE city = $1`, g.City); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_nodes WHERE city = $1`, g.City); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	batch := &pgx.Batch{}
	for _, n := range g.Nodes {
		batch.Queue(
			`INSERT INTO graph_nodes (city, id, lat, lon) VALUES ($1, $2, $3, $4)`,
			g.City, n.ID, n.Pos.Lat, n.Pos.Lon,
		)
	}
	for _, edges := range g.AdjList {
		for _, e := range edges {
			batch.Queue(
				`INSERT INTO graph_edges (city, from_node, to_node, street, length_m) VALUES ($1, $2, $3, $4, $5)`,
				g.City, e.From, e.To, e.Street, e.LengthM,
			)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("import graph batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	return nil
}

// LoadCity reads the stored graph for a city. Edges are stored already
// expanded in both directions, so they are added as directed here.
func (repo *GraphRepo) LoadCity(ctx context.Context, city string) (*graph.Graph, error) {
	g := graph.NewGraph(city)

	rows, err := repo.pool.Query(ctx,
		`SELECT id, lat, lon FROM graph_nodes WHERE city = $1`, city)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var lat, lon float64
		if err := rows.Scan(&id, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		g.AddNode(id, geo.Position{Lat: lat, Lon: lon})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	rows.Close()

	edgeRows, err := repo.pool.Query(ctx,
		`SELECT from_node, to_node, street, length_m FROM graph_edges WHERE city = $1`, city)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var from, to, street string
		var lengthM float64
		if err := edgeRows.Scan(&from, &to, &street, &lengthM); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		g.AddEdge(from, to, street, lengthM, false)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}

	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("no graph stored for city %q", city)
	}

	return g, nil
}
