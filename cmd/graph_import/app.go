package graphimport

import (
	"context"
	"errors"

	"city-guide/internal/general/config"
	"city-guide/internal/general/graph"
	"city-guide/internal/general/logger"
	"city-guide/internal/general/postgres"
)

// Run loads a city map JSON file and stores it as the street graph.
func Run(ctx context.Context, mapPath string) error {
	logger := logger.New("graph-import")
	ctx = logger.WithRequestID(ctx, "import-001")

	if mapPath == "" {
		return errors.New("a --map file is required")
	}

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	g, err := graph.LoadMapFile(mapPath)
	if err != nil {
		logger.Error(ctx, "map_load_failed", "Failed to load map file", err, map[string]any{"path": mapPath})
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	repo := postgres.NewGraphRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error(ctx, "db_schema_failed", "Failed to ensure graph schema", err, nil)
		return err
	}

	if err := repo.ImportCity(ctx, g); err != nil {
		logger.Error(ctx, "graph_import_failed", "Failed to import city graph", err, map[string]any{"city": g.City})
		return err
	}

	edges := 0
	for _, es := range g.AdjList {
		edges += len(es)
	}
	logger.Info(ctx, "graph_imported", "City graph imported", map[string]any{
		"city":  g.City,
		"nodes": len(g.Nodes),
		"edges": edges,
	})

	return nil
}
