// Package bootstrap builds the Quran engine from configuration for the
// binaries under cmd.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/escalopa/quran-progress/internal/adapter/dataset"
	"github.com/escalopa/quran-progress/internal/adapter/sqlite"
	"github.com/escalopa/quran-progress/internal/config"
	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/escalopa/quran-progress/internal/domain/quran"
	"github.com/rs/zerolog/log"
)

// LoadDataset reads the dataset from the configured source.
func LoadDataset(ctx context.Context, cfg config.DatasetConfig) (domain.Dataset, error) {
	switch cfg.Source {
	case "", "embedded":
		return dataset.Embedded{}.Load(ctx)
	case "file":
		return dataset.File{Path: cfg.Path}.Load(ctx)
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return domain.Dataset{}, err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Str("path", cfg.Path).Msg("close dataset store")
			}
		}()
		return store.Load(ctx)
	default:
		return domain.Dataset{}, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

// NewEngine loads the dataset and builds an engine with the configured
// boundary policy.
func NewEngine(ctx context.Context, cfg *config.Config) (*quran.Engine, error) {
	boundary, err := quran.ParseBoundary(cfg.Engine.Boundary)
	if err != nil {
		return nil, err
	}

	ds, err := LoadDataset(ctx, cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	engine, err := quran.New(ds, quran.WithBoundary(boundary))
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	log.Info().
		Str("source", cfg.Dataset.Source).
		Str("boundary", string(boundary)).
		Int("surahs", len(ds.Surahs)).
		Msg("quran engine ready")

	return engine, nil
}
