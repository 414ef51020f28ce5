/*
Dataset writes the surah catalog and per-verse line table into a SQLite file
that the bot and API can load with dataset.source=sqlite.

	go run ./cmd/dataset -db data/quran.db                   # embedded dataset
	go run ./cmd/dataset -db data/quran.db -in custom.yaml   # a YAML dataset
	go run ./cmd/dataset -db data/quran.db -export out.yaml  # also dump YAML
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/escalopa/quran-progress/internal/adapter/dataset"
	"github.com/escalopa/quran-progress/internal/adapter/sqlite"
	"github.com/escalopa/quran-progress/internal/config"
	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/escalopa/quran-progress/internal/domain/quran"
	"github.com/escalopa/quran-progress/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	dbFlag := flag.String("db", "data/quran.db", "SQLite file to write")
	inFlag := flag.String("in", "", "YAML dataset to import (default: embedded)")
	exportFlag := flag.String("export", "", "Also write the dataset as YAML to this path")
	levelFlag := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger.Setup(config.LogConfig{Level: *levelFlag, Format: "console"})

	if err := run(context.Background(), *dbFlag, *inFlag, *exportFlag); err != nil {
		log.Fatal().Err(err).Msg("dataset import failed")
	}
}

func run(ctx context.Context, dbPath, inPath, exportPath string) error {
	var src domain.DatasetSource = dataset.Embedded{}
	if inPath != "" {
		src = dataset.File{Path: inPath}
	}

	ds, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	// Reject a dataset the engine would not accept before writing it
	if _, err := quran.New(ds); err != nil {
		return err
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	log.Info().Str("db", dbPath).Int("surahs", len(ds.Surahs)).Msg("dataset written")

	if exportPath == "" {
		return nil
	}

	data, err := dataset.Marshal(ds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportPath, err)
	}
	log.Info().Str("path", exportPath).Msg("dataset exported")

	return nil
}
