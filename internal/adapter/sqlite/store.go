package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/escalopa/quran-progress/internal/domain/quran"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS dataset_meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS surahs (
	number      INTEGER PRIMARY KEY,
	name        TEXT    NOT NULL UNIQUE,
	verses      INTEGER NOT NULL,
	juz         INTEGER NOT NULL,
	start_page  INTEGER NOT NULL,
	juz_portion REAL    NOT NULL
);
CREATE TABLE IF NOT EXISTS verse_lines (
	surah INTEGER NOT NULL REFERENCES surahs(number),
	verse INTEGER NOT NULL,
	lines REAL    NOT NULL,
	PRIMARY KEY (surah, verse)
);`

// Store keeps a dataset as one row per surah and one row per verse.
type Store struct {
	db *sql.DB
}

var _ domain.DatasetSource = (*Store)(nil)

// Open opens (or creates) the SQLite file at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer keeps the file consistent during Save.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored dataset with ds. Line totals are expanded into
// per-verse rows.
func (s *Store) Save(ctx context.Context, ds domain.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("rollback dataset save")
			}
		}
	}()

	for _, stmt := range []string{"DELETE FROM verse_lines", "DELETE FROM surahs", "DELETE FROM dataset_meta"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear dataset: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO dataset_meta (key, value) VALUES ('lines_per_page', ?), ('pages', ?)",
		ds.LinesPerPage, ds.Pages,
	); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	for _, sd := range ds.Surahs {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO surahs (number, name, verses, juz, start_page, juz_portion) VALUES (?, ?, ?, ?, ?, ?)",
			sd.Number, sd.Name, sd.Ayahs, sd.Juz, sd.StartPage, sd.JuzPortion,
		); err != nil {
			return fmt.Errorf("insert surah %d: %w", sd.Number, err)
		}

		var lines []float64
		lines, err = quran.VerseLines(sd)
		if err != nil {
			return err
		}
		for i, l := range lines {
			if _, err = tx.ExecContext(ctx,
				"INSERT INTO verse_lines (surah, verse, lines) VALUES (?, ?, ?)",
				sd.Number, i+1, l,
			); err != nil {
				return fmt.Errorf("insert verse %d:%d: %w", sd.Number, i+1, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reads the stored dataset. It implements domain.DatasetSource.
func (s *Store) Load(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset

	metaRows, err := s.db.QueryContext(ctx, "SELECT key, value FROM dataset_meta")
	if err != nil {
		return ds, fmt.Errorf("query meta: %w", err)
	}
	defer metaRows.Close()
	for metaRows.Next() {
		var (
			key   string
			value int
		)
		if err := metaRows.Scan(&key, &value); err != nil {
			return ds, fmt.Errorf("scan meta: %w", err)
		}
		switch key {
		case "lines_per_page":
			ds.LinesPerPage = value
		case "pages":
			ds.Pages = value
		}
	}
	if err := metaRows.Err(); err != nil {
		return ds, fmt.Errorf("read meta: %w", err)
	}
	// The pool holds one connection, release it before the next query.
	if err := metaRows.Close(); err != nil {
		return ds, fmt.Errorf("close meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT number, name, verses, juz, start_page, juz_portion FROM surahs ORDER BY number")
	if err != nil {
		return ds, fmt.Errorf("query surahs: %w", err)
	}
	index := make(map[int]int)
	for rows.Next() {
		var sd domain.SurahData
		if err := rows.Scan(&sd.Number, &sd.Name, &sd.Ayahs, &sd.Juz, &sd.StartPage, &sd.JuzPortion); err != nil {
			rows.Close()
			return ds, fmt.Errorf("scan surah: %w", err)
		}
		index[sd.Number] = len(ds.Surahs)
		ds.Surahs = append(ds.Surahs, sd)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ds, fmt.Errorf("iterate surahs: %w", err)
	}

	lineRows, err := s.db.QueryContext(ctx, "SELECT surah, verse, lines FROM verse_lines ORDER BY surah, verse")
	if err != nil {
		return ds, fmt.Errorf("query verse lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			surah, verse int
			lines        float64
		)
		if err := lineRows.Scan(&surah, &verse, &lines); err != nil {
			return ds, fmt.Errorf("scan verse lines: %w", err)
		}
		i, ok := index[surah]
		if !ok {
			return ds, fmt.Errorf("%w: verse lines for unknown surah %d", domain.ErrInvalidDataset, surah)
		}
		if verse != len(ds.Surahs[i].VerseLines)+1 {
			return ds, fmt.Errorf("%w: verse lines of surah %d skip to verse %d", domain.ErrInvalidDataset, surah, verse)
		}
		ds.Surahs[i].VerseLines = append(ds.Surahs[i].VerseLines, lines)
		ds.Surahs[i].Lines += lines
	}
	if err := lineRows.Err(); err != nil {
		return ds, fmt.Errorf("iterate verse lines: %w", err)
	}

	log.Debug().Int("surahs", len(ds.Surahs)).Msg("dataset loaded from sqlite")
	return ds, nil
}
