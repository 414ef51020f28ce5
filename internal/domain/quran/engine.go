package quran

import (
	"fmt"

	"github.com/escalopa/quran-progress/internal/domain"
)

// Engine is the read-only query surface over a loaded dataset.
type Engine struct {
	catalog   *Catalog
	names     *NameResolver
	lines     *LineTable
	positions *PositionResolver
	progress  *ProgressCalculator
}

var _ domain.QuranPort = (*Engine)(nil)

// Option configures an Engine.
type Option func(*options)

type options struct {
	boundary Boundary
}

// WithBoundary selects the policy applied past the first and last surah.
func WithBoundary(b Boundary) Option {
	return func(o *options) {
		o.boundary = b
	}
}

// New validates ds and builds an Engine from it.
func New(ds domain.Dataset, opts ...Option) (*Engine, error) {
	o := options{boundary: Cyclic}
	for _, opt := range opts {
		opt(&o)
	}

	surahs := make([]domain.Surah, len(ds.Surahs))
	lines := make([][]float64, len(ds.Surahs))
	for i, sd := range ds.Surahs {
		surahs[i] = sd.Surah
	}

	catalog, err := NewCatalog(surahs)
	if err != nil {
		return nil, err
	}

	for i, sd := range ds.Surahs {
		lines[i], err = VerseLines(sd)
		if err != nil {
			return nil, err
		}
	}

	table, err := NewLineTable(catalog, lines)
	if err != nil {
		return nil, err
	}

	return &Engine{
		catalog:   catalog,
		names:     NewNameResolver(catalog),
		lines:     table,
		positions: NewPositionResolver(catalog, o.boundary),
		progress:  NewProgressCalculator(catalog, table),
	}, nil
}

// VerseLines returns the per-ayah line counts of sd, spreading sd.Lines
// evenly when no explicit counts are given.
func VerseLines(sd domain.SurahData) ([]float64, error) {
	if len(sd.VerseLines) > 0 {
		return sd.VerseLines, nil
	}
	if sd.Lines <= 0 || sd.Ayahs < 1 {
		return nil, fmt.Errorf("%w: surah %d has neither verse lines nor a line total", domain.ErrInvalidDataset, sd.Number)
	}

	out := make([]float64, sd.Ayahs)
	each := sd.Lines / float64(sd.Ayahs)
	for i := range out {
		out[i] = each
	}
	return out, nil
}

func (e *Engine) SurahByNumber(n int) (domain.Surah, bool) {
	return e.catalog.ByNumber(n)
}

func (e *Engine) SurahByName(name string) (domain.Surah, bool) {
	return e.catalog.ByName(name)
}

func (e *Engine) AllSurahs() []domain.Surah {
	return e.catalog.All()
}

// SurahNumber resolves an exact surah name.
func (e *Engine) SurahNumber(name string) (int, bool) {
	return e.names.Resolve(name)
}

func (e *Engine) VerseLines(surah, ayah int) (float64, error) {
	return e.lines.VerseLines(surah, ayah)
}

// CalculateLines sums the lines of ayahs from..to of surah. An inverted
// range yields 0.
func (e *Engine) CalculateLines(surah, from, to int) (float64, error) {
	return e.lines.Lines(surah, from, to)
}

func (e *Engine) CalculateLinesBySurahName(name string, from, to int) (float64, error) {
	return e.lines.LinesByName(name, from, to)
}

func (e *Engine) SurahLines(surah int) (float64, error) {
	return e.lines.SurahLines(surah)
}

// NextPosition returns where the next unit starts after one that ended at
// (surah, toAyah).
func (e *Engine) NextPosition(dir domain.Direction, surah, toAyah int) (domain.Position, error) {
	return e.positions.Next(dir, surah, toAyah)
}

// JuzMemorized returns the Juz' units memorized up to (surah, ayah).
func (e *Engine) JuzMemorized(dir domain.Direction, surah, ayah int) (float64, error) {
	return e.progress.JuzMemorized(dir, surah, ayah)
}
