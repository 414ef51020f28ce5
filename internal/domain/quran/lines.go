package quran

import (
	"fmt"

	"github.com/escalopa/quran-progress/internal/domain"
)

// LineTable holds the number of printed lines each verse occupies.
type LineTable struct {
	catalog *Catalog
	names   *NameResolver
	lines   [][]float64 // lines[surah-1][ayah-1]
}

// NewLineTable builds the table from per-surah line counts. lines[i] belongs
// to surah i+1 and must hold exactly one positive entry per ayah.
func NewLineTable(catalog *Catalog, lines [][]float64) (*LineTable, error) {
	if len(lines) != catalog.Len() {
		return nil, fmt.Errorf("%w: line table covers %d surahs, catalog has %d", domain.ErrInvalidDataset, len(lines), catalog.Len())
	}

	t := &LineTable{
		catalog: catalog,
		names:   NewNameResolver(catalog),
		lines:   make([][]float64, len(lines)),
	}

	for i, verses := range lines {
		s, _ := catalog.ByNumber(i + 1)
		if len(verses) != s.Ayahs {
			return nil, fmt.Errorf("%w: surah %d has %d line entries for %d ayahs", domain.ErrInvalidDataset, s.Number, len(verses), s.Ayahs)
		}
		for j, l := range verses {
			if l <= 0 {
				return nil, fmt.Errorf("%w: ayah %d:%d has %v lines", domain.ErrInvalidDataset, s.Number, j+1, l)
			}
		}
		t.lines[i] = append([]float64(nil), verses...)
	}

	return t, nil
}

// VerseLines returns the line count of a single ayah.
func (t *LineTable) VerseLines(surah, ayah int) (float64, error) {
	if _, err := t.catalog.checkAyah(surah, ayah); err != nil {
		return 0, err
	}
	return t.lines[surah-1][ayah-1], nil
}

// Lines sums the lines of ayahs from..to inclusive. Both ends must be valid
// ayahs of surah; when from > to the range is empty and the result is 0.
// The table has no notion of direction, callers order the range.
func (t *LineTable) Lines(surah, from, to int) (float64, error) {
	if _, err := t.catalog.checkAyah(surah, from); err != nil {
		return 0, err
	}
	if _, err := t.catalog.checkAyah(surah, to); err != nil {
		return 0, err
	}

	var sum float64
	for _, l := range t.lines[surah-1][from-1 : max(from-1, to)] {
		sum += l
	}
	return sum, nil
}

// LinesByName is Lines with the surah given by its exact name.
func (t *LineTable) LinesByName(name string, from, to int) (float64, error) {
	n, ok := t.names.Resolve(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrSurahNotFound, name)
	}
	return t.Lines(n, from, to)
}

// SurahLines returns the total line count of a surah.
func (t *LineTable) SurahLines(surah int) (float64, error) {
	s, err := t.catalog.mustSurah(surah)
	if err != nil {
		return 0, err
	}
	return t.Lines(surah, 1, s.Ayahs)
}
