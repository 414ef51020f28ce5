package quran

import (
	"fmt"

	"github.com/escalopa/quran-progress/internal/domain"
)

// ProgressCalculator measures memorized Juz' from the start of a traversal.
type ProgressCalculator struct {
	catalog *Catalog
	lines   *LineTable
}

func NewProgressCalculator(catalog *Catalog, lines *LineTable) *ProgressCalculator {
	return &ProgressCalculator{catalog: catalog, lines: lines}
}

// JuzMemorized returns the Juz' units covered from the first surah of the
// traversal (1 forward, the last one backward) up to and including
// (surah, ayah).
//
// Surahs completed before the current one contribute their whole
// JuzPortion. The current surah contributes its JuzPortion scaled by the
// share of its lines covered so far.
func (p *ProgressCalculator) JuzMemorized(dir domain.Direction, surah, ayah int) (float64, error) {
	s, err := p.catalog.checkAyah(surah, ayah)
	if err != nil {
		return 0, err
	}

	var (
		completed []domain.Surah
		covered   float64
	)

	switch dir {
	case domain.Forward:
		completed = p.catalog.surahs[:surah-1]
		covered, err = p.lines.Lines(surah, 1, ayah)
	case domain.Backward:
		completed = p.catalog.surahs[surah:]
		covered, err = p.lines.Lines(surah, ayah, s.Ayahs)
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownDirection, dir)
	}
	if err != nil {
		return 0, err
	}

	var juz float64
	for _, c := range completed {
		juz += c.JuzPortion
	}

	total, err := p.lines.SurahLines(surah)
	if err != nil {
		return 0, err
	}

	return juz + s.JuzPortion*(covered/total), nil
}
