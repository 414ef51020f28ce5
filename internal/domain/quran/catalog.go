// Package quran answers geometry questions about the Quran text: surah
// lookups, per-verse line counts, the next reading position and the number
// of Juz' memorized. Every type here is immutable after construction and
// safe for concurrent use.
package quran

import (
	"fmt"
	"strings"

	"github.com/escalopa/quran-progress/internal/domain"
)

const maxJuz = 30

// Catalog is the ordered table of surahs.
type Catalog struct {
	surahs []domain.Surah
	byName map[string]int
}

// NewCatalog validates surahs and builds a catalog. Surah numbers must be
// exactly 1..len(surahs) in order.
//
// JuzPortion is the surah's full weight in juz' units, proportional to its
// length, so it only has to be positive: Al-Baqarah weighs about 2.4 and
// the portions of a complete catalog sum to 30. A portion capped at 1 would
// undercount every surah longer than a juz'.
func NewCatalog(surahs []domain.Surah) (*Catalog, error) {
	if len(surahs) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", domain.ErrInvalidDataset)
	}

	c := &Catalog{
		surahs: make([]domain.Surah, len(surahs)),
		byName: make(map[string]int, len(surahs)),
	}

	for i, s := range surahs {
		if s.Number != i+1 {
			return nil, fmt.Errorf("%w: surah at index %d has number %d", domain.ErrInvalidDataset, i, s.Number)
		}
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: surah %d has no name", domain.ErrInvalidDataset, s.Number)
		}
		if prev, ok := c.byName[name]; ok {
			return nil, fmt.Errorf("%w: surahs %d and %d share the name %q", domain.ErrInvalidDataset, prev, s.Number, name)
		}
		if s.Ayahs < 1 {
			return nil, fmt.Errorf("%w: surah %d has %d ayahs", domain.ErrInvalidDataset, s.Number, s.Ayahs)
		}
		if s.Juz < 1 || s.Juz > maxJuz {
			return nil, fmt.Errorf("%w: surah %d starts in juz %d", domain.ErrInvalidDataset, s.Number, s.Juz)
		}
		if s.JuzPortion <= 0 {
			return nil, fmt.Errorf("%w: surah %d has juz portion %v", domain.ErrInvalidDataset, s.Number, s.JuzPortion)
		}

		s.Name = name
		c.surahs[i] = s
		c.byName[name] = s.Number
	}

	return c, nil
}

// Len returns the number of surahs.
func (c *Catalog) Len() int {
	return len(c.surahs)
}

// ByNumber returns the surah numbered n.
func (c *Catalog) ByNumber(n int) (domain.Surah, bool) {
	if n < 1 || n > len(c.surahs) {
		return domain.Surah{}, false
	}
	return c.surahs[n-1], true
}

// ByName returns the surah whose name matches exactly after trimming.
func (c *Catalog) ByName(name string) (domain.Surah, bool) {
	n, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return domain.Surah{}, false
	}
	return c.surahs[n-1], true
}

// All returns every surah in reading order. The slice is a copy.
func (c *Catalog) All() []domain.Surah {
	out := make([]domain.Surah, len(c.surahs))
	copy(out, c.surahs)
	return out
}

// mustSurah is ByNumber for callers that need a valid surah.
func (c *Catalog) mustSurah(n int) (domain.Surah, error) {
	s, ok := c.ByNumber(n)
	if !ok {
		return domain.Surah{}, fmt.Errorf("%w: %d", domain.ErrSurahNotFound, n)
	}
	return s, nil
}

// checkAyah validates that ayah exists in surah n.
func (c *Catalog) checkAyah(n, ayah int) (domain.Surah, error) {
	s, err := c.mustSurah(n)
	if err != nil {
		return domain.Surah{}, err
	}
	if ayah < 1 || ayah > s.Ayahs {
		return domain.Surah{}, fmt.Errorf("%w: ayah %d of surah %d (has %d)", domain.ErrVerseOutOfRange, ayah, n, s.Ayahs)
	}
	return s, nil
}

// NameResolver maps an exact surah name to its number.
type NameResolver struct {
	catalog *Catalog
}

func NewNameResolver(catalog *Catalog) *NameResolver {
	return &NameResolver{catalog: catalog}
}

// Resolve returns the number of the surah called name.
func (r *NameResolver) Resolve(name string) (int, bool) {
	s, ok := r.catalog.ByName(name)
	if !ok {
		return 0, false
	}
	return s.Number, true
}
