package quran

import (
	"fmt"

	"github.com/escalopa/quran-progress/internal/domain"
)

// Boundary decides what happens when a traversal runs off either end of
// the text.
type Boundary string

const (
	// Cyclic continues from the other end: after the last surah comes the
	// first one and before the first comes the last.
	Cyclic Boundary = "cyclic"
	// Terminal stops with domain.ErrEndOfQuran.
	Terminal Boundary = "terminal"
)

// ParseBoundary converts a configuration value into a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(s) {
	case Cyclic, "":
		return Cyclic, nil
	case Terminal:
		return Terminal, nil
	}
	return "", fmt.Errorf("unknown boundary policy %q", s)
}

// PositionResolver computes where the next reading unit starts.
type PositionResolver struct {
	catalog  *Catalog
	boundary Boundary
}

func NewPositionResolver(catalog *Catalog, boundary Boundary) *PositionResolver {
	if boundary == "" {
		boundary = Cyclic
	}
	return &PositionResolver{catalog: catalog, boundary: boundary}
}

// Next returns the position following a unit that ended at (surah, toAyah)
// when memorizing in direction dir.
func (r *PositionResolver) Next(dir domain.Direction, surah, toAyah int) (domain.Position, error) {
	s, err := r.catalog.checkAyah(surah, toAyah)
	if err != nil {
		return domain.Position{}, err
	}

	switch dir {
	case domain.Forward:
		if toAyah < s.Ayahs {
			return domain.Position{Surah: surah, Ayah: toAyah + 1}, nil
		}
		next, err := r.step(surah, 1)
		if err != nil {
			return domain.Position{}, err
		}
		return domain.Position{Surah: next, Ayah: 1}, nil

	case domain.Backward:
		if toAyah > 1 {
			return domain.Position{Surah: surah, Ayah: toAyah - 1}, nil
		}
		prev, err := r.step(surah, -1)
		if err != nil {
			return domain.Position{}, err
		}
		p, _ := r.catalog.ByNumber(prev)
		return domain.Position{Surah: prev, Ayah: p.Ayahs}, nil

	default:
		return domain.Position{}, fmt.Errorf("%w: %q", domain.ErrUnknownDirection, dir)
	}
}

// step moves one surah forward (delta 1) or backward (delta -1), applying
// the boundary policy at either end.
func (r *PositionResolver) step(surah, delta int) (int, error) {
	n := surah + delta
	if n >= 1 && n <= r.catalog.Len() {
		return n, nil
	}

	switch r.boundary {
	case Terminal:
		return 0, fmt.Errorf("%w: after surah %d", domain.ErrEndOfQuran, surah)
	default:
		if n < 1 {
			return r.catalog.Len(), nil
		}
		return 1, nil
	}
}
