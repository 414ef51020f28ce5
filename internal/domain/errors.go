package domain

import "errors"

var (
	// ErrSurahNotFound is returned for a surah number outside the catalog
	// or a name that does not resolve.
	ErrSurahNotFound = errors.New("surah not found")

	// ErrVerseOutOfRange is returned for an ayah outside [1, ayah count].
	ErrVerseOutOfRange = errors.New("verse out of range")

	// ErrUnknownDirection is returned when a direction is neither forward
	// nor backward.
	ErrUnknownDirection = errors.New("unknown memorization direction")

	// ErrEndOfQuran is returned by a terminal boundary policy when the
	// traversal runs past the first or last surah.
	ErrEndOfQuran = errors.New("end of quran reached")

	// ErrInvalidInput is returned for user input that cannot be parsed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDataset is returned when a dataset breaks a catalog invariant.
	ErrInvalidDataset = errors.New("invalid dataset")
)
