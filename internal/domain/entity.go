package domain

import "fmt"

// Surah represents a chapter in the Quran together with its place in the
// Juz' division.
type Surah struct {
	Number     int
	Name       string
	Ayahs      int
	Juz        int     // Juz' in which the surah begins
	JuzPortion float64 // Juz' units the whole surah weighs; exceeds 1 for surahs longer than a juz'
	StartPage  int
}

// Position is a verse inside a surah.
type Position struct {
	Surah int `json:"surah"`
	Ayah  int `json:"ayah"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Surah, p.Ayah)
}

// Direction is the order in which a student memorizes the text.
type Direction string

const (
	Forward  Direction = "forward"  // Al-Fatiha towards An-Nas
	Backward Direction = "backward" // An-Nas towards Al-Fatiha
)

// ParseDirection converts user input into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Forward:
		return Forward, nil
	case Backward:
		return Backward, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// SurahData is one surah of a Dataset.
// When VerseLines is empty, Lines is spread evenly over the ayahs.
type SurahData struct {
	Surah
	Lines      float64
	VerseLines []float64
}

// Dataset is the raw catalog the engine is built from.
type Dataset struct {
	LinesPerPage int
	Pages        int
	Surahs       []SurahData
}

// Language represents supported languages
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// ProgressReport summarizes where a memorization unit ended.
type ProgressReport struct {
	Direction    Direction `json:"direction"`
	End          Position  `json:"end"`
	Next         Position  `json:"next"`
	EndOfQuran   bool      `json:"end_of_quran"` // Next is unset when true
	SurahName    string    `json:"surah_name"`
	LinesCovered float64   `json:"lines_covered"`
	SurahLines   float64   `json:"surah_lines"`
	JuzMemorized float64   `json:"juz_memorized"`
}
