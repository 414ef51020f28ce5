package httpapi

import "github.com/escalopa/quran-progress/internal/domain"

type SurahResponse struct {
	Number     int     `json:"number"`
	Name       string  `json:"name"`
	Ayahs      int     `json:"ayahs"`
	Juz        int     `json:"juz"`
	JuzPortion float64 `json:"juz_portion"`
	StartPage  int     `json:"start_page"`
	Lines      float64 `json:"lines"`
}

func newSurahResponse(s domain.Surah, lines float64) SurahResponse {
	return SurahResponse{
		Number:     s.Number,
		Name:       s.Name,
		Ayahs:      s.Ayahs,
		Juz:        s.Juz,
		JuzPortion: s.JuzPortion,
		StartPage:  s.StartPage,
		Lines:      lines,
	}
}

type SurahLinesResponse struct {
	Surah int     `json:"surah"`
	Lines float64 `json:"lines"`
}

type VerseLinesResponse struct {
	Surah int     `json:"surah"`
	Verse int     `json:"verse"`
	Lines float64 `json:"lines"`
}

type RangeLinesResponse struct {
	Surah int     `json:"surah"`
	Name  string  `json:"name"`
	From  int     `json:"from"`
	To    int     `json:"to"`
	Lines float64 `json:"lines"`
}

type JuzResponse struct {
	Direction domain.Direction `json:"direction"`
	Surah     int              `json:"surah"`
	Verse     int              `json:"verse"`
	Juz       float64          `json:"juz"`
}

// linesQuery selects a surah by number or by name
type linesQuery struct {
	Surah int    `validate:"required_without=Name"`
	Name  string `validate:"required_without=Surah"`
	From  int    `validate:"required"`
	To    int    `validate:"required"`
}

// positionQuery is a verse reached in a memorization direction
type positionQuery struct {
	Direction string `validate:"required"`
	Surah     int    `validate:"required"`
	Verse     int    `validate:"required"`
}
