package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/escalopa/quran-progress/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed quran.yaml
var embedded []byte

type datasetFile struct {
	LinesPerPage int           `yaml:"lines_per_page"`
	Pages        int           `yaml:"pages"`
	Surahs       []surahRecord `yaml:"surahs"`
}

type surahRecord struct {
	Number     int       `yaml:"number"`
	Name       string    `yaml:"name"`
	Verses     int       `yaml:"verses"`
	Juz        int       `yaml:"juz"`
	StartPage  int       `yaml:"start_page"`
	Lines      float64   `yaml:"lines"`
	JuzPortion float64   `yaml:"juz_portion"`
	VerseLines []float64 `yaml:"verse_lines,omitempty"`
}

var (
	_ domain.DatasetSource = Embedded{}
	_ domain.DatasetSource = File{}
)

// Embedded serves the dataset compiled into the binary.
type Embedded struct{}

func (Embedded) Load(_ context.Context) (domain.Dataset, error) {
	return Parse(embedded)
}

// File serves a dataset read from a YAML file on disk.
type File struct {
	Path string
}

func (f File) Load(_ context.Context) (domain.Dataset, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read dataset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (domain.Dataset, error) {
	var df datasetFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return domain.Dataset{}, fmt.Errorf("unmarshal yaml: %w", err)
	}

	ds := domain.Dataset{
		LinesPerPage: df.LinesPerPage,
		Pages:        df.Pages,
		Surahs:       make([]domain.SurahData, len(df.Surahs)),
	}
	for i, r := range df.Surahs {
		ds.Surahs[i] = domain.SurahData{
			Surah: domain.Surah{
				Number:     r.Number,
				Name:       r.Name,
				Ayahs:      r.Verses,
				Juz:        r.Juz,
				JuzPortion: r.JuzPortion,
				StartPage:  r.StartPage,
			},
			Lines:      r.Lines,
			VerseLines: r.VerseLines,
		}
	}

	return ds, nil
}

// Marshal encodes ds in the format Parse reads.
func Marshal(ds domain.Dataset) ([]byte, error) {
	df := datasetFile{
		LinesPerPage: ds.LinesPerPage,
		Pages:        ds.Pages,
		Surahs:       make([]surahRecord, len(ds.Surahs)),
	}
	for i, s := range ds.Surahs {
		df.Surahs[i] = surahRecord{
			Number:     s.Number,
			Name:       s.Name,
			Verses:     s.Ayahs,
			Juz:        s.Juz,
			StartPage:  s.StartPage,
			Lines:      s.Lines,
			JuzPortion: s.JuzPortion,
			VerseLines: s.VerseLines,
		}
	}
	return yaml.Marshal(df)
}
