package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/escalopa/quran-progress/internal/domain"
	"gopkg.in/yaml.v3"
)

// Languages lists the locales shipped in the locales directory.
var Languages = []domain.Language{domain.LangEnglish, domain.LangArabic}

type I18n struct {
	fallback     domain.Language
	translations map[domain.Language]map[string]string
	surahs       map[domain.Language][]string
}

var _ domain.I18nPort = (*I18n)(nil)

type translationFile struct {
	Messages map[string]string `yaml:"messages"`
	Surahs   []string          `yaml:"surahs"`
}

// NewI18n loads <localesDir>/<lang>.yaml for every supported language.
// Missing keys fall back to the fallback language.
func NewI18n(localesDir string, fallback domain.Language) (*I18n, error) {
	i18n := &I18n{
		fallback:     fallback,
		translations: make(map[domain.Language]map[string]string),
		surahs:       make(map[domain.Language][]string),
	}

	for _, lang := range Languages {
		filename := filepath.Join(localesDir, string(lang)+".yaml")
		if err := i18n.loadTranslations(lang, filename); err != nil {
			return nil, fmt.Errorf("load %s translations: %w", lang, err)
		}
	}

	if _, ok := i18n.translations[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q is not supported", fallback)
	}

	return i18n, nil
}

func (i *I18n) loadTranslations(lang domain.Language, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var tf translationFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}

	i.translations[lang] = tf.Messages
	i.surahs[lang] = tf.Surahs

	return nil
}

// Supported reports whether lang has a loaded catalog.
func (i *I18n) Supported(lang domain.Language) bool {
	_, ok := i.translations[lang]
	return ok
}

// Get retrieves a translated message
func (i *I18n) Get(lang domain.Language, key string, args ...interface{}) string {
	msg, ok := i.translations[lang][key]
	if !ok {
		msg, ok = i.translations[i.fallback][key]
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	return msg
}

// GetSurahName retrieves the localized name of a Surah
func (i *I18n) GetSurahName(lang domain.Language, surahNumber int) string {
	surahs, ok := i.surahs[lang]
	if !ok || surahNumber < 1 || surahNumber > len(surahs) {
		surahs = i.surahs[i.fallback]
	}

	if surahNumber < 1 || surahNumber > len(surahs) {
		return fmt.Sprintf("Surah %d", surahNumber)
	}

	return strings.TrimSpace(surahs[surahNumber-1])
}
