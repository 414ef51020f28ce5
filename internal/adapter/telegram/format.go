package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/escalopa/quran-progress/internal/domain"
)

const (
	surahsPerPage = 10
	maxAyahDigits = 3
)

// parseCallback splits callback data of the form "action:arg"
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// parseLinesArgs parses "<surah> <from> <to>" where the surah may span
// several words
func parseLinesArgs(args string) (query string, from, to int, err error) {
	fields := strings.Fields(args)
	n := len(fields)
	if n < 3 {
		return "", 0, 0, fmt.Errorf("%w: expected <surah> <from> <to>", domain.ErrInvalidInput)
	}

	if from, err = strconv.Atoi(fields[n-2]); err != nil {
		return "", 0, 0, fmt.Errorf("%w: from ayah %q", domain.ErrInvalidInput, fields[n-2])
	}
	if to, err = strconv.Atoi(fields[n-1]); err != nil {
		return "", 0, 0, fmt.Errorf("%w: to ayah %q", domain.ErrInvalidInput, fields[n-1])
	}

	return strings.Join(fields[:n-2], " "), from, to, nil
}

func parseLanguage(s string) (domain.Language, bool) {
	switch domain.Language(s) {
	case domain.LangEnglish:
		return domain.LangEnglish, true
	case domain.LangArabic:
		return domain.LangArabic, true
	}
	return "", false
}

// surahPage clamps page and returns the [start, end) slice bounds of it
func surahPage(total, page int) (start, end, clamped, pages int) {
	pages = (total + surahsPerPage - 1) / surahsPerPage
	if pages == 0 {
		return 0, 0, 0, 0
	}

	clamped = min(max(page, 0), pages-1)
	start = clamped * surahsPerPage
	end = min(start+surahsPerPage, total)
	return start, end, clamped, pages
}

func appendDigit(input, digit string) string {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return input
	}
	if len(input) >= maxAyahDigits || (input == "" && digit == "0") {
		return input
	}
	return input + digit
}

func dropDigit(input string) string {
	if input == "" {
		return input
	}
	return input[:len(input)-1]
}

// errorKey maps an error to the message shown to the user
func errorKey(err error) string {
	switch {
	case errors.Is(err, domain.ErrVerseOutOfRange):
		return "error.invalid_ayah"
	case errors.Is(err, domain.ErrSurahNotFound):
		return "error.surah_not_found"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownDirection):
		return "error.invalid_input"
	default:
		return "error.generic"
	}
}

func formatReport(tr domain.I18nPort, lang domain.Language, r *domain.ProgressReport) string {
	name := tr.GetSurahName(lang, r.End.Surah)
	if r.EndOfQuran {
		return tr.Get(lang, "report.end_of_quran",
			name, r.End.Ayah, r.LinesCovered, r.SurahLines, r.JuzMemorized)
	}

	return tr.Get(lang, "report.message",
		name, r.End.Ayah, r.LinesCovered, r.SurahLines, r.JuzMemorized,
		tr.GetSurahName(lang, r.Next.Surah), r.Next.Ayah)
}

func formatSurahInfo(tr domain.I18nPort, lang domain.Language, s domain.Surah, lines float64) string {
	return tr.Get(lang, "surah.info",
		s.Number, tr.GetSurahName(lang, s.Number), s.Name,
		s.Ayahs, s.Juz, s.StartPage, lines, s.JuzPortion)
}

// ayahPrompt is the keypad message text with the digits typed so far
func ayahPrompt(tr domain.I18nPort, lang domain.Language, s domain.Surah, input, warning string) string {
	text := tr.Get(lang, "ayah.select", tr.GetSurahName(lang, s.Number), s.Ayahs)
	if input != "" {
		text += "\n\n📝 " + input
	}
	if warning != "" {
		text += "\n\n⚠️ " + warning
	}
	return text
}
