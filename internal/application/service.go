package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/escalopa/quran-progress/internal/domain"
)

// ProgressService handles the business logic behind the progress front-ends
type ProgressService struct {
	quran domain.QuranPort
	fsm   domain.FSMPort
}

func NewProgressService(quran domain.QuranPort, fsm domain.FSMPort) *ProgressService {
	return &ProgressService{
		quran: quran,
		fsm:   fsm,
	}
}

// HandleStart resets the conversation and stores the user's language
func (s *ProgressService) HandleStart(ctx context.Context, userID string, lang domain.Language) error {
	if err := s.fsm.SetState(ctx, userID, domain.StateSelectDirection); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("set language: %w", err)
	}

	return nil
}

// GetCurrentState returns the current state for a user
func (s *ProgressService) GetCurrentState(ctx context.Context, userID string) (domain.State, error) {
	return s.fsm.GetState(ctx, userID)
}

// HandleDirectionSelection stores the memorization direction
func (s *ProgressService) HandleDirectionSelection(ctx context.Context, userID string, dir domain.Direction) error {
	if _, err := domain.ParseDirection(string(dir)); err != nil {
		return err
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyDirection, string(dir)); err != nil {
		return fmt.Errorf("set direction: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateSelectSurah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}

// HandleSurahSelection handles when a user selects a Surah
func (s *ProgressService) HandleSurahSelection(ctx context.Context, userID string, surahNumber int) error {
	if _, ok := s.quran.SurahByNumber(surahNumber); !ok {
		return fmt.Errorf("%w: %d", domain.ErrSurahNotFound, surahNumber)
	}

	if err := s.fsm.SetData(ctx, userID, domain.SessionKeySurah, strconv.Itoa(surahNumber)); err != nil {
		return fmt.Errorf("set surah: %w", err)
	}

	if err := s.fsm.SetState(ctx, userID, domain.StateEnterAyah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}

// HandleAyahInput takes the last memorized ayah of the selected surah and
// returns the progress report for it
func (s *ProgressService) HandleAyahInput(ctx context.Context, userID, input string) (*domain.ProgressReport, error) {
	ayahNumber, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return nil, fmt.Errorf("%w: ayah %q", domain.ErrInvalidInput, input)
	}

	dir, err := s.GetSelectedDirection(ctx, userID)
	if err != nil {
		return nil, err
	}

	surahNumber, err := s.GetSelectedSurah(ctx, userID)
	if err != nil {
		return nil, err
	}

	report, err := s.BuildReport(dir, surahNumber, ayahNumber)
	if err != nil {
		return nil, err
	}

	// Keep the direction so the next unit only needs surah and ayah
	if err := s.fsm.SetState(ctx, userID, domain.StateSelectSurah); err != nil {
		return nil, fmt.Errorf("reset state: %w", err)
	}

	return report, nil
}

// BuildReport computes the progress report for a unit that ended at
// (surahNumber, ayahNumber)
func (s *ProgressService) BuildReport(dir domain.Direction, surahNumber, ayahNumber int) (*domain.ProgressReport, error) {
	return BuildReport(s.quran, dir, surahNumber, ayahNumber)
}

// BuildReport assembles a progress report from the engine queries. Lines
// covered count from the surah start going forward and to the surah end going
// backward. A terminal boundary marks the report as the end of the Quran
// instead of failing.
func BuildReport(q domain.QuranPort, dir domain.Direction, surahNumber, ayahNumber int) (*domain.ProgressReport, error) {
	if _, err := domain.ParseDirection(string(dir)); err != nil {
		return nil, err
	}

	surah, ok := q.SurahByNumber(surahNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrSurahNotFound, surahNumber)
	}

	from, to := 1, ayahNumber
	if dir == domain.Backward {
		from, to = ayahNumber, surah.Ayahs
	}

	covered, err := q.CalculateLines(surahNumber, from, to)
	if err != nil {
		return nil, fmt.Errorf("lines covered: %w", err)
	}

	total, err := q.SurahLines(surahNumber)
	if err != nil {
		return nil, fmt.Errorf("surah lines: %w", err)
	}

	juz, err := q.JuzMemorized(dir, surahNumber, ayahNumber)
	if err != nil {
		return nil, fmt.Errorf("juz memorized: %w", err)
	}

	report := &domain.ProgressReport{
		Direction:    dir,
		End:          domain.Position{Surah: surahNumber, Ayah: ayahNumber},
		SurahName:    surah.Name,
		LinesCovered: covered,
		SurahLines:   total,
		JuzMemorized: juz,
	}

	next, err := q.NextPosition(dir, surahNumber, ayahNumber)
	switch {
	case errors.Is(err, domain.ErrEndOfQuran):
		report.EndOfQuran = true
	case err != nil:
		return nil, fmt.Errorf("next position: %w", err)
	default:
		report.Next = next
	}

	return report, nil
}

// CountLines counts the printed lines of an ayah range of a surah given by name
func (s *ProgressService) CountLines(name string, from, to int) (float64, error) {
	return s.quran.CalculateLinesBySurahName(name, from, to)
}

// FindSurah looks a surah up by number or by exact name
func (s *ProgressService) FindSurah(query string) (domain.Surah, bool) {
	query = strings.TrimSpace(query)
	if n, err := strconv.Atoi(query); err == nil {
		return s.quran.SurahByNumber(n)
	}
	return s.quran.SurahByName(query)
}

// SurahLines returns the total printed lines of a surah
func (s *ProgressService) SurahLines(surahNumber int) (float64, error) {
	return s.quran.SurahLines(surahNumber)
}

// GetUserLanguage retrieves the user's preferred language
func (s *ProgressService) GetUserLanguage(ctx context.Context, userID string) domain.Language {
	langStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeyLanguage)
	if err != nil || langStr == "" {
		return domain.LangEnglish // default
	}
	return domain.Language(langStr)
}

// GetSelectedDirection returns the direction chosen by a user
func (s *ProgressService) GetSelectedDirection(ctx context.Context, userID string) (domain.Direction, error) {
	dirStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeyDirection)
	if err != nil {
		return "", fmt.Errorf("get direction: %w", err)
	}

	return domain.ParseDirection(dirStr)
}

// GetSelectedSurah returns the currently selected surah for a user
func (s *ProgressService) GetSelectedSurah(ctx context.Context, userID string) (int, error) {
	surahStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeySurah)
	if err != nil {
		return 0, fmt.Errorf("get surah: %w", err)
	}

	n, err := strconv.Atoi(surahStr)
	if err != nil {
		return 0, fmt.Errorf("parse surah: %w", err)
	}
	return n, nil
}

// GetAllSurahs returns all surahs
func (s *ProgressService) GetAllSurahs() []domain.Surah {
	return s.quran.AllSurahs()
}

// GetSurah returns a single surah
func (s *ProgressService) GetSurah(surahNumber int) (domain.Surah, bool) {
	return s.quran.SurahByNumber(surahNumber)
}

// GetAyahInput gets the accumulated ayah input for a user
func (s *ProgressService) GetAyahInput(ctx context.Context, userID string) string {
	input, err := s.fsm.GetData(ctx, userID, domain.SessionKeyAyahInput)
	if err != nil {
		return ""
	}
	return input
}

// SetAyahInput sets the accumulated ayah input for a user
func (s *ProgressService) SetAyahInput(ctx context.Context, userID, input string) error {
	return s.fsm.SetData(ctx, userID, domain.SessionKeyAyahInput, input)
}

// ClearAyahInput clears the accumulated ayah input for a user
func (s *ProgressService) ClearAyahInput(ctx context.Context, userID string) error {
	return s.fsm.DeleteData(ctx, userID, domain.SessionKeyAyahInput)
}
