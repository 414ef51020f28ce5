// Package httpapi exposes the Quran engine as a read-only JSON API.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/escalopa/quran-progress/internal/application"
	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	quran     domain.QuranPort
	validator *validator.Validate
}

func NewHandler(quran domain.QuranPort) *Handler {
	return &Handler{
		quran:     quran,
		validator: validator.New(),
	}
}

// Routes builds the chi router with all endpoints and middleware.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/surahs", h.ListSurahs)
		r.Get("/surahs/lookup", h.LookupSurah)
		r.Get("/surahs/{number}", h.GetSurah)
		r.Get("/surahs/{number}/lines", h.GetSurahLines)
		r.Get("/surahs/{number}/verses/{verse}/lines", h.GetVerseLines)
		r.Get("/lines", h.CountLines)
		r.Get("/next-position", h.NextPosition)
		r.Get("/juz-memorized", h.JuzMemorized)
		r.Get("/report", h.Report)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (h *Handler) ListSurahs(w http.ResponseWriter, r *http.Request) {
	surahs := h.quran.AllSurahs()
	resp := make([]SurahResponse, 0, len(surahs))
	for _, s := range surahs {
		lines, err := h.quran.SurahLines(s.Number)
		if err != nil {
			respondError(w, r, err)
			return
		}
		resp = append(resp, newSurahResponse(s, lines))
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) GetSurah(w http.ResponseWriter, r *http.Request) {
	number, err := pathInt(r, "number")
	if err != nil {
		respondError(w, r, err)
		return
	}

	s, ok := h.quran.SurahByNumber(number)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %d", domain.ErrSurahNotFound, number))
		return
	}
	h.writeSurah(w, r, s)
}

func (h *Handler) LookupSurah(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, r, fmt.Errorf("%w: name is required", domain.ErrInvalidInput))
		return
	}

	s, ok := h.quran.SurahByName(name)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %q", domain.ErrSurahNotFound, name))
		return
	}
	h.writeSurah(w, r, s)
}

func (h *Handler) writeSurah(w http.ResponseWriter, r *http.Request, s domain.Surah) {
	lines, err := h.quran.SurahLines(s.Number)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newSurahResponse(s, lines))
}

func (h *Handler) GetSurahLines(w http.ResponseWriter, r *http.Request) {
	number, err := pathInt(r, "number")
	if err != nil {
		respondError(w, r, err)
		return
	}

	lines, err := h.quran.SurahLines(number)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, SurahLinesResponse{Surah: number, Lines: lines})
}

func (h *Handler) GetVerseLines(w http.ResponseWriter, r *http.Request) {
	number, err := pathInt(r, "number")
	if err != nil {
		respondError(w, r, err)
		return
	}
	verse, err := pathInt(r, "verse")
	if err != nil {
		respondError(w, r, err)
		return
	}

	lines, err := h.quran.VerseLines(number, verse)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, VerseLinesResponse{Surah: number, Verse: verse, Lines: lines})
}

// CountLines sums the lines of an ayah range selected by surah number or name
func (h *Handler) CountLines(w http.ResponseWriter, r *http.Request) {
	var q linesQuery
	var err error
	if q.Surah, err = queryInt(r, "surah"); err != nil {
		respondError(w, r, err)
		return
	}
	if q.From, err = queryInt(r, "from"); err != nil {
		respondError(w, r, err)
		return
	}
	if q.To, err = queryInt(r, "to"); err != nil {
		respondError(w, r, err)
		return
	}
	q.Name = strings.TrimSpace(r.URL.Query().Get("name"))

	if err := h.validate(q); err != nil {
		respondError(w, r, err)
		return
	}

	var surah domain.Surah
	var ok bool
	if q.Surah != 0 {
		surah, ok = h.quran.SurahByNumber(q.Surah)
	} else {
		surah, ok = h.quran.SurahByName(q.Name)
	}
	if !ok {
		respondError(w, r, fmt.Errorf("%w: surah=%d name=%q", domain.ErrSurahNotFound, q.Surah, q.Name))
		return
	}

	lines, err := h.quran.CalculateLinesBySurahName(surah.Name, q.From, q.To)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, RangeLinesResponse{
		Surah: surah.Number,
		Name:  surah.Name,
		From:  q.From,
		To:    q.To,
		Lines: lines,
	})
}

func (h *Handler) NextPosition(w http.ResponseWriter, r *http.Request) {
	dir, q, err := h.parsePosition(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	next, err := h.quran.NextPosition(dir, q.Surah, q.Verse)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, next)
}

func (h *Handler) JuzMemorized(w http.ResponseWriter, r *http.Request) {
	dir, q, err := h.parsePosition(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	juz, err := h.quran.JuzMemorized(dir, q.Surah, q.Verse)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, JuzResponse{Direction: dir, Surah: q.Surah, Verse: q.Verse, Juz: juz})
}

// Report returns the full progress report for a unit ending at a verse
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	dir, q, err := h.parsePosition(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := application.BuildReport(h.quran, dir, q.Surah, q.Verse)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, report)
}

func (h *Handler) parsePosition(r *http.Request) (domain.Direction, positionQuery, error) {
	var q positionQuery
	var err error

	q.Direction = strings.TrimSpace(r.URL.Query().Get("direction"))
	if q.Surah, err = queryInt(r, "surah"); err != nil {
		return "", q, err
	}
	if q.Verse, err = queryInt(r, "verse"); err != nil {
		return "", q, err
	}

	if err := h.validate(q); err != nil {
		return "", q, err
	}

	dir, err := domain.ParseDirection(strings.ToLower(q.Direction))
	if err != nil {
		return "", q, err
	}
	return dir, q, nil
}

// validate runs the struct validator and reports failures as invalid input
func (h *Handler) validate(v any) error {
	err := h.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

// queryInt parses an optional integer query parameter. Absent means zero.
func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, key, raw)
	}
	return n, nil
}

func pathInt(r *http.Request, key string) (int, error) {
	raw := chi.URLParam(r, key)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, key, raw)
	}
	return n, nil
}
