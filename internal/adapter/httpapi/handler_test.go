package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/escalopa/quran-progress/internal/domain/quran"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, opts ...quran.Option) http.Handler {
	t.Helper()
	engine, err := quran.New(domain.Dataset{Surahs: []domain.SurahData{
		{Surah: domain.Surah{Number: 1, Name: "S1", Ayahs: 3, Juz: 1, JuzPortion: 0.10, StartPage: 1}, VerseLines: []float64{2, 3, 1}},
		{Surah: domain.Surah{Number: 2, Name: "S2", Ayahs: 2, Juz: 1, JuzPortion: 0.05, StartPage: 2}, VerseLines: []float64{4, 2}},
		{Surah: domain.Surah{Number: 3, Name: "S3", Ayahs: 4, Juz: 2, JuzPortion: 0.20, StartPage: 3}, VerseLines: []float64{1, 1, 1, 1}},
	}}, opts...)
	require.NoError(t, err)
	return NewHandler(engine).Routes()
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListSurahs(t *testing.T) {
	t.Parallel()
	rec := get(t, newTestRouter(t), "/api/surahs")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	surahs := decode[[]SurahResponse](t, rec)
	require.Len(t, surahs, 3)
	assert.Equal(t, "S1", surahs[0].Name)
	assert.InDelta(t, 6.0, surahs[0].Lines, 1e-9)
	assert.InDelta(t, 0.20, surahs[2].JuzPortion, 1e-9)
}

func TestGetSurah(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := get(t, router, "/api/surahs/2")
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[SurahResponse](t, rec)
	assert.Equal(t, "S2", s.Name)
	assert.Equal(t, 2, s.Ayahs)
	assert.Equal(t, 2, s.StartPage)

	rec = get(t, router, "/api/surahs/lookup?name=S3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[SurahResponse](t, rec).Number)
}

func TestSurahLines(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := get(t, router, "/api/surahs/3/lines")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 4.0, decode[SurahLinesResponse](t, rec).Lines, 1e-9)

	rec = get(t, router, "/api/surahs/1/verses/2/lines")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, VerseLinesResponse{Surah: 1, Verse: 2, Lines: 3}, decode[VerseLinesResponse](t, rec))
}

func TestCountLines(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	testCases := []struct {
		name   string
		target string
		surah  int
		lines  float64
	}{
		{name: "by number", target: "/api/lines?surah=1&from=2&to=3", surah: 1, lines: 4},
		{name: "by name", target: "/api/lines?name=S2&from=1&to=2", surah: 2, lines: 6},
		{name: "single verse", target: "/api/lines?surah=3&from=4&to=4", surah: 3, lines: 1},
		{name: "inverted range", target: "/api/lines?surah=1&from=3&to=1", surah: 1, lines: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, router, tc.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decode[RangeLinesResponse](t, rec)
			assert.Equal(t, tc.surah, resp.Surah)
			assert.InDelta(t, tc.lines, resp.Lines, 1e-9)
		})
	}
}

func TestPositionEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := get(t, router, "/api/next-position?direction=forward&surah=1&verse=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Position{Surah: 2, Ayah: 1}, decode[domain.Position](t, rec))

	rec = get(t, router, "/api/next-position?direction=backward&surah=1&verse=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Position{Surah: 3, Ayah: 4}, decode[domain.Position](t, rec), "wraps to the last verse")

	rec = get(t, router, "/api/juz-memorized?direction=forward&surah=2&verse=2")
	require.Equal(t, http.StatusOK, rec.Code)
	juz := decode[JuzResponse](t, rec)
	assert.Equal(t, domain.Forward, juz.Direction)
	assert.InDelta(t, 0.15, juz.Juz, 1e-9)

	rec = get(t, router, "/api/report?direction=backward&surah=2&verse=1")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[domain.ProgressReport](t, rec)
	assert.InDelta(t, 6.0, report.LinesCovered, 1e-9)
	assert.InDelta(t, 0.25, report.JuzMemorized, 1e-9)
	assert.Equal(t, domain.Position{Surah: 1, Ayah: 3}, report.Next)
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	terminal := newTestRouter(t, quran.WithBoundary(quran.Terminal))

	testCases := []struct {
		name   string
		router http.Handler
		target string
		status int
	}{
		{name: "unknown surah", router: router, target: "/api/surahs/9", status: http.StatusNotFound},
		{name: "unknown surah name", router: router, target: "/api/surahs/lookup?name=nope", status: http.StatusNotFound},
		{name: "missing name", router: router, target: "/api/surahs/lookup", status: http.StatusBadRequest},
		{name: "non numeric surah", router: router, target: "/api/surahs/abc", status: http.StatusBadRequest},
		{name: "verse out of range", router: router, target: "/api/surahs/1/verses/4/lines", status: http.StatusBadRequest},
		{name: "lines without surah", router: router, target: "/api/lines?from=1&to=2", status: http.StatusBadRequest},
		{name: "lines with bad bound", router: router, target: "/api/lines?surah=1&from=1&to=x", status: http.StatusBadRequest},
		{name: "lines past the end", router: router, target: "/api/lines?surah=1&from=1&to=9", status: http.StatusBadRequest},
		{name: "unknown direction", router: router, target: "/api/next-position?direction=sideways&surah=1&verse=1", status: http.StatusBadRequest},
		{name: "missing verse", router: router, target: "/api/juz-memorized?direction=forward&surah=1", status: http.StatusBadRequest},
		{name: "end of quran", router: terminal, target: "/api/next-position?direction=forward&surah=3&verse=4", status: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, tc.router, tc.target)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			body := decode[ErrorResponse](t, rec)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestReportEndOfQuran(t *testing.T) {
	t.Parallel()
	rec := get(t, newTestRouter(t, quran.WithBoundary(quran.Terminal)), "/api/report?direction=forward&surah=3&verse=4")

	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[domain.ProgressReport](t, rec)
	assert.True(t, report.EndOfQuran)
	assert.InDelta(t, 0.35, report.JuzMemorized, 1e-9)
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := get(t, router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader), "a valid client id is kept")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestStatusFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrEndOfQuran))
}
