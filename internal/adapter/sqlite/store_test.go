package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/escalopa/quran-progress/internal/adapter/dataset"
	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/escalopa/quran-progress/internal/domain/quran"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "quran.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	ds := domain.Dataset{
		LinesPerPage: 15,
		Pages:        2,
		Surahs: []domain.SurahData{
			{Surah: domain.Surah{Number: 1, Name: "S1", Ayahs: 3, Juz: 1, JuzPortion: 0.10, StartPage: 1}, VerseLines: []float64{2, 3, 1}},
			{Surah: domain.Surah{Number: 2, Name: "S2", Ayahs: 2, Juz: 1, JuzPortion: 0.05, StartPage: 2}, Lines: 6},
		},
	}
	require.NoError(t, store.Save(ctx, ds))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 15, loaded.LinesPerPage)
	assert.Equal(t, 2, loaded.Pages)
	require.Len(t, loaded.Surahs, 2)
	assert.Equal(t, ds.Surahs[0].Surah, loaded.Surahs[0].Surah)
	assert.Equal(t, []float64{2, 3, 1}, loaded.Surahs[0].VerseLines)
	assert.InDelta(t, 6.0, loaded.Surahs[0].Lines, 1e-9)
	assert.Equal(t, []float64{3, 3}, loaded.Surahs[1].VerseLines)

	e, err := quran.New(loaded)
	require.NoError(t, err)
	juz, err := e.JuzMemorized(domain.Forward, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.15, juz, 1e-9)
}

func TestStore_SaveReplacesPreviousDataset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	first := domain.Dataset{Surahs: []domain.SurahData{
		{Surah: domain.Surah{Number: 1, Name: "A", Ayahs: 1, Juz: 1, JuzPortion: 1}, Lines: 1},
		{Surah: domain.Surah{Number: 2, Name: "B", Ayahs: 1, Juz: 1, JuzPortion: 1}, Lines: 1},
	}}
	second := domain.Dataset{Surahs: []domain.SurahData{
		{Surah: domain.Surah{Number: 1, Name: "C", Ayahs: 2, Juz: 1, JuzPortion: 1}, Lines: 4},
	}}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Surahs, 1)
	assert.Equal(t, "C", loaded.Surahs[0].Name)
	assert.Equal(t, []float64{2, 2}, loaded.Surahs[0].VerseLines)
}

func TestStore_SaveRollsBackOnInvalidSurah(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	good := domain.Dataset{Surahs: []domain.SurahData{
		{Surah: domain.Surah{Number: 1, Name: "A", Ayahs: 1, Juz: 1, JuzPortion: 1}, Lines: 1},
	}}
	require.NoError(t, store.Save(ctx, good))

	bad := domain.Dataset{Surahs: []domain.SurahData{
		{Surah: domain.Surah{Number: 1, Name: "X", Ayahs: 2, Juz: 1, JuzPortion: 1}},
	}}
	err := store.Save(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Surahs, 1)
	assert.Equal(t, "A", loaded.Surahs[0].Name)
}

func TestStore_EmbeddedDatasetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	ds, err := dataset.Embedded{}.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, ds))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	e, err := quran.New(loaded)
	require.NoError(t, err)
	assert.Len(t, e.AllSurahs(), 114)

	juz, err := e.JuzMemorized(domain.Forward, 114, 6)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, juz, 0.01)
}

func TestStore_LoadReleasesConnectionOnBadMeta(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store := openStore(t)

	require.NoError(t, store.Save(ctx, domain.Dataset{LinesPerPage: 15, Pages: 1, Surahs: []domain.SurahData{
		{Surah: domain.Surah{Number: 1, Name: "A", Ayahs: 1, Juz: 1, JuzPortion: 1}, Lines: 1},
	}}))

	_, err := store.db.ExecContext(ctx, "UPDATE dataset_meta SET value = 'many' WHERE key = 'pages'")
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorContains(t, err, "scan meta")

	// The failed load must not keep the only connection busy.
	_, err = store.db.ExecContext(ctx, "UPDATE dataset_meta SET value = 3 WHERE key = 'pages'")
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Pages)
}
