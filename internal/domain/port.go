package domain

import "context"

// DatasetSource supplies the catalog the engine is built from
type DatasetSource interface {
	Load(ctx context.Context) (Dataset, error)
}

// QuranPort is the read-only query surface of the Quran engine
type QuranPort interface {
	SurahByNumber(n int) (Surah, bool)
	SurahByName(name string) (Surah, bool)
	AllSurahs() []Surah
	SurahNumber(name string) (int, bool)
	VerseLines(surah, ayah int) (float64, error)
	CalculateLines(surah, from, to int) (float64, error)
	CalculateLinesBySurahName(name string, from, to int) (float64, error)
	SurahLines(surah int) (float64, error)
	NextPosition(dir Direction, surah, toAyah int) (Position, error)
	JuzMemorized(dir Direction, surah, ayah int) (float64, error)
}

// FSMPort defines the interface for finite state machine storage
type FSMPort interface {
	// SetState sets the current state for a user
	SetState(ctx context.Context, userID string, state State) error

	// GetState gets the current state for a user
	GetState(ctx context.Context, userID string) (State, error)

	// DeleteState deletes the state for a user
	DeleteState(ctx context.Context, userID string) error

	// SetData sets temporary data for a user's current session
	SetData(ctx context.Context, userID, key, value string) error

	// GetData gets temporary data for a user's current session
	GetData(ctx context.Context, userID, key string) (string, error)

	// DeleteData deletes temporary data for a user
	DeleteData(ctx context.Context, userID, key string) error
}

// I18nPort defines the interface for internationalization
type I18nPort interface {
	// Get retrieves a translated message
	Get(lang Language, key string, args ...interface{}) string

	// GetSurahName retrieves the localized name of a Surah
	GetSurahName(lang Language, surahNumber int) string
}

// BotPort defines the interface for the bot adapter
type BotPort interface {
	// Start starts the bot
	Start(ctx context.Context) error

	// Stop stops the bot
	Stop() error
}

// State represents the FSM states
type State string

const (
	StateStart           State = "start"
	StateSelectDirection State = "select_direction"
	StateSelectSurah     State = "select_surah"
	StateEnterAyah       State = "enter_ayah"
)

// SessionData keys
const (
	SessionKeyDirection = "direction"
	SessionKeySurah     = "surah"
	SessionKeyAyahInput = "ayah_input" // Accumulated digit input for ayah number
	SessionKeyLanguage  = "language"
)
