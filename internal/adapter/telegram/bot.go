package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/escalopa/quran-progress/internal/application"
	"github.com/escalopa/quran-progress/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	service  *application.ProgressService
	i18n     domain.I18nPort
	commands map[string]CommandHandler
	locks    *userLocks
	cancel   context.CancelFunc
}

var _ domain.BotPort = (*Bot)(nil)

func NewBot(token string, service *application.ProgressService, i18n domain.I18nPort) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := &Bot{
		api:      api,
		service:  service,
		i18n:     i18n,
		commands: make(map[string]CommandHandler),
		locks:    newUserLocks(),
	}

	bot.registerCommands()

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	log.Info().Str("account", b.api.Self.UserName).Msg("bot authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	userID := b.getUserID(update)
	if userID == "" {
		return
	}

	// Updates of one user never run concurrently.
	unlock := b.locks.lock(userID)
	defer unlock()

	lang := b.service.GetUserLanguage(ctx, userID)

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message, lang)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery, lang)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message, lang)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	handler, exists := b.commands[msg.Command()]
	if !exists {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.unknown_command"))
		return
	}

	handler(ctx, msg, lang)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, lang domain.Language) {
	if callback.Message == nil {
		return
	}

	userID := strconv.FormatInt(callback.From.ID, 10)
	msg := callback.Message

	// Remove the loading state on the button
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Debug().Err(err).Msg("answer callback")
	}

	action, arg := parseCallback(callback.Data)
	switch action {
	case "lang":
		newLang, ok := parseLanguage(arg)
		if !ok {
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
			return
		}
		if err := b.service.HandleStart(ctx, userID, newLang); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("set language")
			return
		}
		b.editMessage(msg, b.i18n.Get(newLang, "language.changed"))
		b.sendDirectionSelection(msg.Chat.ID, newLang)

	case "dir":
		dir, err := domain.ParseDirection(arg)
		if err == nil {
			err = b.service.HandleDirectionSelection(ctx, userID, dir)
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("select direction")
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, errorKey(err)))
			return
		}
		b.editMessageWithKeyboard(msg, b.i18n.Get(lang, "surah.select"), b.getSurahKeyboard(lang, 0))

	case "spage":
		page, _ := strconv.Atoi(arg)
		b.editMessageWithKeyboard(msg, b.i18n.Get(lang, "surah.select"), b.getSurahKeyboard(lang, page))

	case "surah":
		b.handleSurahSelected(ctx, callback, userID, lang, arg)

	case "digit":
		b.updateAyahInput(ctx, msg, userID, lang, func(input string) string { return appendDigit(input, arg) })

	case "clear":
		b.updateAyahInput(ctx, msg, userID, lang, dropDigit)

	case "done":
		b.handleAyahDone(ctx, msg, userID, lang)

	case "newunit":
		b.sendSurahSelection(msg.Chat.ID, lang, 0)

	case "newprogress":
		if err := b.service.HandleStart(ctx, userID, lang); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("restart progress")
			return
		}
		b.sendDirectionSelection(msg.Chat.ID, lang)

	case "noop":
		// page indicator button

	default:
		log.Warn().Str("data", callback.Data).Msg("unknown callback")
	}
}

func (b *Bot) handleSurahSelected(ctx context.Context, callback *tgbotapi.CallbackQuery, userID string, lang domain.Language, arg string) {
	surahNum, err := strconv.Atoi(arg)
	if err != nil {
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
		return
	}

	if err := b.service.HandleSurahSelection(ctx, userID, surahNum); err != nil {
		log.Error().Err(err).Str("user_id", userID).Int("surah", surahNum).Msg("select surah")
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, errorKey(err)))
		return
	}

	surah, _ := b.service.GetSurah(surahNum)

	if err := b.service.ClearAyahInput(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("clear ayah input")
	}

	b.editMessageWithKeyboard(callback.Message, ayahPrompt(b.i18n, lang, surah, "", ""), b.getAyahKeyboard(lang))
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	state, err := b.service.GetCurrentState(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("get state")
		b.sendMessage(chatID, b.i18n.Get(lang, "error.generic"))
		return
	}

	if state != domain.StateEnterAyah {
		b.sendMessage(chatID, b.i18n.Get(lang, "help.message"))
		return
	}

	report, err := b.service.HandleAyahInput(ctx, userID, msg.Text)
	if err != nil {
		b.sendMessage(chatID, b.i18n.Get(lang, errorKey(err)))
		return
	}

	b.sendReport(chatID, lang, report)
}

// updateAyahInput applies edit to the typed ayah digits and redraws the keypad
func (b *Bot) updateAyahInput(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, edit func(string) string) {
	input := edit(b.service.GetAyahInput(ctx, userID))
	if err := b.service.SetAyahInput(ctx, userID, input); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("set ayah input")
		return
	}

	surah, ok := b.selectedSurah(ctx, userID)
	if !ok {
		return
	}

	b.editMessageWithKeyboard(msg, ayahPrompt(b.i18n, lang, surah, input, ""), b.getAyahKeyboard(lang))
}

func (b *Bot) handleAyahDone(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	input := b.service.GetAyahInput(ctx, userID)

	surah, ok := b.selectedSurah(ctx, userID)
	if !ok {
		return
	}

	if input == "" {
		warning := b.i18n.Get(lang, "error.invalid_ayah")
		b.editMessageWithKeyboard(msg, ayahPrompt(b.i18n, lang, surah, "", warning), b.getAyahKeyboard(lang))
		return
	}

	report, err := b.service.HandleAyahInput(ctx, userID, input)
	if err != nil {
		log.Debug().Err(err).Str("user_id", userID).Str("input", input).Msg("ayah input rejected")
		warning := b.i18n.Get(lang, errorKey(err))
		b.editMessageWithKeyboard(msg, ayahPrompt(b.i18n, lang, surah, input, warning), b.getAyahKeyboard(lang))
		return
	}

	if err := b.service.ClearAyahInput(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("clear ayah input")
	}

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		log.Debug().Err(err).Msg("delete keypad message")
	}

	b.sendReport(msg.Chat.ID, lang, report)
}

func (b *Bot) selectedSurah(ctx context.Context, userID string) (domain.Surah, bool) {
	surahNum, err := b.service.GetSelectedSurah(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("get selected surah")
		return domain.Surah{}, false
	}
	return b.service.GetSurah(surahNum)
}

// resolveSurah finds a surah by number, catalog name or any localized name
func (b *Bot) resolveSurah(query string) (domain.Surah, bool) {
	if s, ok := b.service.FindSurah(query); ok {
		return s, true
	}

	query = strings.TrimSpace(query)
	for _, s := range b.service.GetAllSurahs() {
		for _, lang := range []domain.Language{domain.LangEnglish, domain.LangArabic} {
			if strings.EqualFold(b.i18n.GetSurahName(lang, s.Number), query) {
				return s, true
			}
		}
	}
	return domain.Surah{}, false
}

func (b *Bot) sendReport(chatID int64, lang domain.Language, report *domain.ProgressReport) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 "+b.i18n.Get(lang, "report.again"), "newunit"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, formatReport(b.i18n, lang, report))
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Error().Err(err).Msg("send message")
	}
}

func (b *Bot) sendLanguageSelection(chatID int64, currentLang domain.Language) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:en"),
			tgbotapi.NewInlineKeyboardButtonData("🇸🇦 العربية", "lang:ar"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, b.i18n.Get(currentLang, "language.select"))
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) sendDirectionSelection(chatID int64, lang domain.Language) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "direction.forward"), "dir:"+string(domain.Forward)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "direction.backward"), "dir:"+string(domain.Backward)),
		),
	)

	msg := tgbotapi.NewMessage(chatID, b.i18n.Get(lang, "direction.select"))
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) sendSurahSelection(chatID int64, lang domain.Language, page int) {
	msg := tgbotapi.NewMessage(chatID, b.i18n.Get(lang, "surah.select"))
	msg.ReplyMarkup = b.getSurahKeyboard(lang, page)
	b.send(msg)
}

func (b *Bot) getSurahKeyboard(lang domain.Language, page int) tgbotapi.InlineKeyboardMarkup {
	surahs := b.service.GetAllSurahs()
	start, end, page, totalPages := surahPage(len(surahs), page)

	var rows [][]tgbotapi.InlineKeyboardButton

	// Two surahs per row
	for i := start; i < end; i += 2 {
		row := []tgbotapi.InlineKeyboardButton{b.surahButton(lang, surahs[i])}
		if i+1 < end {
			row = append(row, b.surahButton(lang, surahs[i+1]))
		}
		rows = append(rows, row)
	}

	if totalPages > 1 {
		var navRow []tgbotapi.InlineKeyboardButton
		if page > 0 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⬅️ "+b.i18n.Get(lang, "nav.prev"), fmt.Sprintf("spage:%d", page-1)))
		}
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), "noop"))
		if page < totalPages-1 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(b.i18n.Get(lang, "nav.next")+" ➡️", fmt.Sprintf("spage:%d", page+1)))
		}
		rows = append(rows, navRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) surahButton(lang domain.Language, s domain.Surah) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d. %s", s.Number, b.i18n.GetSurahName(lang, s.Number)),
		fmt.Sprintf("surah:%d", s.Number),
	)
}

// getAyahKeyboard is a telephone-style keypad
func (b *Bot) getAyahKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1", "digit:1"),
			tgbotapi.NewInlineKeyboardButtonData("2", "digit:2"),
			tgbotapi.NewInlineKeyboardButtonData("3", "digit:3"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("4", "digit:4"),
			tgbotapi.NewInlineKeyboardButtonData("5", "digit:5"),
			tgbotapi.NewInlineKeyboardButtonData("6", "digit:6"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("7", "digit:7"),
			tgbotapi.NewInlineKeyboardButtonData("8", "digit:8"),
			tgbotapi.NewInlineKeyboardButtonData("9", "digit:9"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ "+b.i18n.Get(lang, "nav.back"), "clear"),
			tgbotapi.NewInlineKeyboardButtonData("0", "digit:0"),
			tgbotapi.NewInlineKeyboardButtonData("✅ "+b.i18n.Get(lang, "nav.done"), "done"),
		),
	)
}

func (b *Bot) editMessage(msg *tgbotapi.Message, text string) {
	b.send(tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text))
}

func (b *Bot) editMessageWithKeyboard(msg *tgbotapi.Message, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	edit.ReplyMarkup = &keyboard
	b.send(edit)
}

func (b *Bot) answerCallbackAlert(callbackID, text string) {
	callback := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Error().Err(err).Msg("answer callback")
	}
}

func (b *Bot) getUserID(update tgbotapi.Update) string {
	if update.Message != nil && update.Message.From != nil {
		return strconv.FormatInt(update.Message.From.ID, 10)
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return strconv.FormatInt(update.CallbackQuery.From.ID, 10)
	}
	return ""
}
