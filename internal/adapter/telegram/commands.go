package telegram

import (
	"context"
	"strconv"

	"github.com/escalopa/quran-progress/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

type CommandHandler func(ctx context.Context, msg *tgbotapi.Message, lang domain.Language)

// registerCommands registers all bot commands
func (b *Bot) registerCommands() {
	b.commands = map[string]CommandHandler{
		"start":    b.commandStart,
		"help":     b.commandHelp,
		"language": b.commandLanguage,
		"progress": b.commandProgress,
		"lines":    b.commandLines,
		"surah":    b.commandSurah,
	}

	// Set bot commands for Telegram UI
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "progress", Description: "Record where a memorization unit ended"},
		{Command: "lines", Description: "Count the lines of an ayah range"},
		{Command: "surah", Description: "Show surah details"},
		{Command: "language", Description: "Change language"},
		{Command: "help", Description: "Show help"},
	}

	cmdConfig := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cmdConfig); err != nil {
		log.Error().Err(err).Msg("set bot commands")
	}
}

func (b *Bot) commandStart(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("handle start")
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "welcome.message"))
	b.sendDirectionSelection(msg.Chat.ID, lang)
}

func (b *Bot) commandHelp(_ context.Context, msg *tgbotapi.Message, lang domain.Language) {
	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "help.message"))
}

func (b *Bot) commandLanguage(_ context.Context, msg *tgbotapi.Message, lang domain.Language) {
	b.sendLanguageSelection(msg.Chat.ID, lang)
}

func (b *Bot) commandProgress(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("handle progress")
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendDirectionSelection(msg.Chat.ID, lang)
}

// commandLines answers /lines <surah> <from> <to>
func (b *Bot) commandLines(_ context.Context, msg *tgbotapi.Message, lang domain.Language) {
	query, from, to, err := parseLinesArgs(msg.CommandArguments())
	if err != nil {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "lines.usage"))
		return
	}

	surah, ok := b.resolveSurah(query)
	if !ok {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.surah_not_found"))
		return
	}

	lines, err := b.service.CountLines(surah.Name, from, to)
	if err != nil {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, errorKey(err)))
		return
	}

	name := b.i18n.GetSurahName(lang, surah.Number)
	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "lines.result", name, from, to, lines))
}

// commandSurah answers /surah <number|name>
func (b *Bot) commandSurah(_ context.Context, msg *tgbotapi.Message, lang domain.Language) {
	query := msg.CommandArguments()
	if query == "" {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "surah.usage"))
		return
	}

	surah, ok := b.resolveSurah(query)
	if !ok {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.surah_not_found"))
		return
	}

	lines, err := b.service.SurahLines(surah.Number)
	if err != nil {
		log.Error().Err(err).Int("surah", surah.Number).Msg("surah lines")
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendMessage(msg.Chat.ID, formatSurahInfo(b.i18n, lang, surah, lines))
}
