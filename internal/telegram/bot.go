package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go-startup-automation/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// escapeURL escapes what MarkdownV2 requires inside the (...) part of a link.
func escapeURL(url string) string {
	return strings.NewReplacer("\\", "\\\\", ")", "\\)").Replace(url)
}

// formatApplication renders the summary card for one processed listing.
func formatApplication(res models.ApplicationResult) string {
	l := res.Listing
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 *%s*\n", escapeMarkdown(l.Company.Name))
	fmt.Fprintf(&b, "💼 %s\n", escapeMarkdown(l.Title))
	fmt.Fprintf(&b, "🔗 [View Job](%s)\n", escapeURL(l.URL))
	if l.Salary != "" {
		fmt.Fprintf(&b, "💰 %s\n", escapeMarkdown(l.Salary))
	}
	if l.Equity != "" {
		fmt.Fprintf(&b, "📈 %s\n", escapeMarkdown(l.Equity))
	}

	loc := l.Location
	if loc == "" {
		loc = "N/A"
	}
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(loc))

	if l.Experience != "" {
		fmt.Fprintf(&b, "🎓 %s\n", escapeMarkdown(l.Experience))
	}
	if l.Visa != "" {
		fmt.Fprintf(&b, "🛂 %s\n", escapeMarkdown(l.Visa))
	}

	status := "✅ Letter ready"
	if !res.Success {
		status = "❌ " + res.Error
	}
	fmt.Fprintf(&b, "%s\n", escapeMarkdown(status))
	return b.String()
}

// truncate cuts s to at most max bytes on a rune boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - len("…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// NotifyApplication sends the listing card followed by its cover letter.
func (b *Bot) NotifyApplication(ctx context.Context, res models.ApplicationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", res.Listing.URL),
		),
	)
	msg := tgbotapi.NewMessage(b.chatID, formatApplication(res))
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send listing %s: %w", res.Listing.ID, err)
	}

	if res.CoverLetter == "" {
		return nil
	}
	letter := tgbotapi.NewMessage(b.chatID, truncate(res.CoverLetter, maxMessageLen))
	if _, err := b.api.Send(letter); err != nil {
		return fmt.Errorf("send letter %s: %w", res.Listing.ID, err)
	}
	return nil
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
