// Package telegram sends operator notifications to a configured chat.
// It keeps only the outbound side of a bot: paid bookings, payment
// failures and error-level log records (via lib/logger.TelegramHandler).
package telegram

import (
	"fmt"
	"log/slog"
	"strings"

	"courierbook/entity"
	"courierbook/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Notifier posts messages to a single operator chat. Failures are logged
// and swallowed: notification delivery never affects the caller.
type Notifier struct {
	log    *slog.Logger
	api    *tgbotapi.Bot
	chatId int64
}

func New(apiKey string, chatId int64, log *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &Notifier{
		log:    log.With(sl.Module("telegram")),
		api:    api,
		chatId: chatId,
	}, nil
}

// Send delivers a MarkdownV2 message, retrying once as plain text when the
// markup is rejected.
func (n *Notifier) Send(text string) {
	if text == "" {
		n.log.Debug("empty message")
		return
	}

	_, err := n.api.SendMessage(n.chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		n.log.With(slog.Int64("id", n.chatId)).Warn("sending message", sl.Err(err))
		_, err = n.api.SendMessage(n.chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			n.log.With(slog.Int64("id", n.chatId)).Error("sending safe message", sl.Err(err))
		}
	}
}

// SendMessageWithLevel satisfies the logger.Notifier interface; the level is
// already encoded in the formatted record.
func (n *Notifier) SendMessageWithLevel(msg string, _ slog.Level) {
	n.Send(msg)
}

// BookingPaid announces a completed checkout to the operator chat.
func (n *Notifier) BookingPaid(b *entity.Booking, amount int64, currency string) {
	msg := fmt.Sprintf("*Booking paid* `%s`", Sanitize(b.Reference))
	msg += Sanitize(fmt.Sprintf("\n%s to %s (%.1f miles)", b.Pickup, b.Dropoff, b.Miles))
	msg += Sanitize(fmt.Sprintf("\npickup: %s %s", b.Date, b.Time))
	msg += Sanitize(fmt.Sprintf("\ncustomer: %s", b.Email))
	if b.Company != "" {
		msg += Sanitize(fmt.Sprintf("\ncompany: %s", b.Company))
	}
	if b.Notes != "" {
		msg += Sanitize(fmt.Sprintf("\nnotes: %s", b.Notes))
	}
	msg += Sanitize(fmt.Sprintf("\npaid: %s", FormatAmount(amount, currency)))
	n.Send(msg)
}

// PaymentFailed alerts the operator chat about a failed payment attempt.
func (n *Notifier) PaymentFailed(reference, reason string, amount int64, currency string) {
	msg := "*Payment failed*"
	if reference != "" {
		msg += fmt.Sprintf(" `%s`", Sanitize(reference))
	}
	msg += Sanitize(fmt.Sprintf("\namount: %s", FormatAmount(amount, currency)))
	if reason != "" {
		msg += Sanitize(fmt.Sprintf("\nreason: %s", reason))
	}
	n.Send(msg)
}

// FormatAmount renders a minor-unit amount as a decimal with currency code.
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, strings.ToUpper(currency))
}

// Sanitize escapes MarkdownV2 reserved characters.
func Sanitize(input string) string {
	reservedChars := "\\_{}#+-.!|()[]=*"
	sanitized := ""
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sanitized += "\\" + string(char)
		} else {
			sanitized += string(char)
		}
	}
	return sanitized
}
