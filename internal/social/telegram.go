// Package social implements the public-pressure side channel: when a
// complaint exhausts the escalation ladder, its summary is posted to a public
// Telegram channel.
package social

import (
	"context"
	"fmt"
	"log"

	"civictrack/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramPublisher posts complaint summaries to a channel the bot
// administers. Channel is the @username of the target channel.
type TelegramPublisher struct {
	BotAPI  *tgbotapi.BotAPI
	Channel string
}

func NewTelegramPublisher(botToken, channel string) (*TelegramPublisher, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to start Telegram bot: %w", err)
	}
	log.Printf("social: publishing as @%s to %s", bot.Self.UserName, channel)
	return &TelegramPublisher{BotAPI: bot, Channel: channel}, nil
}

// Publish posts the complaint summary. The text deliberately names the
// department and how long the complaint has been open.
func (p *TelegramPublisher) Publish(ctx context.Context, c *models.Complaint) error {
	text := fmt.Sprintf(
		"⚠️ *Unresolved complaint*\n\n*%s*\n%s\n\nDepartment: %s\nLocation: %s\nFiled: %s\nEscalation level: %d, deadline missed.",
		c.Title,
		c.Description,
		c.Department,
		c.Location.Address,
		c.CreatedAt.Format("2006-01-02"),
		c.EscalationLevel,
	)

	msg := tgbotapi.NewMessageToChannel(p.Channel, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := p.BotAPI.Send(msg); err != nil {
		return fmt.Errorf("failed to post to channel: %w", err)
	}
	return nil
}
