package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/stockspan/internal/adapters/config"
	"github.com/selivandex/stockspan/pkg/logger"
)

// maxMessageLength is Telegram's limit for a single text message
const maxMessageLength = 4096

// Handler answers chat messages and renders command replies
type Handler interface {
	Answer(chatID int64, text string) string
	Summary() (string, error)
	Welcome() (string, error)
	Help() (string, error)
}

// Reloader forces a data reload
type Reloader interface {
	Force(ctx context.Context) error
}

// sender delivers a reply; swapped out in tests
type sender func(chatID int64, text string) error

// Bot represents Telegram bot answering questions about the loaded series
type Bot struct {
	api      *tgbotapi.BotAPI
	chatID   int64 // 0 accepts every chat
	handler  Handler
	reloader Reloader
	send     sender
}

// NewBot creates new Telegram bot
func NewBot(cfg *config.TelegramConfig, handler Handler, reloader Reloader) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("telegram bot initialized",
		zap.String("username", api.Self.UserName),
	)

	b := newBot(cfg.ChatID, handler, reloader)
	b.api = api
	b.send = b.sendMessage
	return b, nil
}

func newBot(chatID int64, handler Handler, reloader Reloader) *Bot {
	return &Bot{
		chatID:   chatID,
		handler:  handler,
		reloader: reloader,
	}
}

// Start starts listening for messages until ctx is done
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	logger.Info("telegram bot started, listening for messages")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Info("telegram bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram updates channel closed")
			}
			if update.Message == nil {
				continue
			}

			// Only process messages from configured chat
			if b.chatID != 0 && update.Message.Chat.ID != b.chatID {
				continue
			}

			go b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage answers one incoming message
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	response := b.respond(ctx, message)

	if err := b.send(message.Chat.ID, response); err != nil {
		logger.Error("failed to send telegram response", zap.Error(err))
	}
}

// respond builds the reply for a command or a free-text question
func (b *Bot) respond(ctx context.Context, message *tgbotapi.Message) string {
	if !message.IsCommand() {
		return b.handler.Answer(message.Chat.ID, message.Text)
	}

	command := message.Command()

	logger.Info("received telegram command",
		zap.String("command", command),
		zap.Int64("from_chat", message.Chat.ID),
	)

	var response string
	var err error

	switch command {
	case "start":
		response, err = b.handler.Welcome()
	case "help":
		response, err = b.handler.Help()
	case "summary":
		response, err = b.handler.Summary()
	case "reload":
		response, err = b.reload(ctx)
	case "ask":
		if args := strings.TrimSpace(message.CommandArguments()); args != "" {
			response = b.handler.Answer(message.Chat.ID, args)
		} else {
			response = "Usage: /ask <question>"
		}
	default:
		response = fmt.Sprintf("❓ Unknown command: /%s\nUse /help to see available commands", command)
	}

	if err != nil {
		response = fmt.Sprintf("❌ Error: %v", err)
		logger.Error("command handler error", zap.Error(err), zap.String("command", command))
	}

	return response
}

func (b *Bot) reload(ctx context.Context) (string, error) {
	if b.reloader == nil {
		return "⚠️ No price file is configured for reloading.", nil
	}
	if err := b.reloader.Force(ctx); err != nil {
		return "", err
	}
	return "🔄 Price data reloaded.", nil
}

// sendMessage sends text message, splitting it at Telegram's length limit
func (b *Bot) sendMessage(chatID int64, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
