package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"moodmate/internal/dialog"
	"moodmate/internal/insights"
	"moodmate/internal/speech"
)

const (
	surfaceName    = "telegram"
	somethingWrong = "Sorry, something went wrong."
	voiceDisabled  = "Voice messages are not supported right now."
)

// TurnHandler is the part of dialog.Handler the bot drives.
type TurnHandler interface {
	Handle(ctx context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error)
	Greeting(name string, out dialog.Output)
	Quote() string
	ShowInsights(out dialog.Output) insights.Counts
	Daily(t time.Time) *insights.DailyStats
}

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	files       fileLinker
	httpClient  *http.Client
	handler     TurnHandler
	speaker     *speech.Speaker
	recognizer  speech.Recognizer
	adminUserID int64
	defaultName string
	logger      *zap.Logger
	now         func() time.Time
}

func New(botToken string, h TurnHandler, sp *speech.Speaker, rec speech.Recognizer, adminUserID int64, defaultName string, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	if rec == nil {
		rec = speech.Disabled{}
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		files:       api,
		httpClient:  &http.Client{Timeout: time.Minute},
		handler:     h,
		speaker:     sp,
		recognizer:  rec,
		adminUserID: adminUserID,
		defaultName: defaultName,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("telegram bot started", zap.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	text := msg.Text
	if msg.Voice != nil {
		heard, ok := b.transcribeVoice(ctx, msg)
		if !ok {
			return
		}
		text = heard
	}
	b.logger.Debug("incoming message", zap.Int64("user_id", msg.From.ID), zap.String("text", text))

	tr := &dialog.Transcript{}
	req := dialog.Request{Text: text, Surface: surfaceName, UserID: msg.From.ID}
	if _, err := b.handler.Handle(ctx, req, tr); err != nil {
		b.logger.Error("turn failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.sendMessage(msg.Chat.ID, somethingWrong)
		return
	}
	b.deliver(msg.Chat.ID, tr)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	tr := &dialog.Transcript{}
	switch msg.Command() {
	case "start":
		name := msg.From.FirstName
		if name == "" {
			name = b.defaultName
		}
		b.handler.Greeting(name, tr)
	case "quote":
		tr.Text(b.handler.Quote())
	case "insights":
		b.handler.ShowInsights(tr)
	case "report":
		if msg.From.ID != b.adminUserID {
			b.sendMessage(msg.Chat.ID, "❌ This command is only available to the administrator.")
			return
		}
		if err := b.SendDailyReport(ctx); err != nil {
			b.logger.Error("report generation failed", zap.Error(err))
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Report failed: %v", err))
		}
		return
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /start, /quote or /insights.")
		return
	}
	b.deliver(msg.Chat.ID, tr)
}

// transcribeVoice downloads a voice note, transcribes it and echoes what was
// heard. It reports false when the turn should stop here.
func (b *Bot) transcribeVoice(ctx context.Context, msg *tgbotapi.Message) (string, bool) {
	link, err := b.files.GetFileDirectURL(msg.Voice.FileID)
	if err != nil {
		b.logger.Warn("failed to resolve voice file", zap.Error(err))
		b.sendMessage(msg.Chat.ID, speech.NotUnderstood)
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		b.logger.Warn("failed to build voice download", zap.Error(err))
		b.sendMessage(msg.Chat.ID, speech.NotUnderstood)
		return "", false
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Warn("failed to download voice", zap.Error(err))
		b.sendMessage(msg.Chat.ID, speech.NotUnderstood)
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b.logger.Warn("voice download returned non-200", zap.Int("status", resp.StatusCode))
		b.sendMessage(msg.Chat.ID, speech.NotUnderstood)
		return "", false
	}

	text, err := b.recognizer.Transcribe(ctx, "voice.ogg", resp.Body)
	switch {
	case errors.Is(err, speech.ErrNotConfigured):
		b.sendMessage(msg.Chat.ID, voiceDisabled)
		return "", false
	case err != nil:
		if !errors.Is(err, speech.ErrNotUnderstood) {
			b.logger.Warn("speech recognition failed", zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, speech.NotUnderstood)
		return "", false
	}
	b.sendMessage(msg.Chat.ID, "You said: <i>"+escapeHTML(text)+"</i>")
	return text, true
}

// deliver sends the rendered transcript as one message and its spoken lines
// as voice notes.
func (b *Bot) deliver(chatID int64, tr *dialog.Transcript) {
	if body := renderHTML(tr); body != "" {
		b.sendMessage(chatID, body)
	}
	for _, line := range tr.Spoken {
		b.speaker.Speak(line, func(audio []byte) error {
			voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "reply.ogg", Bytes: audio})
			_, err := b.s.Send(voice)
			return err
		})
	}
}

// SendDailyReport posts today's mood summary to the admin chat.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.adminUserID == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stats := b.handler.Daily(b.now())
	msg := tgbotapi.NewMessage(b.adminUserID, escapeHTML(stats.Summary()))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.s.Send(msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	b.logger.Info("daily report sent", zap.String("date", stats.Date), zap.Int("conversations", stats.Counts.Total()))
	return nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.s.Send(msg); err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
