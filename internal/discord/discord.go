// Package discord serves mood conversations in Discord channels.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"moodmate/internal/dialog"
	"moodmate/internal/insights"
	"moodmate/internal/speech"
)

const surfaceName = "discord"

// TurnHandler is the part of dialog.Handler the adapter drives.
type TurnHandler interface {
	Handle(ctx context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error)
	Quote() string
	ShowInsights(out dialog.Output) insights.Counts
}

type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelFileSend(channelID, name string, r io.Reader, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Adapter connects the bot gateway to a TurnHandler.
type Adapter struct {
	token   string
	session *discordgo.Session
	s       channelSender
	handler TurnHandler
	speaker *speech.Speaker
	logger  *zap.Logger
}

func NewAdapter(token string, h TurnHandler, sp *speech.Speaker, logger *zap.Logger) *Adapter {
	return &Adapter{token: token, handler: h, speaker: sp, logger: logger}
}

// Connect opens the Discord gateway websocket.
func (a *Adapter) Connect(ctx context.Context) error {
	session, err := discordgo.New("Bot " + a.token)
	if err != nil {
		return fmt.Errorf("discord session: %w", err)
	}
	a.bind(ctx, session)
	if err := session.Open(); err != nil {
		a.session, a.s = nil, nil
		return fmt.Errorf("discord open: %w", err)
	}

	if len(session.State.Guilds) == 0 {
		a.logger.Warn("discord bot not added to any server, invite it first")
	}
	a.logger.Info("discord adapter connected", zap.String("user", session.State.User.Username))
	return nil
}

// bind must run before Open: events are dispatched as soon as the gateway
// is up and onMessage replies through a.s.
func (a *Adapter) bind(ctx context.Context, session *discordgo.Session) {
	a.session = session
	a.s = session
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
			return
		}
		a.onMessage(ctx, m.ChannelID, m.Author.ID, m.Content)
	})
}

func (a *Adapter) Close() error {
	if a.session != nil {
		return a.session.Close()
	}
	return nil
}

func (a *Adapter) onMessage(ctx context.Context, channelID, authorID, content string) {
	tr := &dialog.Transcript{}
	switch strings.TrimSpace(strings.ToLower(content)) {
	case "!insights":
		a.handler.ShowInsights(tr)
	case "!quote":
		tr.Text(a.handler.Quote())
	default:
		// Snowflakes are decimal uint64s that stay below 2^63.
		uid, _ := strconv.ParseInt(authorID, 10, 64)
		req := dialog.Request{Text: content, Surface: surfaceName, UserID: uid}
		if _, err := a.handler.Handle(ctx, req, tr); err != nil {
			a.logger.Error("turn failed", zap.String("author", authorID), zap.Error(err))
			a.send(channelID, "Sorry, something went wrong.")
			return
		}
	}
	a.deliver(channelID, tr)
}

func (a *Adapter) deliver(channelID string, tr *dialog.Transcript) {
	if body := renderMarkdown(tr); body != "" {
		a.send(channelID, body)
	}
	for _, line := range tr.Spoken {
		a.speaker.Speak(line, func(audio []byte) error {
			_, err := a.s.ChannelFileSend(channelID, "reply.ogg", bytes.NewReader(audio))
			return err
		})
	}
}

func (a *Adapter) send(channelID, content string) {
	if _, err := a.s.ChannelMessageSend(channelID, content); err != nil {
		a.logger.Warn("discord send failed", zap.String("channel", channelID), zap.Error(err))
	}
}

// renderMarkdown flattens a transcript into Discord markdown.
func renderMarkdown(tr *dialog.Transcript) string {
	lines := make([]string, 0, len(tr.Blocks))
	for _, bl := range tr.Blocks {
		switch bl.Kind {
		case dialog.KindSuccess:
			lines = append(lines, "**"+bl.Text+"**")
		case dialog.KindWarning:
			lines = append(lines, "⚠️ "+bl.Text)
		case dialog.KindInfo:
			lines = append(lines, "> "+bl.Text)
		case dialog.KindLink:
			lines = append(lines, fmt.Sprintf("[%s](<%s>)", bl.Text, bl.URL))
		default:
			lines = append(lines, bl.Text)
		}
	}
	return strings.Join(lines, "\n")
}
