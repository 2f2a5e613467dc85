package discord

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"moodmate/internal/dialog"
	"moodmate/internal/insights"
	"moodmate/internal/speech"
)

type fakeSender struct {
	sent  []string
	files chan string
}

func (f *fakeSender) ChannelMessageSend(_ string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, content)
	return &discordgo.Message{}, nil
}

func (f *fakeSender) ChannelFileSend(_ string, name string, r io.Reader, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	data, _ := io.ReadAll(r)
	f.files <- name + ":" + string(data)
	return &discordgo.Message{}, nil
}

type fakeHandler struct {
	reqs []dialog.Request
	err  error
}

func (f *fakeHandler) Handle(_ context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return dialog.Turn{}, f.err
	}
	out.Info("Hey, I’m here for you.")
	out.Speak("Hey, I’m here for you.")
	out.Success("Sorry to hear that.")
	out.Link("🎶 Click here to listen to a sad playlist", "https://open.spotify.com/playlist/1")
	return dialog.Turn{Intent: dialog.IntentConversation}, nil
}

func (f *fakeHandler) Quote() string { return "quote" }

func (f *fakeHandler) ShowInsights(out dialog.Output) insights.Counts {
	out.Text(insights.Title)
	return insights.Counts{}
}

type fakeSynth struct{}

func (fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) { return []byte(text), nil }

func newTestAdapter(h TurnHandler) (*Adapter, *fakeSender) {
	fs := &fakeSender{files: make(chan string, 2)}
	a := NewAdapter("token", h, speech.NewSpeaker(fakeSynth{}, zap.NewNop()), zap.NewNop())
	a.s = fs
	return a, fs
}

func TestOnMessage_RendersAndAttachesSpeech(t *testing.T) {
	h := &fakeHandler{}
	a, fs := newTestAdapter(h)
	a.onMessage(context.Background(), "c1", "u1", "I feel sad")

	if len(h.reqs) != 1 || h.reqs[0].Surface != "discord" || h.reqs[0].Text != "I feel sad" {
		t.Fatalf("unexpected requests: %+v", h.reqs)
	}
	want := "> Hey, I’m here for you.\n**Sorry to hear that.**\n[🎶 Click here to listen to a sad playlist](<https://open.spotify.com/playlist/1>)"
	if len(fs.sent) != 1 || fs.sent[0] != want {
		t.Fatalf("unexpected sent: %q", fs.sent)
	}
	select {
	case f := <-fs.files:
		if f != "reply.ogg:Hey, I’m here for you." {
			t.Fatalf("unexpected attachment: %q", f)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("speech attachment not sent")
	}
}

func TestOnMessage_Commands(t *testing.T) {
	h := &fakeHandler{}
	a, fs := newTestAdapter(h)
	a.onMessage(context.Background(), "c1", "u1", "!quote")
	a.onMessage(context.Background(), "c1", "u1", " !Insights ")
	if len(h.reqs) != 0 {
		t.Fatalf("commands must not reach the handler")
	}
	if len(fs.sent) != 2 || fs.sent[0] != "quote" || !strings.HasPrefix(fs.sent[1], insights.Title) {
		t.Fatalf("unexpected sent: %q", fs.sent)
	}
}

func TestOnMessage_TurnError(t *testing.T) {
	a, fs := newTestAdapter(&fakeHandler{err: errors.New("disk full")})
	a.onMessage(context.Background(), "c1", "u1", "hello")
	if len(fs.sent) != 1 || fs.sent[0] != "Sorry, something went wrong." {
		t.Fatalf("unexpected sent: %q", fs.sent)
	}
}

func TestOnMessage_CarriesAuthorID(t *testing.T) {
	h := &fakeHandler{}
	a, _ := newTestAdapter(h)
	a.onMessage(context.Background(), "c1", "175928847299117063", "hello")
	a.onMessage(context.Background(), "c1", "not-a-snowflake", "hello")
	if len(h.reqs) != 2 || h.reqs[0].UserID != 175928847299117063 || h.reqs[1].UserID != 0 {
		t.Fatalf("unexpected requests: %+v", h.reqs)
	}
}

func TestBind_SenderReadyBeforeOpen(t *testing.T) {
	session, err := discordgo.New("Bot token")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	a := NewAdapter("token", &fakeHandler{}, nil, zap.NewNop())
	a.bind(context.Background(), session)
	if a.session != session || a.s == nil {
		t.Fatalf("session and sender must be set before the gateway opens")
	}
	if session.Identify.Intents&discordgo.IntentMessageContent == 0 {
		t.Fatalf("message content intent missing: %v", session.Identify.Intents)
	}
}
