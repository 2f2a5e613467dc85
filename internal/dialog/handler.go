// Package dialog routes a user's message to either the play-a-song flow or
// the mood conversation flow and renders the result to an Output.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"moodmate/internal/catalog"
	"moodmate/internal/insights"
	"moodmate/internal/memory"
	"moodmate/internal/mood"
	"moodmate/internal/reply"
	"moodmate/internal/storage"
)

type Intent string

const (
	IntentNone         Intent = ""
	IntentPlay         Intent = "play"
	IntentConversation Intent = "conversation"
)

const (
	Comfort      = "Hey, I’m here for you. Let’s brighten your day with some music."
	SongNotFound = "Sorry, I couldn’t find that song."
	playKeyword  = "play"
)

type Classifier interface {
	Detect(text string) mood.Label
}

type Memory interface {
	LogInteraction(label mood.Label, input string) (memory.Record, error)
	Records() []memory.Record
}

type ReplyGenerator interface {
	Generate(ctx context.Context, input string) (string, error)
}

type QuoteSource interface {
	Random() string
}

// Deps are the collaborators of a Handler. Recorder may be nil.
type Deps struct {
	Classifier Classifier
	Memory     Memory
	Catalog    catalog.Searcher
	Replies    ReplyGenerator
	Quotes     QuoteSource
	Recorder   storage.Recorder
	Logger     *zap.Logger
}

type Handler struct {
	mu         sync.Mutex
	classifier Classifier
	memory     Memory
	catalog    catalog.Searcher
	replies    ReplyGenerator
	quotes     QuoteSource
	recorder   storage.Recorder
	logger     *zap.Logger
	now        func() time.Time
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		classifier: d.Classifier,
		memory:     d.Memory,
		catalog:    d.Catalog,
		replies:    d.Replies,
		quotes:     d.Quotes,
		recorder:   d.Recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// Request is one user message and where it came from.
type Request struct {
	Text    string
	Surface string
	UserID  int64
}

// Turn describes what Handle did.
type Turn struct {
	Intent Intent     `json:"intent"`
	Song   string     `json:"song,omitempty"`
	Mood   mood.Label `json:"mood,omitempty"`
	Reply  string     `json:"reply,omitempty"`
	Link   string     `json:"link,omitempty"`
}

// DetectIntent decides how a message is handled. Blank input has no intent.
func DetectIntent(text string) Intent {
	switch {
	case strings.TrimSpace(text) == "":
		return IntentNone
	case strings.Contains(strings.ToLower(text), playKeyword):
		return IntentPlay
	default:
		return IntentConversation
	}
}

// SongQuery strips every "play" from the lower-cased message.
func SongQuery(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(text), playKeyword, ""))
}

// Handle processes one message. Only a failure to persist the interaction log
// is returned; every other collaborator failure is rendered as its fallback.
func (h *Handler) Handle(ctx context.Context, req Request, out Output) (Turn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var (
		turn Turn
		err  error
	)
	switch DetectIntent(req.Text) {
	case IntentNone:
		return Turn{}, nil
	case IntentPlay:
		turn = h.playSong(ctx, req.Text, out)
	default:
		turn, err = h.converse(ctx, req.Text, out)
		if err != nil {
			return turn, err
		}
	}
	h.record(req, turn)
	return turn, nil
}

func (h *Handler) playSong(ctx context.Context, text string, out Output) Turn {
	song := SongQuery(text)
	turn := Turn{Intent: IntentPlay, Song: song}

	link, err := h.catalog.Search(ctx, song, catalog.Track)
	if err != nil {
		h.logLookup(catalog.Track, song, err)
		out.Warning(SongNotFound)
		out.Speak(SongNotFound)
		return turn
	}
	turn.Link = link
	msg := fmt.Sprintf("Sure! Playing %s. Enjoy!", song)
	out.Success(msg)
	out.Link("🎶 Click to play", link)
	out.Speak(msg)
	return turn
}

func (h *Handler) converse(ctx context.Context, text string, out Output) (Turn, error) {
	label := h.classifier.Detect(text)
	turn := Turn{Intent: IntentConversation, Mood: label}
	if _, err := h.memory.LogInteraction(label, text); err != nil {
		return turn, fmt.Errorf("log interaction: %w", err)
	}

	answer, err := h.replies.Generate(ctx, text)
	if err != nil {
		h.logger.Warn("reply generation failed, using fallback", zap.Error(err))
		answer = reply.Fallback
	}
	turn.Reply = answer

	if label == mood.Sad {
		out.Info(Comfort)
		out.Speak(Comfort)
	} else {
		out.Speak(answer)
	}
	out.Success(answer)
	out.Text(fmt.Sprintf("🎵 Detected Mood: %s", label.Title()))

	// A missing playlist is not reported to the user, unlike a missing track.
	query := fmt.Sprintf("%s music", label)
	link, err := h.catalog.Search(ctx, query, catalog.Playlist)
	if err != nil {
		h.logLookup(catalog.Playlist, query, err)
		return turn, nil
	}
	turn.Link = link
	out.Link(fmt.Sprintf("🎶 Click here to listen to a %s playlist", label), link)
	return turn, nil
}

func (h *Handler) logLookup(kind catalog.Kind, query string, err error) {
	fields := []zap.Field{zap.String("kind", string(kind)), zap.String("query", query), zap.Error(err)}
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrEmptyQuery) || errors.Is(err, catalog.ErrNotConfigured) {
		h.logger.Info("catalog lookup returned nothing", fields...)
		return
	}
	h.logger.Warn("catalog lookup failed", fields...)
}

func (h *Handler) record(req Request, turn Turn) {
	if h.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp: h.now().UTC(),
		Surface:   req.Surface,
		UserID:    req.UserID,
		Intent:    string(turn.Intent),
		Input:     req.Text,
		Mood:      string(turn.Mood),
		Reply:     turn.Reply,
		Link:      turn.Link,
	}
	if err := h.recorder.AppendTurn(ev); err != nil {
		h.logger.Warn("failed to journal turn", zap.Error(err))
	}
}

// Greeting renders the welcome line and a random quote.
func (h *Handler) Greeting(name string, out Output) {
	out.Text(fmt.Sprintf("🎵 Hello, %s! Let's vibe with music.", name))
	out.Text(h.Quote())
}

func (h *Handler) Quote() string {
	return h.quotes.Random()
}

// Insights counts moods across the whole interaction log.
func (h *Handler) Insights() insights.Counts {
	return insights.Count(h.memory.Records())
}

// ShowInsights renders the mood tally.
func (h *Handler) ShowInsights(out Output) insights.Counts {
	c := h.Insights()
	out.Text(insights.Title)
	for _, line := range c.Lines() {
		out.Text(line)
	}
	return c
}

// Daily summarises the interactions logged on the calendar day of t.
func (h *Handler) Daily(t time.Time) *insights.DailyStats {
	return insights.AnalyzeDay(h.memory.Records(), t)
}
