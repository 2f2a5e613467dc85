// Package mcpserver exposes mood detection, music search and the
// conversation flow as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"moodmate/internal/catalog"
	"moodmate/internal/dialog"
	"moodmate/internal/insights"
)

const surfaceName = "mcp"

type DetectMoodParams struct {
	Text string `json:"text" mcp:"the message whose mood should be classified"`
}

type SearchMusicParams struct {
	Query string `json:"query" mcp:"song or playlist search query"`
	Kind  string `json:"kind,omitempty" mcp:"'track' (default) or 'playlist'"`
}

type ChatParams struct {
	Text string `json:"text" mcp:"the user's message; 'play <song>' asks for a track link"`
}

type InsightsParams struct {
	Today bool `json:"today,omitempty" mcp:"if true, only count today's conversations"`
}

type QuoteParams struct{}

// TurnHandler is the part of dialog.Handler the tools drive.
type TurnHandler interface {
	Handle(ctx context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error)
	Quote() string
	Insights() insights.Counts
	Daily(t time.Time) *insights.DailyStats
}

type Server struct {
	classifier dialog.Classifier
	catalog    catalog.Searcher
	handler    TurnHandler
	logger     *zap.Logger
	now        func() time.Time
}

func New(classifier dialog.Classifier, searcher catalog.Searcher, h TurnHandler, logger *zap.Logger) *Server {
	return &Server{classifier: classifier, catalog: searcher, handler: h, logger: logger, now: time.Now}
}

// Register adds every tool to server.
func (s *Server) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_mood",
		Description: "Classifies a message as happy, sad or neutral",
	}, s.DetectMood)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_music",
		Description: "Finds a link to a track or playlist in the configured music catalog",
	}, s.SearchMusic)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat",
		Description: "Runs one conversation turn: mood detection, reply and music suggestion. The turn is logged to mood memory",
	}, s.Chat)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "mood_insights",
		Description: "Returns how many logged conversations were happy, sad or neutral",
	}, s.MoodInsights)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "random_quote",
		Description: "Returns a random music quote",
	}, s.RandomQuote)
}

func (s *Server) DetectMood(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[DetectMoodParams]) (*mcp.CallToolResultFor[any], error) {
	label := s.classifier.Detect(params.Arguments.Text)
	s.logger.Debug("detect_mood", zap.String("mood", string(label)))
	return textResult(string(label)), nil
}

func (s *Server) SearchMusic(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchMusicParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	kind := catalog.Track
	switch strings.ToLower(strings.TrimSpace(args.Kind)) {
	case "", string(catalog.Track):
	case string(catalog.Playlist):
		kind = catalog.Playlist
	default:
		return errorResult(fmt.Sprintf("❌ unknown kind %q, use 'track' or 'playlist'", args.Kind)), nil
	}

	link, err := s.catalog.Search(ctx, args.Query, kind)
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrEmptyQuery):
		return errorResult(fmt.Sprintf("No %s found for %q", kind, args.Query)), nil
	case err != nil:
		s.logger.Warn("search_music failed", zap.String("query", args.Query), zap.Error(err))
		return errorResult(fmt.Sprintf("❌ Search failed: %v", err)), nil
	}
	return textResult(link), nil
}

type chatResult struct {
	Turn dialog.Turn `json:"turn"`
	dialog.Transcript
}

func (s *Server) Chat(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ChatParams]) (*mcp.CallToolResultFor[any], error) {
	text := params.Arguments.Text
	if strings.TrimSpace(text) == "" {
		return errorResult("❌ text is required"), nil
	}
	res := chatResult{}
	turn, err := s.handler.Handle(ctx, dialog.Request{Text: text, Surface: surfaceName}, &res.Transcript)
	if err != nil {
		s.logger.Error("chat turn failed", zap.Error(err))
		return errorResult(fmt.Sprintf("❌ Failed to process message: %v", err)), nil
	}
	res.Turn = turn
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal chat result: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) MoodInsights(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[InsightsParams]) (*mcp.CallToolResultFor[any], error) {
	if params.Arguments.Today {
		return textResult(s.handler.Daily(s.now()).Summary()), nil
	}
	return textResult(s.handler.Insights().String()), nil
}

func (s *Server) RandomQuote(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[QuoteParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(s.handler.Quote()), nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
