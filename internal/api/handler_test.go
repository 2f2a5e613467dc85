package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"moodmate/internal/dialog"
	"moodmate/internal/insights"
	"moodmate/internal/speech"
)

type fakeTurns struct {
	reqs []dialog.Request
	err  error
}

func (f *fakeTurns) Handle(_ context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return dialog.Turn{}, f.err
	}
	out.Success("Great to hear!")
	out.Speak("Great to hear!")
	return dialog.Turn{Intent: dialog.IntentConversation, Mood: "happy", Reply: "Great to hear!"}, nil
}

func (f *fakeTurns) Greeting(name string, out dialog.Output) { out.Text("Hello, " + name) }
func (f *fakeTurns) Quote() string                            { return "quote" }
func (f *fakeTurns) Insights() insights.Counts                { return insights.Counts{Happy: 2, Sad: 1} }

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Transcribe(context.Context, string, io.Reader) (string, error) {
	return f.text, f.err
}

func newTestServer(t *testing.T, turns *fakeTurns, rec speech.Recognizer) *httptest.Server {
	t.Helper()
	h := NewHandler(turns, rec, []string{"*"}, "friend", zap.NewNop())
	ts := httptest.NewServer(h.Router())
	t.Cleanup(ts.Close)
	return ts
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

type turnBody struct {
	Turn   dialog.Turn    `json:"turn"`
	Heard  string         `json:"heard"`
	Blocks []dialog.Block `json:"blocks"`
	Speak  []string       `json:"speak"`
}

func TestPostMessage(t *testing.T) {
	turns := &fakeTurns{}
	ts := newTestServer(t, turns, nil)

	resp, err := http.Post(ts.URL+"/api/messages", "application/json", bytes.NewBufferString(`{"text":"I feel great"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body turnBody
	decodeJSON(t, resp, &body)
	if body.Turn.Mood != "happy" || len(body.Blocks) != 1 || body.Blocks[0].Text != "Great to hear!" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.Speak) != 1 || body.Speak[0] != "Great to hear!" {
		t.Fatalf("speak lines: %+v", body.Speak)
	}
	if len(turns.reqs) != 1 || turns.reqs[0].Surface != "api" {
		t.Fatalf("unexpected requests: %+v", turns.reqs)
	}
}

func TestPostMessage_BadInput(t *testing.T) {
	ts := newTestServer(t, &fakeTurns{}, nil)
	resp, err := http.Post(ts.URL+"/api/messages", "application/json", bytes.NewBufferString(`not json`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestPostMessage_BlankTextIgnored(t *testing.T) {
	turns := &fakeTurns{}
	ts := newTestServer(t, turns, nil)
	for _, body := range []string{`{"text":"   "}`, `{}`} {
		resp, err := http.Post(ts.URL+"/api/messages", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			t.Fatalf("body %q: status %d", body, resp.StatusCode)
		}
		var got turnBody
		decodeJSON(t, resp, &got)
		if len(got.Blocks) != 0 || len(got.Speak) != 0 {
			t.Fatalf("body %q: expected empty transcript, got %+v", body, got)
		}
	}
	if len(turns.reqs) != 0 {
		t.Fatalf("blank input must not start a turn: %+v", turns.reqs)
	}
}

func TestPostMessage_TurnError(t *testing.T) {
	ts := newTestServer(t, &fakeTurns{err: errors.New("disk full")}, nil)
	resp, err := http.Post(ts.URL+"/api/messages", "application/json", bytes.NewBufferString(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func postAudio(t *testing.T, ts *httptest.Server) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "clip.webm")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("audio"))
	mw.Close()
	resp, err := http.Post(ts.URL+"/api/voice", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST voice: %v", err)
	}
	return resp
}

func TestPostVoice(t *testing.T) {
	turns := &fakeTurns{}
	ts := newTestServer(t, turns, fakeRecognizer{text: "I feel great"})
	resp := postAudio(t, ts)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body turnBody
	decodeJSON(t, resp, &body)
	if body.Heard != "I feel great" || len(turns.reqs) != 1 || turns.reqs[0].Text != "I feel great" {
		t.Fatalf("unexpected: %+v %+v", body, turns.reqs)
	}
}

func TestPostVoice_NotUnderstood(t *testing.T) {
	turns := &fakeTurns{}
	ts := newTestServer(t, turns, fakeRecognizer{err: speech.ErrNotUnderstood})
	resp := postAudio(t, ts)
	var body turnBody
	decodeJSON(t, resp, &body)
	if len(body.Blocks) != 1 || body.Blocks[0].Kind != dialog.KindWarning || body.Blocks[0].Text != speech.NotUnderstood {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(turns.reqs) != 0 {
		t.Fatalf("nothing should be handled")
	}
}

func TestPostVoice_Disabled(t *testing.T) {
	ts := newTestServer(t, &fakeTurns{}, nil)
	resp := postAudio(t, ts)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestGetEndpoints(t *testing.T) {
	ts := newTestServer(t, &fakeTurns{}, nil)

	resp, err := http.Get(ts.URL + "/api/insights")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var counts map[string]int
	decodeJSON(t, resp, &counts)
	if counts["happy"] != 2 || counts["sad"] != 1 || counts["neutral"] != 0 || counts["total"] != 3 {
		t.Fatalf("insights: %+v", counts)
	}

	resp, err = http.Get(ts.URL + "/api/quote")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var q map[string]string
	decodeJSON(t, resp, &q)
	if q["quote"] != "quote" {
		t.Fatalf("quote: %+v", q)
	}

	resp, err = http.Get(ts.URL + "/api/greeting")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var g turnBody
	decodeJSON(t, resp, &g)
	if len(g.Blocks) != 1 || g.Blocks[0].Text != "Hello, friend" {
		t.Fatalf("greeting: %+v", g)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}
}
