package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAI uses the Whisper transcription and TTS endpoints.
type OpenAI struct {
	client   *openai.Client
	sttModel string
	ttsModel openai.SpeechModel
	voice    openai.SpeechVoice
}

func NewOpenAI(config openai.ClientConfig, sttModel, ttsModel, voice string) *OpenAI {
	if sttModel == "" {
		sttModel = openai.Whisper1
	}
	if ttsModel == "" {
		ttsModel = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &OpenAI{
		client:   openai.NewClientWithConfig(config),
		sttModel: sttModel,
		ttsModel: openai.SpeechModel(ttsModel),
		voice:    openai.SpeechVoice(voice),
	}
}

func (o *OpenAI) Transcribe(ctx context.Context, filename string, r io.Reader) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.sttModel,
		FilePath: filename,
		Reader:   r,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNotUnderstood
	}
	return text, nil
}

// Synthesize returns Opus audio, the format Telegram voice notes expect.
func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	audio, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          o.ttsModel,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatOpus,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer audio.Close()
	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	return data, nil
}
