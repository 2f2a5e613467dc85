// Package speech converts between audio and text. Synthesis is delivered
// fire-and-forget through Speaker.
package speech

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// NotUnderstood is shown when the recogniser returns nothing usable.
const NotUnderstood = "Sorry, I didn’t catch that."

var (
	ErrNotUnderstood = errors.New("speech not understood")
	ErrNotConfigured = errors.New("speech is not configured")
)

type Recognizer interface {
	// Transcribe reads audio from r. filename carries the container format
	// (e.g. voice.ogg).
	Transcribe(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Disabled implements both interfaces when speech is switched off.
type Disabled struct{}

func (Disabled) Transcribe(context.Context, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Synthesize(context.Context, string) ([]byte, error) {
	return nil, ErrNotConfigured
}

// Speaker synthesises text in the background and hands the audio to a
// surface-specific deliver func.
type Speaker struct {
	synth   Synthesizer
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewSpeaker(synth Synthesizer, logger *zap.Logger) *Speaker {
	return &Speaker{synth: synth, logger: logger, timeout: time.Minute}
}

// Speak returns immediately. Playback completion is never reported.
func (s *Speaker) Speak(text string, deliver func(audio []byte) error) {
	if s == nil || s.synth == nil || text == "" {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		audio, err := s.synth.Synthesize(ctx, text)
		if err != nil {
			if !errors.Is(err, ErrNotConfigured) {
				s.logger.Warn("speech synthesis failed", zap.Error(err))
			}
			return
		}
		if err := deliver(audio); err != nil {
			s.logger.Warn("speech delivery failed", zap.Error(err))
		}
	}()
}

// Wait blocks until every pending Speak call has delivered or given up.
// Short-lived processes call it before exiting.
func (s *Speaker) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}
