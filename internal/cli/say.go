package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"moodmate/internal/dialog"
	"moodmate/internal/speech"
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Send a single message",
	Long: `Send a single message and print the reply.

Examples:
  moodmate say "I had a great day"
  moodmate say play bohemian rhapsody`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		_, err := application.Handler.Handle(cmd.Context(), dialog.Request{Text: text, Surface: "cli"}, newTerminal(cmd))
		return err
	},
}

var voiceCmd = &cobra.Command{
	Use:   "voice <audio-file>",
	Short: "Transcribe an audio file and send it as a message",
	Long: `Transcribe an audio file (ogg, mp3, wav, m4a, webm) with the speech
recogniser and handle the transcription as one message.`,
	Args: cobra.ExactArgs(1),
	RunE: runVoice,
}

func runVoice(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	term := newTerminal(cmd)
	text, err := application.Recognizer.Transcribe(cmd.Context(), filepath.Base(path), f)
	switch {
	case errors.Is(err, speech.ErrNotConfigured):
		return fmt.Errorf("speech recognition needs OPENAI_API_KEY and SPEECH_ENABLED=true")
	case errors.Is(err, speech.ErrNotUnderstood):
		term.Warning(speech.NotUnderstood)
		return nil
	case err != nil:
		return fmt.Errorf("transcribe: %w", err)
	}
	term.Text("You said: " + text)
	_, err = application.Handler.Handle(cmd.Context(), dialog.Request{Text: text, Surface: "cli"}, term)
	return err
}
