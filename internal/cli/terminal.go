package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"moodmate/internal/speech"
)

// Theme holds the color scheme for terminal output.
type Theme struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
	Link    lipgloss.Color
	Hint    lipgloss.Color
}

var defaultTheme = Theme{
	Success: lipgloss.Color("#00D787"), // green
	Warning: lipgloss.Color("#FFAF00"), // amber
	Info:    lipgloss.Color("#5FAFD7"), // light blue
	Link:    lipgloss.Color("#AF87FF"), // violet
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
}

func (t Theme) infoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Info)
}

func (t Theme) linkStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Link).Underline(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// terminal renders a turn to a writer as it happens.
type terminal struct {
	w         io.Writer
	theme     Theme
	speaker   *speech.Speaker
	speechDir string
	logger    *zap.Logger
	seq       atomic.Int64
}

func (t *terminal) Success(text string) { t.println(t.theme.successStyle().Render("✔ " + text)) }
func (t *terminal) Warning(text string) { t.println(t.theme.warningStyle().Render("⚠ " + text)) }
func (t *terminal) Info(text string)    { t.println(t.theme.infoStyle().Render("ℹ " + text)) }
func (t *terminal) Text(text string)    { t.println(text) }

func (t *terminal) Link(label, url string) {
	t.println(label + ": " + t.theme.linkStyle().Render(url))
}

// Speak echoes the line and, when a speech directory is set, writes the
// synthesised audio there in the background.
func (t *terminal) Speak(text string) {
	t.println(t.theme.hintStyle().Render("🔊 " + text))
	if t.speechDir == "" {
		return
	}
	name := fmt.Sprintf("reply-%s-%d.ogg", time.Now().Format("20060102-150405"), t.seq.Add(1))
	path := filepath.Join(t.speechDir, name)
	t.speaker.Speak(text, func(audio []byte) error {
		if err := os.MkdirAll(t.speechDir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, audio, 0o644)
	})
}

func (t *terminal) hint(text string) { t.println(t.theme.hintStyle().Render(text)) }

func (t *terminal) println(s string) {
	if _, err := fmt.Fprintln(t.w, s); err != nil && t.logger != nil {
		t.logger.Debug("terminal write failed", zap.Error(err))
	}
}
