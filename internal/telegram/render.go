package telegram

import (
	"strings"

	"moodmate/internal/dialog"
)

// renderHTML flattens a transcript into Telegram HTML, one block per line.
func renderHTML(tr *dialog.Transcript) string {
	lines := make([]string, 0, len(tr.Blocks))
	for _, bl := range tr.Blocks {
		text := escapeHTML(bl.Text)
		switch bl.Kind {
		case dialog.KindSuccess:
			lines = append(lines, "✅ "+text)
		case dialog.KindWarning:
			lines = append(lines, "⚠️ "+text)
		case dialog.KindInfo:
			lines = append(lines, "ℹ️ "+text)
		case dialog.KindLink:
			lines = append(lines, `<a href="`+escapeHTML(bl.URL)+`">`+text+`</a>`)
		default:
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}
