package dialog

// Output is the rendering surface for one turn. Speak is fire-and-forget:
// implementations must not block until playback ends.
type Output interface {
	Success(text string)
	Warning(text string)
	Info(text string)
	Text(text string)
	Link(label, url string)
	Speak(text string)
}

type BlockKind string

const (
	KindSuccess BlockKind = "success"
	KindWarning BlockKind = "warning"
	KindInfo    BlockKind = "info"
	KindText    BlockKind = "text"
	KindLink    BlockKind = "link"
)

type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
	URL  string    `json:"url,omitempty"`
}

// Transcript records a turn's output so a surface can render it afterwards.
type Transcript struct {
	Blocks []Block  `json:"blocks"`
	Spoken []string `json:"speak"`
}

func (t *Transcript) add(kind BlockKind, text, url string) {
	t.Blocks = append(t.Blocks, Block{Kind: kind, Text: text, URL: url})
}

func (t *Transcript) Success(text string)    { t.add(KindSuccess, text, "") }
func (t *Transcript) Warning(text string)    { t.add(KindWarning, text, "") }
func (t *Transcript) Info(text string)       { t.add(KindInfo, text, "") }
func (t *Transcript) Text(text string)       { t.add(KindText, text, "") }
func (t *Transcript) Link(label, url string) { t.add(KindLink, label, url) }
func (t *Transcript) Speak(text string)      { t.Spoken = append(t.Spoken, text) }

func (t *Transcript) Empty() bool { return len(t.Blocks) == 0 && len(t.Spoken) == 0 }

// Links returns the URLs of every link block.
func (t *Transcript) Links() []string {
	var out []string
	for _, b := range t.Blocks {
		if b.Kind == KindLink {
			out = append(out, b.URL)
		}
	}
	return out
}
