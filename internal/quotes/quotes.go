package quotes

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

var builtin = []string{
	"🎵 Music gives a soul to the universe, wings to the mind, flight to the imagination and life to everything. – Plato",
	"🎶 Where words fail, music speaks. – Hans Christian Andersen",
	"🎧 One good thing about music, when it hits you, you feel no pain. – Bob Marley",
	"🎼 Music can change the world because it can change people. – Bono",
	"🎹 Music is the shorthand of emotion. – Leo Tolstoy",
	"🎤 Music is life itself. – Louis Armstrong",
	"🎸 Without music, life would be a mistake. – Friedrich Nietzsche",
}

// Provider hands out quotes from a fixed, non-empty set.
type Provider struct {
	quotes []string
}

// Default returns a provider over the built-in quote set.
func Default() *Provider {
	return &Provider{quotes: append([]string(nil), builtin...)}
}

// New returns a provider over qs, or over the built-in set when qs is empty.
func New(qs []string) *Provider {
	var out []string
	for _, q := range qs {
		if q != "" {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return Default()
	}
	return &Provider{quotes: out}
}

type quotesFile struct {
	Quotes []string `yaml:"quotes"`
}

// Load reads a YAML document of the form `quotes: [...]`.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quotes: %w", err)
	}
	var f quotesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse quotes: %w", err)
	}
	return New(f.Quotes), nil
}

func (p *Provider) Random() string {
	return p.quotes[rand.IntN(len(p.quotes))]
}

// All returns a copy of the quote set.
func (p *Provider) All() []string {
	return append([]string(nil), p.quotes...)
}
