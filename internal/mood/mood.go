// Package mood maps free text to a coarse mood label using a sentiment
// polarity score.
package mood

import (
	"strings"

	"github.com/jonreiter/govader"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Label string

const (
	Happy   Label = "happy"
	Sad     Label = "sad"
	Neutral Label = "neutral"
)

// Labels lists every label in display order.
var Labels = []Label{Happy, Sad, Neutral}

const (
	happyThreshold = 0.2
	sadThreshold   = -0.2
)

func (l Label) String() string { return string(l) }

// Title returns the label for display, e.g. "Happy".
func (l Label) Title() string { return cases.Title(language.English).String(string(l)) }

func (l Label) Valid() bool {
	switch l {
	case Happy, Sad, Neutral:
		return true
	}
	return false
}

// Analyzer scores text polarity in [-1, 1].
type Analyzer interface {
	Polarity(text string) float64
}

// FromPolarity applies the mood thresholds. Both boundaries are neutral.
func FromPolarity(p float64) Label {
	switch {
	case p > happyThreshold:
		return Happy
	case p < sadThreshold:
		return Sad
	default:
		return Neutral
	}
}

type Classifier struct {
	analyzer Analyzer
}

func NewClassifier(a Analyzer) *Classifier {
	return &Classifier{analyzer: a}
}

func (c *Classifier) Detect(text string) Label {
	if strings.TrimSpace(text) == "" {
		return Neutral
	}
	return FromPolarity(c.analyzer.Polarity(text))
}

// VaderAnalyzer uses the VADER compound score as polarity.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderAnalyzer) Polarity(text string) float64 {
	return v.sia.PolarityScores(text).Compound
}
