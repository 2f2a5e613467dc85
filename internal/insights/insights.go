package insights

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"moodmate/internal/memory"
	"moodmate/internal/mood"
)

// Counts tallies interactions per mood label.
type Counts struct {
	Happy   int `json:"happy"`
	Sad     int `json:"sad"`
	Neutral int `json:"neutral"`
}

func (c Counts) Total() int { return c.Happy + c.Sad + c.Neutral }

func (c Counts) Of(l mood.Label) int {
	switch l {
	case mood.Happy:
		return c.Happy
	case mood.Sad:
		return c.Sad
	case mood.Neutral:
		return c.Neutral
	}
	return 0
}

func (c *Counts) add(l mood.Label) {
	switch l {
	case mood.Happy:
		c.Happy++
	case mood.Sad:
		c.Sad++
	case mood.Neutral:
		c.Neutral++
	}
}

// Count scans every record. Records with an unknown label are skipped.
func Count(records []memory.Record) Counts {
	var c Counts
	for _, r := range records {
		c.add(r.Mood)
	}
	return c
}

// Lines renders one line per mood.
func (c Counts) Lines() []string {
	return []string{
		fmt.Sprintf("😊 Happy: %d", c.Happy),
		fmt.Sprintf("😢 Sad: %d", c.Sad),
		fmt.Sprintf("😐 Neutral: %d", c.Neutral),
	}
}

const Title = "Mood Insights"

func (c Counts) String() string {
	return Title + "\n" + strings.Join(c.Lines(), "\n")
}

// DailyStats summarises a single calendar day.
type DailyStats struct {
	Date     string     `json:"date"`
	Counts   Counts     `json:"counts"`
	Dominant mood.Label `json:"dominant,omitempty"`
	Skipped  int        `json:"skipped"`
}

// AnalyzeDay counts moods of the records stamped on day, in day's location.
// Records whose timestamp cannot be parsed are counted as skipped.
func AnalyzeDay(records []memory.Record, day time.Time) *DailyStats {
	loc := day.Location()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	stats := &DailyStats{Date: start.Format("2006-01-02")}
	for _, r := range records {
		ts, err := r.Time(loc)
		if err != nil {
			stats.Skipped++
			continue
		}
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		stats.Counts.add(r.Mood)
	}

	best := 0
	for _, l := range mood.Labels {
		if n := stats.Counts.Of(l); n > best {
			best = n
			stats.Dominant = l
		}
	}
	return stats
}

// Summary renders the report sent by the daily scheduler.
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s for %s\n", Title, ds.Date)
	if ds.Counts.Total() == 0 {
		b.WriteString("No conversations today.")
		return b.String()
	}
	fmt.Fprintf(&b, "Conversations: %d\n", ds.Counts.Total())
	b.WriteString(strings.Join(ds.Counts.Lines(), "\n"))
	if ds.Dominant != "" {
		fmt.Fprintf(&b, "\nMostly %s today.", strings.ToLower(ds.Dominant.Title()))
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
