package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"moodmate/internal/storage"
)

var (
	insightsToday bool
	insightsJSON  bool
	historyLimit  int
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show how many conversations were happy, sad or neutral",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		term := newTerminal(cmd)
		if insightsToday {
			stats := application.Handler.Daily(time.Now())
			if insightsJSON {
				out, err := stats.ToJSON()
				if err != nil {
					return err
				}
				term.Text(out)
				return nil
			}
			term.Text(stats.Summary())
			return nil
		}
		if insightsJSON {
			c := application.Handler.Insights()
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			term.Text(string(data))
			return nil
		}
		application.Handler.ShowInsights(term)
		return nil
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print a random music quote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		newTerminal(cmd).Text(application.Handler.Quote())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent conversation turns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if application.Journal == nil {
			return fmt.Errorf("turn journal is disabled (set JOURNAL_FILE_PATH)")
		}
		events, err := application.Journal.LoadTurns()
		if err != nil {
			return fmt.Errorf("load turns: %w", err)
		}
		printHistory(newTerminal(cmd), storage.Tail(events, historyLimit))
		return nil
	},
}

func init() {
	insightsCmd.Flags().BoolVar(&insightsToday, "today", false, "only count today's conversations")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "print JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of turns")
}

func printHistory(term *terminal, events []storage.Event) {
	if len(events) == 0 {
		term.Text("No conversations yet.")
		return
	}
	for _, ev := range events {
		head := fmt.Sprintf("%s [%s/%s]", ev.Timestamp.Local().Format("2006-01-02 15:04"), ev.Surface, ev.Intent)
		term.hint(head)
		term.Text("  you: " + ev.Input)
		if ev.Mood != "" {
			term.Text("  mood: " + ev.Mood)
		}
		if ev.Reply != "" {
			term.Text("  reply: " + ev.Reply)
		}
		if ev.Link != "" {
			term.Link("  link", ev.Link)
		}
	}
}
