package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/llm"
	"github.com/abhisek/mathgenius/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if purpose != "" {
			events = filterPurpose(events, purpose)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + truncate(e.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		byPurpose := aggregateUsage(events, func(e store.LLMRequestEvent) string { return e.Purpose })
		fmt.Println("Usage by purpose")
		printUsage("Purpose", byPurpose, false)

		byModel := aggregateUsage(events, func(e store.LLMRequestEvent) string { return e.Model })
		fmt.Println()
		fmt.Println("Estimated cost (USD)")
		printUsage("Model", byModel, true)
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. narrate)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

// usageRow totals the events that share a key.
type usageRow struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

func (u usageRow) avgLatencyMs() int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.LatencyMs / int64(u.Calls)
}

// aggregateUsage groups events by key, most calls first.
func aggregateUsage(events []store.LLMRequestEvent, key func(store.LLMRequestEvent) string) []usageRow {
	rows := map[string]*usageRow{}
	for _, e := range events {
		k := key(e)
		r, ok := rows[k]
		if !ok {
			r = &usageRow{Key: k}
			rows[k] = r
		}
		r.Calls++
		if !e.Success {
			r.Failures++
		}
		r.InputTokens += e.InputTokens
		r.OutputTokens += e.OutputTokens
		r.LatencyMs += e.LatencyMs
	}

	out := make([]usageRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func printUsage(label string, rows []usageRow, withCost bool) {
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%-28s  %6s  %6s  %10s  %10s  %8s  %s\n", label, "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
	fmt.Println(strings.Repeat("─", 80))

	var total float64
	for _, r := range rows {
		cost := "-"
		if withCost {
			if mc := llm.LookupCost(r.Key); mc != nil {
				c := mc.Cost(r.InputTokens, r.OutputTokens)
				total += c
				cost = formatCost(c)
			} else {
				cost = "unknown"
			}
		}
		fmt.Printf("%-28s  %6d  %6d  %10d  %10d  %8d  %s\n",
			truncate(r.Key, 28), r.Calls, r.Failures, r.InputTokens, r.OutputTokens, r.avgLatencyMs(), cost)
	}
	if withCost {
		fmt.Println(strings.Repeat("─", 80))
		fmt.Printf("%-28s  %62s\n", "Total", formatCost(total))
	}
}

func filterPurpose(events []store.LLMRequestEvent, purpose string) []store.LLMRequestEvent {
	out := events[:0:0]
	for _, e := range events {
		if e.Purpose == purpose {
			out = append(out, e)
		}
	}
	return out
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
