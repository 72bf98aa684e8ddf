package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM calls made while generating banks",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		// Purpose is filtered here, so the limit applies after it.
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		var shown []store.LLMRequestEvent
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if limit > 0 && len(shown) == limit {
				break
			}
			shown = append(shown, e)
		}
		if len(shown) == 0 {
			fmt.Println("No LLM calls recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %-10s  %-28s  %6s  %6s  %6s  %8s  %s\n",
			"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Cost", "OK")
		fmt.Println(rule(104))
		for _, e := range shown {
			status := "✓"
			if !e.Success {
				status = "✗"
			}
			fmt.Printf("%-5d  %-16s  %-10s  %-28s  %6d  %6d  %6d  %8s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.Purpose, 10),
				truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens, e.LatencyMs,
				priceOf(e.Model, e.InputTokens, e.OutputTokens),
				status,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("LLM call %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		fmt.Printf("Call %d  %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("%s / %s  purpose=%s\n", e.Provider, e.Model, e.Purpose)
		fmt.Printf("%d in, %d out, %dms, %s\n", e.InputTokens, e.OutputTokens, e.LatencyMs,
			priceOf(e.Model, e.InputTokens, e.OutputTokens))
		if !e.Success {
			fmt.Printf("Failed: %s\n", e.ErrorMessage)
		}

		section("PROMPT", e.RequestBody)
		section("REPLY", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM calls recorded.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		fmt.Printf("%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg Ms")
		fmt.Println(rule(58))
		for _, u := range byPurpose {
			fmt.Printf("%-16s  %6d  %10d  %10d  %8d\n",
				truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		}

		fmt.Println()
		fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(rule(75))
		var total float64
		var unpriced []string
		for _, u := range byModel {
			if c := llm.LookupCost(u.Model); c != nil {
				total += c.Cost(u.InputTokens, u.OutputTokens)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
				truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens,
				priceOf(u.Model, u.InputTokens, u.OutputTokens))
		}
		fmt.Println(rule(75))
		fmt.Printf("%-32s  %41s\n", "Estimated total", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Printf("\nNo price known for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (e.g. bank-gen)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func priceOf(model string, in, out int) string {
	c := llm.LookupCost(model)
	if c == nil {
		return "?"
	}
	return formatCost(c.Cost(in, out))
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func rule(n int) string { return strings.Repeat("─", n) }

func section(title, body string) {
	fmt.Println()
	fmt.Println(title)
	fmt.Println(rule(60))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}
