package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished quiz runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().ListRuns(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %7s  %8s  %8s  %s\n",
			"Run", "Finished", "Score", "Mistakes", "Duration", "Source")
		fmt.Println(rule(100))
		for _, r := range runs {
			fmt.Printf("%-36s  %-16s  %7s  %8d  %8s  %s\n",
				r.RunID,
				r.FinishedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d/%d", r.Score, r.Total),
				r.Mistakes,
				formatDuration(r.Duration),
				truncate(r.Source, 30),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <run-id>",
	Short: "Show one run with its mistakes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.RunRepo().GetRun(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}

		fmt.Printf("Run:        %s\n", run.RunID)
		fmt.Printf("Started:    %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Finished:   %s\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Source:     %s\n", run.Source)
		fmt.Printf("Score:      %d/%d\n", run.Score, run.Total)
		fmt.Printf("Mistakes:   %d\n", run.Mistakes)
		fmt.Printf("Unanswered: %d\n", run.Unanswered)
		fmt.Printf("Duration:   %s (%ds per question)\n", formatDuration(run.Duration), run.TimerSeconds)

		var mistakes []store.AnswerRow
		for _, a := range run.Answers {
			if a.MistakeOrder > 0 {
				mistakes = append(mistakes, a)
			}
		}
		if len(mistakes) == 0 {
			return nil
		}
		sort.Slice(mistakes, func(i, j int) bool { return mistakes[i].MistakeOrder < mistakes[j].MistakeOrder })

		fmt.Println()
		fmt.Println("MISTAKES")
		fmt.Println(rule(60))
		for _, m := range mistakes {
			selected := m.Selected
			if m.TimedOut {
				selected = "None"
			}
			fmt.Printf("%d. %s\n", m.Position+1, m.Question)
			fmt.Printf("   You: %s | Correct: %s\n", selected, m.Answer)
			if m.Explanation != "" {
				fmt.Printf("   %s\n", m.Explanation)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	historyCmd.AddCommand(historyViewCmd)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
