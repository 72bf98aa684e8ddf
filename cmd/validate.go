package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/quiz"
)

var validateCmd = &cobra.Command{
	Use:   "validate <bank.json>",
	Short: "Check a question bank for schema and data-quality problems",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read bank: %w", err)
		}
		if err := quiz.ValidateJSON(raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		items, err := quiz.ParseItems(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		issues := quiz.Validate(items)
		out := cmd.OutOrStdout()
		for _, iss := range issues {
			fmt.Fprintln(out, iss.String())
		}
		if len(issues) > 0 {
			return fmt.Errorf("%s: %d questions, %d issues", path, len(items), len(issues))
		}
		fmt.Fprintf(out, "%s: %d questions, no issues\n", path, len(items))
		return nil
	},
}
