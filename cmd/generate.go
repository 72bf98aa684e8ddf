package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/bank"
	"github.com/abhisek/quizzy/internal/bankgen"
	"github.com/abhisek/quizzy/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question bank with the configured LLM",
	Long: `Generate a question bank with the configured LLM and write it as JSON.

With --extend, the questions of an existing bank are passed to the model
as ones to avoid and the new questions are appended to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		language, _ := cmd.Flags().GetString("language")
		options, _ := cmd.Flags().GetInt("options")
		output, _ := cmd.Flags().GetString("output")
		extend, _ := cmd.Flags().GetString("extend")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := stderrLogger(cfg)

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		var existing []quiz.Item
		if extend != "" {
			existing, err = bank.FileLoader{Path: extend}.Load(ctx)
			if err != nil {
				return err
			}
		}
		avoid := make([]string, len(existing))
		for i, it := range existing {
			avoid[i] = it.Question
		}

		gen, err := newBankGenerator(ctx, st.EventRepo(), log)
		if err != nil {
			return err
		}
		items, err := gen.Generate(ctx, bankgen.Request{
			Topic:      topic,
			Count:      count,
			Difficulty: difficulty,
			Language:   language,
			Options:    options,
			Avoid:      avoid,
		})
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		if len(items) < count {
			log.Warn().Int("wanted", count).Int("got", len(items)).Msg("short bank")
		}

		data, err := json.MarshalIndent(append(existing, items...), "", "  ")
		if err != nil {
			return fmt.Errorf("encode bank: %w", err)
		}
		data = append(data, '\n')

		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write bank: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", len(existing)+len(items), output)
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringP("topic", "t", "", "Topic of the questions (required)")
	f.IntP("count", "n", 10, "Number of questions")
	f.String("difficulty", bankgen.DifficultyMedium, "easy, medium or hard")
	f.String("language", "", "Language of the questions (default English)")
	f.Int("options", 4, "Options per question")
	f.StringP("output", "o", "", "Output file (default stdout)")
	f.String("extend", "", "Existing bank file to extend")
	_ = generateCmd.MarkFlagRequired("topic")
}
