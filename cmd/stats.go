package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals across all runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.RunRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if st.Runs == 0 {
			fmt.Println("No runs yet.")
			return nil
		}

		fmt.Printf("Runs:        %d\n", st.Runs)
		fmt.Printf("Questions:   %d\n", st.Questions)
		fmt.Printf("Correct:     %d\n", st.Correct)
		fmt.Printf("Mistakes:    %d\n", st.Mistakes)
		fmt.Printf("Unanswered:  %d\n", st.Unanswered)
		fmt.Printf("Accuracy:    %.0f%%\n", st.Accuracy()*100)
		fmt.Printf("Best score:  %d/%d\n", st.BestScore, st.BestTotal)
		fmt.Printf("Last played: %s\n", st.LastPlayed.Local().Format("2006-01-02 15:04"))
		return nil
	},
}
