package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/problemgen"
)

var distractorsCmd = &cobra.Command{
	Use:   "distractors <correct>",
	Short: "Print wrong answers for a correct value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("correct value must be an integer: %w", err)
		}
		if correct < 1 || correct > problemgen.MaxCorrectValue {
			return fmt.Errorf("correct value must be between 1 and %d", problemgen.MaxCorrectValue)
		}
		count, _ := cmd.Flags().GetInt("count")
		if count < 1 || count > 20 {
			return fmt.Errorf("--count must be between 1 and 20")
		}
		seed, _ := cmd.Flags().GetUint64("seed")

		ds := problemgen.GenerateDistractors(correct, count, seededRand(seed))
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(map[string]any{"correct": correct, "distractors": ds})
		}
		strs := make([]string, len(ds))
		for i, d := range ds {
			strs[i] = strconv.Itoa(d)
		}
		fmt.Println(strings.Join(strs, " "))
		return nil
	},
}

func init() {
	distractorsCmd.Flags().IntP("count", "n", 3, "Number of distractors")
	distractorsCmd.Flags().Uint64("seed", 0, "Random seed; 0 picks one")
	distractorsCmd.Flags().Bool("json", false, "Print JSON")
}
