package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/problemgen"
	"github.com/abhisek/mathgenius/internal/questions"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print generated questions",
	Example: `  mathgenius generate --grade 4 --category fractions --tier normal -n 5
  mathgenius generate --grade k --seed 42 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := generateRequest(cmd)
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetUint64("seed")
		asJSON, _ := cmd.Flags().GetBool("json")
		showAnswers, _ := cmd.Flags().GetBool("answers")

		// The store backs the sqlite cache and LLM event log; generation
		// works without it.
		st, err := openStore()
		if err != nil {
			logger.WithError(err).Warn("running without a store")
		} else {
			defer st.Close()
		}

		svc, err := buildServices(cmd.Context(), st)
		if err != nil {
			return err
		}
		defer svc.close()

		qs := svc.questions.Questions(cmd.Context(), req, seededRand(seed))
		if asJSON {
			return printJSON(qs)
		}
		for i, q := range qs {
			printQuestion(i+1, q, showAnswers)
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.String("grade", "", "Grade: prek, k or 1-12 (default from config)")
	f.StringP("category", "c", "", "Category (default from config)")
	f.StringP("tier", "t", "easy", "Tier: easy, normal, advanced or expert")
	f.IntP("count", "n", 5, "Number of questions")
	f.Uint64("seed", 0, "Random seed; 0 picks one")
	f.Bool("json", false, "Print JSON")
	f.Bool("answers", true, "Show answers and explanations")
}

func generateRequest(cmd *cobra.Command) (questions.Request, error) {
	req := questions.Request{Grade: cfg.Session.Grade, Category: cfg.Session.Focus}
	f := cmd.Flags()

	if v, _ := f.GetString("grade"); v != "" {
		g, err := parseGrade(v)
		if err != nil {
			return req, err
		}
		req.Grade = g
	}
	if v, _ := f.GetString("category"); v != "" {
		c, err := parseCategory(v)
		if err != nil {
			return req, err
		}
		req.Category = c
	}
	v, _ := f.GetString("tier")
	t, err := parseTier(v)
	if err != nil {
		return req, err
	}
	req.Tier = t

	req.Count, _ = f.GetInt("count")
	if req.Count < 1 || req.Count > 100 {
		return req, fmt.Errorf("--count must be between 1 and 100")
	}
	return req, nil
}

func printQuestion(n int, q *problemgen.Question, showAnswer bool) {
	fmt.Printf("%d. [%s · %s · %s] %s\n", n, q.Grade.DisplayName(), q.Category.DisplayName(), q.Tier, q.Text)
	letters := "ABCD"
	for i, opt := range q.Options {
		marker := " "
		if showAnswer && i == q.CorrectIndex {
			marker = "*"
		}
		fmt.Printf("   %s %c) %s\n", marker, letters[i%len(letters)], opt)
	}
	if showAnswer {
		fmt.Printf("   Answer: %s. %s\n", q.Answer, q.Explanation)
	}
	if q.Hint != "" {
		fmt.Printf("   Hint: %s\n", q.Hint)
	}
	if len(q.LearningObjectives) > 0 {
		fmt.Printf("   Objectives: %s\n", strings.Join(q.LearningObjectives, "; "))
	}
	fmt.Println()
}
