package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/calibration"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Recommend a tier from a learner's answer history",
	Long: "Recommend a tier and weak/strong categories. Observations come from the " +
		"learner's history in the database, or from a JSON array with --file (\"-\" reads stdin).",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")

		var (
			obs []calibration.Observation
			err error
		)
		if file != "" {
			obs, err = readObservations(file)
		} else {
			obs, err = learnerObservations(cmd)
		}
		if err != nil {
			return err
		}

		res := calibration.NewCalibrator(cfg.Calibration).Recommend(obs)
		if asJSON {
			return printJSON(res)
		}
		printCalibration(res)
		return nil
	},
}

func init() {
	calibrateCmd.Flags().StringP("file", "f", "", "Read observations from a JSON file instead of the database")
	calibrateCmd.Flags().Bool("json", false, "Print JSON")
}

func readObservations(path string) ([]calibration.Observation, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open observations: %w", err)
		}
		defer f.Close()
		r = f
	}

	var obs []calibration.Observation
	if err := json.NewDecoder(r).Decode(&obs); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	for i, o := range obs {
		if !o.Category.Valid() {
			return nil, fmt.Errorf("observation %d: unknown category %q", i, o.Category)
		}
	}
	return obs, nil
}

func learnerObservations(cmd *cobra.Command) ([]calibration.Observation, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	obs, err := st.ObservationRepo().RecentWindow(cmd.Context(), cfg.Learner, nil, cfg.Calibration.Window)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	return obs, nil
}

func printCalibration(res calibration.Result) {
	fmt.Printf("Recommended tier: %s\n", res.RecommendedTier)
	if res.Sample == 0 {
		fmt.Println("No answers yet.")
		return
	}
	fmt.Printf("Accuracy:         %.0f%% over %d answers\n", res.Accuracy*100, res.Sample)
	fmt.Printf("Mean response:    %.1fs\n", res.MeanResponseMs/1000)
	if len(res.WeakCategories) > 0 {
		fmt.Printf("Needs work:       %s\n", joinCategories(res.WeakCategories))
	}
	if len(res.StrongCategories) > 0 {
		fmt.Printf("Strong:           %s\n", joinCategories(res.StrongCategories))
	}

	if len(res.Categories) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%-18s  %8s  %8s  %9s\n", "Category", "Attempts", "Accuracy", "Mean (s)")
	fmt.Println(strings.Repeat("─", 49))
	for _, c := range res.Categories {
		fmt.Printf("%-18s  %8d  %7.0f%%  %9.1f\n",
			c.Category.DisplayName(), c.Attempts, c.Accuracy*100, c.MeanResponseMs/1000)
	}
}
