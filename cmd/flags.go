package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

func parseGrade(s string) (curriculum.Grade, error) {
	g, ok := curriculum.ParseGrade(s)
	if !ok {
		return 0, fmt.Errorf("unknown grade %q (use prek, k or 1-12)", s)
	}
	return g, nil
}

func parseCategory(s string) (curriculum.Category, error) {
	c, ok := curriculum.ParseCategory(s)
	if !ok {
		return "", fmt.Errorf("unknown category %q (one of: %s)", s, categoryNames())
	}
	return c, nil
}

func parseTier(s string) (curriculum.Tier, error) {
	t, ok := curriculum.ParseTier(s)
	if !ok {
		return 0, fmt.Errorf("unknown tier %q (use easy, normal, advanced or expert)", s)
	}
	return t, nil
}

func categoryNames() string {
	cats := curriculum.AllCategories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func joinCategories(cats []curriculum.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.DisplayName()
	}
	return strings.Join(names, ", ")
}
