package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"recipeai/internal/core/ingredient"
	"recipeai/internal/core/ocr"
	"recipeai/internal/core/receipt"
	"recipeai/internal/core/recipe"
	"recipeai/internal/infrastructure/config"
	"recipeai/internal/pkg/common"

	"github.com/spf13/cobra"
)

var (
	outputJSON    bool
	suggestHour   int
	suggestAll    bool
	catalogPath   string
	dinnerEndHour int
	runOCR        bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify NAME...",
	Short: "Classify ingredient names into categories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type row struct {
			Name     string              `json:"name"`
			Category ingredient.Category `json:"category"`
			Label    string              `json:"label"`
		}
		rows := make([]row, 0, len(args))
		for _, name := range args {
			c := ingredient.Classify(name)
			rows = append(rows, row{Name: name, Category: c, Label: c.Label()})
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, rows)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Category, r.Label)
		}
		return w.Flush()
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [FILE]",
	Short: "Extract ingredients from receipt text (stdin when FILE is omitted)",
	Long: `Extract ingredients from raw receipt text.

With --ocr, FILE is treated as a receipt image or PDF and is first run
through the configured OCR engine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readReceiptText(cmd, args)
		if err != nil {
			return err
		}

		items := receipt.Extract(text)
		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, items)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%g\t%s\t%s\n", it.Name, it.Quantity, it.Unit, it.Category)
		}
		return w.Flush()
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [INGREDIENT...]",
	Short: "Suggest recipes for the given ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := recipe.LoadCatalogFile(catalogPath)
		if err != nil {
			return fmt.Errorf("failed to load recipe catalog: %w", err)
		}
		bounds := recipe.DefaultBoundaries().WithDinnerEnd(dinnerEndHour)
		if err := bounds.Validate(); err != nil {
			return err
		}

		now := time.Now()
		if cmd.Flags().Changed("hour") {
			if suggestHour < 0 || suggestHour > 23 {
				return fmt.Errorf("hour must be within 0-23")
			}
			now = time.Date(now.Year(), now.Month(), now.Day(), suggestHour, 0, 0, 0, now.Location())
		}

		opts := recipe.Options{Boundaries: bounds}
		if !suggestAll {
			opts.MaxResults = recipe.DefaultMaxResults
		}
		svc := recipe.NewService(catalog, nil, nil, nil, opts)
		available := append([]string{}, args...)
		suggestions, err := svc.Suggest(cmd.Context(), common.DefaultUserID, available, now)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return writeJSON(out, suggestions)
		}
		fmt.Fprintf(out, "%s (%s)\n", suggestions.MealTypeLabel, suggestions.MealType)
		fmt.Fprintf(out, "Ingredientes: %s\n", common.StringSliceToString(suggestions.Available))
		if len(suggestions.Recipes) == 0 {
			fmt.Fprintln(out, "Sin recetas disponibles")
			return nil
		}
		for _, r := range suggestions.Recipes {
			matched := recipe.CountMatches(r.Ingredients, suggestions.Available)
			fmt.Fprintf(out, "- [%s] %s (%d/%d) %s\n", r.ID, r.Name, matched, len(r.Ingredients), r.Difficulty)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{classifyCmd, extractCmd, suggestCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of text")
	}
	extractCmd.Flags().BoolVar(&runOCR, "ocr", false, "treat FILE as a receipt image or PDF and run OCR first")

	suggestCmd.Flags().IntVar(&suggestHour, "hour", 0, "hour of day used to pick the meal slot (default: now)")
	suggestCmd.Flags().BoolVar(&suggestAll, "all", false, "list every matching recipe instead of the top results")
	suggestCmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML recipe catalog (default: built-in catalog)")
	suggestCmd.Flags().IntVar(&dinnerEndHour, "dinner-end", recipe.DefaultDinnerEndHour, "hour at which the dinner slot ends")
}

// readReceiptText 讀取收據文字；--ocr 時先經過 OCR
func readReceiptText(cmd *cobra.Command, args []string) (string, error) {
	if runOCR {
		if len(args) == 0 {
			return "", fmt.Errorf("--ocr requires a FILE")
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		engine, err := newOCREngine(cfg)
		if err != nil {
			return "", err
		}
		if !ocr.SupportedExtension(args[0]) {
			return "", common.ErrUnsupportedReceipt
		}
		return engine.Recognize(cmd.Context(), args[0], cfg.OCR.Language)
	}

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
