package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd 未指定子命令時啟動 HTTP 服務
var rootCmd = &cobra.Command{
	Use:   "recipeai",
	Short: "Recipe suggestions from your pantry and grocery receipts",
	Long: `recipeai keeps a per-user pantry, classifies ingredients into categories,
extracts ingredients from receipt images or PDFs, and suggests recipes
for the current meal slot.

Available subcommands:
  serve    - Run the HTTP API (default)
  classify - Classify ingredient names
  extract  - Extract ingredients from receipt text or a receipt file
  suggest  - Suggest recipes for a list of ingredients`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, classifyCmd, extractCmd, suggestCmd)
}

func main() {
	// 載入 .env（可選）
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
