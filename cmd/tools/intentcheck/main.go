package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
)

var (
	ruleSetFlag string
	jsonFlag    bool
	rootCmd     = &cobra.Command{
		Use:   "intentcheck",
		Short: "Inspect and exercise the chat intent rules",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&ruleSetFlag, "ruleset", "r", "clinic", "Rule set to evaluate")

	classifyCmd := &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Classify each argument, or stdin lines when no argument is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runClassifyLines(ruleSetFlag, os.Stdin, os.Stdout, jsonFlag)
			}
			return runClassify(ruleSetFlag, args, os.Stdout, jsonFlag)
		},
	}
	classifyCmd.Flags().BoolVarP(&jsonFlag, "json", "j", false, "Print one JSON object per message")
	rootCmd.AddCommand(classifyCmd)

	rulesetsCmd := &cobra.Command{
		Use:   "rulesets",
		Short: "List the built-in rule sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(os.Stdout, strings.Join(intent.RuleSetNames(), "\n"))
			return err
		},
	}
	rootCmd.AddCommand(rulesetsCmd)

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the rules of the selected set in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(ruleSetFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(rulesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
