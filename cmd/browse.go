// Package cmd provides command-line interface commands for the ruleboard catalog.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"ruleboard/catalog"
	"ruleboard/core"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// Global flags for browse commands
var (
	outputJSON bool
	serverURL  string
	noColor    bool
	quiet      bool
)

const defaultTimeout = 30 * time.Second

// NewBrowseCmd creates the root browse command with all subcommands.
func NewBrowseCmd() *cobra.Command {
	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the rule catalog",
		Long: `Browse the published rule catalog of a running ruleboard server.

Lists rules, filters them by category, shows individual rule content,
summarizes categories, and submits new rules for publication.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	browseCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	browseCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8081", "Ruleboard server URL")
	browseCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	browseCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-essential output")

	browseCmd.AddCommand(newRulesCmd())
	browseCmd.AddCommand(newShowCmd())
	browseCmd.AddCommand(newCategoriesCmd())
	browseCmd.AddCommand(newSubmitCmd())

	return browseCmd
}

// newRulesCmd creates the 'rules' subcommand
func newRulesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"list", "ls"},
		Short:   "List published rules",
		Long:    "Display a table of published rules, optionally filtered to a single category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()

			client := catalog.NewClient(serverURL)
			collection := core.NewCollection()

			if err := collection.Refresh(ctx, client); err != nil {
				return fmt.Errorf("failed to fetch rules: %w", err)
			}

			if category != "" {
				collection.SetSelectedCategory(&category)
			}
			rules := collection.FilteredRules()

			if outputJSON {
				return outputAsJSON(rules)
			}

			renderRulesTable(rules, collection.SelectedCategory())
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only show rules in this category (exact match)")

	return cmd
}

// newShowCmd creates the 'show' subcommand
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <rule-id>",
		Short: "Show a single rule",
		Long:  "Display the full content and metadata of a single rule by its identifier.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()

			client := catalog.NewClient(serverURL)
			rule, err := client.FetchRule(ctx, args[0])
			if err != nil {
				return err
			}

			if outputJSON {
				return outputAsJSON(rule)
			}

			renderRuleDetails(rule)
			return nil
		},
	}

	return cmd
}

// newCategoriesCmd creates the 'categories' subcommand
func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List categories with rule counts",
		Long:    "Display every category with its count of published rules, plus the overall total.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()

			client := catalog.NewClient(serverURL)
			summary, err := client.FetchCategories(ctx)
			if err != nil {
				return err
			}

			if outputJSON {
				return outputAsJSON(summary)
			}

			renderCategoriesTable(summary)
			return nil
		},
	}

	return cmd
}

// newSubmitCmd creates the 'submit' subcommand
func newSubmitCmd() *cobra.Command {
	var (
		name       string
		content    string
		file       string
		authorName string
		contactURL string
		avatarURL  string
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new rule",
		Long: `Submit a new rule for publication.

Rule content is taken from --content, or from the file named by --file.
At least one category is required; repeat --category to assign several.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()

			if content == "" && file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read rule file: %w", err)
				}
				content = string(data)
			}

			sub := core.RuleSubmission{
				Name:       name,
				Content:    content,
				AuthorName: authorName,
				ContactURL: contactURL,
				AvatarURL:  avatarURL,
				Categories: categories,
			}
			if err := sub.Validate(); err != nil {
				return err
			}

			client := catalog.NewClient(serverURL)

			if !outputJSON && !quiet {
				for _, missing := range newCategories(ctx, client, sub.NormalizedCategories()) {
					infoColor.Printf("New category will be created: %s\n", missing)
				}
			}

			var s *spinner.Spinner
			if !outputJSON && !quiet {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				s.Suffix = " Submitting rule..."
				s.Start()
			}

			rule, err := client.SubmitRule(ctx, sub)

			if s != nil {
				s.Stop()
			}
			if err != nil {
				return err
			}

			if outputJSON {
				return outputAsJSON(rule)
			}

			successColor.Printf("✓ Rule submitted: %s\n", rule.Name)
			fmt.Printf("  ID: %s\n", rule.ID)
			fmt.Printf("  Categories: %s\n", strings.Join(rule.Categories, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Rule name (required)")
	cmd.Flags().StringVar(&content, "content", "", "Rule content")
	cmd.Flags().StringVar(&file, "file", "", "Read rule content from this file")
	cmd.Flags().StringVar(&authorName, "author", "", "Author name (required)")
	cmd.Flags().StringVar(&contactURL, "contact", "", "Author contact URL (required)")
	cmd.Flags().StringVar(&avatarURL, "avatar", "", "Author avatar URL")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category to assign (repeatable, at least one required)")

	return cmd
}

// newCategories returns the submitted categories that do not exist on the
// server yet. Best effort: a failed lookup reports nothing rather than
// blocking the submission.
func newCategories(ctx context.Context, client *catalog.Client, submitted []string) []string {
	existing, err := client.FetchCategoryNames(ctx)
	if err != nil {
		return nil
	}

	known := make(map[string]bool, len(existing))
	for _, name := range existing {
		known[name] = true
	}

	var missing []string
	for _, name := range submitted {
		if !known[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// outputAsJSON outputs data as formatted JSON
func outputAsJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
