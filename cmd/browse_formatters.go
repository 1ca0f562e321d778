package cmd

import (
	"fmt"
	"strings"
	"time"

	"ruleboard/catalog"
	"ruleboard/core"
)

// renderRulesTable displays rules in a formatted table
func renderRulesTable(rules []core.Rule, selected *string) {
	if len(rules) == 0 {
		if selected != nil {
			warningColor.Printf("No rules in category %q\n", *selected)
		} else {
			warningColor.Println("No rules published")
		}
		return
	}

	if selected != nil {
		headerColor.Printf("RULES - %s\n", *selected)
	} else {
		headerColor.Println("RULES")
	}
	headerColor.Println(strings.Repeat("=", 110))
	fmt.Printf("%-10s %-35s %-20s %-25s %-15s\n",
		"ID", "Name", "Author", "Categories", "Published")
	fmt.Println(strings.Repeat("-", 110))

	for _, rule := range rules {
		// Short ID (first 8 chars)
		shortID := rule.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		// Truncate name if too long
		name := rule.Name
		if len(name) > 34 {
			name = name[:31] + "..."
		}

		author := rule.Author.Name
		if len(author) > 19 {
			author = author[:16] + "..."
		}

		cats := strings.Join(rule.Categories, ", ")
		if len(cats) > 24 {
			cats = cats[:21] + "..."
		}

		fmt.Printf("%-10s %-35s %-20s %-25s %-15s\n",
			shortID, name, author, cats, formatTimeSince(rule.CreatedAt))
	}

	fmt.Println(strings.Repeat("=", 110))
	fmt.Printf("\nTotal rules: %d\n", len(rules))
}

// renderRuleDetails displays a single rule with its full content
func renderRuleDetails(rule *core.Rule) {
	headerColor.Println("═══════════════════════════════════════════════════════════════")
	headerColor.Printf("  Rule: %s\n", rule.Name)
	headerColor.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	printSection("Metadata")
	printField("ID", rule.ID)
	printField("Name", rule.Name)
	printField("Author", rule.Author.Name)
	printField("Contact", rule.Author.ContactURL)
	if rule.Author.AvatarURL != "" {
		printField("Avatar", rule.Author.AvatarURL)
	}
	printField("Categories", strings.Join(rule.Categories, ", "))
	printField("Published", formatTime(rule.CreatedAt))
	fmt.Println()

	printSection("Content")
	for _, line := range strings.Split(strings.TrimRight(rule.Content, "\n"), "\n") {
		fmt.Printf("  %s\n", line)
	}
	fmt.Println()
}

// renderCategoriesTable displays categories with their rule counts
func renderCategoriesTable(summary *catalog.CategorySummary) {
	if len(summary.Categories) == 0 {
		warningColor.Println("No categories defined")
		return
	}

	headerColor.Println("CATEGORIES")
	headerColor.Println(strings.Repeat("=", 50))
	fmt.Printf("%-35s %s\n", "Name", "Rules")
	fmt.Println(strings.Repeat("-", 50))

	for _, cat := range summary.Categories {
		name := cat.Name
		if len(name) > 34 {
			name = name[:31] + "..."
		}
		fmt.Printf("%-35s %d\n", name, cat.Count)
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("\nTotal rules: %d\n", summary.TotalRules)
}

// printSection prints a section header
func printSection(title string) {
	headerColor.Printf("  %s\n", title)
	headerColor.Println("  " + strings.Repeat("─", len(title)))
}

// printField prints a key-value field
func printField(key, value string) {
	if value == "" {
		value = "(not set)"
	}
	fmt.Printf("  %-15s %s\n", key+":", value)
}

// formatTime formats a timestamp
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatTimeSince formats time since a timestamp
func formatTimeSince(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}

	duration := time.Since(t)
	if duration < time.Minute {
		return fmt.Sprintf("%ds ago", int(duration.Seconds()))
	}
	if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	}
	if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	}
	days := int(duration.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
