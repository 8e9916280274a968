package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/rules/standard"
)

const (
	readmeFile = "README.md"
	rulesFile  = "docs/rules.md"

	startMarker = "<!-- START LINT RULES -->"
	endMarker   = "<!-- END LINT RULES -->"
)

func main() {
	if err := updateLintDocs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func updateLintDocs() error {
	fmt.Println("🔄 Updating lint rule documentation...")

	reg, err := standard.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to build registry: %w", err)
	}
	docGen := linter.NewDocGenerator(reg)

	if err := writeRulesFile(docGen, rulesFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", rulesFile, err)
	}
	fmt.Printf("✅ Wrote %s\n", rulesFile)

	if _, err := os.Stat(readmeFile); os.IsNotExist(err) {
		fmt.Printf("⚠️  No README file found: %s\n", readmeFile)
		return nil
	}
	if err := updateReadmeFile(readmeFile, generateRulesTable(docGen)); err != nil {
		return fmt.Errorf("failed to update README: %w", err)
	}
	fmt.Printf("✅ Updated %s\n", readmeFile)

	fmt.Println("🎉 Lint docs updated successfully!")
	return nil
}

func writeRulesFile(docGen *linter.DocGenerator, filename string) error {
	var buf bytes.Buffer
	if err := docGen.WriteMarkdown(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o600)
}

func generateRulesTable(docGen *linter.DocGenerator) string {
	docs := docGen.GenerateAllRuleDocs()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})

	var content strings.Builder
	content.WriteString("| Rule | Category | Severity | Fixable | Summary |\n")
	content.WriteString("|------|----------|----------|---------|---------|\n")

	for _, doc := range docs {
		summary := strings.ReplaceAll(doc.Summary, "|", "\\|")
		summary = strings.ReplaceAll(summary, "\n", " ")
		fixable := ""
		if doc.FixAvailable {
			fixable = "yes"
		}
		fmt.Fprintf(&content, "| [`%s`](%s#%s) | %s | %s | %s | %s |\n",
			doc.ID, rulesFile, doc.ID, doc.Category, doc.DefaultSeverity, fixable, summary)
	}

	return content.String()
}

// replaceBetweenMarkers swaps the text between the lint rules markers.
func replaceBetweenMarkers(content, newContent string) (string, error) {
	startIdx := strings.Index(content, startMarker)
	endIdx := strings.Index(content, endMarker)
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("could not find lint rules markers")
	}

	before := content[:startIdx+len(startMarker)]
	after := content[endIdx:]
	return before + "\n\n" + newContent + "\n" + after, nil
}

func updateReadmeFile(filename, newContent string) error {
	data, err := os.ReadFile(filename) //nolint:gosec
	if err != nil {
		return err
	}

	updated, err := replaceBetweenMarkers(string(data), newContent)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return os.WriteFile(filename, []byte(updated), 0o600)
}
