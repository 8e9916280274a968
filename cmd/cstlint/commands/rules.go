package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/cstlint/cstlint/cmd/cstlint/commands/cmdutil"
	"github.com/cstlint/cstlint/linter"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rules in execution order",
	Long: `List the rules a lint run would execute, in the order they run.

The order honors every rule's run-after and run-before constraints. Rules
dropped because a required rule is disabled are listed separately.
Use --all to also list the rules that are not enabled.

Examples:
  cstlint rules
  cstlint rules --ruleset standard --disable no-multi-spaces
  cstlint rules --all --category spacing
  cstlint rules --format json`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

type rulesOptions struct {
	selection

	format   string
	category string
	all      bool
}

var rulesOpts rulesOptions

func init() {
	rulesOpts.register(rulesCmd)
	rulesCmd.Flags().StringVarP(&rulesOpts.format, "format", "f", "text", "Output format: text or json")
	rulesCmd.Flags().StringVar(&rulesOpts.category, "category", "", "Filter by category (e.g., spacing, wrapping, style)")
	rulesCmd.Flags().BoolVar(&rulesOpts.all, "all", false, "Also list rules that are not enabled")
}

type ruleInfo struct {
	ID              string   `json:"id"`
	Position        int      `json:"position,omitempty"`
	Level           int      `json:"level,omitempty"`
	Category        string   `json:"category"`
	DefaultSeverity string   `json:"defaultSeverity"`
	Summary         string   `json:"summary"`
	FixAvailable    bool     `json:"fixAvailable,omitempty"`
	RunAfter        []string `json:"runAfter,omitempty"`
	Status          string   `json:"status"`
	Rulesets        []string `json:"rulesets"`
}

const (
	statusEnabled  = "enabled"
	statusDropped  = "dropped"
	statusDisabled = "disabled"
)

func runRules(_ *cobra.Command, _ []string) error {
	if err := listRules(&rulesOpts, os.Stdout); err != nil {
		return cmdutil.Exit(2, err)
	}
	return nil
}

func listRules(opts *rulesOptions, w io.Writer) error {
	cfg, _, err := opts.load()
	if err != nil {
		return err
	}
	reg, err := registry()
	if err != nil {
		return err
	}
	l, err := linter.NewLinter(cfg, reg)
	if err != nil {
		return err
	}

	infos := collectRuleInfos(l, opts.all)
	if opts.category != "" {
		infos = slices.DeleteFunc(infos, func(info ruleInfo) bool {
			return info.Category != opts.category
		})
	}

	switch opts.format {
	case "json":
		return printRulesJSON(w, infos)
	case "", "text":
		return printRulesText(w, infos)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

func collectRuleInfos(l *linter.Linter, all bool) []ruleInfo {
	reg := l.Registry()
	sched := l.Schedule()
	gen := linter.NewDocGenerator(reg)

	levels := make(map[string]int)
	for i, level := range sched.Levels {
		for _, id := range level {
			levels[id] = i + 1
		}
	}

	info := func(id, status string, position int) ruleInfo {
		rule, _ := reg.GetRule(id)
		doc := gen.GenerateRuleDoc(rule)
		return ruleInfo{
			ID:              id,
			Position:        position,
			Level:           levels[id],
			Category:        doc.Category,
			DefaultSeverity: doc.DefaultSeverity,
			Summary:         doc.Summary,
			FixAvailable:    doc.FixAvailable,
			RunAfter:        doc.RunAfter,
			Status:          status,
			Rulesets:        doc.Rulesets,
		}
	}

	infos := make([]ruleInfo, 0, len(sched.Order))
	for i, id := range sched.Order {
		infos = append(infos, info(id, statusEnabled, i+1))
	}
	for _, id := range sched.Dropped {
		infos = append(infos, info(id, statusDropped, 0))
	}
	if all {
		for _, id := range reg.RegistrationOrder() {
			if slices.Contains(sched.Order, id) || slices.Contains(sched.Dropped, id) {
				continue
			}
			infos = append(infos, info(id, statusDisabled, 0))
		}
	}
	return infos
}

func printRulesText(w io.Writer, infos []ruleInfo) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No rules found matching the specified filters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	enabled := 0
	for _, info := range infos {
		position := "-"
		if info.Status == statusEnabled {
			position = fmt.Sprint(info.Position)
			enabled++
		}
		marker := ""
		if info.FixAvailable {
			marker = " [fixable]"
		}
		if info.Status != statusEnabled {
			marker += " (" + info.Status + ")"
		}
		level := "-"
		if info.Level > 0 {
			level = fmt.Sprintf("L%d", info.Level)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t[%s]\t%s%s\n", position, level, info.ID, info.Category, info.DefaultSeverity, info.Summary, marker)
		if len(info.RunAfter) > 0 {
			fmt.Fprintf(tw, "\t\tafter: %s\t\t\t\n", strings.Join(info.RunAfter, ", "))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d rules enabled\n", enabled)
	return err
}

func printRulesJSON(w io.Writer, infos []ruleInfo) error {
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
