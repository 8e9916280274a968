package main

import (
	"runtime/debug"
	"strings"

	"github.com/cstlint/cstlint/cmd/cstlint/commands"
	"github.com/cstlint/cstlint/cmd/cstlint/commands/cmdutil"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// getVersionInfo returns version information, prioritizing ldflags values over build info
func getVersionInfo() (string, string, string) {
	if version != "dev" || commit != "none" || date != "unknown" {
		return version, commit, date
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}

	moduleVersion := version
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		moduleVersion = buildInfo.Main.Version
	}

	vcsCommit := commit
	vcsTime := date
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsCommit = setting.Value[:min(7, len(setting.Value))]
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	return moduleVersion, vcsCommit, vcsTime
}

var rootCmd = &cobra.Command{
	Use:   "cstlint",
	Short: "Rule-driven linter and formatter for Kotlin sources",
	Long: `cstlint checks Kotlin sources against a catalog of style rules and
corrects what it can.

Rules walk a concrete syntax tree that keeps every byte of the source, so
corrections never lose comments or formatting. Rules declare which rules they
run after, and autocorrection repeats until the source stops changing.

Suppress a rule for a declaration with @Suppress("cstlint:rule-id"), for a
region with "// cstlint-disable rule-id" ... "// cstlint-enable rule-id", or
for one line with "// cstlint-disable-line rule-id".`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	currentVersion, currentCommit, currentDate := getVersionInfo()
	rootCmd.Version = currentVersion

	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)
	if currentCommit != "none" && currentCommit != "" {
		versionTemplate.WriteString("\nBuild: " + currentCommit)
	}
	if currentDate != "unknown" && currentDate != "" {
		versionTemplate.WriteString("\nBuilt: " + currentDate)
	}
	rootCmd.SetVersionTemplate(versionTemplate.String())

	commands.Apply(rootCmd)

	rootCmd.PersistentFlags().String("log-level", "off", "Log level: debug, info, warn, error or off")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cmdutil.Die(err)
	}
}
