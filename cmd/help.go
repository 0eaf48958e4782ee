package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const groupAnnotationKey = "group"

// Flag groups, in the order they are shown in the help of a command.
const (
	groupInputOutput    = "Input and output"
	groupWritingSystems = "Writing systems"
	groupBuild          = "Build"
	groupOther          = "Other options"
)

var flagGroupOrder = []string{
	groupInputOutput,
	groupWritingSystems,
	groupBuild,
	groupOther,
}

// setFlagGroup puts the named flags of fs under a help section and makes
// cmd print its flags by section.
func setFlagGroup(cmd *cobra.Command, group string, names ...string) {
	fs := cmd.Flags()
	for _, name := range names {
		if err := fs.SetAnnotation(name, groupAnnotationKey, []string{group}); err != nil {
			panic(err)
		}
	}
	cmd.SetUsageTemplate(groupedUsageTemplate)
}

func flagGroup(flag *pflag.Flag) string {
	if g := flag.Annotations[groupAnnotationKey]; len(g) > 0 {
		return g[0]
	}
	return groupOther
}

// flagUsagesByGroup formats the local flags of cmd in sections. Sections
// follow flagGroupOrder; unknown groups come last in first-seen order.
func flagUsagesByGroup(cmd *cobra.Command) string {
	if !cmd.HasAvailableLocalFlags() {
		return ""
	}

	sets := make(map[string]*pflag.FlagSet)
	order := append([]string(nil), flagGroupOrder...)
	cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		group := flagGroup(flag)
		fs, ok := sets[group]
		if !ok {
			fs = pflag.NewFlagSet(group, pflag.ContinueOnError)
			fs.SortFlags = false
			sets[group] = fs
			if !containsString(order, group) {
				order = append(order, group)
			}
		}
		fs.AddFlag(flag)
	})

	var sections []string
	for _, group := range order {
		if fs, ok := sets[group]; ok {
			sections = append(sections, group+":\n"+fs.FlagUsages())
		}
	}
	return strings.Join(sections, "\n")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// groupedUsageTemplate is the cobra usage template with local flags
// listed by section.
const groupedUsageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{flagUsagesByGroup . | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

func init() {
	cobra.AddTemplateFunc("flagUsagesByGroup", flagUsagesByGroup)
}
