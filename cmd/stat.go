package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/spf13/cobra"
)

type statCommand struct {
	cmd *cobra.Command
	O   struct {
		Result string
	}
}

func (v *statCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "stat [po-file]",
		Short: "Report statistics for a PO file or a localization result",
		Long: `Report entry statistics for a PO file:
  translated   - entries with non-empty translation
  untranslated - entries with empty msgstr
  same         - entries where msgstr equals msgid (suspect untranslated)
  fuzzy        - entries with fuzzy flag
  obsolete     - obsolete entries (#~ format)

With --result <json-file>: summarize a result file written by
"localize --result". No args required.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	v.cmd.Flags().StringVar(&v.O.Result, "result", "", "summarize a localization result JSON file")

	return v.cmd
}

func (v statCommand) Execute(args []string) error {
	if v.O.Result != "" {
		if len(args) > 0 {
			fmt.Fprintf(os.Stderr, "warning: in --result mode, args are ignored\n")
		}
		return v.executeResultReport()
	}

	if len(args) != 1 {
		return newUserError("stat requires exactly one argument: <po-file>")
	}

	poFile := args[0]
	if !util.Exist(poFile) {
		return newUserError("file does not exist: ", poFile)
	}

	stats, err := util.CountPoReportStats(poFile)
	if err != nil {
		return err
	}

	if flag.Verbose() > 0 {
		title := fmt.Sprintf("PO file: %s", poFile)
		fmt.Println(title)
		fmt.Println(strings.Repeat("-", len(title)))
		fmt.Printf("  translated:   %d\n", stats.Translated)
		fmt.Printf("  untranslated: %d\n", stats.Untranslated)
		fmt.Printf("  same:         %d\n", stats.Same)
		fmt.Printf("  fuzzy:        %d\n", stats.Fuzzy)
		fmt.Printf("  obsolete:     %d\n", stats.Obsolete)
	} else {
		fmt.Print(util.FormatStatLine(stats))
	}

	return nil
}

func (v statCommand) executeResultReport() error {
	if !util.IsFile(v.O.Result) {
		return newUserError("file does not exist: ", v.O.Result)
	}
	summary, err := util.SummarizeResultFile(v.O.Result)
	if err != nil {
		return err
	}

	fmt.Printf("Result: %s\n", v.O.Result)
	fmt.Printf("  Locale:      %s\n", summary.Locale)
	fmt.Printf("  Projects:    %d\n", summary.Projects)
	fmt.Printf("  Diagnostics: %d\n", summary.Diagnostics)
	for _, kind := range summary.Kinds() {
		fmt.Printf("    %-20s %d\n", kind+":", summary.ByKind[kind])
	}
	util.WriteSummaryLine(os.Stdout, summary.Locale, summary.Diagnostics, 0, "")

	return nil
}

var statCmd = statCommand{}

func init() {
	rootCmd.AddCommand(statCmd.Command())
}
