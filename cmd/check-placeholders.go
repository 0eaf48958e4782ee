package cmd

import (
	"fmt"
	"os"

	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/spf13/cobra"
)

type checkPlaceholdersCommand struct {
	cmd *cobra.Command
	O   struct {
		Optional []int
	}
}

func (v *checkPlaceholdersCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "check-placeholders <po-file>...",
		Short: "Check that translations keep the format arguments of their source",
		Long: `Check every translated entry of PO files for composite format items
such as {0} or {1:N2}.

A translation must use the same argument indices as its source, with
balanced braces ("{{" and "}}" are literal braces). Indices listed in
optional_placeholders of the configuration, or given with --optional, may
be dropped by a translation but never added.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	v.cmd.Flags().IntSliceVar(&v.O.Optional, "optional", nil,
		"argument indices a translation may omit (adds to the configuration)")

	return v.cmd
}

func (v checkPlaceholdersCommand) Execute(args []string) error {
	if len(args) == 0 {
		return newUserError("check-placeholders requires at least one <po-file>")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := util.PlaceholderOptions{
		Optional: append(append([]int{}, cfg.OptionalPlaceholders...), v.O.Optional...),
	}

	failed := 0
	for _, poFile := range args {
		if !util.IsFile(poFile) {
			return newUserError("file does not exist: ", poFile)
		}
		catalog, err := util.ReadPoCatalogFile(poFile)
		if err != nil {
			return NewStandardError(err)
		}
		reports := util.CheckCatalogPlaceholders(catalog, opts)
		var msgs []string
		for _, r := range reports {
			msgs = append(msgs, r.Err.Error())
		}
		util.ReportInfoAndErrors(msgs, poFile, len(msgs) == 0)
		detail := ""
		if len(reports) > 0 {
			detail = fmt.Sprintf("%d mismatched translations", len(reports))
		}
		util.WriteSummaryLine(os.Stdout, poFile, len(reports), 0, detail)
		if len(reports) > 0 {
			failed++
		}
	}
	if failed > 0 {
		return NewStandardErrorF("placeholder check failed for %d of %d files", failed, len(args))
	}
	return nil
}

var checkPlaceholdersCmd = checkPlaceholdersCommand{}

func init() {
	rootCmd.AddCommand(checkPlaceholdersCmd.Command())
}
