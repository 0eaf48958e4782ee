package cmd

import (
	"os"

	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type msgUniqCommand struct {
	cmd *cobra.Command
	O   struct {
		Output string
	}
}

func (v *msgUniqCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "msg-uniq [-o <file>] <po-file>",
		Short: "Sort a PO/POT file and merge duplicate entries",
		Long: `Sort the entries of a PO/POT file by message key and merge entries
that share the same msgctxt and msgid.

Comments, references and flags of duplicates are combined, the first
non-empty translation is kept, and the provenance comments are replaced by
a usage count followed by a few examples. Running it twice changes nothing.

Without -o the file is rewritten in place.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	v.cmd.Flags().StringVarP(&v.O.Output, "output", "o", "",
		"write output to file (use - for stdout)")

	return v.cmd
}

func (v msgUniqCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("msg-uniq requires exactly one argument: <po-file>")
	}
	poFile := args[0]
	if !util.IsFile(poFile) {
		return newUserError("file does not exist: ", poFile)
	}

	catalog, err := util.ReadPoCatalogFile(poFile)
	if err != nil {
		return NewStandardError(err)
	}
	before := len(catalog.Entries)
	catalog.Entries = util.MergeDuplicates(catalog.Entries)
	log.Infof("%s: %d entries, %d after merging duplicates", poFile, before, len(catalog.Entries))

	if flag.Dryrun() {
		return nil
	}

	output := v.O.Output
	if output == "" {
		output = poFile
	}
	if output == "-" {
		return util.WritePoCatalog(os.Stdout, catalog)
	}
	return catalog.WriteFile(output)
}

var msgUniqCmd = msgUniqCommand{}

func init() {
	rootCmd.AddCommand(msgUniqCmd.Command())
}
