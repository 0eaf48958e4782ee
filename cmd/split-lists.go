package cmd

import (
	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/l10n-tools/fw-po-helper/xliff"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type splitListsCommand struct {
	cmd *cobra.Command
	O   struct {
		OutputDir string
		Count     int
	}
}

func (v *splitListsCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "split-lists [-o <dir>] <Lists.xml>",
		Short: "Split a Lists document into one file per list",
		Long: `Split a <Lists> document into one file per <List>, named
<owner>_<field>.xml after the list's owner and field attributes.

The document must hold the expected number of lists, given with --count or
list_count in the configuration. Nothing is written when the document is
not in the expected shape. Existing files are only overwritten after
confirmation, or with --force.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.StringVarP(&v.O.OutputDir, "output-dir", "o", ".", "directory receiving the list files")
	fs.IntVar(&v.O.Count, "count", 0, "expected number of lists (default from configuration)")
	fs.BoolP("force", "f", false, "overwrite existing files without asking")
	_ = viper.BindPFlag("force", fs.Lookup("force"))

	return v.cmd
}

func (v splitListsCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("split-lists requires exactly one argument: <Lists.xml>")
	}
	expected := v.O.Count
	if expected <= 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		expected = cfg.ExpectedListCount()
	}

	splitter := &xliff.Splitter{
		Expected: expected,
		Confirm: func(existing []string) error {
			return util.ConfirmOverwrite(existing, flag.Force())
		},
		DryRun: flag.Dryrun(),
	}
	files, err := splitter.SplitFile(args[0], v.O.OutputDir)
	if err != nil {
		return NewStandardError(err)
	}
	if splitter.DryRun {
		for _, f := range files {
			log.Infof("would write %s", f)
		}
		return nil
	}
	log.Infof("%s: wrote %d list files", args[0], len(files))
	return nil
}

var splitListsCmd = splitListsCommand{}

func init() {
	rootCmd.AddCommand(splitListsCmd.Command())
}
