package cmd

import (
	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/l10n-tools/fw-po-helper/xliff"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// toXliffCommand converts source documents to one XLIFF file per
// writing system.
type toXliffCommand struct {
	cmd     *cobra.Command
	use     string
	short   string
	long    string
	convert xliff.Converter
	O       struct {
		OutputDir      string
		SourceLanguage string
		Languages      []string
	}
}

func (v *toXliffCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:           v.use,
		Short:         v.short,
		Long:          v.long,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.SortFlags = false
	fs.StringVarP(&v.O.OutputDir, "output-dir", "o", ".", "directory receiving the XLIFF files")
	fs.StringVar(&v.O.SourceLanguage, "source-lang", "", "writing system of the source document (default from configuration)")
	fs.StringSliceVar(&v.O.Languages, "lang", nil, "only write these target writing systems")
	setFlagGroup(v.cmd, groupInputOutput, "output-dir")
	setFlagGroup(v.cmd, groupWritingSystems, "source-lang", "lang")

	return v.cmd
}

func (v toXliffCommand) Execute(args []string) error {
	if len(args) == 0 {
		return newUserErrorF("%s requires at least one source file", v.cmd.Name())
	}
	opts := xliff.Options{SourceLanguage: v.O.SourceLanguage, Languages: v.O.Languages}
	if opts.SourceLanguage == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts.SourceLanguage = cfg.SourceLanguage
	}

	for _, src := range args {
		if !util.IsFile(src) {
			return newUserError("file does not exist: ", src)
		}
		if flag.Dryrun() {
			log.Infof("would convert %s into %s", src, v.O.OutputDir)
			continue
		}
		files, err := xliff.ConvertFile(v.convert, src, v.O.OutputDir, opts)
		if err != nil {
			return NewStandardError(err)
		}
		log.Infof("%s: wrote %d XLIFF files", src, len(files))
	}
	return nil
}

// fromXliffCommand rebuilds a source document from its XLIFF files.
type fromXliffCommand struct {
	cmd     *cobra.Command
	use     string
	short   string
	long    string
	reverse xliff.Reverser
	O       struct {
		Output string
	}
}

func (v *fromXliffCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:           v.use,
		Short:         v.short,
		Long:          v.long,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	v.cmd.Flags().StringVarP(&v.O.Output, "output", "o", "", "write the rebuilt document here")

	return v.cmd
}

func (v fromXliffCommand) Execute(args []string) error {
	if len(args) == 0 {
		return newUserErrorF("%s requires the XLIFF files of one document", v.cmd.Name())
	}
	if v.O.Output == "" {
		return newUserError("--output is required")
	}
	for _, path := range args {
		if !util.IsFile(path) {
			return newUserError("file does not exist: ", path)
		}
	}
	if flag.Dryrun() {
		log.Infof("would rebuild %s from %d XLIFF files", v.O.Output, len(args))
		return nil
	}
	if err := xliff.ReverseFiles(v.reverse, args, v.O.Output); err != nil {
		return NewStandardError(err)
	}
	log.Infof("wrote %s", v.O.Output)
	return nil
}

var (
	listsToXliffCmd = toXliffCommand{
		use:   "lists-to-xliff [-o <dir>] <list.xml>...",
		short: "Convert possibility list files to XLIFF",
		long: `Convert files holding one <List> of a Lists document (see split-lists)
into XLIFF 1.2, one file per writing system.

The source writing system goes to <name>.xlf, every other one to
<name>.<ws>.xlf. Groups and trans-units keep enough information to rebuild
the list with xliff-to-lists.`,
		convert: xliff.ConvertListToXliff,
	}
	eticToXliffCmd = toXliffCommand{
		use:   "etic-to-xliff [-o <dir>] <GOLDEtic.xml>",
		short: "Convert the GOLD etic part-of-speech catalog to XLIFF",
		long: `Convert a GOLD etic part-of-speech catalog (<eticPOSList>) into XLIFF 1.2,
one file per writing system. Citations are joined with ";".`,
		convert: xliff.ConvertGoldEticToXliff,
	}
	xliffToListsCmd = fromXliffCommand{
		use:   "xliff-to-lists -o <list.xml> <file.xlf>...",
		short: "Rebuild a possibility list file from its XLIFF files",
		long: `Rebuild a <Lists> document holding one list from the XLIFF files written
by lists-to-xliff. Exactly one source file (without target-language) must
be given, plus any number of translations.`,
		reverse: xliff.ConvertXliffToLists,
	}
	xliffToEticCmd = fromXliffCommand{
		use:   "xliff-to-etic -o <GOLDEtic.xml> <file.xlf>...",
		short: "Rebuild the GOLD etic catalog from its XLIFF files",
		long: `Rebuild a GOLD etic part-of-speech catalog from the XLIFF files written
by etic-to-xliff. Exactly one source file must be given, plus any number of
translations.`,
		reverse: xliff.ConvertXliffToGoldEtic,
	}
)

func init() {
	rootCmd.AddCommand(
		listsToXliffCmd.Command(),
		eticToXliffCmd.Command(),
		xliffToListsCmd.Command(),
		xliffToEticCmd.Command(),
	)
}
