package cmd

import (
	"github.com/l10n-tools/fw-po-helper/catalog"
	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type applyCatalogCommand struct {
	cmd *cobra.Command
	O   struct {
		PoFile string
		Output string
	}
}

func (v *applyCatalogCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "apply-catalog --po <po-file> [-o <output>] <strings.xml>",
		Short: "Apply PO translations to a strings-catalog XML file",
		Long: `Replace the txt attributes of a strings-catalog XML document with the
translations of a PO file.

Translated strings that do not exist in the document are added to the
LocalizedAttributes, LocalizedLiterals and LocalizedContextHelp groups,
according to where they were extracted from. All other bytes of the
document are kept as they are.

Without -o the document is rewritten in place.`,
		Example: `  fw-po-helper apply-catalog --po po/fr.po -o strings-fr.xml strings-en.xml`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.StringVar(&v.O.PoFile, "po", "", "PO file holding the translations")
	fs.StringVarP(&v.O.Output, "output", "o", "", "write the translated document here")

	return v.cmd
}

func (v applyCatalogCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("apply-catalog requires exactly one argument: <strings.xml>")
	}
	if v.O.PoFile == "" {
		return newUserError("--po is required")
	}
	src := args[0]
	if !util.IsFile(src) {
		return newUserError("file does not exist: ", src)
	}

	po, err := util.ReadPoCatalogFile(v.O.PoFile)
	if err != nil {
		return NewStandardError(err)
	}

	dst := v.O.Output
	if dst == "" {
		dst = src
	}
	if flag.Dryrun() {
		log.Infof("would apply %d translations from %s to %s", len(po.Translations()), v.O.PoFile, dst)
		return nil
	}
	stats, err := catalog.MergeFile(src, po, dst)
	if err != nil {
		return NewStandardError(err)
	}
	log.Infof("%s: %d strings translated, %d added", dst, stats.Replaced, stats.Added)
	return nil
}

var applyCatalogCmd = applyCatalogCommand{}

func init() {
	rootCmd.AddCommand(applyCatalogCmd.Command())
}
