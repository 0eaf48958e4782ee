package cmd

import (
	"fmt"

	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	"github.com/spf13/cobra"
)

type localeFolderCommand struct {
	cmd *cobra.Command
}

func (v *localeFolderCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "locale-folder <locale>...",
		Short: "Show the output folder name of locales",
		Long: `Show the folder name localized output is written to for each locale.

The region is dropped ("es_MX" is written to "es") except for the languages
listed in keep_region_languages, which keep a region inferred from the
script when none is given ("zh-Hant" is written to "zh-TW").
With -v the English name of the locale is shown too.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	return v.cmd
}

func (v localeFolderCommand) Execute(args []string) error {
	if len(args) == 0 {
		return newUserError("locale-folder requires at least one <locale>")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	for _, locale := range args {
		folder, err := util.NormalizeLocaleFolder(locale, cfg.KeepRegionLanguages)
		if err != nil {
			return newUserError(err)
		}
		if flag.Verbose() == 0 {
			fmt.Printf("%s\t%s\n", locale, folder)
			continue
		}
		name, err := util.GetPrettyLocaleName(locale)
		if err != nil {
			return newUserError(err)
		}
		fmt.Printf("%s\t%s\t%s\n", locale, folder, name)
	}
	return nil
}

var localeFolderCmd = localeFolderCommand{}

func init() {
	rootCmd.AddCommand(localeFolderCmd.Command())
}
