package cmd

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/l10n-tools/fw-po-helper/extract"
	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type extractStringsCommand struct {
	cmd *cobra.Command
	O   struct {
		Output  string
		Project string
	}
}

func (v *extractStringsCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "extract-strings [-o <pot-file>] <file-or-dir>...",
		Short: "Extract translatable strings from configuration XML into a POT file",
		Long: `Extract translatable strings from layout files (.fwlayout, XML
inventories) and dictionary configuration files (.fwdictconfig).

Directories are searched recursively for .fwlayout and .fwdictconfig files.
Strings found more than once are merged into one entry recording how often
the string is used.`,
		Example: `  fw-po-helper extract-strings -o po/messages.pot DistFiles/Language\ Explorer/Configuration`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.StringVarP(&v.O.Output, "output", "o", "", "write the POT file here (default: stdout)")
	fs.StringVar(&v.O.Project, "project", "FieldWorks", "project name written to the POT header")

	return v.cmd
}

// extractSources expands directories into the files they hold.
func extractSources(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !util.IsDir(arg) {
			files = append(files, arg)
			continue
		}
		var found []string
		err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".fwlayout", ".fwdictconfig":
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func (v extractStringsCommand) Execute(args []string) error {
	if len(args) == 0 {
		return newUserError("extract-strings requires at least one file or directory")
	}
	files, err := extractSources(args)
	if err != nil {
		return NewStandardError(err)
	}

	x := extract.New()
	for _, file := range files {
		if !util.IsFile(file) {
			return newUserError("file does not exist: ", file)
		}
		log.Debugf("extracting strings from %s", file)
		if err := x.ExtractFile(file); err != nil {
			return NewStandardError(err)
		}
	}
	log.Infof("extracted %d strings from %d files", len(x.Entries), len(files))

	if flag.Dryrun() {
		return nil
	}

	var w io.Writer = os.Stdout
	if v.O.Output != "" && v.O.Output != "-" {
		f, err := os.Create(v.O.Output)
		if err != nil {
			return newUserErrorF("failed to create output file %s: %v", v.O.Output, err)
		}
		defer f.Close()
		w = f
	}
	return extract.WritePot(w, x.Entries, v.O.Project, time.Now())
}

var extractStringsCmd = extractStringsCommand{}

func init() {
	rootCmd.AddCommand(extractStringsCmd.Command())
}
