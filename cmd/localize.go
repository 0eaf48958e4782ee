package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/l10n-tools/fw-po-helper/flag"
	"github.com/l10n-tools/fw-po-helper/localize"
	"github.com/l10n-tools/fw-po-helper/repository"
	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type localizeCommand struct {
	cmd *cobra.Command
	O   struct {
		Root      string
		OutputDir string
		Strategy  string
		Result    string
	}
}

func (v *localizeCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "localize [options] <locale>...",
		Short: "Localize the .resx resources of a source tree",
		Long: `Localize every project of a source tree for the given locales.

Projects are the directories holding one .csproj file; projects whose name
ends with one of exclude_project_suffixes are skipped. For every .resx
resource a localized copy is written to
<output-dir>/<locale-folder>/<Project>/<path>.<locale-folder>.resx, taking
translations from a hand-localized resource next to the source, then from
the PO catalog found with po_file_pattern.

Strategies:
  source-only  write localized .resx files only (default)
  binary-only  build satellite assemblies from files written earlier
  full         write localized .resx files and build them

Building runs the resgen and link commands of the configuration.
Problems are reported as diagnostics; the command fails if any is found.`,
		Example: `  fw-po-helper localize fr de zh_CN
  fw-po-helper localize --strategy full --result build/{{.locale}}.json fr`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.SortFlags = false
	fs.StringVar(&v.O.Root, "root", "", "root of the source tree (default: project root)")
	fs.StringVarP(&v.O.OutputDir, "output-dir", "o", localize.DefaultOutputDir,
		"directory receiving the localized files, relative to the root")
	fs.StringVar(&v.O.Strategy, "strategy", localize.SourceOnly.String(),
		"one of source-only, binary-only, full")
	fs.StringVar(&v.O.Result, "result", "",
		"write the result of each locale as JSON to this file ({{.locale}} is replaced)")
	setFlagGroup(v.cmd, groupInputOutput, "root", "output-dir", "result")
	setFlagGroup(v.cmd, groupBuild, "strategy")

	return v.cmd
}

func (v localizeCommand) resultFile(locale string) (string, error) {
	if v.O.Result == "" {
		return "", nil
	}
	return util.ReplacePlaceholders(v.O.Result, util.PlaceholderVars{"locale": locale})
}

func (v localizeCommand) Execute(args []string) error {
	if len(args) == 0 {
		return newUserError("localize requires at least one <locale>")
	}
	strategy, err := localize.ParseStrategy(v.O.Strategy)
	if err != nil {
		return newUserError(err)
	}
	if len(args) > 1 && v.O.Result != "" && !containsLocaleVar(v.O.Result) {
		return newUserError("--result needs {{.locale}} when more than one locale is given")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := v.O.Root
	if root == "" {
		root = repository.ProjectRoot()
	}
	if root, err = filepath.Abs(root); err != nil {
		return NewStandardError(err)
	}
	if !util.IsDir(root) {
		return newUserError("directory does not exist: ", root)
	}

	l := localize.New(cfg)
	l.Strategy = strategy
	l.OutputDir = v.O.OutputDir
	l.DryRun = flag.Dryrun()
	if strategy.BuildsBinaries() {
		l.Builder = &localize.CommandBuilder{
			Resgen: cfg.Commands.Resgen,
			Link:   cfg.Commands.Link,
			Dir:    root,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := 0
	for _, locale := range args {
		log.Debugf("localizing %s for %s (%s)", root, locale, strategy)
		result := l.Run(ctx, root, locale)

		util.ReportInfoAndErrors(result.Lines(), "["+locale+"]", result.OK())
		counts := make(map[string]int)
		for _, d := range result.Diagnostics {
			counts[string(d.Kind)]++
		}
		subject := fmt.Sprintf("%s (%d projects)", locale, len(result.Projects))
		util.WriteSummaryLine(os.Stdout, subject, len(result.Diagnostics), 0, util.FormatKindCounts(counts))
		if !result.OK() {
			failed++
		}

		file, err := v.resultFile(locale)
		if err != nil {
			return newUserErrorF("bad --result: %s", err)
		}
		if file != "" && !l.DryRun {
			if err := result.WriteJSONFile(file); err != nil {
				return NewStandardError(err)
			}
			log.Debugf("wrote result to %s", file)
		}
		if ctx.Err() != nil {
			return NewStandardError("interrupted")
		}
	}
	if failed > 0 {
		return NewStandardErrorF("localization failed for %d of %d locales", failed, len(args))
	}
	return nil
}

func containsLocaleVar(s string) bool {
	vars := util.PlaceholderVars{"locale": "a"}
	a, err := util.ReplacePlaceholders(s, vars)
	if err != nil {
		return false
	}
	vars["locale"] = "b"
	b, _ := util.ReplacePlaceholders(s, vars)
	return a != b
}

var localizeCmd = localizeCommand{}

func init() {
	rootCmd.AddCommand(localizeCmd.Command())
}
