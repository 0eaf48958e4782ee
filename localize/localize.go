// Package localize applies translations to the .resx resources of a source
// tree and optionally builds satellite assemblies from them.
//
// A run walks the stages DiscoverProjects, DiscoverResources,
// ValidatePlaceholders, ApplyTranslations, GenerateResources and
// LinkAssemblies. Problems are collected as diagnostics in the returned
// Result; a broken file never stops the processing of the others.
package localize

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/l10n-tools/fw-po-helper/config"
	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// DefaultOutputDir is where localized files go, relative to the root.
const DefaultOutputDir = "Localizations"

// Localizer runs the localization of a source tree for one locale.
type Localizer struct {
	Config   *config.Config
	Strategy Strategy
	Builder  Builder
	// OutputDir receives one folder per locale. Relative paths are
	// resolved against the root. Empty means DefaultOutputDir.
	OutputDir string
	// DryRun reports what would be done without writing or building.
	DryRun bool
}

// New returns a localizer for cfg that builds nothing.
func New(cfg *config.Config) *Localizer {
	return &Localizer{Config: cfg, Strategy: SourceOnly, Builder: NoopBuilder{}}
}

type run struct {
	*Localizer
	ctx     context.Context
	cfg     *config.Config
	root    string
	locale  string
	folder  string
	outDir  string
	catalog map[string]string
	opts    util.PlaceholderOptions
	builder Builder
	result  *Result
}

// Run localizes every project under root for locale.
func (l *Localizer) Run(ctx context.Context, root, locale string) *Result {
	cfg := l.Config
	if cfg == nil {
		cfg = config.Default()
	}
	result := &Result{Locale: locale, Strategy: l.Strategy.String()}

	folder, err := util.NormalizeLocaleFolder(locale, cfg.KeepRegionLanguages)
	if err != nil {
		result.Add(Diagnostic{Kind: KindShapeError, Message: err.Error()})
		return result
	}
	result.Folder = folder

	outDir := l.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}

	r := &run{
		Localizer: l,
		ctx:       ctx,
		cfg:       cfg,
		root:      root,
		locale:    locale,
		folder:    folder,
		outDir:    outDir,
		catalog:   make(map[string]string),
		opts:      util.PlaceholderOptions{Optional: cfg.OptionalPlaceholders},
		builder:   l.Builder,
		result:    result,
	}
	if r.builder == nil {
		r.builder = NoopBuilder{}
	}
	r.loadCatalog()

	projects, diags, err := DiscoverProjects(root, cfg.ExcludeProjectSuffixes)
	for _, d := range diags {
		result.Add(d)
	}
	if err != nil {
		result.AddError(root, err)
		return result
	}
	if len(projects) == 0 {
		log.Warnf("no project found under %s", root)
	}
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			result.AddError(p.Dir, err)
			break
		}
		r.localizeProject(p)
	}
	return result
}

func (r *run) rel(path string) string {
	if rel, err := filepath.Rel(r.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// catalogPath expands the PO file pattern for a locale name.
func (r *run) catalogPath(locale string) (string, error) {
	path, err := util.ReplacePlaceholders(r.cfg.PoFilePattern, util.PlaceholderVars{"locale": locale})
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	return path, nil
}

func (r *run) loadCatalog() {
	var candidates []string
	for _, name := range []string{r.locale, r.folder} {
		path, err := r.catalogPath(name)
		if err != nil {
			r.result.Add(Diagnostic{Kind: KindShapeError, Message: "po_file_pattern: " + err.Error()})
			return
		}
		candidates = append(candidates, path)
	}

	for _, path := range candidates {
		if !util.IsFile(path) {
			continue
		}
		catalog, err := util.ReadPoCatalogFile(path)
		if err != nil {
			r.result.AddError(r.rel(path), err)
			return
		}
		r.catalog = catalog.Translations()
		log.Debugf("loaded %d translations from %s", len(r.catalog), path)
		return
	}

	if r.cfg.IsRequireComplete() {
		r.result.Add(Diagnostic{
			Kind:    KindMissingResource,
			File:    r.rel(candidates[0]),
			Message: "translation catalog not found",
		})
		return
	}
	log.Warnf("no translation catalog for %s, only hand-localized resources are used", r.locale)
}

// resourceName is the manifest name of a resource: the project name and
// the relative path, dot separated.
func resourceName(p *Project, rel string) string {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	return p.Name + "." + strings.ReplaceAll(rel, "/", ".")
}

func (r *run) localizeProject(p *Project) {
	pr := &ProjectResult{Name: p.Name, Dir: r.rel(p.Dir)}
	r.result.Projects = append(r.result.Projects, pr)

	resources, err := DiscoverResources(p)
	if err != nil {
		r.result.AddError(pr.Dir, err)
		return
	}
	pr.Resources = len(resources)

	projectOut := filepath.Join(r.outDir, r.folder, p.Name)
	var generated []string
	for _, src := range resources {
		rel, err := filepath.Rel(p.Dir, src)
		if err != nil {
			rel = filepath.Base(src)
		}
		localized := filepath.Join(projectOut, LocalizedResxName(rel, r.folder))

		if r.Strategy.WritesSources() {
			if !r.localizeResource(src, localized) {
				continue
			}
			pr.Localized++
		} else if !util.IsFile(localized) {
			if r.cfg.IsRequireComplete() {
				r.result.Add(Diagnostic{
					Kind:    KindMissingResource,
					File:    r.rel(localized),
					Message: "localized resource not found",
				})
			}
			continue
		}

		if !r.Strategy.BuildsBinaries() || r.DryRun {
			continue
		}
		output := strings.TrimSuffix(localized, filepath.Ext(localized)) + ".resources"
		job := ResourceJob{Name: resourceName(p, rel), Locale: r.folder, Input: localized, Output: output}
		if err := r.builder.GenerateResources(r.ctx, job); err != nil {
			r.result.Add(Diagnostic{Kind: KindBuildError, File: r.rel(localized), Message: err.Error()})
			continue
		}
		generated = append(generated, output)
		pr.Generated++
	}

	if len(generated) == 0 {
		return
	}
	job := LinkJob{
		Project: p.Name,
		Locale:  r.folder,
		Inputs:  generated,
		Output:  filepath.Join(projectOut, p.Name+".resources.dll"),
	}
	if err := r.builder.LinkAssembly(r.ctx, job); err != nil {
		r.result.Add(Diagnostic{Kind: KindBuildError, File: pr.Dir, Message: err.Error()})
		return
	}
	pr.Assembly = r.rel(job.Output)
}

// existingTranslations reads a hand-localized copy of src kept next to it.
func (r *run) existingTranslations(src string) map[string]string {
	for _, name := range []string{r.locale, r.folder} {
		path := LocalizedResxName(src, name)
		if !util.IsFile(path) {
			continue
		}
		res, err := ReadResx(path)
		if err != nil {
			r.result.AddError(r.rel(path), err)
			return nil
		}
		log.Debugf("using hand-localized %s", path)
		return res.Values()
	}
	return nil
}

// localizeResource validates the translations of one resource and writes
// its localized copy. It reports whether the copy was written.
func (r *run) localizeResource(src, dst string) bool {
	file := r.rel(src)
	res, err := ReadResx(src)
	if err != nil {
		r.result.AddError(file, err)
		return false
	}
	for _, d := range res.Duplicates {
		r.result.Add(Diagnostic{
			Kind:    KindDuplicateIdentifier,
			File:    file,
			ID:      d.Name,
			Message: fmt.Sprintf("defined again at line %d with a different value", d.Line),
		})
	}

	existing := r.existingTranslations(src)
	translations := make(map[string]string)
	for _, e := range res.Entries {
		if strings.TrimSpace(e.Value) == "" {
			continue
		}
		t := existing[e.Name]
		if t == "" {
			t = r.catalog[e.Value]
		}
		if t == "" {
			if r.cfg.IsRequireComplete() {
				r.result.Add(Diagnostic{
					Kind:    KindMissingResource,
					File:    file,
					ID:      e.Name,
					Message: fmt.Sprintf("no translation for %q", e.Value),
				})
			}
			continue
		}
		if err := util.CheckPlaceholders(e.Value, t, r.opts); err != nil {
			d := diagnosticFromError(file, err)
			d.ID = e.Name
			r.result.Add(d)
			continue
		}
		translations[e.Name] = t
	}

	if r.DryRun {
		log.Infof("would write %s (%d translated)", r.rel(dst), len(translations))
		return true
	}
	count, err := WriteLocalizedResx(res, dst, translations)
	if err != nil {
		r.result.AddError(r.rel(dst), err)
		return false
	}
	log.Debugf("wrote %s (%d of %d translated)", dst, count, len(res.Entries))
	return true
}
