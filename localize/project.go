package localize

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ProjectExt is the extension of project descriptors.
const ProjectExt = ".csproj"

// Project is a directory holding exactly one project descriptor.
type Project struct {
	Name string
	Dir  string
	File string
}

// skipDir reports directories never searched for projects or resources.
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	switch strings.ToLower(name) {
	case "bin", "obj", "node_modules":
		return true
	}
	return false
}

func hasExcludedSuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func projectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ProjectExt) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// DiscoverProjects finds the project directories under root. A project
// directory hides its descendants. Directories with more than one project
// descriptor are reported and skipped, and projects whose name ends with
// one of excludeSuffixes are ignored.
func DiscoverProjects(root string, excludeSuffixes []string) ([]*Project, []Diagnostic, error) {
	var (
		projects []*Project
		diags    []Diagnostic
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		files, err := projectFiles(path)
		if err != nil {
			return err
		}
		switch len(files) {
		case 0:
			return nil
		case 1:
		default:
			diags = append(diags, Diagnostic{
				Kind:    KindShapeError,
				File:    path,
				Message: "ambiguous project directory, it holds " + strings.Join(files, ", "),
			})
			return filepath.SkipDir
		}

		name := strings.TrimSuffix(files[0], filepath.Ext(files[0]))
		if hasExcludedSuffix(name, excludeSuffixes) || hasExcludedSuffix(filepath.Base(path), excludeSuffixes) {
			log.Debugf("skip excluded project %s", name)
			return filepath.SkipDir
		}
		projects = append(projects, &Project{
			Name: name,
			Dir:  path,
			File: filepath.Join(path, files[0]),
		})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, diags, err
	}
	return projects, diags, nil
}

// DiscoverResources returns the source .resx files of a project in
// lexical order. Localized copies ("Name.<culture>.resx") are skipped.
func DiscoverResources(p *Project) ([]string, error) {
	var resources []string
	err := filepath.WalkDir(p.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != p.Dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".resx") || IsLocalizedResx(path) {
			return nil
		}
		resources = append(resources, path)
		return nil
	})
	return resources, err
}
