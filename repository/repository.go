// Package repository locates the project root through the enclosing git worktree.
package repository

import (
	"fmt"
	"os"

	"github.com/jiangxin/goconfig"
	log "github.com/sirupsen/logrus"
)

// Repository holds repository and error.
type Repository struct {
	repository *goconfig.Repository
	error      error
}

var theRepository Repository

// Open will try to find repository in dir.
func (v *Repository) Open(dir string) error {
	v.repository, v.error = goconfig.FindRepository(dir)
	return v.error
}

// OpenRepository will try to find repository in dir.
func OpenRepository(dir string) {
	// Errors are reported lazily by RequireOpened.
	_ = theRepository.Open(dir)
}

// Opened returns true if a repository was successfully opened.
// All commands work outside a repository, using the current directory as root.
func Opened() bool {
	return theRepository.error == nil && theRepository.repository != nil
}

// RequireOpened returns an error if the repository is not opened.
func RequireOpened() error {
	if !Opened() {
		if theRepository.error != nil {
			return theRepository.error
		}
		return fmt.Errorf("not in a git repository")
	}
	return nil
}

// ProjectRoot returns the root of the worktree when a repository is opened,
// otherwise the current working directory.
func ProjectRoot() string {
	if Opened() {
		if dir := theRepository.repository.WorkDir(); dir != "" {
			return dir
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ChdirProjectRoot changes the working directory to ProjectRoot. Relative
// paths given on the command line must be resolved before calling it.
func ChdirProjectRoot() {
	dir := ProjectRoot()
	if err := os.Chdir(dir); err != nil {
		log.Fatalf("fail to change to project root %s: %s", dir, err)
	}
	log.Debugf("changed to project root: %s", dir)
}
