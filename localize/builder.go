package localize

import (
	"context"
	"fmt"
	"strings"

	"github.com/l10n-tools/fw-po-helper/util"
	log "github.com/sirupsen/logrus"
)

// Strategy selects the stages of a run.
type Strategy int

const (
	// Full writes localized sources and builds them.
	Full Strategy = iota
	// SourceOnly writes localized .resx files and builds nothing.
	SourceOnly
	// BinaryOnly builds localized .resx files written by an earlier run.
	BinaryOnly
)

var strategyNames = map[Strategy]string{
	Full:       "full",
	SourceOnly: "source-only",
	BinaryOnly: "binary-only",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses the name of a strategy.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return Full, fmt.Errorf("unknown strategy %q, use one of full, source-only, binary-only", name)
}

// WritesSources reports whether localized .resx files are written.
func (s Strategy) WritesSources() bool { return s != BinaryOnly }

// BuildsBinaries reports whether resources are generated and linked.
func (s Strategy) BuildsBinaries() bool { return s != SourceOnly }

// ResourceJob describes the generation of one binary resource.
type ResourceJob struct {
	Name   string
	Locale string
	Input  string
	Output string
}

// LinkJob describes the link of a satellite assembly.
type LinkJob struct {
	Project string
	Locale  string
	Inputs  []string
	Output  string
}

// Builder turns localized sources into binaries.
type Builder interface {
	GenerateResources(ctx context.Context, job ResourceJob) error
	LinkAssembly(ctx context.Context, job LinkJob) error
}

// CommandBuilder runs external commands. Arguments are templates using
// {{.name}}, {{.locale}}, {{.input}} and {{.output}}. A link argument
// referring to {{.input}} is repeated for every input.
type CommandBuilder struct {
	Resgen []string
	Link   []string
	Dir    string
}

// GenerateResources runs the resgen command.
func (b *CommandBuilder) GenerateResources(ctx context.Context, job ResourceJob) error {
	if len(b.Resgen) == 0 {
		return fmt.Errorf("no resgen command configured")
	}
	cmd, err := util.BuildCommand(b.Resgen, util.PlaceholderVars{
		"name":   job.Name,
		"locale": job.Locale,
		"input":  job.Input,
		"output": job.Output,
	})
	if err != nil {
		return err
	}
	_, err = util.ExecuteCommand(ctx, b.Dir, cmd)
	return err
}

// LinkAssembly runs the link command.
func (b *CommandBuilder) LinkAssembly(ctx context.Context, job LinkJob) error {
	cmd, err := b.linkCommand(job)
	if err != nil {
		return err
	}
	_, err = util.ExecuteCommand(ctx, b.Dir, cmd)
	return err
}

func (b *CommandBuilder) linkCommand(job LinkJob) ([]string, error) {
	if len(b.Link) == 0 {
		return nil, fmt.Errorf("no link command configured")
	}
	vars := util.PlaceholderVars{
		"name":   job.Project,
		"locale": job.Locale,
		"output": job.Output,
	}
	var cmd []string
	for _, arg := range b.Link {
		if !strings.Contains(arg, ".input") {
			resolved, err := util.ReplacePlaceholders(arg, vars)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve command arg %q: %w", arg, err)
			}
			cmd = append(cmd, resolved)
			continue
		}
		for _, input := range job.Inputs {
			vars["input"] = input
			resolved, err := util.ReplacePlaceholders(arg, vars)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve command arg %q: %w", arg, err)
			}
			cmd = append(cmd, resolved)
		}
		delete(vars, "input")
	}
	return cmd, nil
}

// NoopBuilder builds nothing.
type NoopBuilder struct{}

// GenerateResources logs the job.
func (NoopBuilder) GenerateResources(_ context.Context, job ResourceJob) error {
	log.Debugf("skip generating %s", job.Output)
	return nil
}

// LinkAssembly logs the job.
func (NoopBuilder) LinkAssembly(_ context.Context, job LinkJob) error {
	log.Debugf("skip linking %s", job.Output)
	return nil
}
