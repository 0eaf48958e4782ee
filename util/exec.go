package util

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"text/template"

	log "github.com/sirupsen/logrus"
)

// PlaceholderVars holds key-value pairs for command template expansion.
// Keys correspond to placeholder names in templates (e.g. {{.input}}, {{.output}}).
type PlaceholderVars map[string]string

// ReplacePlaceholders replaces placeholders in a template string with actual values.
// Uses Go text/template syntax: {{.key}}, e.g. {{.input}}, {{.output}}, {{.locale}}.
//
// Example:
//
//	ReplacePlaceholders("resgen {{.input}} {{.output}}", PlaceholderVars{
//	    "input":  "Strings.fr.resx",
//	    "output": "Strings.fr.resources",
//	})
func ReplacePlaceholders(tmpl string, kv PlaceholderVars) (string, error) {
	data := make(map[string]interface{})
	for k, v := range kv {
		data[k] = v
	}
	t, err := template.New("cmd").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse command template: %w", err)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute command template: %w", err)
	}
	return buf.String(), nil
}

// BuildCommand expands every argument of a command template.
func BuildCommand(tmpl []string, vars PlaceholderVars) ([]string, error) {
	if len(tmpl) == 0 {
		return nil, fmt.Errorf("command cannot be empty")
	}
	cmd := make([]string, len(tmpl))
	for i, arg := range tmpl {
		resolved, err := ReplacePlaceholders(arg, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve command arg %q: %w", arg, err)
		}
		cmd[i] = resolved
	}
	return cmd, nil
}

// ExecuteCommand runs cmd in dir and returns its stdout. A non-zero exit
// status is reported with the captured stderr.
func ExecuteCommand(ctx context.Context, dir string, cmd []string) ([]byte, error) {
	if len(cmd) == 0 {
		return nil, fmt.Errorf("command cannot be empty")
	}

	execCmd := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	execCmd.Dir = dir
	log.Debugf("executing command: %s (workDir: %s)", strings.Join(cmd, " "), dir)

	var stdoutBuf, stderrBuf bytes.Buffer
	execCmd.Stdout = &stdoutBuf
	execCmd.Stderr = &stderrBuf

	err := execCmd.Run()
	stdout := stdoutBuf.Bytes()
	stderr := stderrBuf.Bytes()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return stdout, fmt.Errorf("command %s failed with exit code %d: %w\nstderr: %s",
				cmd[0], exitError.ExitCode(), err, string(stderr))
		}
		return stdout, fmt.Errorf("failed to execute command %s: %w\nstderr: %s", cmd[0], err, string(stderr))
	}

	log.Debugf("command completed successfully (stdout: %d bytes, stderr: %d bytes)",
		len(stdout), len(stderr))
	return stdout, nil
}
