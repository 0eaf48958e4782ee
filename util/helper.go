package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Exist checks if the file or directory exists.
func Exist(name string) bool {
	if _, err := os.Stat(name); err == nil {
		return true
	}
	return false
}

// IsFile returns true if path is exist and is a file.
func IsFile(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || fi.IsDir() {
		return false
	}
	return true
}

// IsDir returns true if path is exist and is a directory.
func IsDir(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || !fi.IsDir() {
		return false
	}
	return true
}

// IsInteractive returns true if both stdin and stdout are attached to a terminal.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// GetUserInput reads one line from stdin, returning defaultValue for an empty answer.
func GetUserInput(prompt, defaultValue string) string {
	fmt.Fprint(os.Stderr, prompt)

	reader := bufio.NewReader(os.Stdin)
	text, _ := reader.ReadString('\n')
	text = strings.TrimSpace(text)

	if text == "" {
		return defaultValue
	}
	return text
}

// AnswerIsTrue indicates answer is a true value
func AnswerIsTrue(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "t", "true", "on", "1":
		return true
	}
	return false
}

// ConfirmOverwrite decides whether existing files may be replaced. With force
// set it always agrees. Otherwise it asks the user on a terminal and refuses
// in non-interactive mode.
func ConfirmOverwrite(files []string, force bool) error {
	if len(files) == 0 || force {
		return nil
	}
	if !IsInteractive() {
		return fmt.Errorf("%d file(s) already exist (%s), use --force to overwrite",
			len(files), strings.Join(files, ", "))
	}
	fmt.Fprintf(os.Stderr, "The following files already exist:\n")
	for _, f := range files {
		fmt.Fprintf(os.Stderr, "  %s\n", f)
	}
	if !AnswerIsTrue(GetUserInput("Overwrite them? [y/N] ", "n")) {
		return fmt.Errorf("aborted by user")
	}
	return nil
}
