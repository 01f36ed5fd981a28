// Package action integrates with the GitHub Actions runner: it emits
// workflow commands and writes step outputs.
//
// Outputs go to the file named by GITHUB_OUTPUT using the heredoc syntax
// with a random delimiter, which is the only safe encoding for multi-line
// values. When GITHUB_OUTPUT is unset (older runners, local runs) the
// deprecated ::set-output command is used instead.
package action

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Errorf prints an error workflow command. The runner surfaces these as
// annotations on the workflow run.
func Errorf(format string, args ...any) {
	fmt.Printf("::error::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// Warningf prints a warning workflow command.
func Warningf(format string, args ...any) {
	fmt.Printf("::warning::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// Noticef prints a notice workflow command.
func Noticef(format string, args ...any) {
	fmt.Printf("::notice::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// SetOutput publishes a step output visible to later workflow steps.
func SetOutput(name, value string) error {
	if name == "" {
		return fmt.Errorf("output name cannot be empty")
	}

	outputFile := os.Getenv("GITHUB_OUTPUT")
	if outputFile == "" {
		// Legacy fallback for runners without GITHUB_OUTPUT support.
		fmt.Printf("::set-output name=%s::%s\n", name, escapeData(value))
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(value, delimiter) || strings.Contains(name, delimiter) {
		return fmt.Errorf("output %s collides with generated delimiter", name)
	}

	f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open GITHUB_OUTPUT file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// escapeData encodes characters with special meaning in workflow commands.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
