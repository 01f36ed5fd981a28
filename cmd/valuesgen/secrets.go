package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"valuesgen/pkg/config"
)

// Token env vars the init flow offers to store. Every entry is optional;
// skipped entries simply fall back to the environment at run time.
var secretNames = []string{
	"GITHUB_TOKEN",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"GEMINI_API_KEY",
}

// runInitSecrets interactively collects provider tokens and writes them to
// the encrypted secrets file under the user's home directory.
func runInitSecrets() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("secrets initialization requires an interactive terminal")
	}

	fmt.Fprintln(os.Stderr, "Storing provider tokens in an encrypted secrets file.")
	fmt.Fprintln(os.Stderr, "Press Enter to skip any token you don't want to store.")
	fmt.Fprintln(os.Stderr)

	scanner := bufio.NewScanner(os.Stdin)
	secrets := make(map[string]string)
	for _, name := range secretNames {
		fmt.Fprintf(os.Stderr, "%s: ", name)
		if !scanner.Scan() {
			break
		}
		if value := strings.TrimSpace(scanner.Text()); value != "" {
			secrets[name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no tokens entered, nothing to store")
	}

	passphrase, err := promptForPassphrase()
	if err != nil {
		return err
	}

	path, err := config.SecretsFilePath()
	if err != nil {
		return err
	}
	if err := config.EncryptSecretsFile(path, passphrase, secrets); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved %d secret(s) to %s (permissions 0600)\n", len(secrets), path)
	return nil
}

const maxPassphraseAttempts = 3

// promptForPassphrase reads a passphrase twice without echo and requires the
// entries to match.
func promptForPassphrase() (string, error) {
	for attempt := 1; attempt <= maxPassphraseAttempts; attempt++ {
		fmt.Fprint(os.Stderr, "Passphrase: ")
		first, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}

		fmt.Fprint(os.Stderr, "Confirm passphrase: ")
		second, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase confirmation: %w", err)
		}

		if len(first) == 0 {
			fmt.Fprintln(os.Stderr, "Passphrase cannot be empty, try again.")
			continue
		}
		if string(first) != string(second) {
			fmt.Fprintln(os.Stderr, "Passphrases do not match, try again.")
			continue
		}
		return string(first), nil
	}
	return "", fmt.Errorf("too many failed passphrase attempts")
}
