package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. Environment variables override the file,
# CLI flags override both.

[practice]
# mode = %q         # passage or words
# corpus = ""             # One passage per line; TYPETEST_CORPUS
# wordlist = ""           # One word per line, words mode; TYPETEST_WORDLIST
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set
# duration = "0s"         # End each test after this long; 0s disables
# focus-weak = false      # Bias practice toward weak characters (sqlite)
# weak-top = %d            # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent sessions to compute weak chars

[history]
# backend = %q        # json or sqlite; TYPETEST_HISTORY_BACKEND
# path = ""               # Default under the XDG data dir; TYPETEST_HISTORY_PATH
`,
		defaultMode,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultBackend,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}
