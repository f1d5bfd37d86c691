package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
)

const defaultConfig = `# directory holding the emoji cache (default: the per-user cache directory)
cache_dir: ""
# emoji list the cache is built from
url: "https://unicode.org/Public/emoji/13.1/emoji-sequences.txt"
# print a trailing newline after the emoji
newline: false
# also copy the emoji to the clipboard
copy: false
# print the code point and name after the emoji
describe: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the emorand config file",
	Long:    paragraph(fmt.Sprintf("\n%s the emorand config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created with the defaults.", keyword("Edit"))),
	Example: paragraph("emorand config\nemorand config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		if err := ensureConfigFile(path); err != nil {
			return err
		}

		c, err := editor.Cmd("emorand", path)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Wrote config file to:", path)
		return nil
	},
}

// ensureConfigFile writes the default config to path unless a file is
// already there.
func ensureConfigFile(path string) error {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '.yaml' or '.yml'", ext)
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	// O_EXCL keeps a file created since the Stat above.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to create config file: %w", err)
	}
	if _, err := f.WriteString(defaultConfig); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return f.Close()
}
