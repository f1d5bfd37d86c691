package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/emorand/internal/cache"
	"github.com/charmbracelet/emorand/utils"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// configDirs returns the directories searched for emorand.yml, most
// specific first: EMORAND_CONFIG_HOME, then XDG_CONFIG_HOME/emorand, then the
// platform's user config directories.
func configDirs() ([]string, error) {
	dirs, err := gap.NewScope(gap.User, cache.AppName).ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("unable to find configuration directory: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, cache.AppName)}, dirs...)
	}
	if c := os.Getenv("EMORAND_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	if len(dirs) == 0 {
		return nil, errors.New("unable to find configuration directory")
	}
	return dirs, nil
}

// loadConfig reads emorand.yml from the first config directory holding one.
// A missing file is fine; settings then come from flags, env and defaults.
func loadConfig() {
	viper.SetConfigName(cache.AppName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(cache.AppName)
	viper.AutomaticEnv()

	dirs, err := configDirs()
	if err != nil {
		log.Warn("Could not load configuration", "err", err)
		return
	}
	for _, d := range dirs {
		viper.AddConfigPath(d)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
		return
	}
	log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
}

// configFilePath returns the file `emorand config` edits: the --config flag,
// else the file that was loaded, else emorand.yml in the first config
// directory.
func configFilePath() (string, error) {
	if configFile != "" {
		return utils.ExpandPath(configFile), nil
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	dirs, err := configDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs[0], cache.AppName+".yml"), nil
}
