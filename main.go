// Package main provides the entry point for the emorand CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/emorand/internal/cache"
	"github.com/charmbracelet/emorand/internal/source"
	"github.com/charmbracelet/emorand/utils"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/unicode/runenames"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile      string
	cacheDir        string
	sourceURL       string
	newline         bool
	copyToClipboard bool
	describe        bool
	envCfg          envConfig

	rootCmd = &cobra.Command{
		Use:   "emorand",
		Short: "Print a random emoji",
		Long: paragraph(
			fmt.Sprintf("\nPrint a %s to standard output. The list of emoji is downloaded from unicode.org on first use and cached locally.", keyword("random emoji")),
		),
		Example:          paragraph("emorand\nemorand --describe\nemorand --copy --newline"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// options are the resolved settings for a single invocation.
type options struct {
	CacheDir string
	URL      string
	Timeout  time.Duration
	Newline  bool
	Copy     bool
	Describe bool
}

func currentOptions() options {
	return options{
		CacheDir: cacheDir,
		URL:      sourceURL,
		Timeout:  envCfg.HTTPTimeout,
		Newline:  newline,
		Copy:     copyToClipboard,
		Describe: describe,
	}
}

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(utils.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
	}

	// grab config values from Viper
	cacheDir = utils.ExpandPath(viper.GetString("cache_dir"))
	sourceURL = viper.GetString("url")
	newline = viper.GetBool("newline")
	copyToClipboard = viper.GetBool("copy")
	describe = viper.GetBool("describe")

	if sourceURL == "" {
		sourceURL = source.DefaultURL
	}
	u, err := url.ParseRequestURI(sourceURL)
	if err != nil {
		return fmt.Errorf("invalid emoji list url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s is not a supported protocol", u.Scheme)
	}
	if envCfg.HTTPTimeout < 0 {
		return fmt.Errorf("EMORAND_HTTP_TIMEOUT must not be negative, got %s", envCfg.HTTPTimeout)
	}
	return nil
}

// openCache resolves the cache file from the configured directory, falling
// back to the per-user cache directory.
func openCache(dir string) (*cache.File, error) {
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return cache.Open(utils.AbsPath(dir)), nil
}

// pickEmoji builds the cache if needed and returns one random emoji from it.
func pickEmoji(ctx context.Context, f *cache.File, fetcher cache.Fetcher, rng cache.RandSource) (rune, error) {
	if _, err := f.Ensure(ctx, fetcher); err != nil {
		return 0, err
	}
	return f.Pick(rng)
}

// describeRune returns "U+XXXX NAME" for r.
func describeRune(r rune) string {
	name := runenames.Name(r)
	if name == "" {
		return fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("U+%04X %s", r, name)
}

func writeEmoji(w io.Writer, r rune, opts options) error {
	out := string(r)
	if opts.Describe {
		out += " " + describeRune(r)
	}
	if opts.Newline {
		out += "\n"
	}
	if _, err := fmt.Fprint(w, out); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}

func execute(cmd *cobra.Command, _ []string) error {
	opts := currentOptions()

	f, err := openCache(opts.CacheDir)
	if err != nil {
		return err
	}

	r, err := pickEmoji(cmd.Context(), f, source.New(opts.URL, opts.Timeout), nil)
	if err != nil {
		return err
	}

	if err := writeEmoji(cmd.OutOrStdout(), r, opts); err != nil {
		return err
	}

	if opts.Copy {
		if err := clipboard.WriteAll(string(r)); err != nil {
			log.Warn("Could not copy emoji to clipboard", "err", err)
		}
	}
	return nil
}

func main() {
	cfg, err := loadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error parsing environment:", err)
		os.Exit(1)
	}
	envCfg = cfg

	closer, err := setupLog(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, cache.ErrCorrupted) {
			log.Info("Delete the cache file or run `emorand cache rebuild` to recreate it")
		}
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	loadConfig()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default emorand.yml in the user config directory)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory holding the emoji cache")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "url", source.DefaultURL, "emoji list to build the cache from")
	_ = rootCmd.PersistentFlags().MarkHidden("url")
	rootCmd.Flags().BoolVarP(&newline, "newline", "n", false, "print a trailing newline")
	rootCmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "also copy the emoji to the clipboard")
	rootCmd.Flags().BoolVarP(&describe, "describe", "d", false, "print the code point and name after the emoji")

	// Config bindings
	_ = viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("newline", rootCmd.Flags().Lookup("newline"))
	_ = viper.BindPFlag("copy", rootCmd.Flags().Lookup("copy"))
	_ = viper.BindPFlag("describe", rootCmd.Flags().Lookup("describe"))

	viper.SetDefault("cache_dir", "")
	viper.SetDefault("url", source.DefaultURL)
	viper.SetDefault("newline", false)

	rootCmd.AddCommand(listCmd, cacheCmd, configCmd, manCmd)
}
