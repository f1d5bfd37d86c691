package main

import (
	"fmt"

	"github.com/charmbracelet/emorand/internal/source"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the emoji cache",
		Long:  paragraph(fmt.Sprintf("\nInspect or reset the %s built from the Unicode emoji list.", keyword("emoji cache"))),
		Args:  cobra.NoArgs,
	}

	cachePathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the cache file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := openCache(currentOptions().CacheDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Path())
			return nil
		},
	}

	cacheInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "Show the size and age of the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := openCache(currentOptions().CacheDir)
			if err != nil {
				return err
			}
			info, err := f.Stat()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Path:    %s\n", info.Path)
			fmt.Fprintf(w, "Size:    %s\n", humanize.Bytes(uint64(info.Size))) //nolint:gosec
			fmt.Fprintf(w, "Records: %s\n", humanize.Comma(info.Records))
			fmt.Fprintf(w, "Built:   %s\n", humanize.Time(info.ModTime))
			return nil
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			f, err := openCache(currentOptions().CacheDir)
			if err != nil {
				return err
			}
			if err := f.Remove(); err != nil {
				return err
			}
			log.Info("Removed emoji cache", "path", f.Path())
			return nil
		},
	}

	cacheRebuildCmd = &cobra.Command{
		Use:   "rebuild",
		Short: "Delete the cache file and download the emoji list again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := currentOptions()
			f, err := openCache(opts.CacheDir)
			if err != nil {
				return err
			}
			if err := f.Remove(); err != nil {
				return err
			}
			if _, err := f.Ensure(cmd.Context(), source.New(opts.URL, opts.Timeout)); err != nil {
				return err
			}
			_, err = f.Stat()
			return err
		},
	}
)

func init() {
	cacheCmd.AddCommand(cachePathCmd, cacheInfoCmd, cacheClearCmd, cacheRebuildCmd)
}
