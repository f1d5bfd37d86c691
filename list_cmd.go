package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/emorand/internal/source"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/unicode/runenames"
)

var listCmd = &cobra.Command{
	Use:     "list [QUERY]",
	Short:   "List the cached emoji",
	Long:    paragraph(fmt.Sprintf("\nList every emoji in the cache with its code point and name. With a %s, only names matching it are listed, best matches first.", keyword("QUERY"))),
	Example: paragraph("emorand list\nemorand list cat"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := currentOptions()
		f, err := openCache(opts.CacheDir)
		if err != nil {
			return err
		}
		if _, err := f.Ensure(cmd.Context(), source.New(opts.URL, opts.Timeout)); err != nil {
			return err
		}

		var entries []listEntry
		err = f.Each(func(_ int64, r rune) error {
			entries = append(entries, listEntry{r: r, name: runenames.Name(r)})
			return nil
		})
		if err != nil {
			return err
		}

		if len(args) == 1 {
			entries = filterEntries(entries, args[0])
		}

		return writeList(cmd.OutOrStdout(), entries, listWidth())
	},
}

type listEntry struct {
	r    rune
	name string
}

// entryNames implements fuzzy.Source.
type entryNames []listEntry

func (e entryNames) String(i int) string { return e[i].name }

func (e entryNames) Len() int { return len(e) }

// filterEntries returns the entries whose names fuzzy-match query, best
// matches first.
func filterEntries(entries []listEntry, query string) []listEntry {
	matches := fuzzy.FindFrom(query, entryNames(entries))
	out := make([]listEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

// listWidth returns the terminal width, or 0 when stdout is not a terminal.
func listWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// glyphWidth is the column reserved for the emoji itself.
const glyphWidth = 2

func writeList(w io.Writer, entries []listEntry, width int) error {
	for _, e := range entries {
		prefix := fmt.Sprintf("U+%-6X %s ", e.r, runewidth.FillRight(string(e.r), glyphWidth))
		name := e.name
		if width > 0 {
			avail := width - runewidth.StringWidth(prefix)
			if avail < 1 {
				avail = 1
			}
			name = truncate.StringWithTail(name, uint(avail), "…") //nolint:gosec
		}
		if _, err := fmt.Fprintln(w, prefix+name); err != nil {
			return fmt.Errorf("unable to write to writer: %w", err)
		}
	}
	return nil
}
