// Package sequences parses the Unicode emoji-sequences data file into code
// point ranges. Only lines whose first field is a single code point or a
// code point range are kept; multi-code-point sequences, comments and blank
// lines are skipped.
package sequences
