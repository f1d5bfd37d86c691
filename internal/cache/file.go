package cache

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/emorand/internal/sequences"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"golang.org/x/time/rate"
)

const (
	// AppName namespaces the per-user cache directory.
	AppName = "emorand"

	// FileName is the name of the cache file inside the cache directory.
	FileName = "cache.bin"

	// RecordSize is the size of one code point record in bytes.
	RecordSize = 4
)

// byteOrder is host-native. Cache files are not portable between machines
// of different endianness.
var byteOrder = binary.NativeEndian

// Fetcher provides the source list the cache is built from.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// RandSource draws uniformly distributed integers in [0, n).
type RandSource interface {
	Int64N(n int64) int64
}

type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// DefaultDir returns the per-user cache directory for emorand.
func DefaultDir() (string, error) {
	dir, err := gap.NewScope(gap.User, AppName).CacheDir()
	if err != nil || dir == "" {
		return "", newError(ErrEnvironment, "resolve cache directory", "", err)
	}
	return dir, nil
}

// File is a handle on a cache file.
type File struct {
	path string
}

// Open returns a handle on the cache file inside dir. It does not touch the
// filesystem.
func Open(dir string) *File {
	return &File{path: filepath.Join(dir, FileName)}
}

// Path returns the cache file path.
func (f *File) Path() string {
	return f.path
}

// Ensure builds the cache from fetcher unless the cache file already exists.
// It reports whether a build took place. A build that fails leaves the
// partially written file in place.
func (f *File) Ensure(ctx context.Context, fetcher Fetcher) (bool, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return false, newError(ErrFilesystem, "create cache directory", dir, err)
	}

	w, err := os.OpenFile(f.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec
	if errors.Is(err, fs.ErrExist) {
		log.Debug("Using existing emoji cache", "path", f.path)
		return false, nil
	}
	if err != nil {
		return false, newError(ErrFilesystem, "create cache file", f.path, err)
	}

	log.Info("Building emoji cache", "path", f.path)
	n, buildErr := f.build(ctx, w, fetcher)
	if err := w.Close(); err != nil && buildErr == nil {
		buildErr = newError(ErrFilesystem, "close cache file", f.path, err)
	}
	if buildErr != nil {
		return true, buildErr
	}

	log.Info("Built emoji cache", "path", f.path, "records", n)
	return true, nil
}

// Remove deletes the cache file. Removing a missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return newError(ErrFilesystem, "remove cache file", f.path, err)
	}
	return nil
}

func (f *File) build(ctx context.Context, w io.Writer, fetcher Fetcher) (int64, error) {
	body, err := fetcher.Fetch(ctx)
	if err != nil {
		return 0, newError(ErrNetwork, "fetch emoji list", "", err)
	}
	defer body.Close() //nolint:errcheck

	n, err := Build(w, body)
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.Path = f.path
		}
		return n, err
	}
	return n, nil
}

// Build writes one record to w for every code point listed in r and returns
// the number of records written. Records already written before an error
// are flushed.
func Build(w io.Writer, r io.Reader) (int64, error) {
	bw := bufio.NewWriter(w)
	progress := rate.Sometimes{Interval: 250 * time.Millisecond}

	var (
		n   int64
		rec [RecordSize]byte
	)
	s := sequences.NewScanner(r)
	for s.Scan() {
		rng := s.Range()
		for cp := uint64(rng.First); cp <= uint64(rng.Last); cp++ {
			byteOrder.PutUint32(rec[:], uint32(cp))
			if _, err := bw.Write(rec[:]); err != nil {
				return n, newError(ErrFilesystem, "write cache", "", err)
			}
			n++
		}
		progress.Do(func() {
			log.Debug("Building emoji cache", "line", s.Line(), "records", n)
		})
	}

	flushErr := bw.Flush()
	if err := s.Err(); err != nil {
		if errors.Is(err, sequences.ErrInvalidHex) ||
			errors.Is(err, sequences.ErrReversedRange) {
			return n, newError(ErrFormat, "parse emoji list", "", err)
		}
		return n, newError(ErrNetwork, "read emoji list", "", err)
	}
	if flushErr != nil {
		return n, newError(ErrFilesystem, "write cache", "", flushErr)
	}
	return n, nil
}

// Info describes a valid cache file.
type Info struct {
	Path    string
	Size    int64
	Records int64
	ModTime time.Time
}

// Stat returns the cache size, failing with ErrCorrupted if the length is
// zero or not a multiple of RecordSize.
func (f *File) Stat() (Info, error) {
	fi, err := os.Stat(f.path)
	if err != nil {
		return Info{}, newError(ErrFilesystem, "get metadata for cache", f.path, err)
	}

	size := fi.Size()
	if size == 0 || size%RecordSize != 0 {
		return Info{}, newError(ErrCorrupted, "validate cache", f.path,
			fmt.Errorf("length %d is not a positive multiple of %d (delete it)", size, RecordSize))
	}

	return Info{
		Path:    f.path,
		Size:    size,
		Records: size / RecordSize,
		ModTime: fi.ModTime(),
	}, nil
}

// Pick returns one code point chosen uniformly among all records.
func (f *File) Pick(rng RandSource) (rune, error) {
	if rng == nil {
		rng = globalRand{}
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	// A random byte rounded down to its record boundary.
	offset := rng.Int64N(info.Size)
	offset -= offset % RecordSize

	return f.readAt(offset)
}

// Read returns the code point stored at record index i.
func (f *File) Read(i int64) (rune, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= info.Records {
		return 0, newError(ErrFilesystem, "read cache", f.path,
			fmt.Errorf("record %d out of range [0, %d)", i, info.Records))
	}
	return f.readAt(i * RecordSize)
}

func (f *File) readAt(offset int64) (rune, error) {
	r, err := os.Open(f.path)
	if err != nil {
		return 0, newError(ErrFilesystem, "open cache file", f.path, err)
	}
	defer r.Close() //nolint:errcheck

	var rec [RecordSize]byte
	if _, err := r.ReadAt(rec[:], offset); err != nil {
		return 0, newError(ErrFilesystem, "read cache file", f.path, err)
	}
	return decode(rec[:], f.path)
}

// Each calls fn for every record in order, stopping at the first error.
func (f *File) Each(fn func(i int64, r rune) error) error {
	if _, err := f.Stat(); err != nil {
		return err
	}

	r, err := os.Open(f.path)
	if err != nil {
		return newError(ErrFilesystem, "open cache file", f.path, err)
	}
	defer r.Close() //nolint:errcheck

	br := bufio.NewReader(r)
	var rec [RecordSize]byte
	for i := int64(0); ; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return newError(ErrFilesystem, "read cache file", f.path, err)
		}
		cp, err := decode(rec[:], f.path)
		if err != nil {
			return err
		}
		if err := fn(i, cp); err != nil {
			return err
		}
	}
}

func decode(rec []byte, path string) (rune, error) {
	v := byteOrder.Uint32(rec)
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		return 0, newError(ErrDecode, "decode record", path, fmt.Errorf("U+%04X", v))
	}
	return rune(v), nil
}

// EncodeRecord returns the on-disk representation of cp.
func EncodeRecord(cp uint32) []byte {
	return byteOrder.AppendUint32(nil, cp)
}
