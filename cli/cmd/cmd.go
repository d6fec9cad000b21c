package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	outputKey struct{}
	inputKey  struct{}
)

// WithOutput returns a new context.Context whose commands write their
// results to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// WithInput returns a new context.Context whose commands read the "-"
// source from r instead of standard input.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is one script input resolved from the command line.
type Source struct {
	// Name is the argument as given, or "-" for stdin.
	Name string
	// Path is the absolute path with symlinks resolved. It is empty for
	// stdin.
	Path string
}

// IsStdin reports whether s reads from the command input stream.
func (s Source) IsStdin() bool { return s.Path == "" }

// Open returns a reader for s. Closing the reader returned for stdin does
// not close the underlying stream.
func (s Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.IsStdin() {
		return io.NopCloser(inputFrom(ctx)), nil
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, ErrNoSource.Wrap(err).With(slog.String("source", s.Name))
	}

	return f, nil
}

// LogValue implements slog.LogValuer.
func (s Source) LogValue() slog.Value {
	if s.IsStdin() {
		return slog.StringValue("stdin")
	}

	return slog.StringValue(s.Name)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// resolveSources turns source arguments into readable sources.
//
// Relative names that do not exist in the working directory are looked up
// in the search path stored in ctx. Sources are deduplicated by comparing
// device/inode pairs, so a file named twice, or through a symlink, is read
// once. All occurrences of "-" collapse into a single stdin source placed
// last. A name that cannot be found is an error.
func resolveSources(ctx context.Context, names []string) ([]Source, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	srcs := make([]Source, 0, len(names))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	hasStdin := false
	stdinKnown := false

	if f, ok := inputFrom(ctx).(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, stdinKnown = makeFileKey(info)
		}
	}

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := lookupSource(ctx, name)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, ErrNoSource.Wrap(err).With(slog.String("source", name))
		}

		if info.IsDir() {
			return nil, ErrNoSource.
				Wrap(fs.ErrInvalid).
				With(slog.String("source", name), slog.Bool("directory", true))
		}

		key, ok := makeFileKey(info)
		if ok {
			// A named file that is the input stream (e.g. /dev/stdin) is
			// read as stdin.
			if stdinKnown && key == stdinKey {
				hasStdin = true

				continue
			}

			if _, exists := seen[key]; exists {
				continue
			}

			seen[key] = struct{}{}
		}

		srcs = append(srcs, Source{Name: name, Path: path})
	}

	if hasStdin {
		srcs = append(srcs, Source{Name: stdinSource})
	}

	return srcs, nil
}

// lookupSource returns the absolute, symlink-free path of the named
// script.
func lookupSource(ctx context.Context, name string) (string, error) {
	candidates := []string{name}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPathFrom(ctx) {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	var first error

	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err == nil {
			abs, err = filepath.EvalSymlinks(abs)
		}

		if err == nil {
			return abs, nil
		}

		if first == nil {
			first = err
		}
	}

	if first == nil || errors.Is(first, fs.ErrNotExist) {
		first = fs.ErrNotExist
	}

	return "", ErrNoSource.Wrap(first).With(slog.String("source", name))
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// openSources returns a reader over every source in order. The returned
// close function closes each opened file.
func openSources(
	ctx context.Context,
	srcs []Source,
) (io.Reader, func() error, error) {
	readers := make([]io.Reader, 0, len(srcs))
	closers := make([]io.Closer, 0, len(srcs))

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}

		return errors.Join(errs...)
	}

	for _, s := range srcs {
		rc, err := s.Open(ctx)
		if err != nil {
			_ = closeAll()

			return nil, nil, err
		}

		readers = append(readers, rc)
		closers = append(closers, rc)
	}

	return io.MultiReader(readers...), closeAll, nil
}

// readSource reads all of the single named source.
func readSource(ctx context.Context, name string) (Source, []byte, error) {
	srcs, err := resolveSources(ctx, []string{name})
	if err != nil {
		return Source{}, nil, err
	}

	src := srcs[0]

	rc, err := src.Open(ctx)
	if err != nil {
		return src, nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return src, nil, ErrNoSource.Wrap(err).With(slog.Any("source", src))
	}

	return src, data, nil
}
