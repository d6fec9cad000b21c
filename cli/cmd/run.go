package cmd

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/ardnew/veascript/lang"
	"github.com/ardnew/veascript/log"
)

// Vars returns the kong variables referenced by command struct tags.
func Vars() kong.Vars {
	return kong.Vars{
		"encodingEnum": strings.Join(lang.Encodings(), ","),
		"maxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
	}
}

// Compile holds the flags shared by commands that compile scripts.
type Compile struct {
	Seed     int64 `default:"-1"          help:"Seed for #random choices; negative seeds from the runtime."`
	MaxDepth int   `default:"${maxDepth}" help:"Maximum nesting depth of blocks and math expressions."`
}

// options returns the lang options selected by c.
func (c Compile) options() []lang.Option {
	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(c.MaxDepth),
	}

	if c.Seed >= 0 {
		opts = append(opts, lang.WithSeed(uint64(c.Seed)))
	}

	return opts
}

// Run compiles scripts and writes the resulting document.
type Run struct {
	Compile `embed:""`

	Format string `default:"text" enum:"${encodingEnum}" help:"Output encoding (${enum})."                     short:"F"`
	Indent int    `default:"2"                           help:"Indent width for JSON and YAML output; 0 is compact." short:"i"`
	Watch  bool   `                                      help:"Recompile whenever a source file changes."        short:"w"`

	Source []string `arg:"" help:"Script file(s) or '-' for stdin, concatenated in order." name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	enc, err := lang.ParseEncoding(r.Format)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	srcs, err := resolveSources(ctx, r.Source)
	if err != nil {
		return err
	}

	if r.Watch {
		return r.watch(ctx, srcs, enc)
	}

	return r.compile(ctx, srcs, enc)
}

// compile concatenates srcs into one script, evaluates it, and writes the
// document.
func (r *Run) compile(
	ctx context.Context,
	srcs []Source,
	enc lang.Encoding,
) error {
	in, closeAll, err := openSources(ctx, srcs)
	if err != nil {
		return err
	}
	defer closeAll()

	opts := r.options()

	script, err := lang.ParseReader(ctx, in, opts...)
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.Any("sources", sourceNames(srcs)))
	}

	warnDiagnostics(ctx, script, slog.Any("sources", sourceNames(srcs)))

	doc, err := script.Evaluate(ctx, opts...)
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.Any("sources", sourceNames(srcs)))
	}

	err = doc.Encode(ctx, outputFrom(ctx), enc, r.Indent)
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.String("format", enc.String()))
	}

	return nil
}

// watchSettle is how long watch waits after a change before compiling, so
// that editors writing a file in several steps trigger one compile.
const watchSettle = 50 * time.Millisecond

// watch compiles srcs once, then again after every change to one of them,
// until ctx is canceled. Compile errors are logged and do not stop
// watching.
func (r *Run) watch(
	ctx context.Context,
	srcs []Source,
	enc lang.Encoding,
) error {
	watched := make(map[string]struct{}, len(srcs))

	for _, s := range srcs {
		if s.IsStdin() {
			return ErrWatch.Wrap(errors.New("stdin cannot be watched"))
		}

		watched[s.Path] = struct{}{}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	// Watch the parent directories: editors often replace a file by
	// renaming, which drops a watch on the file itself.
	for path := range watched {
		dir := filepath.Dir(path)

		err := w.Add(dir)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}
	}

	r.recompile(ctx, srcs, enc, "initial")

	var settle <-chan time.Time

	changed := ""

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if _, ok := watched[filepath.Clean(ev.Name)]; !ok {
				continue
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) {
				continue
			}

			changed = ev.Name
			settle = time.After(watchSettle)

		case <-settle:
			settle = nil

			r.recompile(ctx, srcs, enc, changed)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

// recompile runs one compile in watch mode and logs its outcome under a
// fresh run identifier.
func (r *Run) recompile(
	ctx context.Context,
	srcs []Source,
	enc lang.Encoding,
	trigger string,
) {
	logger := log.With(slog.String("run", uuid.New().String()))

	start := time.Now()

	err := r.compile(ctx, srcs, enc)
	if err != nil {
		logger.ErrorContext(ctx, "compile failed",
			slog.String("trigger", trigger),
			slog.Any("error", err),
		)

		return
	}

	logger.InfoContext(ctx, "compiled",
		slog.String("trigger", trigger),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// warnDiagnostics logs each recoverable parse diagnostic of s.
func warnDiagnostics(ctx context.Context, s *lang.Script, attrs ...slog.Attr) {
	for _, d := range s.Diagnostics {
		log.WarnContext(ctx, d.Message,
			append([]slog.Attr{slog.String("at", d.Pos.String())}, attrs...)...,
		)
	}
}

func sourceNames(srcs []Source) []string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.Name
	}

	return names
}
