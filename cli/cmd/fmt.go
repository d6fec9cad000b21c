package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/veascript/lang"
	"github.com/ardnew/veascript/log"
)

// Fmt rewrites a script in canonical form.
type Fmt struct {
	Write bool `help:"Write the result to the source file instead of standard output." short:"w"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, data, err := readSource(ctx, f.Source)
	if err != nil {
		return err
	}

	script, err := lang.Parse(ctx, string(data), lang.WithLogger(log.Default()))
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.Any("source", src))
	}

	warnDiagnostics(ctx, script, slog.Any("source", src))

	var buf bytes.Buffer

	err = script.Format(&buf)
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.Any("source", src))
	}

	if !f.Write || src.IsStdin() {
		_, err = buf.WriteTo(outputFrom(ctx))

		return err
	}

	if bytes.Equal(buf.Bytes(), data) {
		log.DebugContext(ctx, "already formatted", slog.Any("source", src))

		return nil
	}

	info, err := os.Stat(src.Path)
	if err != nil {
		return ErrNoSource.Wrap(err).With(slog.Any("source", src))
	}

	err = os.WriteFile(src.Path, buf.Bytes(), info.Mode().Perm())
	if err != nil {
		return ErrEncode.Wrap(err).With(slog.Any("source", src))
	}

	log.DebugContext(ctx, "formatted", slog.Any("source", src))

	return nil
}
