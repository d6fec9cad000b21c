package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/veascript/lang"
	"github.com/ardnew/veascript/log"
)

// Check compiles each script independently and reports whether it is
// valid.
type Check struct {
	Compile `embed:""`

	Schema bool `help:"Also validate each compiled document against the JSON Schema."`
	Jobs   int  `default:"0" help:"Number of scripts compiled at once; 0 uses one per CPU." short:"j"`

	Source []string `arg:"" help:"Script file(s) or '-' for stdin." name:"source"`
}

// checkResult is the outcome of checking one source.
type checkResult struct {
	src    Source
	embeds int
	err    error
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := resolveSources(ctx, c.Source)
	if err != nil {
		return err
	}

	results := make([]checkResult, len(srcs))

	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group

	g.SetLimit(jobs)

	for i, src := range srcs {
		g.Go(func() error {
			results[i] = c.check(ctx, src)

			return nil
		})
	}

	_ = g.Wait() // per-source errors are kept in results

	return c.report(ctx, outputFrom(ctx), results)
}

// check compiles one source with its own options, so #random state is
// never shared between goroutines.
func (c *Check) check(ctx context.Context, src Source) checkResult {
	res := checkResult{src: src}

	rc, err := src.Open(ctx)
	if err != nil {
		res.err = err

		return res
	}
	defer rc.Close()

	opts := c.options()

	script, err := lang.ParseReader(ctx, rc, opts...)
	if err != nil {
		res.err = err

		return res
	}

	warnDiagnostics(ctx, script, slog.Any("source", src))

	doc, err := script.Evaluate(ctx, opts...)
	if err != nil {
		res.err = err

		return res
	}

	if c.Schema {
		err = lang.ValidateDocument(doc)
		if err != nil {
			res.err = err

			return res
		}
	}

	res.embeds = len(doc.Embeds)

	return res
}

// report writes one line per result in source order and returns
// [ErrCheckFailed] if any source failed.
func (c *Check) report(
	ctx context.Context,
	w io.Writer,
	results []checkResult,
) error {
	failed := 0

	for _, r := range results {
		name := r.src.Name
		if r.src.IsStdin() {
			name = "<stdin>"
		}

		if r.err != nil {
			failed++

			log.DebugContext(ctx, "check failed",
				slog.Any("source", r.src),
				slog.Any("error", r.err),
			)

			_, err := fmt.Fprintf(w, "%s: %v\n", name, r.err)
			if err != nil {
				return err
			}

			continue
		}

		_, err := fmt.Fprintf(w, "%s: ok (%d embeds)\n", name, r.embeds)
		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(results)),
		)
	}

	return nil
}
