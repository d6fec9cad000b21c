package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/veascript/lang"
)

// Schema prints the JSON Schema of compiled documents, or validates JSON
// documents against it.
type Schema struct {
	Validate []string `help:"Validate JSON document file(s) or '-' for stdin instead of printing the schema." placeholder:"FILE" short:"V"`
}

// Run executes the schema command.
func (s *Schema) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	w := outputFrom(ctx)

	if len(s.Validate) == 0 {
		_, err = w.Write(lang.Schema())

		return err
	}

	srcs, err := resolveSources(ctx, s.Validate)
	if err != nil {
		return err
	}

	failed := 0

	for _, src := range srcs {
		err := validateSource(ctx, src)
		if err != nil {
			failed++

			_, _ = fmt.Fprintf(w, "%s: %v\n", src.Name, err)

			continue
		}

		_, _ = fmt.Fprintf(w, "%s: ok\n", src.Name)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(srcs)),
		)
	}

	return nil
}

func validateSource(ctx context.Context, src Source) error {
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	return lang.ValidateJSON(rc)
}
