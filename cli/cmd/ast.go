package cmd

import (
	"context"
	"log/slog"

	"github.com/davecgh/go-spew/spew"

	"github.com/ardnew/veascript/lang"
	"github.com/ardnew/veascript/log"
)

// AST prints the parsed syntax tree of a script.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, data, err := readSource(ctx, a.Source)
	if err != nil {
		return err
	}

	script, err := lang.Parse(ctx, string(data), lang.WithLogger(log.Default()))
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.Any("source", src))
	}

	dump := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          true,
		SortKeys:                true,
	}

	dump.Fdump(outputFrom(ctx), script.Nodes)

	for _, d := range script.Diagnostics {
		dump.Fdump(outputFrom(ctx), d)
	}

	return nil
}
