package cmd

import (
	"context"

	"github.com/ardnew/veascript/cli/cmd/repl"
	"github.com/ardnew/veascript/log"
)

// Repl starts an interactive session.
type Repl struct {
	Compile `embed:""`

	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !isTerminal(inputFrom(ctx)) {
		return ErrNoTerminal
	}

	cfg := repl.Config{
		Logger:   log.Default(),
		Seed:     r.Seed,
		MaxDepth: r.MaxDepth,
	}

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cfg)
}
