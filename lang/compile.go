package lang

import (
	"context"
	"log/slog"
	"strings"
)

// Compile parses src and evaluates the resulting script.
func Compile(ctx context.Context, src string, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	script, err := parse(ctx, src, o)
	if err != nil {
		return nil, err
	}

	return script.evaluate(ctx, &o)
}

// Evaluate runs every node of s in order: text is appended verbatim, math
// is evaluated and appended in decimal, one #random option is chosen and
// appended, and each embed is built and added to [Document.Embeds]. The
// first build error stops evaluation.
func (s *Script) Evaluate(ctx context.Context, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	return s.evaluate(ctx, &o)
}

func (s *Script) evaluate(ctx context.Context, o *options) (*Document, error) {
	var content strings.Builder

	doc := &Document{Embeds: make([]*Embed, 0)}

	for i, n := range s.Nodes {
		o.logger.TraceContext(ctx, "evaluate node",
			slog.Int("index", i),
			slog.String("kind", Kind(n)),
			slog.String("at", n.Position().String()),
		)

		switch n := n.(type) {
		case *TextBlock:
			content.WriteString(n.Text)

		case *MathBlock:
			content.WriteString(FormatNumber(n.Expr.Eval()))

		case *RandomBlock:
			if len(n.Options) == 0 {
				return nil, &BuildError{
					Field:  tagRandom,
					Reason: "random block must contain at least one option",
					Pos:    n.Pos,
				}
			}

			content.WriteString(n.Options[o.random().IntN(len(n.Options))])

		case *EmbedBlock:
			e, err := buildEmbed(ctx, n, *o)
			if err != nil {
				o.logger.TraceContext(ctx, "build failed",
					slog.Int("index", i),
					slog.Any("error", err),
				)

				return nil, err
			}

			doc.Embeds = append(doc.Embeds, e)
		}
	}

	doc.Content = content.String()

	o.logger.TraceContext(ctx, "evaluate complete",
		slog.Int("content_bytes", len(doc.Content)),
		slog.Int("embed_count", len(doc.Embeds)),
	)

	return doc, nil
}
