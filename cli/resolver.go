package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/ardnew/veascript/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// an HCL file of top-level attributes. The filename is used only in
// diagnostics.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, path), path)
//
// Attribute names use underscores where flag names use hyphens, so the
// file
//
//	log_level  = "debug"
//	log_pretty = false
//	max_depth  = 50
//	path       = ["~/scripts", "/usr/share/vea"]
//
// is equivalent to
//
//	--log-level=debug --no-log-pretty --max-depth=50 --path=~/scripts,/usr/share/vea
//
// Command-line flags override config file values. A file that cannot be
// parsed is reported and otherwise ignored.
func resolve(ctx context.Context, filename string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		f, diags := hclparse.NewParser().ParseHCL(src, filename)
		if diags.HasErrors() {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("path", filename),
				slog.String("error", diags.Error()),
			)

			return config{}, nil
		}

		attrs, diags := f.Body.JustAttributes()
		if diags.HasErrors() {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("path", filename),
				slog.String("error", diags.Error()),
			)

			return config{}, nil
		}

		cfg := make(config, len(attrs))

		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				log.WarnContext(ctx, "ignoring configuration attribute",
					slog.String("path", filename),
					slog.String("name", name),
					slog.String("error", diags.Error()),
				)

				continue
			}

			if v, ok := nativeValue(val); ok {
				cfg[name] = v
			}
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for HCL configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}

// nativeValue converts v to the form kong decodes flag values from.
// Numbers become strings, since kong parses numeric flags from text.
// Collections become []any, which kong transcodes into slice flags.
func nativeValue(v cty.Value) (any, bool) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return nil, false
	}

	t := v.Type()

	switch {
	case t == cty.String:
		return v.AsString(), true

	case t == cty.Bool:
		return v.True(), true

	case t == cty.Number:
		return v.AsBigFloat().Text('f', -1), true

	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		out := make([]any, 0, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if n, ok := nativeValue(ev); ok {
				out = append(out, n)
			}
		}

		return out, true

	default:
		return nil, false
	}
}
