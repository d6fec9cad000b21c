package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/ardnew/veascript/log"
	"github.com/ardnew/veascript/profile"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errors.New("no command context"))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	_, err = configFile(ktx).WriteTo(file)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configFile builds an HCL file with one attribute per application flag
// that has a value. Attribute names use underscores in place of hyphens.
func configFile(ktx *kong.Context) *hclwrite.File {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := ctyValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		body.SetAttributeValue(strings.ReplaceAll(flag.Name, "-", "_"), val)
	}

	return f
}

// ctyValue converts a decoded flag value to its HCL form. Empty strings
// and lists report false so that they are left out of the file.
func ctyValue(v any) (cty.Value, bool) {
	switch v := v.(type) {
	case nil:
		return cty.NilVal, false

	case bool:
		return cty.BoolVal(v), true

	case string:
		if v == "" {
			return cty.NilVal, false
		}

		return cty.StringVal(v), true

	case int:
		return cty.NumberIntVal(int64(v)), true

	case int64:
		return cty.NumberIntVal(v), true

	case float64:
		return cty.NumberFloatVal(v), true

	case []string:
		if len(v) == 0 {
			return cty.NilVal, false
		}

		vals := make([]cty.Value, len(v))
		for i, s := range v {
			vals[i] = cty.StringVal(s)
		}

		return cty.ListVal(vals), true

	case fmt.Stringer:
		return ctyValue(v.String())

	default:
		return ctyValue(fmt.Sprint(v))
	}
}
