package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, src string) kong.Resolver {
	t.Helper()

	res, err := resolve(context.Background(), "test.hcl")(strings.NewReader(src))
	require.NoError(t, err)

	return res
}

func TestResolve_Values(t *testing.T) {
	res := loadConfig(t, `
log_level  = "debug"
log_pretty = false
max_depth  = 50
ratio      = 0.25
path       = ["a", "b"]
`)

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log_level", "debug"},
		{"log-pretty", false},
		{"max-depth", "50"},
		{"ratio", "0.25"},
		{"path", []any{"a", "b"}},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := res.Resolve(nil, nil, flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for name, src := range map[string]string{
		"syntax": `log_level = {`,
		"block":  "log {\n  level = \"debug\"\n}\n",
	} {
		t.Run(name, func(t *testing.T) {
			res := loadConfig(t, src)
			assert.Empty(t, res)
		})
	}
}

func TestResolve_SkipsBadAttribute(t *testing.T) {
	res := loadConfig(t, `
format = "json"
seed   = var.unknown
`)

	assert.Equal(t, config{"format": "json"}, res)
}

func TestResolve_AppliesToFlags(t *testing.T) {
	var cli struct {
		LogLevel string   `default:"info"`
		MaxDepth int      `default:"100"`
		Pretty   bool     `default:"true"  negatable:""`
		Path     []string
		Format   string `default:"text"`
	}

	parser, err := kong.New(&cli, kong.Resolvers(loadConfig(t, `
log_level = "warn"
max_depth = 7
pretty    = false
path      = ["x", "y"]
format    = "yaml"
`)))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--format=json"})
	require.NoError(t, err)

	assert.Equal(t, "warn", cli.LogLevel)
	assert.Equal(t, 7, cli.MaxDepth)
	assert.False(t, cli.Pretty)
	assert.Equal(t, []string{"x", "y"}, cli.Path)
	assert.Equal(t, "json", cli.Format, "command line overrides config")
}
