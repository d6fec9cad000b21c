package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/veascript/cli/cmd"
	"github.com/ardnew/veascript/pkg"
)

// CLI is the top-level command-line interface for vea.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Path []string `help:"Directories searched for relative script names, ahead of those listed in ${pathEnv}." placeholder:"DIR" type:"path"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Compile scripts and print the document."`
	Check   cmd.Check   `cmd:""                    help:"Compile each script independently and report errors."`
	Preview cmd.Preview `cmd:""                    help:"Render the compiled document as it would appear in chat."`
	Fmt     cmd.Fmt     `cmd:""                    help:"Print a script in canonical form."`
	AST     cmd.AST     `cmd:""                    help:"Print the parsed syntax tree of a script." name:"ast"`
	Schema  cmd.Schema  `cmd:""                    help:"Print the document JSON Schema or validate documents."`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session."`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the vea CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(configFile)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
		"pathEnv":            cmd.PathEnv,
	}.
		CloneWith(cmd.Vars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that the logger is configured before
	// kong reports anything, regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, configFilePath), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, cmd.SearchPath(os.Getenv(cmd.PathEnv), cli.Path...))

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Commands receive ctx with the values above rather than the one
	// captured by the singleton provider.
	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run(&cli)
}
