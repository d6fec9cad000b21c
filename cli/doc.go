// Package cli contains the command line interface for vea.
//
// # Usage
//
// Without a subcommand, vea compiles its arguments as one script:
//
//	vea greeting.vea footer.vea
//	vea -F json - < card.vea
//
// The other subcommands are check, preview, fmt, ast, schema, repl, and
// init. See package [github.com/ardnew/veascript/cli/cmd].
//
// # Script Search Path
//
// Relative script names that do not exist in the working directory are
// looked up in the directories given with --path, then those listed in the
// VEA_PATH environment variable.
//
// # Configuration
//
// Flag defaults are read from config.hcl in the user configuration
// directory, for example ~/.config/vea/config.hcl, and from config.hcl.json
// next to it. The HCL file holds top-level attributes named after flags,
// with hyphens written as underscores:
//
//	log_level = "debug"
//	format    = "json"
//	path      = ["~/scripts"]
//
// Command-line flags override the file. "vea init" writes the current flag
// values to the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp layout (rfc3339, kitchen, ms, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o vea .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/vea/pprof)
package cli
