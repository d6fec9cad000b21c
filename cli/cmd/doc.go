// Package cmd implements the vea subcommands: run, check, fmt, ast,
// preview, schema, init, and repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context],
// the script search path, and the output streams. Tests substitute the
// streams with [WithOutput] and [WithInput].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the HCL configuration file.
	ConfigIdentifier = "config"
)
