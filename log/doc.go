// Package log provides a simplified logging interface based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options. A [Logger] is an immutable value; [Logger.Wrap] and
// [Logger.With] return modified copies.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled", slog.Int("embeds", 2))
//	logger.Error("parse failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Supported Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level
// are discarded. The zero [Logger] discards everything, so libraries can
// accept one as an optional dependency.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. With [WithPretty] enabled, both are styled for a terminal
// using lipgloss; styling degrades to plain text when the output is not a
// terminal.
//
// # Default Logger
//
// Package-level functions such as [Info] and [Debug] write through a
// default logger that writes to standard error. [Config] adjusts it and
// [SetDefault] replaces it.
package log
