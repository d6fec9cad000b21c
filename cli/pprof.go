//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/veascript/log"
	"github.com/ardnew/veascript/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling (${pprofModeEnum})." placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Directory under which each run writes its profiles." type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start begins profiling into a timestamped subdirectory of f.Dir, so runs
// do not overwrite each other.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	dir := filepath.Join(f.Dir, time.Now().Format("20060102T150405"))

	logger := log.With(slog.String("mode", f.Mode), slog.String("dir", dir))
	logger.DebugContext(ctx, "pprof start")

	p := profile.Start(
		profile.WithMode(f.Mode),
		profile.WithDir(dir),
		profile.WithQuiet(true),
	)

	return func() {
		p.Stop()
		logger.InfoContext(ctx, "pprof written")
	}
}
