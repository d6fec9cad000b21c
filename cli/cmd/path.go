package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// PathEnv names the environment variable listing additional directories
// searched for relative script names.
const PathEnv = "VEA_PATH"

type searchPathKey struct{}

// WithSearchPath returns a new context.Context whose commands resolve
// relative script names against dirs.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// SearchPath composes dirs ahead of the directories listed in env, which
// uses the PATH list syntax of the host. Entries that are not existing
// directories are dropped, and so are repeats.
func SearchPath(env string, dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var out []string

	seen := make(map[string]struct{})

	for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}

		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		out = append(out, dir)
	}

	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
