// Package profile provides optional runtime profiling for vea.
//
// Profiling uses [github.com/pkg/profile] and is only compiled in with the
// "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Start] always returns a no-op
// [Stopper].
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread, trace.
//
// # Usage
//
//	defer profile.Start(profile.WithMode("cpu"), profile.WithDir(dir)).Stop()
//
// Profiles are written to the configured directory, named after the mode
// (for example cpu.pprof). Analyze them with go tool pprof:
//
//	go tool pprof -http=: vea cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
