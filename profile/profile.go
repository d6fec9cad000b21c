package profile

// Settings selects what to profile and where profiles are written.
type Settings struct {
	// Mode is one of [Modes]. Profiling is disabled when it is empty.
	Mode string
	// Dir is the output directory; empty uses the working directory.
	Dir string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Option modifies Settings.
type Option func(Settings) Settings

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(s Settings) Settings {
		s.Mode = mode

		return s
	}
}

// WithDir sets the profile output directory.
func WithDir(dir string) Option {
	return func(s Settings) Settings {
		s.Dir = dir

		return s
	}
}

// WithQuiet sets whether the profiler logs its own messages.
func WithQuiet(quiet bool) Option {
	return func(s Settings) Settings {
		s.Quiet = quiet

		return s
	}
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling with the given options and returns the handle that
// stops it. Start returns a no-op Stopper when the mode is empty or
// unknown, or when built without the pprof tag.
func Start(opts ...Option) Stopper {
	var s Settings

	for _, opt := range opts {
		s = opt(s)
	}

	if s.Mode == "" {
		return nop{}
	}

	return start(s)
}

type nop struct{}

func (nop) Stop() {}
