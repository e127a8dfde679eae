package waitcounter

// MisusePolicy controls how a handle reacts to a mispaired Start/Stop call:
// Start on an already-open handle or Stop on a closed one.
type MisusePolicy int

const (
	// MisuseIgnore makes mispaired calls a documented no-op. Aggregates of
	// the affected counter and of every other counter stay intact.
	MisuseIgnore MisusePolicy = iota
	// MisusePanic fails loudly on a mispaired call. Intended for tests and
	// debug deployments where strict pairing matters more than availability.
	MisusePanic
)

/*
====================================
DISPATCH CONFIG
====================================
*/

// DispatchConfig configures asynchronous delivery of completed spans to
// registered backends.
type DispatchConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking Stop when the buffer is
	// full. Dropped events are counted and visible via Registry.Dropped.
	DropIfFull bool
}

/*
====================================
REGISTRY CONFIG
====================================
*/

// Config carries all registry-level settings. Configure once through
// [Builder] and treat as immutable afterwards.
type Config struct {
	Misuse   MisusePolicy
	Dispatch DispatchConfig
}

func defaultConfig() Config {
	return Config{
		Misuse: MisuseIgnore,
		Dispatch: DispatchConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}
