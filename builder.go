package waitcounter

// Builder assembles a configured [Registry]. The zero path is
// waitcounter.New().Build(); attach backends and config overrides before
// Build. A builder is single-use.
type Builder struct {
	config   Config
	backends []Backend

	built bool
}

// New returns a builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithMisusePolicy overrides just the misuse policy.
func (b *Builder) WithMisusePolicy(p MisusePolicy) *Builder {
	b.config.Misuse = p
	return b
}

// WithDispatch overrides just the backend dispatch settings.
func (b *Builder) WithDispatch(cfg DispatchConfig) *Builder {
	b.config.Dispatch = cfg
	return b
}

// WithBackend registers a backend to receive completed spans. May be called
// multiple times; delivery order follows registration order.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backends = append(b.backends, backend)
	return b
}

// Build validates the configuration and returns the registry. Backend
// dispatch starts here; construction before Build is allocation-only.
func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	if b.config.Dispatch.BufferSize < 0 {
		return nil, ErrInvalidBufferSize
	}
	for _, backend := range b.backends {
		if backend == nil {
			return nil, ErrNilBackend
		}
	}
	b.built = true

	return &Registry{
		cfg:        b.config,
		dispatcher: newDispatcher(b.config.Dispatch, b.backends),
	}, nil
}
