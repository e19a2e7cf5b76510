package audio

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/justyntemme/monosynth/pkg/framework/debug"
	"github.com/justyntemme/monosynth/pkg/synth"
)

// ErrUnknownBackend is returned by Open for an unregistered backend name.
var ErrUnknownBackend = errors.New("audio: unknown backend")

// Player plays a processor on an output device.
type Player interface {
	Start() error
	Close() error
}

// Factory opens a player for an initialized processor.
type Factory func(proc *synth.Processor, logger *debug.Logger) (Player, error)

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Factory)
)

// Register makes a backend available to Open. Backends register themselves
// from init in files guarded by build tags.
func Register(name string, f Factory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = f
}

// Backends lists the registered backend names in order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates a player on the named backend.
func Open(name string, proc *synth.Processor, logger *debug.Logger) (Player, error) {
	backendsMu.RLock()
	f, ok := backends[name]
	backendsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, Backends())
	}
	if logger == nil {
		logger = debug.Default()
	}

	p, err := f(proc, logger.With(name))
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}
	return p, nil
}
