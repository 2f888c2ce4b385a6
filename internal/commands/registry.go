package commands

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrEmptyName is returned when registering a command without a name.
var ErrEmptyName = errors.New("command has no name")

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	cmds    map[string]Command // primary name -> command
	aliases map[string]string  // alias -> primary name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds:    make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command. Its name and aliases share one namespace: a
// token already taken by any command, as a name or an alias, is rejected,
// and so is an alias repeating the command's own name. Nothing is added
// on error.
func (r *Registry) Register(c Command) error {
	name := c.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, taken := r.ownerLocked(name); taken {
		return fmt.Errorf("command name %q already used by %s", name, owner)
	}
	seen := map[string]bool{name: true}
	for _, alias := range c.Aliases() {
		if seen[alias] {
			return fmt.Errorf("command %s repeats %q", name, alias)
		}
		seen[alias] = true
		if owner, taken := r.ownerLocked(alias); taken {
			return fmt.Errorf("alias %q of %s already used by %s", alias, name, owner)
		}
	}

	r.cmds[name] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = name
	}
	return nil
}

func (r *Registry) ownerLocked(token string) (string, bool) {
	if _, ok := r.cmds[token]; ok {
		return token, true
	}
	owner, ok := r.aliases[token]
	return owner, ok
}

// Find looks up a command by name or alias.
func (r *Registry) Find(token string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.aliases[token]; ok {
		token = name
	}
	cmd, ok := r.cmds[token]
	return cmd, ok
}

// Canonical returns the primary name for a name or alias.
func (r *Registry) Canonical(token string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ownerLocked(token)
}

// All returns every command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Command, len(names))
	for i, name := range names {
		out[i] = r.cmds[name]
	}
	return out
}

// DefaultRegistry holds the commands registered by this package.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on conflict.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
