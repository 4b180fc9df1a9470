// Package booster runs the monitor that performance mode keeps alive: it
// watches which app has focus, matches it against the game list and samples
// the frame rate.
package booster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javapro/tweakctl/internal/store"
)

// ErrEmptyPackage is returned when adding a blank package name.
var ErrEmptyPackage = errors.New("package name is empty")

// GameList is the set of packages treated as games.
type GameList struct {
	kv store.KV
}

// NewGameList wraps the games namespace.
func NewGameList(kv store.KV) *GameList {
	return &GameList{kv: kv}
}

// Add inserts pkg. Adding an existing package is a no-op.
func (g *GameList) Add(pkg string) error {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return ErrEmptyPackage
	}
	if g.Contains(pkg) {
		return nil
	}
	if err := g.kv.Set(pkg, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("add game %s: %w", pkg, err)
	}
	return nil
}

// Remove deletes pkg.
func (g *GameList) Remove(pkg string) error {
	if err := g.kv.Delete(strings.TrimSpace(pkg)); err != nil {
		return fmt.Errorf("remove game %s: %w", pkg, err)
	}
	return nil
}

// Contains reports whether pkg is a game.
func (g *GameList) Contains(pkg string) bool {
	if pkg == "" {
		return false
	}
	_, err := g.kv.Get(pkg)
	return err == nil
}

// List returns every game package, sorted.
func (g *GameList) List() ([]string, error) {
	keys, err := g.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return keys, nil
}
