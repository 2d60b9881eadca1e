package session

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotAuthenticated is the Auth Service telling us there's no live session. It's an answer, not a failure.
var ErrNotAuthenticated = errors.New("not authenticated")

type Prober interface {
	Status(ctx context.Context) (Identity, error)
}

type Logger interface {
	Warnf(format string, args ...interface{})
}

type Bootstrapper struct {
	Prober Prober
	Logger Logger
}

// Run asks the Auth Service once whether we're logged in and resolves the store to match.
// Loading is always marked done on the way out. The returned error is a diagnostic only: the store is already safe.
func (b *Bootstrapper) Run(ctx context.Context, store *Store) (diag error) {
	defer store.SetLoadingDone()

	defer func() {
		if r := recover(); r != nil {
			store.Clear()
			diag = fmt.Errorf("session probe panicked: %v", r)
			b.warn(diag)
		}
	}()

	identity, err := b.Prober.Status(ctx)
	switch {
	case err == nil:
		store.SetLoggedIn(identity)
		return nil

	case errors.Is(err, ErrNotAuthenticated):
		store.Clear()
		return nil

	default:
		store.Clear()
		diag = fmt.Errorf("couldn't verify session: %w", err)
		b.warn(diag)
		return diag
	}
}

func (b *Bootstrapper) warn(err error) {
	if b.Logger != nil {
		b.Logger.Warnf("%v", err)
	}
}
