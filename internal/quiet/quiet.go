package quiet

import (
	"errors"
	"sync"
)

// ErrBusy is returned when the streams are already silenced.
var ErrBusy = errors.New("quiet: standard streams are already redirected")

var (
	mu     sync.Mutex
	active bool
)

// restorer undoes one redirection.
type restorer interface {
	restore() error
}

// Do runs fn with standard output and standard error discarded.
//
// The original streams are restored exactly once before Do returns, on every
// path including a panic in fn (which then continues to propagate). A restore
// failure is reported only when fn itself succeeded.
func Do(fn func() error) (err error) {
	if err := acquire(); err != nil {
		return err
	}
	defer release()

	r, err := silence()
	if err != nil {
		return err
	}

	defer func() {
		if rerr := r.restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	return fn()
}

// Active reports whether a Do call is in progress.
func Active() bool {
	mu.Lock()
	defer mu.Unlock()
	return active
}

func acquire() error {
	mu.Lock()
	defer mu.Unlock()
	if active {
		return ErrBusy
	}
	active = true
	return nil
}

func release() {
	mu.Lock()
	active = false
	mu.Unlock()
}
