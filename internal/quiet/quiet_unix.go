//go:build unix

package quiet

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var silencedFDs = []int{unix.Stdout, unix.Stderr}

type fdRedirect struct {
	fds   []int
	saved []int
}

// silence duplicates each target descriptor for later restoration, then
// points it at the null device.
func silence() (restorer, error) {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("quiet: open %s: %w", os.DevNull, err)
	}
	defer null.Close()

	r := &fdRedirect{}
	for _, fd := range silencedFDs {
		saved, err := unix.Dup(fd)
		if err != nil {
			r.restore()
			return nil, fmt.Errorf("quiet: dup fd %d: %w", fd, err)
		}
		unix.CloseOnExec(saved)
		r.fds = append(r.fds, fd)
		r.saved = append(r.saved, saved)

		if err := unix.Dup2(int(null.Fd()), fd); err != nil {
			r.restore()
			return nil, fmt.Errorf("quiet: redirect fd %d: %w", fd, err)
		}
	}
	return r, nil
}

func (r *fdRedirect) restore() error {
	var first error
	for i := len(r.fds) - 1; i >= 0; i-- {
		if err := unix.Dup2(r.saved[i], r.fds[i]); err != nil && first == nil {
			first = fmt.Errorf("quiet: restore fd %d: %w", r.fds[i], err)
		}
		unix.Close(r.saved[i])
	}
	r.fds, r.saved = nil, nil
	return first
}
