//go:build !unix

package quiet

import (
	"fmt"
	"os"
)

type fileSwap struct {
	stdout, stderr *os.File
	null           *os.File
}

// silence swaps the os.Stdout and os.Stderr variables for the null device.
// Native code writing to the descriptors directly is not covered here.
func silence() (restorer, error) {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("quiet: open %s: %w", os.DevNull, err)
	}
	s := &fileSwap{stdout: os.Stdout, stderr: os.Stderr, null: null}
	os.Stdout, os.Stderr = null, null
	return s, nil
}

func (s *fileSwap) restore() error {
	os.Stdout, os.Stderr = s.stdout, s.stderr
	return s.null.Close()
}
