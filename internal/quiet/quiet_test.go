//go:build unix

package quiet

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

const helperEnv = "QUIET_WANT_HELPER_PROCESS"

// TestHelperProcess is not a real test. It is re-executed as a child process by
// the tests below so that descriptor-level output can be observed from outside.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	mode := os.Getenv("QUIET_HELPER_MODE")
	err := Do(func() error {
		fmt.Fprintln(os.Stdout, "progress 10%")
		fmt.Fprintln(os.Stderr, "warning: noisy backend")
		// Bypass os.Stdout entirely, as native code would.
		unix.Write(1, []byte("raw fd write\n"))
		unix.Write(2, []byte("raw fd warning\n"))
		if mode == "error" {
			return errors.New("backend failed")
		}
		return nil
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"error\":%q}\n", err.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout, "[]")
	os.Exit(0)
}

func runHelper(t *testing.T, mode string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$")
	cmd.Env = append(os.Environ(), helperEnv+"=1", "QUIET_HELPER_MODE="+mode)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return stdout.String(), stderr.String(), code
}

func TestDo_SilencesDescriptors(t *testing.T) {
	stdout, stderr, code := runHelper(t, "ok")

	assert.Equal(t, 0, code)
	assert.Equal(t, "[]\n", stdout)
	assert.Empty(t, stderr)
}

func TestDo_RestoresStreamsAfterError(t *testing.T) {
	stdout, stderr, code := runHelper(t, "error")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "{\"error\":\"backend failed\"}\n", stderr)
}

func fdIdentity(t *testing.T, fd int) (uint64, uint64) {
	t.Helper()
	var st unix.Stat_t
	require.NoError(t, unix.Fstat(fd, &st))
	return uint64(st.Dev), uint64(st.Ino)
}

func TestDo_RestoresAfterPanic(t *testing.T) {
	dev, ino := fdIdentity(t, 1)

	func() {
		defer func() {
			assert.Equal(t, "boom", recover())
		}()
		_ = Do(func() error { panic("boom") })
	}()

	gotDev, gotIno := fdIdentity(t, 1)
	assert.Equal(t, dev, gotDev)
	assert.Equal(t, ino, gotIno)
	assert.False(t, Active())
}

func TestDo_PassesErrorThrough(t *testing.T) {
	want := errors.New("inference exploded")

	err := Do(func() error { return want })

	assert.Same(t, want, err)
	assert.False(t, Active())
}

func TestDo_RejectsNesting(t *testing.T) {
	var inner error
	err := Do(func() error {
		assert.True(t, Active())
		inner = Do(func() error { return nil })
		return nil
	})

	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
	assert.False(t, Active())
}
