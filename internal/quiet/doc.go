// Package quiet silences the process's standard output and standard error for
// the duration of a function call.
//
// Native model runtimes print progress and warnings straight to file
// descriptors 1 and 2, bypassing os.Stdout. Do points both descriptors at the
// null device while the function runs and restores the originals when it
// returns, fails or panics.
//
// The redirection is process-global. Only one Do may be active at a time;
// overlapping calls fail with ErrBusy instead of nesting, and nothing else may
// write to the real streams while a call is active.
package quiet
