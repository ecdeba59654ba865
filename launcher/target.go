package launcher

import (
	"context"
	"io"
)

// Target runs LAMMPS somewhere: on this machine or through a batch queue.
type Target interface {
	// Configure merges options over the target's run options. Keys present
	// in both keep the given value.
	Configure(options Values)
	// Launch starts a run of the given input script. It blocks until the
	// local process exits or the batch submission command returns.
	Launch(ctx context.Context, script string, variables Values) error
}

// Previewer is implemented by targets able to describe a launch without
// performing it.
type Previewer interface {
	// Preview writes what Launch would execute for the same arguments.
	Preview(w io.Writer, script string, variables Values) error
}

// Command is a process to start. Args[0] is the program.
type Command struct {
	Args []string
	// Capture, when set, receives the process standard output in place of
	// the runner's own output stream.
	Capture io.Writer
}

// Runner starts processes and waits for them to exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}
