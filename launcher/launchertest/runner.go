// Package launchertest provides a Runner that records commands instead of
// starting processes.
package launchertest

import (
	"context"
	"sync"

	"github.com/gammadia/lmprun/launcher"
)

type Runner struct {
	// Output is written to the command's Capture writer, if any.
	Output string
	// Err is returned by every Run call.
	Err error

	mu       sync.Mutex
	commands [][]string
}

// Runner implements launcher.Runner
var _ launcher.Runner = (*Runner)(nil)

func (r *Runner) Run(_ context.Context, cmd launcher.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, append([]string(nil), cmd.Args...))
	if cmd.Capture != nil && r.Output != "" {
		if _, err := cmd.Capture.Write([]byte(r.Output)); err != nil {
			return err
		}
	}
	return r.Err
}

// Commands returns the argument vectors of every Run call so far.
func (r *Runner) Commands() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.commands...)
}

// Last returns the most recent argument vector, or nil.
func (r *Runner) Last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commands) == 0 {
		return nil
	}
	return r.commands[len(r.commands)-1]
}
