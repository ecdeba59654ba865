package launcher

import (
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// MPILauncher is the program every LAMMPS command line starts with.
const MPILauncher = "mpirun"

// InputFlag is the LAMMPS option carrying the input script. Targets
// overwrite it on every launch.
const InputFlag = "-in"

// BuildCommand renders the MPI command line for a LAMMPS run:
//
//	mpirun -n <procs> <executable> <flag> <value> ... -var <name> <value> ...
//
// Options come first, then variables, each in their own order. Every token
// is followed by a single space, including the last one. Keys and values are
// copied verbatim.
func BuildCommand(procs int, executable string, options, variables Values) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -n %d %s ", MPILauncher, procs, executable)
	for _, p := range options {
		fmt.Fprintf(&b, "%s %s ", p.Key, p.Value)
	}
	for _, p := range variables {
		fmt.Fprintf(&b, "-var %s %s ", p.Key, p.Value)
	}
	return b.String()
}

// BuildArgs returns the argument vector equivalent to BuildCommand. Option
// and variable values are split into words the way a POSIX shell would,
// so `-k "on g 2"` yields "-k", "on", "g", "2". Environment variables in
// values are expanded; command substitution is rejected.
func BuildArgs(procs int, executable string, options, variables Values) ([]string, error) {
	args := []string{MPILauncher, "-n", strconv.Itoa(procs), executable}
	for _, p := range options {
		words, err := shell.Fields(p.Value, nil)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", p.Key, err)
		}
		args = append(args, p.Key)
		args = append(args, words...)
	}
	for _, p := range variables {
		words, err := shell.Fields(p.Value, nil)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", p.Key, err)
		}
		args = append(args, "-var", p.Key)
		args = append(args, words...)
	}
	return args, nil
}
