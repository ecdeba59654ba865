package launcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	options := NewValues("-in", "in.melt")
	variables := NewValues("T", "300")

	assert.Equal(t, "mpirun -n 4 lmp_mpi -in in.melt -var T 300 ", BuildCommand(4, "lmp_mpi", options, variables))
}

func TestBuildCommandEmpty(t *testing.T) {
	assert.Equal(t, "mpirun -n 1 lmp ", BuildCommand(1, "lmp", nil, nil))
}

func TestBuildCommandOrder(t *testing.T) {
	options := NewValues("-pk", "kokkos newton on comm no", "-k", "on g 2", "-sf", "kk", "-in", "in.lj")
	variables := NewValues("seed", "42", "T", "1.5")

	got := BuildCommand(2, "lmp_kokkos_cuda_mpi", options, variables)
	assert.Equal(t, "mpirun -n 2 lmp_kokkos_cuda_mpi -pk kokkos newton on comm no -k on g 2 -sf kk -in in.lj -var seed 42 -var T 1.5 ", got)

	// every pair exactly once, variables after options
	for _, p := range options {
		assert.Equal(t, 1, strings.Count(got, p.Key+" "+p.Value+" "))
	}
	for _, p := range variables {
		assert.Equal(t, 1, strings.Count(got, "-var "+p.Key+" "+p.Value+" "))
	}
	assert.Less(t, strings.Index(got, "-in in.lj"), strings.Index(got, "-var"))
}

func TestBuildCommandVerbatim(t *testing.T) {
	got := BuildCommand(1, "lmp", NewValues("-log", "a b; rm"), NewValues("x", "$HOME"))
	assert.Equal(t, "mpirun -n 1 lmp -log a b; rm -var x $HOME ", got)
}

func TestBuildArgs(t *testing.T) {
	options := NewValues("-k", "on g 2", "-sf", "kk", "-in", "in.melt")
	variables := NewValues("T", "300")

	args, err := BuildArgs(2, "lmp", options, variables)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mpirun", "-n", "2", "lmp",
		"-k", "on", "g", "2",
		"-sf", "kk",
		"-in", "in.melt",
		"-var", "T", "300",
	}, args)
}

func TestBuildArgsQuoting(t *testing.T) {
	options := NewValues("-in", `"my input.lmp"`)
	variables := NewValues("label", `'hello world'`, "dir", "$LMPRUN_TEST_DIR/out")
	t.Setenv("LMPRUN_TEST_DIR", "/scratch")

	args, err := BuildArgs(1, "lmp", options, variables)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mpirun", "-n", "1", "lmp",
		"-in", "my input.lmp",
		"-var", "label", "hello world",
		"-var", "dir", "/scratch/out",
	}, args)
}

func TestBuildArgsEmptyValue(t *testing.T) {
	args, err := BuildArgs(1, "lmp", NewValues("-nocite", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"mpirun", "-n", "1", "lmp", "-nocite"}, args)
}

func TestBuildArgsMalformed(t *testing.T) {
	_, err := BuildArgs(1, "lmp", NewValues("-in", `"unterminated`), nil)
	assert.ErrorContains(t, err, "option -in")

	_, err = BuildArgs(1, "lmp", nil, NewValues("T", "'oops"))
	assert.ErrorContains(t, err, "variable T")
}

func TestBuildArgsMatchesCommandWords(t *testing.T) {
	options := NewValues("-pk", "kokkos newton on neigh half", "-k", "on g 4", "-sf", "kk", "-in", "in.lj")
	variables := NewValues("T", "300", "steps", "1000")

	args, err := BuildArgs(4, "lmp", options, variables)
	require.NoError(t, err)
	assert.Equal(t, strings.Fields(BuildCommand(4, "lmp", options, variables)), args)
}
