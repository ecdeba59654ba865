package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/gammadia/lmprun/launcher/launchertest"
	"github.com/gammadia/lmprun/runfile"
	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRunfile = `version: "1"
variables:
  T: 300
targets:
  desktop:
    type: local-cpu
    procs: 2
`

const testClusterRunfile = `version: "1"
targets:
  saga:
    type: slurm-cpu
    nodes: 2
    jobscript: job.sh
    settings:
      account: nn1234k
  desktop:
    type: local-gpu
    gpus: 2
`

func writeRunfile(t *testing.T, source string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "lmprun.yaml")
	require.NoError(t, os.WriteFile(file, []byte(source), 0644))
	return file
}

// resetFlags restores flag defaults between executions of the shared
// command tree.
func resetFlags() {
	for _, flags := range []*flag.FlagSet{lmprunCmd.PersistentFlags(), runCmd.Flags()} {
		flags.VisitAll(func(f *flag.Flag) {
			if slice, ok := f.Value.(flag.SliceValue); ok {
				lo.Must0(slice.Replace(nil))
			} else {
				lo.Must0(f.Value.Set(f.DefValue))
			}
			f.Changed = false
		})
	}
}

// execute runs lmprun with args against a recording runner, returning
// standard output and standard error.
func execute(t *testing.T, r *launchertest.Runner, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	runner = r
	color.NoColor = true
	t.Cleanup(func() {
		runner = nil
		resetFlags()
	})

	var stdout, stderr bytes.Buffer
	lmprunCmd.SetOut(&stdout)
	lmprunCmd.SetErr(&stderr)
	lmprunCmd.SetArgs(args)
	err := lmprunCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTargetName(t *testing.T) {
	rf := lo.Must(runfile.Read(writeRunfile(t, testRunfile), runfile.ReadOptions{}))

	name, err := targetName(rf, "")
	require.NoError(t, err)
	assert.Equal(t, "desktop", name)

	name, err = targetName(rf, "other")
	require.NoError(t, err)
	assert.Equal(t, "other", name)

	rf.Targets["laptop"] = runfile.Target{Type: runfile.TypeLocalCPU}
	_, err = targetName(rf, "")
	assert.EqualError(t, err, "runfile defines several targets, choose one with --target: [desktop laptop]")
}

func TestRunDryRun(t *testing.T) {
	file := writeRunfile(t, testRunfile)
	r := &launchertest.Runner{}

	stdout, _, err := execute(t, r, "run", "-f", file, "--dry-run", "--var", "T=350", "--var", "seed=1", "-o", "-sf=omp", "in.melt")
	require.NoError(t, err)

	assert.Contains(t, stdout, "  desktop  ")
	assert.Contains(t, stdout, "mpirun -n 2 lmp_mpi -sf omp -in in.melt -var T 350 -var seed 1 \n")
	assert.Empty(t, r.Commands())
}

func TestRunLocal(t *testing.T) {
	file := writeRunfile(t, testRunfile)
	r := &launchertest.Runner{}

	_, stderr, err := execute(t, r, "run", "-f", file, "--var", "seed=7", "--unique-jobscript", "in.melt")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"mpirun", "-n", "2", "lmp_mpi", "-in", "in.melt", "-var", "T", "300", "-var", "seed", "7"}}, r.Commands())
	assert.Contains(t, stderr, "--unique-jobscript has no effect on local targets")
	assert.Contains(t, stderr, "msg=Launching")
}

func TestRunSlurm(t *testing.T) {
	file := writeRunfile(t, testClusterRunfile)
	r := &launchertest.Runner{Output: "Submitted batch job 42\n"}

	stdout, stderr, err := execute(t, r, "run", "-f", file, "-t", "saga", "in.melt")
	require.NoError(t, err)

	jobscript := filepath.Join(filepath.Dir(file), "job.sh")
	assert.Equal(t, []string{"sbatch", jobscript}, r.Last())
	assert.FileExists(t, jobscript)
	assert.Contains(t, stdout, "Submitted 'in.melt' to 'saga'")
	assert.Contains(t, stderr, "job-id=42")
}

func TestRunErrors(t *testing.T) {
	file := writeRunfile(t, testClusterRunfile)

	_, _, err := execute(t, &launchertest.Runner{}, "run", "-f", file, "in.melt")
	assert.EqualError(t, err, "runfile defines several targets, choose one with --target: [desktop saga]")

	_, _, err = execute(t, &launchertest.Runner{}, "run", "-f", file, "-t", "frontier", "in.melt")
	assert.EqualError(t, err, "unknown target 'frontier'")

	_, _, err = execute(t, &launchertest.Runner{}, "run", "-f", file, "-t", "saga", "--var", "T", "in.melt")
	assert.ErrorContains(t, err, "invalid --var")

	_, _, err = execute(t, &launchertest.Runner{}, "run", "-f", filepath.Join(t.TempDir(), "missing.yaml"), "in.melt")
	assert.ErrorContains(t, err, "failed to read runfile")
}

func TestTargets(t *testing.T) {
	file := writeRunfile(t, testClusterRunfile)

	stdout, _, err := execute(t, &launchertest.Runner{}, "targets", "-f", file)
	require.NoError(t, err)
	assert.Equal(t, "desktop local-gpu (2 GPUs)\nsaga slurm-cpu (2 nodes)\n", stdout)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, &launchertest.Runner{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "lmprun version dev (n/a)\n", stdout)
}

func TestCompletion(t *testing.T) {
	stdout, _, err := execute(t, &launchertest.Runner{}, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "lmprun")

	_, _, err = execute(t, &launchertest.Runner{}, "completion", "tcsh")
	assert.ErrorContains(t, err, "invalid argument")
}
