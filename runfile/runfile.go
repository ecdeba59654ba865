package runfile

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/gammadia/lmprun/launcher"
)

const RunfileVersion = "1"

const (
	TypeLocalCPU = "local-cpu"
	TypeLocalGPU = "local-gpu"
	TypeSlurmCPU = "slurm-cpu"
	TypeSlurmGPU = "slurm-gpu"
)

var Types = []string{TypeLocalCPU, TypeLocalGPU, TypeSlurmCPU, TypeSlurmGPU}

// Runfile describes the targets a project can run LAMMPS on.
type Runfile struct {
	path string

	Version   string            `yaml:"version"`
	Variables launcher.Values   `yaml:"variables"`
	Targets   map[string]Target `yaml:"targets"`
}

type Target struct {
	Type       string          `yaml:"type"`
	Executable string          `yaml:"executable"`
	Options    launcher.Values `yaml:"options"`

	// local-cpu
	Procs int `yaml:"procs"`
	// local-gpu, slurm-gpu
	GPUs int `yaml:"gpus"`

	// slurm-cpu
	Nodes        int    `yaml:"nodes"`
	ProcsPerNode int    `yaml:"procs-per-node"`
	Module       string `yaml:"module"`

	// slurm-cpu, slurm-gpu
	Settings          launcher.Values `yaml:"settings"`
	Jobscript         string          `yaml:"jobscript"`
	GenerateJobscript *bool           `yaml:"generate-jobscript"`
	SubmitCommand     string          `yaml:"submit-command"`
	Template          string          `yaml:"template"`
}

var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func (t Target) IsSlurm() bool {
	return t.Type == TypeSlurmCPU || t.Type == TypeSlurmGPU
}

func (runfile Runfile) Validate() error {
	if runfile.Version != RunfileVersion {
		return fmt.Errorf("unsupported version '%s'", runfile.Version)
	}

	if len(runfile.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	for _, name := range runfile.Names() {
		target := runfile.Targets[name]

		if !nameRegex.MatchString(name) {
			return fmt.Errorf("targets names must be valid identifiers")
		}

		switch target.Type {
		case TypeLocalCPU, TypeLocalGPU, TypeSlurmCPU, TypeSlurmGPU:
		case "":
			return fmt.Errorf("targets[%s].type is required", name)
		default:
			return fmt.Errorf("targets[%s].type must be one of %v", name, Types)
		}

		if target.Procs < 0 {
			return fmt.Errorf("targets[%s].procs must not be negative", name)
		}
		if target.GPUs < 0 {
			return fmt.Errorf("targets[%s].gpus must not be negative", name)
		}
		if target.ProcsPerNode < 0 {
			return fmt.Errorf("targets[%s].procs-per-node must not be negative", name)
		}

		if target.Procs != 0 && target.Type != TypeLocalCPU {
			return fmt.Errorf("targets[%s].procs is only valid for %s targets", name, TypeLocalCPU)
		}
		if target.GPUs != 0 && target.Type != TypeLocalGPU && target.Type != TypeSlurmGPU {
			return fmt.Errorf("targets[%s].gpus is only valid for GPU targets", name)
		}
		if target.Type != TypeSlurmCPU && (target.Nodes != 0 || target.ProcsPerNode != 0 || target.Module != "") {
			return fmt.Errorf("targets[%s].nodes, procs-per-node and module are only valid for %s targets", name, TypeSlurmCPU)
		}
		if target.Type == TypeSlurmCPU && target.Nodes < 1 {
			return fmt.Errorf("targets[%s].nodes must be greater than 0", name)
		}

		if !target.IsSlurm() && (target.Settings != nil || target.Jobscript != "" || target.GenerateJobscript != nil || target.SubmitCommand != "" || target.Template != "") {
			return fmt.Errorf("targets[%s] uses job script fields on a local target", name)
		}

		if target.Template != "" {
			if _, err := os.Stat(runfile.Resolve(target.Template)); os.IsNotExist(err) {
				return fmt.Errorf("targets[%s].template must be an existing file on disk", name)
			}
		}
	}

	return nil
}

// Names returns the target names in lexical order.
func (runfile Runfile) Names() []string {
	names := make([]string, 0, len(runfile.Targets))
	for name := range runfile.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve interprets p relative to the directory holding the runfile.
func (runfile Runfile) Resolve(p string) string {
	if p == "" || path.IsAbs(p) || runfile.path == "" {
		return p
	}
	return path.Join(runfile.path, p)
}

// Target returns the named target.
func (runfile Runfile) Target(name string) (Target, error) {
	target, ok := runfile.Targets[name]
	if !ok {
		return Target{}, fmt.Errorf("unknown target '%s'", name)
	}
	return target, nil
}
