package runfile

import (
	"fmt"
	"log/slog"
	"text/template"

	"github.com/gammadia/lmprun/jobscript"
	"github.com/gammadia/lmprun/launcher"
	"github.com/gammadia/lmprun/namegen"
	"github.com/gammadia/lmprun/target/local"
	"github.com/gammadia/lmprun/target/slurm"
)

type BuildOptions struct {
	// Runner starting processes, nil for the current process' streams
	Runner launcher.Runner
	Logger *slog.Logger
	// Give generated job scripts a unique file name, so that submissions
	// made before the previous job started do not overwrite its script
	UniqueJobscript bool
}

// Build constructs the launch target described by the named runfile entry.
func (runfile Runfile) Build(name string, options BuildOptions) (launcher.Target, error) {
	t, err := runfile.Target(name)
	if err != nil {
		return nil, err
	}

	var tmpl *template.Template
	if t.Template != "" {
		if tmpl, err = jobscript.ParseFile(runfile.Resolve(t.Template)); err != nil {
			return nil, fmt.Errorf("targets[%s].template: %w", name, err)
		}
	}

	skip := t.GenerateJobscript != nil && !*t.GenerateJobscript
	path := runfile.Resolve(t.Jobscript)
	if options.UniqueJobscript && !skip {
		if path == "" {
			path = slurm.DefaultJobscript
		}
		path = namegen.Unique(path)
	}

	logger := options.Logger
	if logger != nil {
		logger = logger.With("name", name)
	}

	switch t.Type {
	case TypeLocalCPU:
		return local.NewCPU(local.Config{
			Procs:      t.Procs,
			Executable: t.Executable,
			Options:    t.Options,
			Runner:     options.Runner,
			Logger:     logger,
		}), nil
	case TypeLocalGPU:
		return local.NewGPU(local.GPUConfig{
			GPUs:       t.GPUs,
			Executable: t.Executable,
			Options:    t.Options,
			Runner:     options.Runner,
			Logger:     logger,
		}), nil
	case TypeSlurmCPU:
		cpu, err := slurm.NewCPU(slurm.Config{
			Nodes:         t.Nodes,
			Executable:    t.Executable,
			Settings:      t.Settings,
			Options:       t.Options,
			ProcsPerNode:  t.ProcsPerNode,
			Module:        t.Module,
			SkipJobscript: skip,
			Jobscript:     path,
			SubmitCommand: t.SubmitCommand,
			Template:      tmpl,
			Runner:        options.Runner,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("targets[%s]: %w", name, err)
		}
		return cpu, nil
	case TypeSlurmGPU:
		gpu, err := slurm.NewGPU(slurm.GPUConfig{
			GPUs:          t.GPUs,
			Executable:    t.Executable,
			Settings:      t.Settings,
			Options:       t.Options,
			SkipJobscript: skip,
			Jobscript:     path,
			SubmitCommand: t.SubmitCommand,
			Template:      tmpl,
			Runner:        options.Runner,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("targets[%s]: %w", name, err)
		}
		return gpu, nil
	default:
		return nil, fmt.Errorf("unknown target type '%s'", t.Type)
	}
}
