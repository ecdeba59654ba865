// Package jobscript renders Slurm batch scripts for LAMMPS runs.
//
// Templates are text/template documents with the slim-sprig function map
// available. The embedded CPU and GPU templates reproduce the layouts the
// cluster targets have always produced; a custom template receives the same
// Data and may use any of the sprig helpers.
package jobscript

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gammadia/lmprun/launcher"
	"github.com/samber/lo"
	"mvdan.cc/sh/v3/syntax"
)

//go:embed templates/*.tmpl
var templates embed.FS

var (
	// CPU loads an environment module before running the command.
	CPU = lo.Must(parseEmbedded("cpu.sh.tmpl"))
	// GPU echoes the visible CUDA devices before running the command.
	GPU = lo.Must(parseEmbedded("gpu.sh.tmpl"))
)

// Data is the template context.
type Data struct {
	// Settings are rendered as #SBATCH --key=value directives.
	Settings launcher.Values
	// Module is the environment module providing LAMMPS.
	Module string
	// Command is the complete MPI command line.
	Command string

	Procs      int
	Executable string
	Options    launcher.Values
	Variables  launcher.Values
}

func parseEmbedded(name string) (*template.Template, error) {
	return template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templates, "templates/"+name)
}

// Parse compiles a custom job script template.
func Parse(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// ParseFile compiles a custom job script template read from disk.
func ParseFile(path string) (*template.Template, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(path, string(buf))
}

func Render(w io.Writer, tmpl *template.Template, data Data) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// Write renders the script to path, replacing any existing file, and
// returns the rendered text.
func Write(path string, tmpl *template.Template, data Data) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, tmpl, data); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write job script: %w", err)
	}
	return buf.String(), nil
}

// Check reports whether script is syntactically valid shell.
func Check(name, script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), name); err != nil {
		return fmt.Errorf("job script syntax: %w", err)
	}
	return nil
}
