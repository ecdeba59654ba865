package runfile

import (
	"fmt"
	"os"
	"path"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no runfile is given.
const DefaultFile = "lmprun.yaml"

type ReadOptions struct {
	// Runfile parameters, available as .Params in the template
	Params map[string]string
}

type UnmarshalError struct {
	error
	Source string
}

// Read evaluates file as a template, then decodes and validates it.
func Read(file string, options ReadOptions) (*Runfile, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	source, err := evaluateTemplate(string(buf), options)
	if err != nil {
		return nil, fmt.Errorf("evaluate template: %w", err)
	}

	var runfile Runfile
	if err = yaml.Unmarshal([]byte(source), &runfile); err != nil {
		return nil, UnmarshalError{fmt.Errorf("unmarshal: %w", err), source}
	}
	runfile.path = path.Dir(file)
	if err = runfile.Validate(); err != nil {
		return nil, UnmarshalError{fmt.Errorf("validate: %w", err), source}
	}

	return &runfile, nil
}

type TemplateData struct {
	Env    map[string]string
	Params map[string]string
}

func evaluateTemplate(source string, options ReadOptions) (string, error) {
	tmpl, err := template.New("runfile").Funcs(sprig.TxtFuncMap()).Parse(source)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := TemplateData{
		Env:    lo.SliceToMap(os.Environ(), func(env string) (key, val string) { key, val, _ = strings.Cut(env, "="); return }),
		Params: lo.Ternary(options.Params != nil, options.Params, map[string]string{}),
	}

	var output strings.Builder
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return output.String(), nil
}
