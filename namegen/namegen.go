// Package namegen generates short human-readable names, used to keep the
// job scripts of concurrent submissions apart.
package namegen

import (
	"path/filepath"
	"strings"

	vendor "github.com/anandvarma/namegen"
)

var gen = vendor.New()

func Get() string {
	return gen.Get()
}

// Unique inserts a generated name into path, before its extension:
// "run.sh" becomes "run-<name>.sh" and "jobscript" becomes "jobscript-<name>".
func Unique(path string) string {
	return WithName(path, Get())
}

func WithName(path, name string) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		ext = ""
	}
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}
