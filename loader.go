package saq

import (
	"io/fs"

	"github.com/goliatone/go-saq/pkg/definition"
)

// LoadDefinition reads a single JSON or YAML survey definition from fsys.
func LoadDefinition(fsys fs.FS, name string) (Survey, error) {
	return definition.Load(fsys, name)
}

// LoadDefinitions reads every definition found under fsys.
func LoadDefinitions(fsys fs.FS) (*definition.Store, error) {
	return definition.LoadFS(fsys)
}

// ParseDefinition decodes a definition from raw bytes. source names the
// input in error messages.
func ParseDefinition(data []byte, source string) (Survey, error) {
	return definition.Parse(data, source)
}
