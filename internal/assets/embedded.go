package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

//go:embed scripts/*
var scripts embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a built-in CSS style by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	data, err := readEmbedded(styles, KindStyle, name, ".css", ErrStyleNotFound)
	return string(data), err
}

// LoadTemplate loads a built-in HTML template by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	data, err := readEmbedded(templates, KindTemplate, name, ".html", ErrTemplateNotFound)
	return string(data), err
}

// LoadScript loads a built-in automation script by file name.
func (e *EmbeddedLoader) LoadScript(name string) ([]byte, error) {
	return readEmbedded(scripts, KindScript, name, "", ErrScriptNotFound)
}

func readEmbedded(fsys embed.FS, kind Kind, name, ext string, notFound error) ([]byte, error) {
	if err := ValidateName(kind, name); err != nil {
		return nil, err
	}
	data, err := fsys.ReadFile(string(kind) + "/" + name + ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", notFound, name)
	}
	return data, nil
}

// AutomationScript returns a copy of the built-in Word automation script. The
// script takes a source path and an /o:<output> argument and saves the
// document as PDF through the word processor's COM interface.
func AutomationScript() []byte {
	data, err := NewEmbeddedLoader().LoadScript(ScriptName)
	if err != nil {
		panic("assets: built-in automation script missing: " + err.Error())
	}
	return data
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
