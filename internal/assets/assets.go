// Package assets provides the Word automation script and the CSS styles and
// HTML templates used to lay out legacy documents for printing.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter when an asset directory
// is configured. The directory may override a single style, template or
// script while the rest comes from the binary.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	├── templates/
//	│   └── {name}.html
//	└── scripts/
//	    └── word2pdf.vbs
//
// # Security
//
// Asset names are validated per kind before they are joined to a directory.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

import (
	"fmt"
	"path"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName     = "default"
	CompactStyleName     = "compact"
	DocumentTemplateName = "document"
	ScriptName           = "word2pdf.vbs"
)

// Kind is a category of asset. Its value is the directory holding it.
type Kind string

const (
	KindStyle    Kind = "styles"
	KindTemplate Kind = "templates"
	KindScript   Kind = "scripts"
)

// scriptExtensions are the languages the Windows Script Host runs.
var scriptExtensions = map[string]bool{
	".vbs": true,
	".js":  true,
	".wsf": true,
}

// Loader loads layout assets and automation scripts by name.
type Loader interface {
	// LoadStyle loads a CSS style by name, without the .css extension.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name, without the .html extension.
	LoadTemplate(name string) (string, error)

	// LoadScript loads an automation script by file name, extension included.
	LoadScript(name string) ([]byte, error)
}

// ValidateName checks that name can be joined under the directory of kind.
// Style and template names are bare; the loader adds the extension. Script
// names carry exactly one extension, and it must be a script host language.
func ValidateName(kind Kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s name", ErrInvalidAssetName, kind)
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}

	switch kind {
	case KindScript:
		ext := strings.ToLower(path.Ext(name))
		if strings.Count(name, ".") != 1 || !scriptExtensions[ext] {
			return fmt.Errorf("%w: %q is not a .vbs, .js or .wsf file", ErrInvalidAssetName, name)
		}
	case KindStyle, KindTemplate:
		if strings.Contains(name, ".") {
			return fmt.Errorf("%w: %q (give the name without extension)", ErrInvalidAssetName, name)
		}
	default:
		return fmt.Errorf("%w: unknown asset kind %q", ErrInvalidAssetName, kind)
	}
	return nil
}
