// Package yamlutil reads and writes word2pdf configuration files as YAML.
// Decoding is always strict: a misspelled key is an error, not a silent
// default.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits configuration input (default 1MB).
var MaxInputSize = 1 << 20

// encodeIndent is the indentation of written configuration files.
const encodeIndent = 2

var (
	ErrEmptyInput     = errors.New("yamlutil: empty configuration")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Decode parses data into v, rejecting keys v does not declare. Parse errors
// carry the line and column of the offending token.
func Decode(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}

	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %s", yaml.FormatError(err, false, false))
	}
	return nil
}

// Encode writes v as YAML that Decode reads back into the same type.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(encodeIndent))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
