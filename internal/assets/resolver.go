package assets

import (
	"errors"
)

// AssetResolver serves assets from a custom directory first and from the
// embedded set when the directory lacks them.
type AssetResolver struct {
	custom   Loader // nil if no custom path configured
	embedded Loader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only. Returns ErrInvalidBasePath for an unusable directory.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a CSS style, custom directory first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return resolve(r, func(l Loader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate loads an HTML template, custom directory first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return resolve(r, func(l Loader) (string, error) { return l.LoadTemplate(name) })
}

// LoadScript loads an automation script, custom directory first.
func (r *AssetResolver) LoadScript(name string) ([]byte, error) {
	return resolve(r, func(l Loader) ([]byte, error) { return l.LoadScript(name) })
}

// resolve falls back to the embedded loader only when the custom one reports
// the asset missing; invalid names and read errors are returned as is.
func resolve[T any](r *AssetResolver, load func(Loader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	content, err := load(r.custom)
	if err == nil || !isNotFoundError(err) {
		return content, err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrScriptNotFound)
}

// HasCustomLoader returns true if a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*AssetResolver)(nil)
