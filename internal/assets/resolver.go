package assets

import "errors"

// AssetResolver reads from an optional override directory and falls back to
// the built-in assets for anything the directory does not provide.
type AssetResolver struct {
	override *FilesystemLoader // nil without assets.basePath
	builtin  *EmbeddedLoader
}

// NewAssetResolver creates a resolver. An empty basePath serves built-in
// assets only.
func NewAssetResolver(basePath string) (*AssetResolver, error) {
	r := &AssetResolver{builtin: NewEmbeddedLoader()}
	if basePath == "" {
		return r, nil
	}

	fs, err := NewFilesystemLoader(basePath)
	if err != nil {
		return nil, err
	}
	r.override = fs
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	if r.override != nil {
		css, err := r.override.LoadStyle(name)
		if !errors.Is(err, ErrStyleNotFound) {
			return css, err
		}
	}
	return r.builtin.LoadStyle(name)
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	if r.override != nil {
		html, err := r.override.LoadTemplate(name)
		if !errors.Is(err, ErrTemplateNotFound) {
			return html, err
		}
	}
	return r.builtin.LoadTemplate(name)
}

// HasOverride reports whether an override directory is configured.
func (r *AssetResolver) HasOverride() bool {
	return r.override != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
