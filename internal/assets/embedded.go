package assets

import "embed"

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the classic theme and the content/shell templates
// compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readBuiltin(styleKind, name)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readBuiltin(templateKind, name)
}

func readBuiltin(k kind, name string) (string, error) {
	path, err := k.relPath(name)
	if err != nil {
		return "", err
	}
	data, err := builtin.ReadFile(path)
	if err != nil {
		return "", k.missing(name)
	}
	return string(data), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
