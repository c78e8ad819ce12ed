package assets

import (
	"errors"
	"fmt"
)

// AssetLoader loads document stylesheets and HTML templates by bare name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// Sentinel errors for asset lookups.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// kind is one family of assets: its directory, extension and miss error.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// relPath maps a validated name to its slash-separated path in the asset tree.
func (k kind) relPath(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return k.dir + "/" + name + k.ext, nil
}

func (k kind) missing(name string) error {
	return fmt.Errorf("%w: %q", k.notFound, name)
}

// checkName accepts only letters, digits, '-' and '_'.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
