package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on disk, laid out like the
// embedded tree (styles/*.css, templates/*.html).
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Containment checks compare resolved paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadStyle reads {basePath}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.read(styleKind, name)
}

// LoadTemplate reads {basePath}/templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.read(templateKind, name)
}

func (f *FilesystemLoader) read(k kind, name string) (string, error) {
	rel, err := k.relPath(name)
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(f.basePath, filepath.FromSlash(rel))
	if err := f.contains(filePath); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- name validated and containment checked
	switch {
	case err == nil:
		return string(data), nil
	case os.IsNotExist(err):
		return "", k.missing(name)
	default:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}

// contains rejects files whose real path (symlinks followed) leaves basePath.
// A missing file passes here and fails on open.
func (f *FilesystemLoader) contains(filePath string) error {
	resolved := filePath
	if real, err := filepath.EvalSymlinks(filePath); err == nil {
		resolved = real
	}
	if !strings.HasPrefix(resolved, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s escapes the asset directory", ErrPathTraversal, filepath.Base(filePath))
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
