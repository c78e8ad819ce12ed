// Package assets provides the stylesheets and HTML templates used to build
// generated document bodies and the printable PDF shell.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// A deployment can override a single theme or template by pointing
// assets.basePath at a directory with the same layout; anything missing there
// is served from the embedded copy.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css        # document theme (e.g., classic.css)
//	└── templates/
//	    └── {name}.html       # content.html, shell.html
//
// # Themes
//
// Documents select a visual theme through their template identifier ("A",
// "B", "C"). Only the classic theme ships today, so every identifier resolves
// to it until another stylesheet is added to ThemeStyles.
package assets
