package docbuilder

import "errors"

// Sentinel errors for library operations.
var (
	// Generation errors.
	ErrMissingDocType = errors.New("document type is required")
	ErrInvalidPrice   = errors.New("price amount out of range")
	ErrGeneration     = errors.New("content generation failed")
	ErrContentRender  = errors.New("content template rendering failed")
	ErrTemplateLoad   = errors.New("failed to load template")

	// Asset errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Rendering errors.
	ErrShellRender    = errors.New("document shell rendering failed")
	ErrStyleNotFound  = errors.New("style not found")
	ErrBrowserLaunch  = errors.New("failed to launch browser")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
