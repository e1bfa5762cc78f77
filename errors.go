package formadoc

import "errors"

// Sentinel errors for library operations.
var (
	// Fatal to a whole batch: master data is missing or unusable.
	ErrNoRecipients         = errors.New("recipient list cannot be empty")
	ErrMissingSignatureDate = errors.New("signature date must be set before generating")
	ErrTemplateFetch        = errors.New("template fetch failed")
	ErrSignatureFetch       = errors.New("signature asset fetch failed")

	// Recoverable per recipient: the batch continues without them.
	ErrUnsupportedImageFormat = errors.New("unsupported signature image format")
	ErrComposition            = errors.New("document composition failed")

	// Delivery errors. Remote and local effects fail independently.
	ErrUpload    = errors.New("artifact upload failed")
	ErrLocalSave = errors.New("local save failed")

	// Convention rendering errors.
	ErrEmptyConvention = errors.New("convention has no content")
	ErrConventionHTML  = errors.New("convention HTML build failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")

	// Layout schema validation errors.
	ErrLayoutParse        = errors.New("layout schema parse failed")
	ErrLayoutMissingField = errors.New("layout schema missing required field")

	// Backend client errors.
	ErrBackendStatus = errors.New("backend returned non-success status")
	ErrEmptySession  = errors.New("session identifier cannot be empty")
)
