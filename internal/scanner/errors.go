package scanner

import "errors"

// Sentinel errors for the scanner package
var (
	// ErrRootUnreadable indicates the installed-extensions directory could not be listed
	ErrRootUnreadable = errors.New("installed extensions directory is not readable")

	// ErrInvalidLanguageConfig indicates a language config.toml could not be used
	ErrInvalidLanguageConfig = errors.New("invalid language config")

	// ErrInvalidThemeFamily indicates a theme family file could not be used
	ErrInvalidThemeFamily = errors.New("invalid theme family")
)
