package app

import "errors"

var (
	// ErrEmptyInput is returned when there is nothing to translate.
	ErrEmptyInput = errors.New("empty input")
	// ErrSuperseded is returned by a translation replaced by a newer one.
	ErrSuperseded = errors.New("translation superseded")
	// ErrNoText is returned when the clipboard holds no text.
	ErrNoText = errors.New("clipboard has no text")
	// ErrUnsupportedLanguage is returned when the source cannot be identified.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
