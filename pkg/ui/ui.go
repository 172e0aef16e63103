// Package ui renders run results in terminal, text or JSON form.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/hasscleanup/pkg/errors"
	"github.com/arthur-debert/hasscleanup/pkg/ui/json"
	"github.com/arthur-debert/hasscleanup/pkg/ui/terminal"
	"github.com/arthur-debert/hasscleanup/pkg/ui/text"
)

// Renderer is implemented by every output format
type Renderer interface {
	// RenderResult renders a *cleaner.Result or *cleaner.Inventory. Other
	// values are printed as-is.
	RenderResult(result interface{}) error

	// RenderError renders an error
	RenderError(err error) error

	// RenderMessage renders a single informational line
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output
// when it is an *os.File and falls back to terminal otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatTerminal, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
