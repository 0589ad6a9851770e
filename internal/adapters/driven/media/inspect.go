package media

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.ImageInspector = Inspector{}

// Inspector reads image dimensions and format from the header.
type Inspector struct{}

// Inspect decodes only the image configuration.
func (Inspector) Inspect(r io.Reader) (*domain.Preview, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("inspect image: %w", err)
	}
	return &domain.Preview{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
