package capture

import (
	"image"

	"deskstream/internal/types"

	"github.com/kbinani/screenshot"
	"github.com/pkg/errors"
)

// ErrNoDisplay is returned when the platform reports no active display.
var ErrNoDisplay = errors.New("no active display")

// Source captures a raw frame from the host display.
type Source interface {
	Capture() (*types.RawFrame, error)
}

// ScreenSource captures the primary display.
type ScreenSource struct{}

// Capture grabs the current contents of display 0.
func (ScreenSource) Capture() (*types.RawFrame, error) {
	if screenshot.NumActiveDisplays() <= 0 {
		return nil, ErrNoDisplay
	}
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return nil, errors.Wrap(err, "capture primary display")
	}
	return FromRGBA(img), nil
}

// FromRGBA wraps an RGBA image without copying its pixels.
func FromRGBA(img *image.RGBA) *types.RawFrame {
	b := img.Bounds()
	return &types.RawFrame{
		Pix:    img.Pix[img.PixOffset(b.Min.X, b.Min.Y):],
		Stride: img.Stride,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// ResolveMetrics captures once and reports the native display geometry.
func ResolveMetrics(src Source) (types.HostDisplayMetrics, error) {
	raw, err := src.Capture()
	if err != nil {
		return types.HostDisplayMetrics{}, errors.Wrap(err, "resolve display metrics")
	}
	if raw.Height <= 0 {
		return types.HostDisplayMetrics{}, errors.Errorf("display reported height %d", raw.Height)
	}
	return types.HostDisplayMetrics{Width: raw.Width, Height: raw.Height}, nil
}
