package input

import (
	"math"

	"deskstream/internal/types"

	"github.com/pkg/errors"
)

// ErrInvalidViewport is returned when the viewer did not report a usable
// viewport height.
var ErrInvalidViewport = errors.New("invalid viewport height")

// Mapper converts viewer coordinates to host display coordinates. The
// viewer keeps the aspect ratio of the stream, so one vertical ratio
// applies to both axes.
type Mapper struct {
	metrics types.HostDisplayMetrics
}

// NewMapper returns a mapper for the given host display.
func NewMapper(metrics types.HostDisplayMetrics) *Mapper {
	return &Mapper{metrics: metrics}
}

// Scale maps (x, y), given in a viewport viewportHeight pixels tall, to
// host pixels.
func (m *Mapper) Scale(x, y int, viewportHeight float64) (int, int, error) {
	if viewportHeight <= 0 || math.IsNaN(viewportHeight) || math.IsInf(viewportHeight, 0) {
		return 0, 0, errors.Wrapf(ErrInvalidViewport, "height %v", viewportHeight)
	}
	factor := float64(m.metrics.Height) / viewportHeight
	hx, hy := math.Round(float64(x)*factor), math.Round(float64(y)*factor)
	if !inRange(hx) || !inRange(hy) {
		return 0, 0, errors.Wrapf(ErrInvalidViewport, "height %v puts (%d, %d) at (%g, %g)", viewportHeight, x, y, hx, hy)
	}
	return int(hx), int(hy), nil
}

// inRange reports whether v is a finite value that fits an int32.
func inRange(v float64) bool {
	return !math.IsNaN(v) && v >= math.MinInt32 && v <= math.MaxInt32
}
