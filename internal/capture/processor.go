package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"deskstream/internal/types"

	"github.com/pkg/errors"
)

const (
	// Boundary separates chunks of the multipart stream.
	Boundary = "boundarydonotcross"
	// ContentType is the Content-Type of the stream response.
	ContentType = "multipart/x-mixed-replace;boundary=" + Boundary
	// Quality is the fixed JPEG quality of every frame.
	Quality = 50
)

// ErrNoDimensions is returned by Blank before any frame size is known.
var ErrNoDimensions = errors.New("no frame dimensions known")

// Processor turns raw captures into stream chunks. It remembers the size of
// the last processed frame so a blank frame of the same size can stand in
// for a failed capture. A Processor is used by a single goroutine.
type Processor struct {
	width, height int
}

// NewProcessor returns a processor with no known dimensions.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process downsamples, encodes and frames raw.
func (p *Processor) Process(raw *types.RawFrame) (types.Frame, error) {
	w, h := raw.Width/2, raw.Height/2
	p.width, p.height = w, h
	return encodeFrame(Downsample(raw), w, h)
}

// Blank produces a black frame of the last processed size.
func (p *Processor) Blank() (types.Frame, error) {
	if p.width <= 0 || p.height <= 0 {
		return types.Frame{}, ErrNoDimensions
	}
	return encodeFrame(make([]byte, p.width*p.height*3), p.width, p.height)
}

func encodeFrame(rgb []byte, w, h int) (types.Frame, error) {
	data, err := Encode(rgb, w, h)
	if err != nil {
		return types.Frame{}, err
	}
	return types.Frame{Chunk: MakeChunk(data), Width: w, Height: h}, nil
}

// Downsample keeps every second pixel of every second row and drops alpha,
// returning packed RGB of (Width/2)*(Height/2)*3 bytes.
func Downsample(raw *types.RawFrame) []byte {
	w, h := raw.Width/2, raw.Height/2
	out := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := raw.Pix[(y*2)*raw.Stride:]
		for x := 0; x < w; x++ {
			s := x * 2 * 4
			d := (y*w + x) * 3
			out[d] = row[s]
			out[d+1] = row[s+1]
			out[d+2] = row[s+2]
		}
	}
	return out
}

// Encode compresses a packed RGB buffer as JPEG.
func Encode(rgb []byte, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", w, h)
	}
	if len(rgb) < w*h*3 {
		return nil, errors.Errorf("rgb buffer is %d bytes, want %d", len(rgb), w*h*3)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, &rgbImage{pix: rgb, w: w, h: h}, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, errors.Wrap(err, "jpeg encode")
	}
	return buf.Bytes(), nil
}

// MakeChunk prefixes a JPEG payload with its multipart part header.
func MakeChunk(data []byte) []byte {
	header := fmt.Sprintf("--%s\r\nContent-Length:%d\r\nContent-Type:image/jpeg\r\n\r\n", Boundary, len(data))
	chunk := make([]byte, 0, len(header)+len(data))
	chunk = append(chunk, header...)
	return append(chunk, data...)
}

// rgbImage exposes a packed RGB buffer to image/jpeg.
type rgbImage struct {
	pix  []byte
	w, h int
}

func (m *rgbImage) ColorModel() color.Model { return color.RGBAModel }

func (m *rgbImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }

func (m *rgbImage) At(x, y int) color.Color {
	i := (y*m.w + x) * 3
	return color.RGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: 0xff}
}
