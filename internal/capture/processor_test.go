package capture

import (
	"bufio"
	"bytes"
	"image/jpeg"
	"io"
	"net/textproto"
	"strconv"
	"testing"

	"deskstream/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRaw builds an RGBA frame where every pixel encodes its position.
func newRaw(w, h int) *types.RawFrame {
	stride := w * 4
	pix := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*stride + x*4
			pix[i] = byte(x)
			pix[i+1] = byte(y)
			pix[i+2] = byte(x + y)
			pix[i+3] = 0x7f
		}
	}
	return &types.RawFrame{Pix: pix, Stride: stride, Width: w, Height: h}
}

// parseChunk splits a stream chunk into its declared length and payload.
func parseChunk(t *testing.T, chunk []byte) (int, []byte) {
	t.Helper()

	r := bufio.NewReader(bytes.NewReader(chunk))
	boundary, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "--"+Boundary+"\r\n", boundary)

	header, err := textproto.NewReader(r).ReadMIMEHeader()
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", header.Get("Content-Type"))

	n, err := strconv.Atoi(header.Get("Content-Length"))
	require.NoError(t, err)

	payload, err := io.ReadAll(r)
	require.NoError(t, err)
	return n, payload
}

func TestDownsample(t *testing.T) {
	raw := newRaw(6, 4)

	rgb := Downsample(raw)
	require.Len(t, rgb, 3*2*3)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			i := (y*3 + x) * 3
			assert.Equal(t, []byte{byte(2 * x), byte(2 * y), byte(2*x + 2*y)}, rgb[i:i+3], "pixel %d,%d", x, y)
		}
	}
}

func TestDownsampleOddSize(t *testing.T) {
	rgb := Downsample(newRaw(5, 3))
	assert.Len(t, rgb, 2*1*3)
	assert.Equal(t, []byte{0, 0, 0, 2, 0, 2}, rgb)
}

func TestDownsampleHonoursStride(t *testing.T) {
	raw := newRaw(4, 4)
	padded := make([]byte, 0, 4*(raw.Stride+8))
	for y := 0; y < 4; y++ {
		padded = append(padded, raw.Pix[y*raw.Stride:(y+1)*raw.Stride]...)
		padded = append(padded, make([]byte, 8)...)
	}
	withPad := &types.RawFrame{Pix: padded, Stride: raw.Stride + 8, Width: 4, Height: 4}

	assert.Equal(t, Downsample(raw), Downsample(withPad))
}

func TestProcessChunkLength(t *testing.T) {
	p := NewProcessor()

	frame, err := p.Process(newRaw(64, 48))
	require.NoError(t, err)
	assert.Equal(t, 32, frame.Width)
	assert.Equal(t, 24, frame.Height)

	n, payload := parseChunk(t, frame.Chunk)
	assert.Equal(t, len(payload), n)

	img, err := jpeg.Decode(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestMakeChunkExactBytes(t *testing.T) {
	chunk := MakeChunk([]byte{0xff, 0xd8, 0xff, 0xd9})
	want := "--boundarydonotcross\r\nContent-Length:4\r\nContent-Type:image/jpeg\r\n\r\n\xff\xd8\xff\xd9"
	assert.Equal(t, want, string(chunk))
}

func TestBlank(t *testing.T) {
	p := NewProcessor()

	_, err := p.Blank()
	assert.ErrorIs(t, err, ErrNoDimensions)

	_, err = p.Process(newRaw(20, 10))
	require.NoError(t, err)

	frame, err := p.Blank()
	require.NoError(t, err)
	assert.Equal(t, 10, frame.Width)
	assert.Equal(t, 5, frame.Height)

	_, payload := parseChunk(t, frame.Chunk)
	img, err := jpeg.Decode(bytes.NewReader(payload))
	require.NoError(t, err)
	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Less(t, r>>8, uint32(8))
	assert.Less(t, g>>8, uint32(8))
	assert.Less(t, b>>8, uint32(8))
}

func TestEncodeRejectsBadInput(t *testing.T) {
	_, err := Encode(nil, 0, 0)
	assert.Error(t, err)

	_, err = Encode(make([]byte, 5), 2, 2)
	assert.Error(t, err)
}
