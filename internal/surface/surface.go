package surface

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// Depth is the pixel encoding of a surface, tagged by bits per pixel.
type Depth int

const (
	Depth16 Depth = 16
	Depth24 Depth = 24
	Depth32 Depth = 32
)

func ParseDepth(bitsPerPixel int) (Depth, error) {
	switch Depth(bitsPerPixel) {
	case Depth16, Depth24, Depth32:
		return Depth(bitsPerPixel), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedDepth, bitsPerPixel)
}

func (d Depth) BytesPerPixel() int { return int(d) / 8 }

// Layout describes how pixels map onto a byte buffer. It matches what a
// Linux framebuffer reports in its fixed and variable screen info.
type Layout struct {
	Width        int
	Height       int
	BitsPerPixel int
	Stride       int
	PanX         int
	PanY         int
}

// Surface is a raw pixel buffer with a device-specific byte layout.
// Concurrent writers are safe as long as they touch disjoint rows.
type Surface struct {
	width  int
	height int
	stride int
	panX   int
	panY   int
	depth  Depth
	buf    []byte
}

func New(l Layout, buf []byte) (*Surface, error) {
	depth, err := ParseDepth(l.BitsPerPixel)
	if err != nil {
		return nil, err
	}
	if l.Width <= 0 || l.Height <= 0 || l.PanX < 0 || l.PanY < 0 {
		return nil, fmt.Errorf("%w: %dx%d pan (%d,%d)", ErrInvalidLayout, l.Width, l.Height, l.PanX, l.PanY)
	}
	bpp := depth.BytesPerPixel()
	if l.Stride < (l.PanX+l.Width)*bpp {
		return nil, fmt.Errorf("%w: stride %d for width %d", ErrInvalidLayout, l.Stride, l.Width)
	}
	need := (l.PanY+l.Height-1)*l.Stride + (l.PanX+l.Width)*bpp
	if len(buf) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(buf), need)
	}
	return &Surface{
		width:  l.Width,
		height: l.Height,
		stride: l.Stride,
		panX:   l.PanX,
		panY:   l.PanY,
		depth:  depth,
		buf:    buf,
	}, nil
}

// NewBuffer allocates a tightly packed surface on the heap.
func NewBuffer(width, height, bitsPerPixel int) (*Surface, error) {
	depth, err := ParseDepth(bitsPerPixel)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, width, height)
	}
	stride := width * depth.BytesPerPixel()
	return New(Layout{
		Width:        width,
		Height:       height,
		BitsPerPixel: bitsPerPixel,
		Stride:       stride,
	}, make([]byte, stride*height))
}

func (s *Surface) Width() int      { return s.width }
func (s *Surface) Height() int     { return s.height }
func (s *Surface) Stride() int     { return s.stride }
func (s *Surface) Depth() Depth    { return s.depth }
func (s *Surface) Bytes() []byte   { return s.buf }
func (s *Surface) Pan() (int, int) { return s.panX, s.panY }

func (s *Surface) Layout() Layout {
	return Layout{
		Width:        s.width,
		Height:       s.height,
		BitsPerPixel: int(s.depth),
		Stride:       s.stride,
		PanX:         s.panX,
		PanY:         s.panY,
	}
}

func (s *Surface) Contains(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Offset returns the byte offset of pixel (x, y). The caller must check
// Contains first.
func (s *Surface) Offset(x, y int) int {
	return (x+s.panX)*s.depth.BytesPerPixel() + (y+s.panY)*s.stride
}

// WritePixel stores one pixel. Writes outside the visible area are
// dropped.
func (s *Surface) WritePixel(x, y int, r, g, b uint8) {
	if !s.Contains(x, y) {
		return
	}
	off := s.Offset(x, y)
	switch s.depth {
	case Depth32:
		p := s.buf[off : off+4 : off+4]
		p[0], p[1], p[2], p[3] = b, g, r, 0xFF
	case Depth24:
		p := s.buf[off : off+3 : off+3]
		p[0], p[1], p[2] = b, g, r
	case Depth16:
		binary.LittleEndian.PutUint16(s.buf[off:off+2], RGB565(r, g, b))
	}
}

// ReadPixel decodes the pixel at (x, y). Out-of-range reads return black.
func (s *Surface) ReadPixel(x, y int) (r, g, b uint8) {
	if !s.Contains(x, y) {
		return 0, 0, 0
	}
	off := s.Offset(x, y)
	switch s.depth {
	case Depth32, Depth24:
		return s.buf[off+2], s.buf[off+1], s.buf[off]
	case Depth16:
		return RGB888(binary.LittleEndian.Uint16(s.buf[off : off+2]))
	}
	return 0, 0, 0
}

func (s *Surface) Fill(r, g, b uint8) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			s.WritePixel(x, y, r, g, b)
		}
	}
}

// CopyRGBA decodes the whole surface into dst, which must hold
// Width*Height*4 bytes.
func (s *Surface) CopyRGBA(dst []byte) {
	i := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if i+3 >= len(dst) {
				return
			}
			r, g, b := s.ReadPixel(x, y)
			dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, 0xFF
			i += 4
		}
	}
}

func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.CopyRGBA(img.Pix)
	return img
}

func (s *Surface) At(x, y int) color.RGBA {
	r, g, b := s.ReadPixel(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
