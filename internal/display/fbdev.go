//go:build linux

package display

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/san-kum/fbmandel/internal/surface"
)

const (
	fbiogetVScreenInfo = 0x4600
	fbiogetFScreenInfo = 0x4602
)

// fixScreenInfo mirrors struct fb_fix_screeninfo.
type fixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

type bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          bitfield
	Green        bitfield
	Blue         bitfield
	Transp       bitfield
	NonStd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	PixClock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HSyncLen     uint32
	VSyncLen     uint32
	Sync         uint32
	VMode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// Framebuffer is a Linux fbdev device mapped into memory. Pixels written
// to its surface appear on screen immediately.
type Framebuffer struct {
	path string
	fd   int
	mem  []byte
	surf *surface.Surface
	name string
}

func OpenFramebuffer(path string) (*Framebuffer, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("display: open %s: %w", path, err)
	}

	var fix fixScreenInfo
	if err := ioctl(fd, fbiogetFScreenInfo, unsafe.Pointer(&fix)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: fixed info: %v", ErrNotFramebuffer, path, err)
	}
	var vinfo varScreenInfo
	if err := ioctl(fd, fbiogetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: variable info: %v", ErrNotFramebuffer, path, err)
	}

	layout := layoutFromInfo(&fix, &vinfo)
	size := (layout.PanY + layout.Height) * layout.Stride
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("display: mmap %s: %w", path, err)
	}

	surf, err := surface.New(layout, mem)
	if err != nil {
		unix.Munmap(mem)
		unix.Close(fd)
		return nil, fmt.Errorf("display: %s: %w", path, err)
	}

	return &Framebuffer{
		path: path,
		fd:   fd,
		mem:  mem,
		surf: surf,
		name: cString(fix.ID[:]),
	}, nil
}

func layoutFromInfo(fix *fixScreenInfo, v *varScreenInfo) surface.Layout {
	return surface.Layout{
		Width:        int(v.XRes),
		Height:       int(v.YRes),
		BitsPerPixel: int(v.BitsPerPixel),
		Stride:       int(fix.LineLength),
		PanX:         int(v.XOffset),
		PanY:         int(v.YOffset),
	}
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func (f *Framebuffer) Surface() *surface.Surface { return f.surf }

// Name is the driver identifier reported by the device.
func (f *Framebuffer) Name() string { return f.name }

func (f *Framebuffer) Path() string { return f.path }

// Present is a no-op: the mapping is the screen.
func (f *Framebuffer) Present() error { return nil }

func (f *Framebuffer) Close() error {
	if f.mem == nil {
		return nil
	}
	err := unix.Munmap(f.mem)
	if cerr := unix.Close(f.fd); err == nil {
		err = cerr
	}
	f.mem = nil
	return err
}
