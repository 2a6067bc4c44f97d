//go:build linux

package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// rawEvent mirrors struct input_event; its size depends on the word size.
type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

var eventSize = int(unsafe.Sizeof(rawEvent{}))

// eviocgabs is _IOR('E', 0x40+axis, struct input_absinfo).
func eviocgabs(axis uint16) uintptr {
	const (
		iocRead  = 2
		dirShift = 30
		sizShift = 16
		typShift = 8
	)
	return uintptr(uint32(iocRead)<<dirShift | uint32(unsafe.Sizeof(absInfo{}))<<sizShift | uint32('E')<<typShift | uint32(0x40+axis))
}

// TouchDevice is a non-blocking evdev node.
type TouchDevice struct {
	path string
	fd   int
	buf  []byte
}

func OpenTouch(path string) (*TouchDevice, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("input: open %s: %w", path, err)
	}
	return &TouchDevice{path: path, fd: fd}, nil
}

func (d *TouchDevice) Path() string { return d.path }

// Range asks the driver for the axis maxima, keeping fallback values for
// any axis it will not report.
func (d *TouchDevice) Range(fallback Range) Range {
	r := fallback
	if m, err := d.absMax(AbsX); err == nil && m > 0 {
		r.MaxX = m
	}
	if m, err := d.absMax(AbsY); err == nil && m > 0 {
		r.MaxY = m
	}
	return r
}

func (d *TouchDevice) absMax(axis uint16) (int, error) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), eviocgabs(axis), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return 0, errno
	}
	return int(info.Maximum), nil
}

// ReadEvents drains whatever the kernel has queued, up to len(dst).
func (d *TouchDevice) ReadEvents(dst []Event) (int, error) {
	if need := len(dst) * eventSize; len(d.buf) < need {
		d.buf = make([]byte, need)
	}
	n, err := unix.Read(d.fd, d.buf[:len(dst)*eventSize])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("input: read %s: %w", d.path, err)
	}
	return decodeEvents(d.buf[:n], dst), nil
}

// decodeEvents unpacks whole input_event records from b. The type, code
// and value always occupy the last eight bytes of a record.
func decodeEvents(b []byte, dst []Event) int {
	count := 0
	for off := 0; off+eventSize <= len(b) && count < len(dst); off += eventSize {
		rec := b[off+eventSize-8 : off+eventSize]
		dst[count] = Event{
			Type:  binary.NativeEndian.Uint16(rec[0:2]),
			Code:  binary.NativeEndian.Uint16(rec[2:4]),
			Value: int32(binary.NativeEndian.Uint32(rec[4:8])),
		}
		count++
	}
	return count
}

func (d *TouchDevice) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
