//go:build linux

package display

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Framebuffer is a Surface presenting to a Linux framebuffer device
// (/dev/fbN), with quit-key polling on a raw-mode stdin. This is the kiosk
// backend: no window system, the board owns the whole panel.
type Framebuffer struct {
	*Raster
	dev        *os.File
	stride     int // bytes per device row
	bpp        int // bits per pixel, 16 or 32
	scratch    []byte
	stdinFD    int
	oldTermios *unix.Termios
}

// OpenFramebuffer opens the framebuffer device (index 0 unless overridden
// via arg) and switches stdin to raw non-blocking mode for quit polling.
func OpenFramebuffer(device string) (*Framebuffer, error) {
	if device == "" {
		device = "/dev/fb0"
	}
	name := strings.TrimPrefix(device, "/dev/")

	w, h, err := readVirtualSize(name)
	if err != nil {
		return nil, err
	}
	bpp, err := readSysfsInt(name, "bits_per_pixel")
	if err != nil {
		return nil, err
	}
	if bpp != 16 && bpp != 32 {
		return nil, fmt.Errorf("unsupported framebuffer depth %d bpp", bpp)
	}
	stride, err := readSysfsInt(name, "stride")
	if err != nil {
		stride = w * bpp / 8
	}

	raster, err := NewRaster(w, h)
	if err != nil {
		return nil, err
	}
	dev, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	fb := &Framebuffer{
		Raster:  raster,
		dev:     dev,
		stride:  stride,
		bpp:     bpp,
		scratch: make([]byte, stride*h),
		stdinFD: int(os.Stdin.Fd()),
	}
	fb.rawStdin()
	return fb, nil
}

func readVirtualSize(name string) (int, int, error) {
	data, err := os.ReadFile("/sys/class/graphics/" + name + "/virtual_size")
	if err != nil {
		return 0, 0, fmt.Errorf("read framebuffer size: %w", err)
	}
	parts := strings.Split(strings.TrimSpace(string(data)), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected virtual_size %q", data)
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("unexpected virtual_size %q", data)
	}
	return w, h, nil
}

func readSysfsInt(name, attr string) (int, error) {
	data, err := os.ReadFile("/sys/class/graphics/" + name + "/" + attr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// rawStdin disables canonical mode and echo so single keypresses arrive
// immediately, and makes reads non-blocking. Best effort: without a tty the
// quit key simply never fires.
func (fb *Framebuffer) rawStdin() {
	old, err := unix.IoctlGetTermios(fb.stdinFD, unix.TCGETS)
	if err != nil {
		return
	}
	fb.oldTermios = old
	raw := *old
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	_ = unix.IoctlSetTermios(fb.stdinFD, unix.TCSETS, &raw)
	_ = unix.SetNonblock(fb.stdinFD, true)
}

// Present converts the RGBA buffer to the device pixel format and writes a
// whole frame.
func (fb *Framebuffer) Present() error {
	img := fb.Image()
	w, h := fb.Size()
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		row := fb.scratch[y*fb.stride:]
		if fb.bpp == 32 {
			// XRGB little-endian: B, G, R, X.
			for x := 0; x < w; x++ {
				row[x*4+0] = src[x*4+2]
				row[x*4+1] = src[x*4+1]
				row[x*4+2] = src[x*4+0]
				row[x*4+3] = 0xff
			}
		} else {
			// RGB565 little-endian.
			for x := 0; x < w; x++ {
				r, g, b := src[x*4+0], src[x*4+1], src[x*4+2]
				v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
				row[x*2+0] = byte(v)
				row[x*2+1] = byte(v >> 8)
			}
		}
	}
	_, err := fb.dev.WriteAt(fb.scratch, 0)
	return err
}

// PollQuit drains pending stdin bytes and reports whether ESC or 'q' was
// pressed.
func (fb *Framebuffer) PollQuit() bool {
	buf := make([]byte, 16)
	n, err := unix.Read(fb.stdinFD, buf)
	if err != nil || n <= 0 {
		return false
	}
	for _, b := range buf[:n] {
		if b == 0x1b || b == 'q' || b == 'Q' {
			return true
		}
	}
	return false
}

// Close restores the terminal and releases the device.
func (fb *Framebuffer) Close() error {
	if fb.oldTermios != nil {
		_ = unix.IoctlSetTermios(fb.stdinFD, unix.TCSETS, fb.oldTermios)
		_ = unix.SetNonblock(fb.stdinFD, false)
	}
	return fb.dev.Close()
}
