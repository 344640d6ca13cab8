//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package imageprint

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

// GetTermSize returns the size of the controlling terminal.
func GetTermSize() (TermSize, error) {
	var err error
	var f *os.File
	if f, err = os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666); err == nil {
		// based on snippet: https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
		defer f.Close()
		var sz *unix.Winsize
		if sz, err = unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil {
			return TermSize{Rows: uint(sz.Row), Cols: uint(sz.Col), XPixel: uint(sz.Xpixel), YPixel: uint(sz.Ypixel)}, nil
		}
	}
	var w, h int
	if w, h, err = terminal.GetSize(0); err == nil { // or int(os.Stdin.Fd())
		return TermSize{Rows: uint(h), Cols: uint(w)}, nil
	}
	return TermSize{}, err
}
