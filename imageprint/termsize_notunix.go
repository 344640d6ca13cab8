//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package imageprint

import (
	"golang.org/x/crypto/ssh/terminal"
)

// GetTermSize returns the size of the terminal attached to stdin.
func GetTermSize() (TermSize, error) {
	var err error
	var w, h int
	if w, h, err = terminal.GetSize(0); err == nil { // or int(os.Stdin.Fd())
		return TermSize{Rows: uint(h), Cols: uint(w)}, nil
	}
	return TermSize{}, err
}
