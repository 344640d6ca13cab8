// Package imageprint prints images on terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
)

type dumper interface {
	Sprintf(s string, arg ...interface{}) string
}
type fmtDumperT struct{}

func (fmtDumperT) Sprintf(s string, arg ...interface{}) string {
	return fmt.Sprintf(s, arg...)
}

var fmtDumper fmtDumperT

func shade(w io.Writer, col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if noColor {
			fmt.Fprintf(w, "  ")
		} else {
			fmt.Fprintf(w, "\x1b[0m  ")
		}
		return
	}

	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	var d dumper
	if noColor {
		d = &fmtDumper
	} else if escapesTrueColor {
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm", r, g, b)
		d = &fmtDumper
	} else {
		d = color.RGB(r, g, b, true)
	}
	if blanks {
		fmt.Fprint(w, d.Sprintf("  "))
	} else {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			fmt.Fprint(w, d.Sprintf(".."))
		case a < 64:
			fmt.Fprint(w, d.Sprintf("--"))
		case a < 128:
			fmt.Fprint(w, d.Sprintf("=="))
		default:
			fmt.Fprint(w, d.Sprintf("##"))
		}
	}

	if escapesTrueColor && !noColor {
		fmt.Fprintf(w, "\x1b[0m")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), false, blanks, false)
		}
		fmt.Fprintf(w, "\x1b[0m\n")
	}
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), true, blanks, false)
		}
		fmt.Fprintf(w, "\x1b[0m\n")
	}
}

// PrintNoColor draws an image as ascii art, without using any escape sequences.
func PrintNoColor(w io.Writer, i image.Image) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), false, false, true)
		}
		fmt.Fprintf(w, "\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) error {
	if !isTermItermWez() {
		return nil
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return err
	}
	bEnc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}
