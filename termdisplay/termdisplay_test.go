// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termdisplay

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/maruel/ansi256"
)

func TestDraw(t *testing.T) {
	buf := bytes.Buffer{}
	d := New(&Opts{W: 2, H: 2, Writer: &buf})
	if s := d.String(); s != "TermDisplay{2x2}" {
		t.Fatal(s)
	}
	if c := d.ColorModel(); c != color.NRGBAModel {
		t.Fatal(c)
	}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	black := color.NRGBA{0, 0, 0, 0xff}
	src.SetNRGBA(0, 0, white)
	src.SetNRGBA(1, 0, black)
	src.SetNRGBA(0, 1, black)
	src.SetNRGBA(1, 1, white)
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	p := ansi256.Default
	expected := "\r\033[0m" + p.Block(white) + p.Block(black) + "\033[0m\n" +
		"\r\033[0m" + p.Block(black) + p.Block(white) + "\033[0m\n"
	if s := buf.String(); s != expected {
		t.Fatalf("%q != %q", s, expected)
	}
	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); s != "\033[0m\n" {
		t.Fatalf("%q", s)
	}
}

func TestDraw_Clipped(t *testing.T) {
	buf := bytes.Buffer{}
	d := New(&Opts{W: 3, H: 1, Writer: &buf})
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	red := color.NRGBA{0xff, 0, 0, 0xff}
	for x := 0; x < 10; x++ {
		src.SetNRGBA(x, 0, red)
	}
	if err := d.Draw(image.Rect(1, 0, 10, 10), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	p := ansi256.Default
	empty := color.NRGBA{}
	expected := "\r\033[0m" + p.Block(empty) + p.Block(red) + p.Block(red) + "\033[0m\n"
	if s := buf.String(); s != expected {
		t.Fatalf("%q != %q", s, expected)
	}
}
