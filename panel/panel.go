// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panel renders a reading as a two line screen: a bold title centred
// in the upper part of the display and the value in a smaller face below it.
//
// The result is drawn onto any display.Drawer, so the same screen works on
// an SSD1306 OLED and on the terminal emulator in package termdisplay.
package panel

import (
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

const (
	titleSize = 14
	valueSize = 10
)

type faces struct {
	title font.Face
	value font.Face
}

var loadFaces = sync.OnceValues(func() (*faces, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &faces{
		title: truetype.NewFace(bold, &truetype.Options{Size: titleSize}),
		value: truetype.NewFace(regular, &truetype.Options{Size: valueSize}),
	}, nil
})

// Image returns the screen for title and value at the size of r, white text
// on a black background.
func Image(r image.Rectangle, title, value string) (image.Image, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	w, h := float64(r.Dx()), float64(r.Dy())
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(f.title)
	dc.DrawStringAnchored(title, w/2, h/3, 0.5, 0.5)
	dc.SetFontFace(f.value)
	dc.DrawStringAnchored(value, w/2, 3*h/4, 0.5, 0.5)
	return dc.Image(), nil
}

// Render draws the screen for title and value on dst.
func Render(dst display.Drawer, title, value string) error {
	r := dst.Bounds()
	img, err := Image(r, title, value)
	if err != nil {
		return err
	}
	return dst.Draw(r, img, image.Point{})
}
