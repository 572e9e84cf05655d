package emu

import (
	"image"
	"image/png"
	"os"

	"github.com/go-faster/errors"
)

// SaveAsPNG saves img as a PNG file at path.
func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrap(err, "encode png")
	}
	return f.Close()
}

// Screenshot saves the last complete frame as a PNG file.
func (e *Emulator) Screenshot(path string) error {
	return SaveAsPNG(e.Screen(), path)
}
