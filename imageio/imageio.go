// Package imageio decodes image files into tightly packed 8-bit pixel
// buffers ready for texture upload.
package imageio

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"scenegraph-engine/device"
)

// Image is a decoded picture. Pix holds Height rows of Width*Channels bytes,
// top row first.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Empty reports whether there is no pixel data.
func (img *Image) Empty() bool {
	return img == nil || len(img.Pix) == 0
}

// Load decodes the file at path. Opaque images become 3-channel RGB, images
// with any transparency 4-channel RGBA.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open image %q", path)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "image %q", path)
	}
	return img, nil
}

// Decode reads any registered format from r.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, errors.Errorf("%s image has no pixels", format)
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, src, b.Min, draw.Src)
	}

	out := &Image{Width: b.Dx(), Height: b.Dy()}
	if rgba.Opaque() {
		out.Channels = 3
		out.Pix = make([]byte, 0, out.Width*out.Height*3)
		for i := 0; i < len(rgba.Pix); i += 4 {
			out.Pix = append(out.Pix, rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2])
		}
	} else {
		out.Channels = 4
		out.Pix = rgba.Pix
	}
	return out, nil
}

// FlipVertical reverses the row order in place. OpenGL expects the bottom
// row first.
func (img *Image) FlipVertical() {
	row := img.Width * img.Channels
	tmp := make([]byte, row)
	for top, bottom := 0, img.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*row : (top+1)*row]
		b := img.Pix[bottom*row : (bottom+1)*row]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Texture wraps the image as a device upload payload.
func (img *Image) Texture() device.TextureImage {
	if img == nil {
		return device.TextureImage{}
	}
	return device.TextureImage{
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Pix:      img.Pix,
	}
}
