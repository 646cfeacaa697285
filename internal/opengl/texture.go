package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"scenegraph-engine/device"
)

func (d *Device) CreateTexture() device.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	return device.Texture(id)
}

func (d *Device) DeleteTexture(t device.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// UploadTexture replaces the image of t, bound on the given unit, with a
// repeat-wrapped, linearly filtered copy of img.
func (d *Device) UploadTexture(unit int, t device.Texture, img device.TextureImage) {
	if len(img.Pix) == 0 {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))

	format := uint32(gl.RGB)
	if img.Channels == 4 {
		format = gl.RGBA
	}
	// RGB rows are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		int32(format),
		int32(img.Width),
		int32(img.Height),
		0,
		format,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&img.Pix[0]),
	)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if img.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
}

// BindTexture makes t the 2-D texture of the given unit.
func (d *Device) BindTexture(unit int, t device.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}
