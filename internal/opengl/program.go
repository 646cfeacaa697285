package opengl

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"scenegraph-engine/device"
)

// CreateProgram compiles both stages and links them. The shader objects are
// deleted once linked; only the program name survives.
func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (device.Program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "vertex")
	}
	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, errors.Wrap(err, "fragment")
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	gl.DetachShader(prog, vert)
	gl.DetachShader(prog, frag)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, errors.Wrapf(device.ErrLinkFailed, "%s", strings.TrimRight(log, "\x00"))
	}
	return device.Program(prog), nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.Wrapf(device.ErrLinkFailed, "compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) UseProgram(p device.Program) { gl.UseProgram(uint32(p)) }

func (d *Device) DeleteProgram(p device.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) AttribLocation(p device.Program, name string) device.Location {
	return device.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) UniformLocation(p device.Program, name string) device.Location {
	return device.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}
