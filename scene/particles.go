package scene

import (
	"log/slog"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scenegraph-engine/device"
)

// SimulationMode decides where particle motion is computed. It is fixed for
// the life of a ParticleSystem.
type SimulationMode int

const (
	// SimulateCPU steps every particle on the CPU each draw and re-uploads
	// all positions.
	SimulateCPU SimulationMode = iota
	// SimulateGPU uploads static orbit parameters on add and advances a
	// time uniform each draw; the vertex shader evaluates the orbit.
	SimulateGPU
)

func (m SimulationMode) String() string {
	if m == SimulateGPU {
		return "gpu"
	}
	return "cpu"
}

// Frame says which space particle positions are expressed in.
type Frame int

const (
	// FrameLocal positions are transformed by the ambient model matrix.
	FrameLocal Frame = iota
	// FrameGlobal positions are already in world space; only PV applies.
	FrameGlobal
)

// Placement is the distribution orbit radii are sampled from.
type Placement int

const (
	// PlaceShell samples radius uniformly in [MinRadius, Radius].
	PlaceShell Placement = iota
	// PlaceVolume samples uniformly by volume in the spherical shell.
	PlaceVolume
)

const (
	// particleStep is the simulated time advanced per draw, independent of
	// wall-clock time.
	particleStep = 1.0 / 60.0
	// phaseWrap keeps the phase bounded; the orbit repeats after it since
	// 0.7*20*pi is a multiple of 2*pi.
	phaseWrap = 20 * math32.Pi

	floatsPerParticle = 3
	particleBytes     = floatsPerParticle * 4

	minOrbitSpeed = 0.5
	maxOrbitSpeed = 1.5

	// timeRebase bounds the GPU clock so a float32 still resolves one step.
	// Past it the elapsed time is folded into every phase offset.
	timeRebase = 600
)

// ParticleConfig fixes the behaviour of a ParticleSystem at construction.
type ParticleConfig struct {
	Mode      SimulationMode
	Frame     Frame
	Placement Placement

	Center    mgl32.Vec3
	Radius    float32
	MinRadius float32

	Color     mgl32.Vec3
	PointSize float32
	Seed      int64
}

// DefaultParticleConfig is a small black swarm around the origin.
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Radius:    15,
		MinRadius: 5,
		PointSize: 4,
		Seed:      1,
	}
}

type particle struct {
	radius float32
	speed  float32
	phase  float32

	position mgl32.Vec3 // CPU mode only
}

// ParticleSystem draws a swarm of points orbiting a centre. It owns its
// program, a vertex array and a growable device buffer whose capacity (in
// particles) never drops below the live count once the node is ready.
type ParticleSystem struct {
	*Node
	shaderProgram

	cfg       ParticleConfig
	rng       *rand.Rand
	particles []particle
	time      float32

	vao      device.Handle[device.VertexArray]
	vbo      device.Handle[device.Buffer]
	capacity int
	scratch  []float32

	positionLoc    device.Location
	orbitRadiusLoc device.Location
	orbitSpeedLoc  device.Location
	phaseLoc       device.Location
	pointSizeLoc   device.Location
	colorLoc       device.Location
	timeLoc        device.Location
	centerLoc      device.Location

	warnedNotReady bool
}

// NewParticleSystem creates initialCount particles and takes ownership of
// program. No device objects exist until GetLocations succeeds.
func NewParticleSystem(dev device.Device, name string, program *device.Handle[device.Program], cfg ParticleConfig, initialCount int) *ParticleSystem {
	if cfg.MinRadius < 0 {
		cfg.MinRadius = 0
	}
	if cfg.Radius < cfg.MinRadius {
		cfg.Radius = cfg.MinRadius
	}
	p := &ParticleSystem{
		shaderProgram:  newShaderProgram(dev, program),
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(cfg.Seed)),
		positionLoc:    device.NotFound,
		orbitRadiusLoc: device.NotFound,
		orbitSpeedLoc:  device.NotFound,
		phaseLoc:       device.NotFound,
		pointSizeLoc:   device.NotFound,
		colorLoc:       device.NotFound,
		timeLoc:        device.NotFound,
		centerLoc:      device.NotFound,
	}
	p.Node = newNode(KindShader, name, p)
	p.spawn(initialCount)
	return p
}

// GetLocations resolves the program's slots and creates the device buffers.
// This is the UNINITIALIZED to READY transition.
func (p *ParticleSystem) GetLocations() error {
	if p.ready {
		return nil
	}
	l := &locator{dev: p.dev, program: p.program.ID(), node: p.Label()}

	switch p.cfg.Mode {
	case SimulateCPU:
		p.positionLoc = l.attrib("position", required)
	case SimulateGPU:
		p.orbitRadiusLoc = l.attrib("orbit_radius", required)
		p.orbitSpeedLoc = l.attrib("orbit_speed", required)
		p.phaseLoc = l.attrib("phase_offset", required)
		p.timeLoc = l.uniform("current_time", required)
		p.centerLoc = l.uniform("swarm_center", optional)
	}
	pvm := l.uniform("pvm_matrix", required)
	p.pointSizeLoc = l.uniform("point_size", required)
	p.colorLoc = l.uniform("particle_color", required)
	if l.err != nil {
		return l.err
	}

	p.slots = NoSlots()
	p.slots.PVM = pvm
	p.slots.Position = p.positionLoc

	p.vao = device.Own(p.dev.CreateVertexArray(), p.dev.DeleteVertexArray)
	p.vbo = device.Own(p.dev.CreateBuffer(), p.dev.DeleteBuffer)
	p.ready = true
	if len(p.particles) > 0 {
		p.upload()
	}
	slog.Info("particle system ready", "node", p.Label(), "mode", p.cfg.Mode,
		"particles", len(p.particles), "capacity", p.capacity)
	return nil
}

// Count returns the live particle count.
func (p *ParticleSystem) Count() int { return len(p.particles) }

// Capacity returns how many particles the device buffer holds.
func (p *ParticleSystem) Capacity() int { return p.capacity }

func (p *ParticleSystem) Mode() SimulationMode { return p.cfg.Mode }

// AddParticles appends n particles and re-uploads the whole buffer.
func (p *ParticleSystem) AddParticles(n int) {
	if n <= 0 {
		return
	}
	p.spawn(n)
	if p.ready {
		p.upload()
	}
}

// RemoveParticles drops min(n, Count()) particles from the end. The device
// buffer is left as is; its prefix is still valid.
func (p *ParticleSystem) RemoveParticles(n int) {
	if n <= 0 {
		return
	}
	n = min(n, len(p.particles))
	p.particles = p.particles[:len(p.particles)-n]
}

func (p *ParticleSystem) SetParticleColor(r, g, b float32) { p.cfg.Color = mgl32.Vec3{r, g, b} }
func (p *ParticleSystem) SetParticleSize(px float32)       { p.cfg.PointSize = px }

// SetMinDistance sets the smallest orbit radius used for new particles.
func (p *ParticleSystem) SetMinDistance(r float32) {
	p.cfg.MinRadius = max(r, 0)
	if p.cfg.Radius < p.cfg.MinRadius {
		p.cfg.Radius = p.cfg.MinRadius
	}
}

func (p *ParticleSystem) spawn(n int) {
	for i := 0; i < n; i++ {
		q := particle{
			radius: p.sampleRadius(),
			speed:  minOrbitSpeed + p.rng.Float32()*(maxOrbitSpeed-minOrbitSpeed),
			phase:  p.rng.Float32() * 2 * math32.Pi,
		}
		q.position = p.orbit(q)
		p.particles = append(p.particles, q)
	}
}

func (p *ParticleSystem) sampleRadius() float32 {
	lo, hi := p.cfg.MinRadius, p.cfg.Radius
	u := p.rng.Float32()
	if p.cfg.Placement == PlaceVolume {
		lo3, hi3 := lo*lo*lo, hi*hi*hi
		return math32.Pow(lo3+u*(hi3-lo3), 1.0/3.0)
	}
	return lo + u*(hi-lo)
}

// orbit evaluates the closed-form path; the GPU vertex shader computes the
// same expression from (radius, speed, phase_offset, current_time).
func (p *ParticleSystem) orbit(q particle) mgl32.Vec3 {
	sv, cv := math32.Sincos(0.7 * q.phase)
	sp, cp := math32.Sincos(q.phase)
	return p.cfg.Center.Add(mgl32.Vec3{sv * cp, sv * sp, cv}.Mul(q.radius))
}

func (p *ParticleSystem) step(dt float32) {
	for i := range p.particles {
		q := &p.particles[i]
		q.phase += q.speed * dt
		if q.phase > phaseWrap {
			q.phase -= phaseWrap
		}
		q.position = p.orbit(*q)
	}
}

// advanceTime moves the GPU clock on by dt.
func (p *ParticleSystem) advanceTime(dt float32) {
	p.time += dt
	if p.time < timeRebase {
		return
	}
	for i := range p.particles {
		q := &p.particles[i]
		q.phase = math32.Mod(q.phase+q.speed*p.time, phaseWrap)
	}
	p.time = 0
	p.upload()
	slog.Debug("particle clock rebased", "node", p.Label())
}

// ensureCapacity grows the buffer to twice the live count when it no longer
// fits. Reallocation drops the old storage, so the vertex layout is declared
// again against the new buffer before anything is drawn from it.
func (p *ParticleSystem) ensureCapacity() {
	live := len(p.particles)
	if live <= p.capacity {
		return
	}
	p.capacity = live * 2
	p.dev.AllocateBuffer(p.vbo.ID(), p.capacity*particleBytes, device.DynamicDraw)
	p.declareLayout()
	slog.Debug("particle buffer grown", "node", p.Label(), "capacity", p.capacity)
}

func (p *ParticleSystem) declareLayout() {
	vbo := p.vbo.ID()
	p.dev.BindVertexArray(p.vao.ID())
	switch p.cfg.Mode {
	case SimulateCPU:
		p.dev.VertexAttrib(p.positionLoc, vbo, 3, particleBytes, 0)
	case SimulateGPU:
		p.dev.VertexAttrib(p.orbitRadiusLoc, vbo, 1, particleBytes, 0)
		p.dev.VertexAttrib(p.orbitSpeedLoc, vbo, 1, particleBytes, 4)
		p.dev.VertexAttrib(p.phaseLoc, vbo, 1, particleBytes, 8)
	}
	p.dev.BindVertexArray(0)
}

// upload writes every live particle: positions in CPU mode, static orbit
// parameters in GPU mode.
func (p *ParticleSystem) upload() {
	p.ensureCapacity()
	data := p.scratch[:0]
	for _, q := range p.particles {
		switch p.cfg.Mode {
		case SimulateCPU:
			data = append(data, q.position[0], q.position[1], q.position[2])
		case SimulateGPU:
			data = append(data, q.radius, q.speed, q.phase)
		}
	}
	p.scratch = data
	p.dev.BufferSubData(p.vbo.ID(), 0, data)
}

func (p *ParticleSystem) draw(st *RenderState) {
	if !p.ready {
		if !p.warnedNotReady {
			slog.Warn("particle system skipped", "node", p.Label(), "err", ErrNotReady)
			p.warnedNotReady = true
		}
		return
	}
	if len(p.particles) == 0 {
		return
	}

	switch p.cfg.Mode {
	case SimulateCPU:
		p.step(particleStep)
		p.upload()
	case SimulateGPU:
		p.advanceTime(particleStep)
	}

	// The swarm borrows the device for its own program. Later siblings
	// get the enclosing shader's program and slots back.
	prevSlots, prevProgram := st.Slots, st.Program
	defer func() {
		st.Slots, st.Program = prevSlots, prevProgram
		if prevProgram != 0 {
			p.dev.UseProgram(prevProgram)
		}
	}()
	p.dev.UseProgram(p.program.ID())
	st.Program = p.program.ID()
	st.Slots = p.slots

	pvm := st.PV
	if p.cfg.Frame == FrameLocal {
		pvm = st.PVM()
	}
	p.dev.UniformMatrix4(p.slots.PVM, pvm)
	p.dev.Uniform1f(p.pointSizeLoc, p.cfg.PointSize)
	p.dev.Uniform3f(p.colorLoc, p.cfg.Color)
	if p.cfg.Mode == SimulateGPU {
		p.dev.Uniform1f(p.timeLoc, p.time)
		p.dev.Uniform3f(p.centerLoc, p.cfg.Center)
	}

	p.dev.EnableProgramPointSize()
	p.dev.BindVertexArray(p.vao.ID())
	p.dev.DrawArrays(device.Points, 0, len(p.particles))
	p.dev.BindVertexArray(0)
}

func (p *ParticleSystem) release() {
	p.vao.Release()
	p.vbo.Release()
	p.releaseProgram()
	p.ready = false
}
