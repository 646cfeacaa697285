package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SphereSection builds a latitude/longitude patch of a sphere centred at the
// origin with Z up. Angles are in degrees; numLat and numLon are the number
// of divisions in each direction. Normals point outward and winding is
// counter-clockwise seen from outside.
func SphereSection(minLat, maxLat float32, numLat int, minLon, maxLon float32, numLon int, radius float32) *Mesh {
	if numLat < 1 {
		numLat = 1
	}
	if numLon < 3 {
		numLon = 3
	}
	lat0, lat1 := mgl32.DegToRad(minLat), mgl32.DegToRad(maxLat)
	lon0, lon1 := mgl32.DegToRad(minLon), mgl32.DegToRad(maxLon)

	m := &Mesh{Name: "SphereSection"}
	for i := 0; i <= numLon; i++ {
		u := float32(i) / float32(numLon)
		sinLon, cosLon := math32.Sincos(lon0 + u*(lon1-lon0))
		for j := 0; j <= numLat; j++ {
			v := float32(j) / float32(numLat)
			sinLat, cosLat := math32.Sincos(lat0 + v*(lat1-lat0))
			n := mgl32.Vec3{cosLon * cosLat, sinLon * cosLat, sinLat}
			m.Vertices = append(m.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				TexCoord: mgl32.Vec2{u, v},
			})
		}
	}
	m.Indices = gridIndices(numLon, numLat)
	ComputeTangents(m)
	return m
}

// Sphere is a full SphereSection.
func Sphere(numLat, numLon int, radius float32) *Mesh {
	m := SphereSection(-90, 90, numLat, -180, 180, numLon, radius)
	m.Name = "Sphere"
	return m
}

// Plane builds a width x height rectangle in the XY plane, facing +Z,
// subdivided n times in each direction. Texture coordinates span [0,1].
func Plane(width, height float32, n int) *Mesh {
	if n < 1 {
		n = 1
	}
	m := &Mesh{Name: "Plane"}
	for j := 0; j <= n; j++ {
		v := float32(j) / float32(n)
		for i := 0; i <= n; i++ {
			u := float32(i) / float32(n)
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{(u - 0.5) * width, (v - 0.5) * height, 0},
				Normal:   mgl32.Vec3{0, 0, 1},
				TexCoord: mgl32.Vec2{u, v},
			})
		}
	}
	row := uint32(n + 1)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := uint32(j)*row + uint32(i)
			m.Indices = append(m.Indices, a, a+1, a+row+1, a, a+row+1, a+row)
		}
	}
	ComputeTangents(m)
	return m
}

// SurfaceOfRevolution sweeps a profile curve around the Z axis. Each profile
// point is (radius, z) and the points must be ordered by increasing z for
// the normals to face outward.
func SurfaceOfRevolution(profile []mgl32.Vec2, numSlices int) *Mesh {
	if numSlices < 3 {
		numSlices = 3
	}
	m := &Mesh{Name: "SurfaceOfRevolution"}
	if len(profile) < 2 {
		return m
	}
	last := len(profile) - 1

	normals := make([]mgl32.Vec2, len(profile))
	for j := range profile {
		prev, next := profile[max(j-1, 0)], profile[min(j+1, last)]
		t := next.Sub(prev)
		nr := mgl32.Vec2{t[1], -t[0]}
		if nr.Len() > 0 {
			nr = nr.Normalize()
		}
		normals[j] = nr
	}

	for i := 0; i <= numSlices; i++ {
		u := float32(i) / float32(numSlices)
		s, c := math32.Sincos(u * 2 * math32.Pi)
		for j, p := range profile {
			nr := normals[j]
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{p[0] * c, p[0] * s, p[1]},
				Normal:   mgl32.Vec3{nr[0] * c, nr[0] * s, nr[1]},
				TexCoord: mgl32.Vec2{u, float32(j) / float32(last)},
			})
		}
	}
	m.Indices = gridIndices(numSlices, last)
	ComputeTangents(m)
	return m
}

// Torus revolves a circle of tubeRadius, centred ringRadius from the Z axis.
func Torus(ringRadius, tubeRadius float32, numRing, numTube int) *Mesh {
	if numTube < 3 {
		numTube = 3
	}
	profile := make([]mgl32.Vec2, numTube+1)
	for j := range profile {
		phi := -math32.Pi + 2*math32.Pi*float32(j)/float32(numTube)
		s, c := math32.Sincos(phi)
		profile[j] = mgl32.Vec2{ringRadius + tubeRadius*c, tubeRadius * s}
	}
	m := SurfaceOfRevolution(profile, numRing)
	m.Name = "Torus"

	// Exact tube normals; the finite-difference estimate is one-sided at the seam.
	per := len(profile)
	for i := range m.Vertices {
		p := profile[i%per]
		nr := mgl32.Vec2{p[0] - ringRadius, p[1]}.Mul(1 / tubeRadius)
		pos := m.Vertices[i].Position
		radial := mgl32.Vec2{pos[0], pos[1]}.Normalize()
		m.Vertices[i].Normal = mgl32.Vec3{nr[0] * radial[0], nr[0] * radial[1], nr[1]}
	}
	ComputeTangents(m)
	return m
}

// gridIndices triangulates a (cols+1) x (rows+1) vertex grid stored
// column-major, where moving along a column increases the second parameter.
func gridIndices(cols, rows int) []uint32 {
	per := uint32(rows + 1)
	idx := make([]uint32, 0, cols*rows*6)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			a := uint32(i)*per + uint32(j)
			b := a + per
			idx = append(idx, a, b, b+1, a, b+1, a+1)
		}
	}
	return idx
}
