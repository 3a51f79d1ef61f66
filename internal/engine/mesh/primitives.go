package mesh

// cubeFace describes one face of the unit cube centred on the origin.
type cubeFace struct {
	normal  [3]float32
	corners [4][3]float32 // counter-clockwise seen from outside
}

var cubeFaces = [6]cubeFace{
	{normal: [3]float32{0, 0, -1}, corners: [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
	{normal: [3]float32{0, 0, 1}, corners: [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
	{normal: [3]float32{-1, 0, 0}, corners: [4][3]float32{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
	{normal: [3]float32{1, 0, 0}, corners: [4][3]float32{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
	{normal: [3]float32{0, -1, 0}, corners: [4][3]float32{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
	{normal: [3]float32{0, 1, 0}, corners: [4][3]float32{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
}

var quadUVs = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// quadTriangles splits a quad into two triangles.
var quadTriangles = [6]int{0, 1, 2, 2, 3, 0}

// CubeVertexCount is the length of the triangle list returned by Cube.
const CubeVertexCount = 36

// Cube returns a unit cube as a 36-vertex triangle list for non-indexed drawing.
func Cube() []Vertex {
	vertices := make([]Vertex, 0, CubeVertexCount)
	for _, f := range cubeFaces {
		for _, c := range quadTriangles {
			vertices = append(vertices, Vertex{
				Position: f.corners[c],
				Normal:   f.normal,
				TexCoord: quadUVs[c],
			})
		}
	}
	return vertices
}

// CubeIndexed returns a unit cube as 24 vertices (4 per face) and 36 indices.
func CubeIndexed() ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, CubeVertexCount)
	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for c := range f.corners {
			vertices = append(vertices, Vertex{
				Position: f.corners[c],
				Normal:   f.normal,
				TexCoord: quadUVs[c],
			})
		}
		for _, c := range quadTriangles {
			indices = append(indices, base+uint32(c))
		}
	}
	return vertices, indices
}
