package window

// relativePointer sums relative mouse motion into an absolute position.
// It starts at the window centre, so the first sample is non-zero on both
// axes and seeds input.Tracker immediately; later motion along a single
// axis is never taken for a seed.
type relativePointer struct {
	x, y float64
}

func newRelativePointer(width, height int) relativePointer {
	return relativePointer{x: float64(max(width, 1)) / 2, y: float64(max(height, 1)) / 2}
}

func (p *relativePointer) move(dx, dy int32) {
	p.x += float64(dx)
	p.y += float64(dy)
}

func (p relativePointer) position() (x, y float64) {
	return p.x, p.y
}
