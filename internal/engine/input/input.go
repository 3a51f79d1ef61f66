// Package input turns backend-specific keyboard and pointer state into a
// per-frame snapshot the application can read.
package input

// Key is a logical key the demo reacts to.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyEscape
	KeyF12

	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyEscape:
		return "Escape"
	case KeyF12:
		return "F12"
	default:
		return "unknown"
	}
}

// State is the input snapshot for one frame.
type State struct {
	keys [keyCount]bool

	// PointerX and PointerY are the absolute pointer position in window
	// pixels. Backends with relative pointer motion accumulate it here.
	PointerX float64
	PointerY float64

	// Quit is set when the platform asked the window to close.
	Quit bool
}

// SetKey records whether k is held down. Unknown keys are ignored.
func (s *State) SetKey(k Key, down bool) {
	if k < 0 || k >= keyCount {
		return
	}
	s.keys[k] = down
}

// Pressed reports whether k is held down.
func (s State) Pressed(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return s.keys[k]
}

// Tracker converts absolute pointer positions into per-frame deltas.
type Tracker struct {
	lastX, lastY float64
	seeded       bool
}

// NewTracker returns a tracker that has not seen a pointer sample yet.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Delta returns the pointer motion since the previous call. X grows to the
// right and Y grows upward. The first sample with both coordinates non-zero
// only seeds the tracker, so the first frame never jumps.
func (t *Tracker) Delta(x, y float64) (dx, dy float64) {
	if !t.seeded && x != 0 && y != 0 {
		t.lastX, t.lastY = x, y
		t.seeded = true
	}

	dx = x - t.lastX
	dy = t.lastY - y
	t.lastX, t.lastY = x, y
	return dx, dy
}

// Reset forgets the last sample. The next non-zero sample seeds again.
func (t *Tracker) Reset() {
	*t = Tracker{}
}
