// internal/capture/types.go
package capture

// Edge is the polarity of a transition on the observed input line.
type Edge uint8

const (
	// Falling is a high-to-low transition.
	Falling Edge = 0
	// Rising is a low-to-high transition.
	Rising Edge = 1
)

// Opposite returns the other polarity.
func (e Edge) Opposite() Edge {
	if e == Rising {
		return Falling
	}
	return Rising
}

// Char returns the single-character wire encoding: 'R' or 'F'.
func (e Edge) Char() byte {
	if e == Rising {
		return 'R'
	}
	return 'F'
}

func (e Edge) String() string {
	if e == Rising {
		return "rising"
	}
	return "falling"
}

// Event is one captured transition: the absolute tick it was latched at
// and its polarity. Events are created by the capture handler only and
// never mutated once enqueued.
type Event struct {
	Ticks uint32
	Edge  Edge
}
