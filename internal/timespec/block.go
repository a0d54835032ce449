package timespec

import "time"

// Block is the smallest independently animated unit of the rendered string.
type Block struct {
	// Constant blocks never transition and are always shown as Current.
	Constant bool
	// Size is the display width in terminal cells.
	Size int

	Current string // displayed value
	Target  string // latest sampled value

	Progress  time.Duration // elapsed transition time
	Threshold time.Duration // configured transition timing
}

// Transitioning reports whether the block is showing a stale value.
func (b *Block) Transitioning() bool {
	return !b.Constant && b.Current != b.Target
}

// Ratio returns Progress/Threshold clamped to [0,1].
func (b *Block) Ratio() float64 {
	if b.Progress <= 0 {
		return 0
	}
	if b.Threshold <= 0 || b.Progress >= b.Threshold {
		return 1
	}
	return float64(b.Progress) / float64(b.Threshold)
}

// retarget stores a freshly sampled value.
func (b *Block) retarget(v string) {
	b.Target = v
	if b.Target == b.Current {
		b.Progress = 0
	}
}

// advance runs one evaluation of the transition state machine. A block whose
// progress already exceeds its threshold commits here; otherwise a stale
// block accumulates elapsed time and reports itself as still transitioning.
func (b *Block) advance(elapsed time.Duration) (transitioning, committed bool) {
	switch {
	case b.Constant:
		return false, false
	case b.Progress > b.Threshold:
		b.Current = b.Target
		b.Progress = 0
		return false, true
	case b.Target != b.Current:
		b.Progress += elapsed
		return true, false
	default:
		b.Progress = 0
		return false, false
	}
}
