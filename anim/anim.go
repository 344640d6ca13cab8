// Package anim plays back tile animations.
//
// A frame is shown for its duration, then the next one follows; after the
// last frame the sequence starts over. Time can be fed in ticks (Advance) or
// looked up directly from the elapsed wall-clock time (FrameAt).
package anim

import (
	"time"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tsx"
)

// Duration converts a frame's duration to a time.Duration.
func Duration(f tsx.Frame) time.Duration {
	return time.Duration(f.Duration) * time.Millisecond
}

// CycleDuration returns the time one full pass through frames takes.
func CycleDuration(frames []tsx.Frame) time.Duration {
	var total time.Duration
	for _, f := range frames {
		total += Duration(f)
	}
	return total
}

// FrameAt returns the index of the frame being shown when elapsed time has
// passed since the animation started. Frame i is shown in the half-open
// interval [start_i, start_i+duration_i).
//
// frames must be non-empty with positive durations; Check verifies that.
func FrameAt(frames []tsx.Frame, elapsed time.Duration) int {
	cycle := CycleDuration(frames)
	if cycle <= 0 {
		return 0
	}
	elapsed %= cycle
	if elapsed < 0 {
		elapsed += cycle
	}
	for i, f := range frames {
		d := Duration(f)
		if elapsed < d {
			return i
		}
		elapsed -= d
	}
	return len(frames) - 1
}

// Check returns an error if frames cannot be played back.
func Check(frames []tsx.Frame) error {
	if len(frames) == 0 {
		return errors.WithStack(tsx.ErrEmptyAnimation)
	}
	for i, f := range frames {
		if f.Duration <= 0 {
			return errors.Wrapf(tsx.ErrBadDuration, "frame %d: %dms", i, f.Duration)
		}
	}
	return nil
}

// Player steps through an animation as time is fed into it.
//
// A Player is not safe for concurrent use.
type Player struct {
	frames  []tsx.Frame
	current int
	// into is the time spent in the current frame so far.
	into time.Duration
}

// NewPlayer returns a player positioned at the start of the first frame.
func NewPlayer(frames []tsx.Frame) (*Player, error) {
	if err := Check(frames); err != nil {
		return nil, err
	}
	return &Player{frames: frames}, nil
}

// Advance moves the animation forward by d. Time left over after a frame
// ends counts towards the following frames, so a long tick may skip frames
// or wrap around the loop.
func (p *Player) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	if cycle := CycleDuration(p.frames); d >= cycle {
		d %= cycle
	}
	p.into += d
	for {
		cur := Duration(p.frames[p.current])
		if p.into < cur {
			return
		}
		p.into -= cur
		p.current = (p.current + 1) % len(p.frames)
	}
}

// Current returns the frame being shown.
func (p *Player) Current() tsx.Frame {
	return p.frames[p.current]
}

// Index returns the position of the current frame in the sequence.
func (p *Player) Index() int {
	return p.current
}

// Reset rewinds to the start of the first frame.
func (p *Player) Reset() {
	p.current = 0
	p.into = 0
}
