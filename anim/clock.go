package anim

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-tiled/tsx"
)

// Clock advances the animations of every animated tile of a tileset in
// lockstep. It suits engines that step the world in ticks. Like a Player,
// a Clock is not safe for concurrent use.
type Clock struct {
	players map[int]*Player
	elapsed time.Duration
}

// NewClock returns a clock for all animated tiles of ts.
func NewClock(ts *tsx.Tileset) (*Clock, error) {
	c := &Clock{players: map[int]*Player{}}
	for _, id := range ts.AnimatedIDs() {
		frames, _ := ts.Animation(id)
		p, err := NewPlayer(frames)
		if err != nil {
			return nil, errors.Wrapf(err, "tile %d", id)
		}
		c.players[id] = p
	}
	glog.V(2).Infof("anim: clock for %q drives %d animations", ts.Name, len(c.players))
	return c, nil
}

// Advance moves every animation forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.elapsed += d
	for _, p := range c.players {
		p.Advance(d)
	}
}

// Elapsed returns the total time fed into the clock.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Frame returns the tile id to display in place of id. Static tiles are
// displayed as themselves.
func (c *Clock) Frame(id int) int {
	if p, ok := c.players[id]; ok {
		return p.Current().TileID
	}
	return id
}

// Reset rewinds all animations.
func (c *Clock) Reset() {
	c.elapsed = 0
	for _, p := range c.players {
		p.Reset()
	}
}
