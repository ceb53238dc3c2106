package render

import (
	"sync"
	"time"
)

// HoverInterval is how long each image of a multi-image tile stays up while
// the pointer hovers it.
const HoverInterval = time.Second

// Frame tells the page which image index a tile should show.
type Frame struct {
	Item  string `json:"item"`
	Index int    `json:"index"`
}

// Cycler runs the hover previews of a page. Each hovered tile owns at most
// one ticker; leaving the tile stops it and resets the tile to its main image.
type Cycler struct {
	interval time.Duration
	emit     func(Frame)

	mu     sync.Mutex
	cycles map[string]*cycle
	closed bool
}

type cycle struct {
	stop chan struct{}
	done chan struct{}
}

// NewCycler returns a Cycler that calls emit from its ticker goroutines.
// emit must not call back into the Cycler. A non-positive interval means
// HoverInterval.
func NewCycler(interval time.Duration, emit func(Frame)) *Cycler {
	if interval <= 0 {
		interval = HoverInterval
	}
	if emit == nil {
		emit = func(Frame) {}
	}
	return &Cycler{
		interval: interval,
		emit:     emit,
		cycles:   make(map[string]*cycle),
	}
}

// Enter starts cycling item through n images, beginning at index 0 and
// emitting 1, 2, ... and wrapping. Tiles with fewer than two images do not
// cycle. Entering a tile that is already cycling restarts it.
func (c *Cycler) Enter(item string, n int) {
	if n < 2 {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	prev := c.cycles[item]
	cy := &cycle{stop: make(chan struct{}), done: make(chan struct{})}
	c.cycles[item] = cy
	c.mu.Unlock()

	if prev != nil {
		prev.halt()
	}
	go c.run(item, n, cy)
}

// Leave stops the tile's ticker and emits index 0. It does nothing for a
// tile that is not cycling.
func (c *Cycler) Leave(item string) {
	c.mu.Lock()
	cy := c.cycles[item]
	delete(c.cycles, item)
	c.mu.Unlock()

	if cy == nil {
		return
	}
	cy.halt()
	c.emit(Frame{Item: item, Index: 0})
}

// Active reports how many tiles are currently cycling.
func (c *Cycler) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cycles)
}

// Close stops every ticker. Later calls to Enter are ignored.
func (c *Cycler) Close() {
	c.mu.Lock()
	c.closed = true
	cycles := c.cycles
	c.cycles = make(map[string]*cycle)
	c.mu.Unlock()

	for _, cy := range cycles {
		cy.halt()
	}
}

func (c *Cycler) run(item string, n int, cy *cycle) {
	defer close(cy.done)

	t := time.NewTicker(c.interval)
	defer t.Stop()

	idx := 0
	for {
		select {
		case <-cy.stop:
			return
		case <-t.C:
			idx = (idx + 1) % n
			select {
			case <-cy.stop:
				return
			default:
			}
			c.emit(Frame{Item: item, Index: idx})
		}
	}
}

func (cy *cycle) halt() {
	close(cy.stop)
	<-cy.done
}
