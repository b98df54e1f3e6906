// Package signal derives trading signals from the cached mNAV value,
// Bitcoin momentum, and market sentiment.
package signal

import (
	"sort"
	"sync"
	"time"
)

// Point is one observed mNAV value.
type Point struct {
	Time  time.Time
	Value float64
}

// History accumulates mNAV observations for the lagging indicators, pruned
// to a rolling window.
type History struct {
	mu     sync.Mutex
	window time.Duration
	points []Point
	now    func() time.Time
}

func NewHistory(window time.Duration) *History {
	return &History{
		window: window,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *History) Add(t time.Time, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.points = append(h.points, Point{Time: t, Value: value})

	cutoff := h.now().Add(-h.window)
	kept := h.points[:0]
	for _, p := range h.points {
		if p.Time.After(cutoff) {
			kept = append(kept, p)
		}
	}
	h.points = kept
}

// Values returns the retained observations ordered by time.
func (h *History) Values() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	pts := make([]Point, len(h.points))
	copy(pts, h.points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })

	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.points)
}
