package viz

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vizlab/algoviz/internal/governor"
)

// Frame latencies outside this window are clamped before recording so a
// stalled frame cannot blow out the histogram range.
const (
	minFrameLatency = 10 * time.Microsecond
	maxFrameLatency = 10 * time.Second
)

// Metrics is a point-in-time snapshot of one visualizer's counters.
// Percentiles are zero until the first frame is recorded.
type Metrics struct {
	Frames       int64
	StepsApplied int64
	LastPlan     governor.Plan
	FrameP50     time.Duration
	FrameP95     time.Duration
	FrameMax     time.Duration
}

type collector struct {
	mu           sync.Mutex
	frames       int64
	stepsApplied int64
	lastPlan     governor.Plan
	hist         *hdrhistogram.Histogram
	prom         prometheus.Histogram
}

func newCollector(prom prometheus.Histogram) *collector {
	return &collector{
		hist: hdrhistogram.New(minFrameLatency.Nanoseconds(), maxFrameLatency.Nanoseconds(), 1),
		prom: prom,
	}
}

// recordFrame returns the frame number it just assigned.
func (c *collector) recordFrame(elapsed time.Duration, plan governor.Plan) int64 {
	if elapsed < minFrameLatency {
		elapsed = minFrameLatency
	}
	if elapsed > maxFrameLatency {
		elapsed = maxFrameLatency
	}
	c.mu.Lock()
	c.frames++
	n := c.frames
	c.lastPlan = plan
	_ = c.hist.RecordValue(elapsed.Nanoseconds())
	c.mu.Unlock()
	if c.prom != nil {
		c.prom.Observe(elapsed.Seconds())
	}
	return n
}

func (c *collector) recordSteps(n int) {
	c.mu.Lock()
	c.stepsApplied += int64(n)
	c.mu.Unlock()
}

func (c *collector) snapshot() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := Metrics{
		Frames:       c.frames,
		StepsApplied: c.stepsApplied,
		LastPlan:     c.lastPlan,
	}
	if c.frames > 0 {
		m.FrameP50 = time.Duration(c.hist.ValueAtQuantile(50))
		m.FrameP95 = time.Duration(c.hist.ValueAtQuantile(95))
		m.FrameMax = time.Duration(c.hist.Max())
	}
	return m
}
