package types

import (
	"runtime/metrics"
	"time"
)

// EpisodeContext carries the information collected while running one episode
type EpisodeContext struct {
	Iteration int
	Episode   int

	// collected during the episode
	Timesteps int
	Reward    float64
	Done      bool

	probe *EpisodeProbe
}

func NewEpisodeContext(iteration, episode int) *EpisodeContext {
	return &EpisodeContext{
		Iteration: iteration,
		Episode:   episode,
	}
}

// Row converts the collected information into a metrics row.
// Should be called after the probe has been stopped
func (e *EpisodeContext) Row() MetricsRow {
	row := MetricsRow{
		Episode:   e.Episode,
		Iteration: e.Iteration,
		EpReward:  e.Reward,
	}
	if e.probe != nil {
		row.Memory = e.probe.Memory
		row.Time = float64(e.probe.Duration.Nanoseconds())
	}
	return row
}

// heap bytes occupied by objects, live or not yet swept
const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

func heapObjects() uint64 {
	sample := []metrics.Sample{{Name: heapObjectsMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return sample[0].Value.Uint64()
}

// EpisodeProbe measures the wall clock time and the peak heap growth
// between Start and Stop. The peak is taken over the samples
type EpisodeProbe struct {
	Duration time.Duration
	// highest heap usage observed above the usage at Start, in bytes
	Memory uint64

	start     time.Time
	startHeap uint64
	peakHeap  uint64
	running   bool
}

// StartProbe starts the instrumentation. The caller must defer Stop
func StartProbe() *EpisodeProbe {
	heap := heapObjects()
	return &EpisodeProbe{
		start:     time.Now(),
		startHeap: heap,
		peakHeap:  heap,
		running:   true,
	}
}

// Sample records the current heap usage. Called after every step
func (p *EpisodeProbe) Sample() {
	if !p.running {
		return
	}
	if heap := heapObjects(); heap > p.peakHeap {
		p.peakHeap = heap
	}
}

// Stop takes a last sample and ends the measurement. Calling Stop more
// than once has no effect
func (p *EpisodeProbe) Stop() {
	if !p.running {
		return
	}
	p.Sample()
	p.Duration = time.Since(p.start)
	p.Memory = p.peakHeap - p.startHeap
	p.running = false
}

// Running is true between Start and Stop
func (p *EpisodeProbe) Running() bool {
	return p.running
}
