package ambulance

import (
	"sort"

	"github.com/zeu5/or-suite/types"
	"gonum.org/v1/gonum/stat"
)

// MedianAgent places the ambulances at evenly spaced quantiles of the
// arrivals observed so far in the iteration. The placement is recomputed
// at the start of every episode. Until the first arrival is observed it
// keeps the ambulances where they are
type MedianAgent struct {
	numAmbulance int
	arrivals     []float64
	placement    Locations
}

var _ types.Agent = &MedianAgent{}

func NewMedianAgent() *MedianAgent {
	return &MedianAgent{
		arrivals: make([]float64, 0),
	}
}

func (m *MedianAgent) Reset() {
	m.arrivals = make([]float64, 0)
	m.placement = nil
}

func (m *MedianAgent) UpdateConfig(_ types.Environment, config types.EnvConfig) error {
	metric, ok := config.(*MetricConfig)
	if !ok {
		return invalidConfig("median agent needs a metric ambulance environment, got %T", config)
	}
	m.numAmbulance = metric.NumAmbulance
	return nil
}

func (m *MedianAgent) UpdateObs(_ types.State, _ types.Action, _ float64, _ types.State, _ int, info types.Info) {
	if arrival, ok := info["arrival"].(float64); ok {
		m.arrivals = append(m.arrivals, arrival)
	}
}

func (m *MedianAgent) UpdatePolicy(_ int) {
	if len(m.arrivals) == 0 {
		m.placement = nil
		return
	}
	sorted := make([]float64, len(m.arrivals))
	copy(sorted, m.arrivals)
	sort.Float64s(sorted)

	m.placement = make(Locations, m.numAmbulance)
	for i := range m.placement {
		p := float64(2*i+1) / float64(2*m.numAmbulance)
		m.placement[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
}

func (m *MedianAgent) PickAction(state types.State, _ int) (types.Action, error) {
	if m.placement != nil {
		return m.placement.Copy().(Locations), nil
	}
	locations, ok := state.Copy().(Locations)
	if !ok {
		return nil, invalidAction("median agent expects ambulance locations, got %T", state)
	}
	return locations, nil
}
