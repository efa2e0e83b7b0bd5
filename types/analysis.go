package types

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/zeu5/or-suite/util"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Generic Dataset that contains information after processing the metrics
type DataSet interface{}

// Analyzer compresses the metrics of an experiment into a DataSet
type Analyzer func(string, *MetricsTable) DataSet

// Comparator differentiates between different datasets with associated names
type Comparator func([]string, []DataSet) error

// RewardCurve is the average episode reward for each episode index,
// averaged over the iterations
type RewardCurve []float64

// RewardCurveAnalyzer averages the episode rewards over iterations
func RewardCurveAnalyzer() Analyzer {
	return func(_ string, m *MetricsTable) DataSet {
		sums := make([]float64, 0)
		counts := make([]int, 0)
		for _, r := range m.rows {
			for len(sums) <= r.Episode {
				sums = append(sums, 0)
				counts = append(counts, 0)
			}
			sums[r.Episode] += r.EpReward
			counts[r.Episode] += 1
		}
		curve := make(RewardCurve, len(sums))
		for i := range sums {
			if counts[i] > 0 {
				curve[i] = sums[i] / float64(counts[i])
			}
		}
		return curve
	}
}

// RewardPlotter plots the reward curves of all experiments in one figure
func RewardPlotter(plotPath string) Comparator {
	return func(names []string, ds []DataSet) error {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Average reward"
		for i := 0; i < len(names); i++ {
			curve, ok := ds[i].(RewardCurve)
			if !ok {
				return fmt.Errorf("reward plotter: unexpected dataset %T for %s", ds[i], names[i])
			}
			points := make(plotter.XYs, len(curve))
			for j, v := range curve {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				return fmt.Errorf("reward plotter: %s: %w", names[i], err)
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		if err := util.EnsureDir(filepath.Dir(plotPath)); err != nil {
			return fmt.Errorf("%w: %s", ErrIO, err)
		}
		if err := p.Save(8*vg.Inch, 6*vg.Inch, plotPath); err != nil {
			return fmt.Errorf("%w: saving plot: %s", ErrIO, err)
		}
		return nil
	}
}

// Summary of the episode rewards and times of an experiment
type Summary struct {
	Rows         int     `json:"rows"`
	MeanReward   float64 `json:"mean_reward"`
	StdDevReward float64 `json:"std_reward"`
	MeanTime     float64 `json:"mean_time"`
	MeanMemory   float64 `json:"mean_memory"`
}

// Summarize computes the summary statistics of the table
func Summarize(m *MetricsTable) Summary {
	s := Summary{Rows: m.Len()}
	if m.Len() == 0 {
		return s
	}
	times := make([]float64, m.Len())
	memory := make([]float64, m.Len())
	for i, r := range m.rows {
		times[i] = r.Time
		memory[i] = float64(r.Memory)
	}
	s.MeanReward, s.StdDevReward = stat.MeanStdDev(m.Rewards(), nil)
	if m.Len() == 1 {
		s.StdDevReward = 0
	}
	s.MeanTime = stat.Mean(times, nil)
	s.MeanMemory = stat.Mean(memory, nil)
	return s
}

// SummaryLogger logs the summary of each experiment
func SummaryLogger(logger *slog.Logger) Comparator {
	return func(names []string, ds []DataSet) error {
		for i, name := range names {
			s, ok := ds[i].(Summary)
			if !ok {
				return fmt.Errorf("summary logger: unexpected dataset %T for %s", ds[i], name)
			}
			logger.Info("summary", "experiment", name, "rows", s.Rows, "mean_reward", s.MeanReward, "std_reward", s.StdDevReward, "mean_time_ns", s.MeanTime)
		}
		return nil
	}
}

// SummaryAnalyzer wraps Summarize as an Analyzer
func SummaryAnalyzer() Analyzer {
	return func(_ string, m *MetricsTable) DataSet {
		return Summarize(m)
	}
}

// Comparison contains the different experiments to compare.
// Every experiment is run and saved, the saved metrics are analyzed
// and the analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	names       []string
}

func NewComparison() *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		names:       make([]string, 0),
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	if _, ok := c.analyzers[name]; !ok {
		c.names = append(c.names, name)
	}
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run all experiments in order. Stops at the first failing experiment
func (c *Comparison) Run(ctx context.Context) error {
	tables := make([]*MetricsTable, len(c.Experiments))
	for i, e := range c.Experiments {
		if err := e.Run(ctx); err != nil {
			return err
		}
		table, err := e.Save()
		if err != nil {
			return fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		tables[i] = table
	}
	return c.compare(tables)
}

// analyze the saved tables and compare the datasets of every analysis
func (c *Comparison) compare(tables []*MetricsTable) error {
	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		names[i] = e.Name
	}
	for _, name := range c.names {
		datasets := make([]DataSet, len(c.Experiments))
		for i := range c.Experiments {
			datasets[i] = c.analyzers[name](names[i], tables[i])
		}
		if err := c.comparators[name](names, datasets); err != nil {
			return fmt.Errorf("analysis %s: %w", name, err)
		}
	}
	return nil
}
