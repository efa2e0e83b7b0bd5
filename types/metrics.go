package types

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// MetricsColumns is the header of the metrics file
var MetricsColumns = []string{"episode", "iteration", "epReward", "memory", "time"}

// MetricsRow summarizes one episode of one iteration
type MetricsRow struct {
	Episode   int     `json:"episode"`
	Iteration int     `json:"iteration"`
	EpReward  float64 `json:"epReward"`
	// bytes allocated while the episode ran
	Memory uint64 `json:"memory"`
	// wall clock duration in nanoseconds
	Time float64 `json:"time"`
}

// IsZero is true when every column is zero
func (r MetricsRow) IsZero() bool {
	return r.Episode == 0 && r.Iteration == 0 && r.EpReward == 0 && r.Memory == 0 && r.Time == 0
}

func (r MetricsRow) record() []string {
	return []string{
		formatFloat(float64(r.Episode)),
		formatFloat(float64(r.Iteration)),
		formatFloat(r.EpReward),
		formatFloat(float64(r.Memory)),
		formatFloat(r.Time),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// MetricsTable accumulates rows in execution order
type MetricsTable struct {
	rows []MetricsRow
}

func NewMetricsTable(capacity int) *MetricsTable {
	return &MetricsTable{
		rows: make([]MetricsRow, 0, capacity),
	}
}

func (m *MetricsTable) Append(row MetricsRow) {
	m.rows = append(m.rows, row)
}

func (m *MetricsTable) Len() int {
	return len(m.rows)
}

// Rows returns a copy of the rows
func (m *MetricsTable) Rows() []MetricsRow {
	out := make([]MetricsRow, len(m.rows))
	copy(out, m.rows)
	return out
}

// Rewards returns the episode rewards in execution order
func (m *MetricsTable) Rewards() []float64 {
	out := make([]float64, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.EpReward
	}
	return out
}

// NonZero returns a new table without the all-zero rows
func (m *MetricsTable) NonZero() *MetricsTable {
	out := NewMetricsTable(len(m.rows))
	for _, r := range m.rows {
		if !r.IsZero() {
			out.Append(r)
		}
	}
	return out
}

// WriteCSV writes the table to path with two decimal float formatting,
// replacing any existing file
func (m *MetricsTable) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %s", ErrIO, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(MetricsColumns); err != nil {
		return fmt.Errorf("%w: writing %s: %s", ErrIO, path, err)
	}
	for _, r := range m.rows {
		if err := w.Write(r.record()); err != nil {
			return fmt.Errorf("%w: writing %s: %s", ErrIO, path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: writing %s: %s", ErrIO, path, err)
	}
	return nil
}

// LoadMetrics reads a metrics file written by WriteCSV
func LoadMetrics(path string) (*MetricsTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %s", ErrIO, path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %s", ErrIO, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrIO, path)
	}
	for i, col := range MetricsColumns {
		if i >= len(records[0]) || records[0][i] != col {
			return nil, fmt.Errorf("%w: %s has an unexpected header %v", ErrIO, path, records[0])
		}
	}

	table := NewMetricsTable(len(records) - 1)
	for line, rec := range records[1:] {
		vals := make([]float64, len(MetricsColumns))
		for i := range MetricsColumns {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %s", ErrIO, path, line+2, err)
			}
			vals[i] = v
		}
		table.Append(MetricsRow{
			Episode:   int(vals[0]),
			Iteration: int(vals[1]),
			EpReward:  vals[2],
			Memory:    uint64(vals[3]),
			Time:      vals[4],
		})
	}
	return table, nil
}
