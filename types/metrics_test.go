package types

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestMetricsCSVFormat(t *testing.T) {
	m := NewMetricsTable(2)
	m.Append(MetricsRow{Episode: 0, Iteration: 0, EpReward: 1.5, Memory: 128, Time: 2000})
	m.Append(MetricsRow{Episode: 1, Iteration: 0, EpReward: -0.25, Memory: 0, Time: 10})
	path := filepath.Join(t.TempDir(), MetricsFile)
	if err := m.WriteCSV(path); err != nil {
		t.Fatalf("write: %s", err)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	expected := []string{
		"episode,iteration,epReward,memory,time",
		"0.00,0.00,1.50,128.00,2000.00",
		"1.00,0.00,-0.25,0.00,10.00",
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}

	loaded, err := LoadMetrics(path)
	if err != nil {
		t.Fatalf("load: %s", err)
	}
	rows := loaded.Rows()
	if len(rows) != 2 || rows[0].EpReward != 1.5 || rows[1].Episode != 1 || rows[0].Memory != 128 {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestMetricsNonZero(t *testing.T) {
	m := NewMetricsTable(3)
	m.Append(MetricsRow{})
	m.Append(MetricsRow{Episode: 1, EpReward: 0})
	m.Append(MetricsRow{})
	nz := m.NonZero()
	if nz.Len() != 1 || nz.Rows()[0].Episode != 1 {
		t.Errorf("expected only the non zero row, got %+v", nz.Rows())
	}
	if m.Len() != 3 {
		t.Errorf("NonZero should not modify the table")
	}
}

func TestLoadMetricsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetricsFile)
	if err := os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMetrics(path); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	if _, err := LoadMetrics(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO for a missing file, got %v", err)
	}
}

func TestWriteCSVUnwritable(t *testing.T) {
	m := NewMetricsTable(0)
	path := filepath.Join(t.TempDir(), "missing", "dir", MetricsFile)
	if err := m.WriteCSV(path); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestProbeStopIdempotent(t *testing.T) {
	p := StartProbe()
	if !p.Running() {
		t.Fatalf("probe should be running after start")
	}
	p.Stop()
	d, mem := p.Duration, p.Memory
	p.Stop()
	if p.Running() {
		t.Errorf("probe should be stopped")
	}
	if p.Duration != d || p.Memory != mem {
		t.Errorf("second stop changed the measurement")
	}
}

func TestProbePeakMemory(t *testing.T) {
	runtime.GC()
	p := StartProbe()
	buf := make([]byte, 16<<20)
	for i := range buf {
		buf[i] = byte(i)
	}
	p.Sample()
	runtime.KeepAlive(buf)
	runtime.GC()
	p.Stop()
	if p.Memory < 8<<20 {
		t.Errorf("expected the peak to include the 16MiB buffer, got %d bytes", p.Memory)
	}
}

func TestEpisodeContextRow(t *testing.T) {
	c := NewEpisodeContext(2, 5)
	c.Reward = 3
	row := c.Row()
	if row.Iteration != 2 || row.Episode != 5 || row.EpReward != 3 || row.Time != 0 {
		t.Errorf("unexpected row %+v", row)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("defaults should be valid: %s", err)
	}
	cases := map[string]func(*Settings){
		"iterations": func(s *Settings) { s.Iterations = 0 },
		"horizon":    func(s *Settings) { s.Horizon = -1 },
		"rec_freq":   func(s *Settings) { s.RecordFrequency = -1 },
		"dir_path":   func(s *Settings) { s.OutputDir = "" },
	}
	for name, mutate := range cases {
		s := DefaultSettings()
		mutate(s)
		if err := s.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%s: expected ErrInvalidConfiguration, got %v", name, err)
		}
	}
	var s *Settings
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nil settings: expected ErrInvalidConfiguration, got %v", err)
	}
}
