package types

import (
	"fmt"
	"os"

	"github.com/zeu5/or-suite/util"
)

// EpisodeRecord is a single recorded step of an episode
type EpisodeRecord struct {
	Iteration int     `cbor:"iter"`
	Episode   int     `cbor:"episode"`
	Step      int     `cbor:"step"`
	OldState  State   `cbor:"oldState"`
	Action    Action  `cbor:"action"`
	Reward    float64 `cbor:"reward"`
	NewState  State   `cbor:"newState"`
	Info      Info    `cbor:"info"`
}

// Trajectory is the ordered list of records for an entire run
type Trajectory struct {
	records []*EpisodeRecord
}

func NewTrajectory() *Trajectory {
	return &Trajectory{
		records: make([]*EpisodeRecord, 0),
	}
}

func (t *Trajectory) Append(r *EpisodeRecord) {
	t.records = append(t.records, r)
}

func (t *Trajectory) Len() int {
	return len(t.records)
}

func (t *Trajectory) Get(i int) (*EpisodeRecord, bool) {
	if i < 0 || i >= len(t.records) {
		return nil, false
	}
	return t.records[i], true
}

func (t *Trajectory) Last() (*EpisodeRecord, bool) {
	return t.Get(len(t.records) - 1)
}

// Episode returns the records of one episode of an iteration, in step order
func (t *Trajectory) Episode(iteration, episode int) []*EpisodeRecord {
	out := make([]*EpisodeRecord, 0)
	for _, r := range t.records {
		if r.Iteration == iteration && r.Episode == episode {
			out = append(out, r)
		}
	}
	return out
}

// SaveTrajectory encodes the records with CBOR and writes them to path
func SaveTrajectory(path string, t *Trajectory) error {
	bs, err := util.Marshal(t.records)
	if err != nil {
		return fmt.Errorf("%w: encoding trajectory: %s", ErrIO, err)
	}
	if err := util.WriteToFile(path, bs); err != nil {
		return fmt.Errorf("%w: writing %s: %s", ErrIO, path, err)
	}
	return nil
}

// RecordedStep is a decoded EpisodeRecord. States and actions are decoded
// generically since their concrete types are not recorded
type RecordedStep struct {
	Iteration int            `cbor:"iter"`
	Episode   int            `cbor:"episode"`
	Step      int            `cbor:"step"`
	OldState  any            `cbor:"oldState"`
	Action    any            `cbor:"action"`
	Reward    float64        `cbor:"reward"`
	NewState  any            `cbor:"newState"`
	Info      map[string]any `cbor:"info"`
}

// LoadTrajectory reads a file written by SaveTrajectory
func LoadTrajectory(path string) ([]RecordedStep, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %s", ErrIO, path, err)
	}
	out := make([]RecordedStep, 0)
	if err := util.Unmarshal(bs, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %s", ErrIO, path, err)
	}
	return out, nil
}
