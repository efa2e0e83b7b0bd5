package benchmarks

import (
	"fmt"
	"os"

	"github.com/zeu5/or-suite/ambulance"
	"github.com/zeu5/or-suite/bandit"
	"github.com/zeu5/or-suite/policies"
	"github.com/zeu5/or-suite/resource"
	"github.com/zeu5/or-suite/types"
	"gopkg.in/yaml.v3"
)

// Environment types understood by EnvironmentSpec
const (
	AmbulanceMetric    = "ambulance_metric"
	AmbulanceGraph     = "ambulance_graph"
	ResourceAllocation = "resource_allocation"
	FiniteBandit       = "bandit"
)

// EnvironmentSpec describes an environment in an experiment file.
// Zero values keep the defaults of the environment type
type EnvironmentSpec struct {
	Type string `yaml:"type"`
	// overrides the episode length when positive
	EpLen int `yaml:"ep_len"`

	// ambulance
	Alpha         *float64  `yaml:"alpha"`
	NumAmbulance  int       `yaml:"num_ambulance"`
	StartingState []float64 `yaml:"starting_state"`
	// beta (default) or uniform
	Arrivals string           `yaml:"arrivals"`
	Edges    []ambulance.Edge `yaml:"edges"`
	DataPath string           `yaml:"data_path"`

	// resource allocation: simple (default) or default
	Problem string `yaml:"problem"`

	// bandit
	ArmMeans []float64 `yaml:"arm_means"`
}

// ExperimentFile is the yaml description consumed by the run command
type ExperimentFile struct {
	Name        string          `yaml:"name"`
	Environment EnvironmentSpec `yaml:"environment"`
	Agents      []string        `yaml:"agents"`
	Settings    *types.Settings `yaml:"settings"`
}

// LoadExperimentFile parses the file, settings missing from the file keep their defaults.
// A missing horizon stays 0 and means the episode length of the environment, a missing
// dir_path stays empty and means the save folder of the command line
func LoadExperimentFile(path string) (*ExperimentFile, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %s", types.ErrInvalidConfiguration, path, err)
	}
	base := types.DefaultSettings()
	base.Horizon = 0
	base.OutputDir = ""
	f := &ExperimentFile{Settings: base}
	if err := yaml.Unmarshal(bs, f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %s", types.ErrInvalidConfiguration, path, err)
	}
	if f.Name == "" {
		f.Name = f.Environment.Type
	}
	if len(f.Agents) == 0 {
		return nil, fmt.Errorf("%w: %s lists no agents", types.ErrInvalidConfiguration, path)
	}
	return f, nil
}

// NewEnvironment creates the described environment
func (s EnvironmentSpec) NewEnvironment(seed uint64) (types.Environment, error) {
	switch s.Type {
	case AmbulanceMetric:
		cfg := ambulance.DefaultMetricConfig()
		if s.EpLen > 0 {
			cfg.EpLen = s.EpLen
		}
		if s.Alpha != nil {
			cfg.Alpha = *s.Alpha
		}
		if s.NumAmbulance > 0 {
			cfg.NumAmbulance = s.NumAmbulance
			cfg.StartingState = make([]float64, s.NumAmbulance)
		}
		if len(s.StartingState) > 0 {
			cfg.StartingState = s.StartingState
		}
		switch s.Arrivals {
		case "", "beta":
		case "uniform":
			cfg.Arrivals = ambulance.UniformArrivals{}
		default:
			return nil, fmt.Errorf("%w: unknown arrival distribution %q", types.ErrInvalidConfiguration, s.Arrivals)
		}
		return ambulance.NewMetricEnvironment(cfg, seed)
	case AmbulanceGraph:
		cfg := ambulance.DefaultGraphConfig()
		if s.EpLen > 0 {
			cfg.EpLen = s.EpLen
		}
		if s.Alpha != nil {
			cfg.Alpha = *s.Alpha
		}
		if len(s.Edges) > 0 {
			cfg.Edges = s.Edges
		}
		if s.DataPath != "" {
			cfg.FromData = true
			cfg.DataPath = s.DataPath
		}
		if len(s.StartingState) > 0 {
			cfg.StartingState = make([]int, len(s.StartingState))
			for i, v := range s.StartingState {
				cfg.StartingState[i] = int(v)
			}
			cfg.NumAmbulance = len(s.StartingState)
		}
		return ambulance.NewGraphEnvironment(cfg, seed)
	case ResourceAllocation:
		var cfg *resource.Config
		switch s.Problem {
		case "", "simple":
			cfg = resource.SimpleConfig()
		case "default":
			cfg = resource.DefaultConfig()
		default:
			return nil, fmt.Errorf("%w: unknown allocation problem %q", types.ErrInvalidConfiguration, s.Problem)
		}
		if s.EpLen > 0 {
			cfg.NumRounds = s.EpLen
		}
		return resource.NewEnvironment(cfg, seed)
	case FiniteBandit:
		cfg := bandit.DefaultConfig()
		if s.EpLen > 0 {
			cfg.EpLen = s.EpLen
		}
		if len(s.ArmMeans) > 0 {
			cfg.ArmMeans = s.ArmMeans
		}
		return bandit.NewEnvironment(cfg, seed)
	}
	return nil, fmt.Errorf("%w: unknown environment type %q", types.ErrInvalidConfiguration, s.Type)
}

// NewAgent creates the named agent
func NewAgent(name string, seed uint64) (types.Agent, error) {
	switch name {
	case "stable":
		return ambulance.NewStableAgent(), nil
	case "median":
		return ambulance.NewMedianAgent(), nil
	case "equal":
		return resource.NewEqualAllocationAgent(seed), nil
	case "ucb":
		return bandit.NewUCBAgent(), nil
	case "random":
		return types.NewRandomAgent(seed), nil
	case "qlearning":
		return policies.NewQLearningAgent(policies.DefaultQLearningConfig(), seed), nil
	case "softmax":
		cfg := policies.DefaultQLearningConfig()
		cfg.Epsilon = 0
		cfg.Temperature = 0.5
		return policies.NewQLearningAgent(cfg, seed), nil
	}
	return nil, fmt.Errorf("%w: unknown agent %q", types.ErrInvalidConfiguration, name)
}
