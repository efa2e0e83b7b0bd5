package ambulance

import (
	"fmt"
	"math"
	"os"

	"github.com/zeu5/or-suite/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/stat/sampleuv"
	"gopkg.in/yaml.v3"
)

// Edge of the road network between two nodes
type Edge struct {
	From       int     `yaml:"from"`
	To         int     `yaml:"to"`
	TravelTime float64 `yaml:"travel_time"`
}

// GraphConfig configures the ambulance environment on a road network
type GraphConfig struct {
	EpLen         int
	Alpha         float64
	Edges         []Edge
	StartingState []int
	NumAmbulance  int
	Arrivals      GraphArrivalDistribution
	// load the edges from DataPath instead of Edges
	FromData bool
	DataPath string
}

var _ types.EnvConfig = &GraphConfig{}

func (c *GraphConfig) EpisodeLength() int {
	return c.EpLen
}

// DefaultGraphConfig is a five node network with two ambulances
func DefaultGraphConfig() *GraphConfig {
	return &GraphConfig{
		EpLen: 5,
		Alpha: 0.25,
		Edges: []Edge{
			{From: 0, To: 4, TravelTime: 7},
			{From: 0, To: 1, TravelTime: 1},
			{From: 1, To: 2, TravelTime: 3},
			{From: 2, To: 3, TravelTime: 5},
			{From: 1, To: 3, TravelTime: 1},
			{From: 1, To: 4, TravelTime: 17},
			{From: 3, To: 4, TravelTime: 3},
		},
		StartingState: []int{1, 2},
		NumAmbulance:  2,
		Arrivals:      UniformNodeArrivals{},
	}
}

type graphData struct {
	Edges []Edge `yaml:"edges"`
}

// LoadEdges reads a yaml file with an `edges` list
func LoadEdges(dataPath string) ([]Edge, error) {
	bs, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, invalidConfig("reading graph data: %s", err)
	}
	data := graphData{}
	if err := yaml.Unmarshal(bs, &data); err != nil {
		return nil, invalidConfig("parsing graph data %s: %s", dataPath, err)
	}
	return data.Edges, nil
}

func (c *GraphConfig) Validate() error {
	if c.EpLen <= 0 {
		return invalidConfig("episode length must be positive, got %d", c.EpLen)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return invalidConfig("alpha must be in [0, 1], got %f", c.Alpha)
	}
	if c.NumAmbulance <= 0 {
		return invalidConfig("number of ambulances must be positive, got %d", c.NumAmbulance)
	}
	if len(c.StartingState) != c.NumAmbulance {
		return invalidConfig("starting state has %d nodes for %d ambulances", len(c.StartingState), c.NumAmbulance)
	}
	if c.Arrivals == nil {
		return invalidConfig("missing arrival distribution")
	}
	if w, ok := c.Arrivals.(WeightedNodeArrivals); ok {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	if c.FromData && c.DataPath == "" {
		return invalidConfig("from_data set without a data path")
	}
	return nil
}

// GraphEnvironment places ambulances at the nodes of a road network.
// Distances are shortest travel times
type GraphEnvironment struct {
	config   *GraphConfig
	numNodes int
	// shortest travel time between every pair of nodes
	distances [][]float64

	state    Nodes
	timestep int
	rand     *rand.Rand
}

var _ types.Environment = &GraphEnvironment{}
var _ types.ActionSampler = &GraphEnvironment{}
var _ types.Seedable = &GraphEnvironment{}
var _ types.ActionEnumerator = &GraphEnvironment{}

func NewGraphEnvironment(config *GraphConfig, seed uint64) (*GraphEnvironment, error) {
	if config == nil {
		return nil, invalidConfig("missing graph ambulance config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	edges := config.Edges
	if config.FromData {
		var err error
		edges, err = LoadEdges(config.DataPath)
		if err != nil {
			return nil, err
		}
	}
	distances, err := shortestTravelTimes(edges)
	if err != nil {
		return nil, err
	}
	e := &GraphEnvironment{
		config:    config,
		numNodes:  len(distances),
		distances: distances,
		rand:      types.NewRand(seed),
	}
	for _, n := range config.StartingState {
		if n < 0 || n >= e.numNodes {
			return nil, invalidConfig("starting node %d not in the graph", n)
		}
	}
	e.Reset()
	return e, nil
}

func shortestTravelTimes(edges []Edge) ([][]float64, error) {
	if len(edges) == 0 {
		return nil, invalidConfig("graph has no edges")
	}
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	numNodes := 0
	for _, edge := range edges {
		if edge.From < 0 || edge.To < 0 {
			return nil, invalidConfig("negative node in edge %v", edge)
		}
		if edge.From == edge.To {
			return nil, invalidConfig("self loop at node %d", edge.From)
		}
		if edge.TravelTime < 0 || math.IsNaN(edge.TravelTime) {
			return nil, invalidConfig("invalid travel time in edge %v", edge)
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(edge.From), simple.Node(edge.To), edge.TravelTime))
		numNodes = max(numNodes, edge.From+1, edge.To+1)
	}

	paths := path.DijkstraAllPaths(g)
	distances := make([][]float64, numNodes)
	for i := 0; i < numNodes; i++ {
		distances[i] = make([]float64, numNodes)
		for j := 0; j < numNodes; j++ {
			if i == j {
				continue
			}
			if g.Node(int64(i)) == nil || g.Node(int64(j)) == nil {
				return nil, invalidConfig("graph nodes must be numbered 0..%d, node missing", numNodes-1)
			}
			d := paths.Weight(int64(i), int64(j))
			if math.IsInf(d, 1) {
				return nil, invalidConfig("graph is not connected: no path from %d to %d", i, j)
			}
			distances[i][j] = d
		}
	}
	return distances, nil
}

func (e *GraphEnvironment) Seed(seed uint64) {
	e.rand = types.NewRand(seed)
}

func (e *GraphEnvironment) Config() types.EnvConfig {
	return e.config
}

// NumNodes in the road network
func (e *GraphEnvironment) NumNodes() int {
	return e.numNodes
}

// Distance is the shortest travel time between two nodes
func (e *GraphEnvironment) Distance(from, to int) float64 {
	return e.distances[from][to]
}

func (e *GraphEnvironment) Reset() types.State {
	e.timestep = 0
	e.state = Nodes(e.config.StartingState).Copy().(Nodes)
	return e.state.Copy()
}

func (e *GraphEnvironment) Step(a types.Action) (types.State, float64, bool, types.Info, error) {
	action, ok := a.(Nodes)
	if !ok {
		return nil, 0, false, nil, invalidAction("expected ambulance nodes, got %T", a)
	}
	if len(action) != e.config.NumAmbulance {
		return nil, 0, false, nil, invalidAction("expected %d nodes, got %d", e.config.NumAmbulance, len(action))
	}
	for _, n := range action {
		if n < 0 || n >= e.numNodes {
			return nil, 0, false, nil, invalidAction("node %d not in the graph", n)
		}
	}

	probs := e.config.Arrivals.Probabilities(e.timestep, e.numNodes)
	if len(probs) != e.numNodes {
		return nil, 0, false, nil, fmt.Errorf("%w: arrival distribution returned %d probabilities for %d nodes", types.ErrInvalidConfiguration, len(probs), e.numNodes)
	}
	arrival, ok := sampleuv.NewWeighted(probs, e.rand).Take()
	if !ok {
		return nil, 0, false, nil, fmt.Errorf("%w: arrival distribution has no mass", types.ErrInvalidConfiguration)
	}

	closest := 0
	for i, n := range action {
		if e.distances[n][arrival] < e.distances[action[closest]][arrival] {
			closest = i
		}
	}

	moved := 0.0
	for i := range action {
		moved += e.distances[e.state[i]][action[i]]
	}
	served := e.distances[action[closest]][arrival]
	reward := -1 * (e.config.Alpha*moved + (1-e.config.Alpha)*served)

	newState := action.Copy().(Nodes)
	newState[closest] = arrival

	e.state = newState
	e.timestep += 1
	done := e.timestep >= e.config.EpLen

	return newState.Copy(), reward, done, types.Info{"arrival": arrival}, nil
}

func (e *GraphEnvironment) SampleAction(r *rand.Rand) types.Action {
	action := make(Nodes, e.config.NumAmbulance)
	for i := range action {
		action[i] = r.Intn(e.numNodes)
	}
	return action
}

// Actions lists every placement of the ambulances on the nodes,
// numNodes^numAmbulance in total
func (e *GraphEnvironment) Actions(_ types.State) []types.Action {
	out := make([]types.Action, 0)
	current := make(Nodes, e.config.NumAmbulance)
	var fill func(int)
	fill = func(i int) {
		if i == len(current) {
			out = append(out, current.Copy().(Nodes))
			return
		}
		for n := 0; n < e.numNodes; n++ {
			current[i] = n
			fill(i + 1)
		}
	}
	fill(0)
	return out
}
