package ambulance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeu5/or-suite/types"
)

// Locations of the ambulances on the unit interval.
// Used both as the state and as the action of the metric environment
type Locations []float64

var _ types.State = Locations{}
var _ types.Action = Locations{}

func (l Locations) Hash() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l Locations) Copy() types.State {
	c := make(Locations, len(l))
	copy(c, l)
	return c
}

// Nodes of the graph the ambulances are located at.
// Used both as the state and as the action of the graph environment
type Nodes []int

var _ types.State = Nodes{}
var _ types.Action = Nodes{}

func (n Nodes) Hash() string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (n Nodes) Copy() types.State {
	c := make(Nodes, len(n))
	copy(c, n)
	return c
}

func invalidAction(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrInvalidAction, fmt.Sprintf(format, args...))
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
