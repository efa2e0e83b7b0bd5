package policies

// QTable stores a value for every (state, action) pair by their hashes
type QTable struct {
	table map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
	}
}

// Get returns the value of the pair, def when it was never set
func (q *QTable) Get(state, action string, def float64) float64 {
	actions, ok := q.table[state]
	if !ok {
		return def
	}
	val, ok := actions[action]
	if !ok {
		return def
	}
	return val
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

// MaxAmong returns the action with the largest value among the given actions.
// Unset pairs count as def, ties go to the earliest action
func (q *QTable) MaxAmong(state string, actions []string, def float64) (string, float64) {
	if len(actions) == 0 {
		return "", def
	}
	maxAction := actions[0]
	maxVal := q.Get(state, actions[0], def)
	for _, a := range actions[1:] {
		if v := q.Get(state, a, def); v > maxVal {
			maxAction = a
			maxVal = v
		}
	}
	return maxAction, maxVal
}

// Len is the number of states with at least one value
func (q *QTable) Len() int {
	return len(q.table)
}
