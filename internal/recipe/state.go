package recipe

// State is a step of the parsing pipeline. A run moves through the states in
// declaration order; StateFailed is terminal and reachable from any state.
type State int

const (
	StateIdle State = iota
	StateFragmentsReceived
	StateRowsGrouped
	StateSectionsSegmented
	StateLinesRecombined
	StateIngredientsParsed
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateFragmentsReceived: "fragments_received",
	StateRowsGrouped:       "rows_grouped",
	StateSectionsSegmented: "sections_segmented",
	StateLinesRecombined:   "lines_recombined",
	StateIngredientsParsed: "ingredients_parsed",
	StateDone:              "done",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
