package model

// State is everything the store owns: the ordered collection and the
// active filter.
type State struct {
	Todos  []Todo `json:"todos"`
	Filter Filter `json:"filter"`
}

func (s State) Clone() State {
	out := State{Filter: s.Filter, Todos: make([]Todo, len(s.Todos))}
	for i, t := range s.Todos {
		out.Todos[i] = t.Clone()
	}
	return out
}

func EmptyState() State {
	return State{Todos: []Todo{}, Filter: FilterAll}
}
