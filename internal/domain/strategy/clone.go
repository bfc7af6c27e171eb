package strategy

// cloneSlice copies a slice preserving nilness; deep-equality between a
// state and its clone must hold even for empty lists.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Clone returns a deep copy. Every turn transformation operates on a
// clone; callers decide whether the result replaces the persisted state.
func (g GameState) Clone() GameState {
	out := g
	out.Player = g.Player.Clone()
	if g.AI != nil {
		out.AI = make([]Roster, len(g.AI))
		for i := range g.AI {
			out.AI[i] = g.AI[i].Clone()
		}
	}
	out.Map = g.Map.Clone()
	return out
}

func (r Roster) Clone() Roster {
	out := r
	if r.Cities != nil {
		out.Cities = make([]City, len(r.Cities))
		for i := range r.Cities {
			out.Cities[i] = r.Cities[i].Clone()
		}
	}
	out.Units = cloneSlice(r.Units)
	out.Technologies = cloneSlice(r.Technologies)
	if r.Resources != nil {
		out.Resources = make(map[string]Resource, len(r.Resources))
		for k, v := range r.Resources {
			if v.Location != nil {
				loc := *v.Location
				v.Location = &loc
			}
			out.Resources[k] = v
		}
	}
	return out
}

func (c City) Clone() City {
	out := c
	out.Buildings = cloneSlice(c.Buildings)
	return out
}

func (m WorldMap) Clone() WorldMap {
	out := m
	if m.Explored != nil {
		out.Explored = make([][]int, len(m.Explored))
		for i := range m.Explored {
			out.Explored[i] = cloneSlice(m.Explored[i])
		}
	}
	if m.VisibleObjects != nil {
		out.VisibleObjects = make([]map[string]any, len(m.VisibleObjects))
		for i := range m.VisibleObjects {
			out.VisibleObjects[i] = deepCopyObject(m.VisibleObjects[i])
		}
	}
	return out
}

func deepCopyObject(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyObject(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepCopyValue(x[i])
		}
		return out
	default:
		return x
	}
}

// Clone deep-copies the record, including the embedded state.
func (r GameRecord) Clone() GameRecord {
	out := r
	out.CheatsUsed = cloneSlice(r.CheatsUsed)
	out.State = r.State.Clone()
	return out
}
