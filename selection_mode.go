package router

// SelectionMode controls the order in which a Router tests sibling routes.
type SelectionMode string

const (
	// SelectionDeclared tests routes in declaration order; the first
	// match wins.
	SelectionDeclared SelectionMode = "declared"
	// SelectionRanked tests more specific patterns first (static over
	// param over greedy), falling back to declaration order on ties.
	SelectionRanked SelectionMode = "ranked"
)

func (m SelectionMode) normalize() SelectionMode {
	switch m {
	case SelectionRanked:
		return SelectionRanked
	default:
		return SelectionDeclared
	}
}

func (m SelectionMode) String() string {
	return string(m.normalize())
}
