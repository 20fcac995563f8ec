package router

import "maps"

// Match shares match state with its children instead of selecting
// among them. Children are always mounted and receive the state
// through Props.
type Match struct {
	pattern  string
	base     string
	matcher  *Matcher
	children []ComponentFunc
	onChange func(MatchState)
}

type MatchOption func(*Match)

// WithMatchPath sets the pattern tested against the URL. Without a
// pattern the match reflects the selection of the enclosing router.
func WithMatchPath(pattern string) MatchOption {
	return func(m *Match) {
		m.pattern = pattern
	}
}

// WithMatchBase sets a base appended to the inherited one.
func WithMatchBase(base string) MatchOption {
	return func(m *Match) {
		m.base = base
	}
}

func WithMatchChildren(children ...ComponentFunc) MatchOption {
	return func(m *Match) {
		m.children = append(m.children, children...)
	}
}

// WithMatchChange registers a callback invoked when the state changes.
func WithMatchChange(fn func(MatchState)) MatchOption {
	return func(m *Match) {
		m.onChange = fn
	}
}

// MatchState is what a MatchInstance exposes to its children.
type MatchState struct {
	Matches bool
	Path    string
	URL     string
	Params  Params
}

func (s MatchState) equal(o MatchState) bool {
	return s.Matches == o.Matches &&
		s.Path == o.Path &&
		s.URL == o.URL &&
		maps.Equal(s.Params, o.Params)
}

func NewMatch(opts ...MatchOption) (*Match, error) {
	m := &Match{}
	for _, opt := range opts {
		opt(m)
	}
	m.base = normalizeBase(m.base)
	if m.pattern != "" {
		matcher, err := Compile(m.pattern)
		if err != nil {
			return nil, err
		}
		m.matcher = matcher
	}
	return m, nil
}

// Pattern returns the configured pattern, empty when none.
func (m *Match) Pattern() string {
	return m.pattern
}

func (m *Match) Instance() *MatchInstance {
	return &MatchInstance{match: m}
}

func (m *Match) Component() ComponentFunc {
	return func() Component {
		return m.Instance()
	}
}

// MatchInstance is a mounted Match.
type MatchInstance struct {
	match *Match
	nav   *Broadcaster
	sub   *Subscription

	props   Props
	base    string
	mounted bool

	state    MatchState
	prefix   string
	children []Component
}

func (i *MatchInstance) BeforeMount(props Props) {
	if i.mounted {
		i.Update(props)
		return
	}
	i.nav = props.navigator()
	i.setProps(props)
	i.mounted = true

	url := props.URL
	if url == "" {
		url = i.nav.Current()
	}
	i.state, i.prefix = i.evaluate(url)
	i.sub = i.nav.Subscribe(i.handle)

	i.nav.pass(func() {
		childProps := i.childProps()
		i.children = make([]Component, 0, len(i.match.children))
		for _, factory := range i.match.children {
			c := factory()
			i.children = append(i.children, c)
			mountComponent(c, childProps)
		}
	})
}

func (i *MatchInstance) Update(props Props) {
	if !i.mounted {
		return
	}
	i.setProps(props)
	url := props.URL
	if url == "" {
		url = i.nav.Current()
	}
	i.nav.pass(func() {
		i.apply(url)
	})
}

func (i *MatchInstance) BeforeUnmount() {
	if !i.mounted {
		return
	}
	i.mounted = false
	i.sub.Unsubscribe()
	i.nav.pass(func() {
		for j := len(i.children) - 1; j >= 0; j-- {
			unmountComponent(i.children[j])
		}
		i.children = nil
	})
}

// State returns the current match state.
func (i *MatchInstance) State() MatchState {
	return i.state
}

func (i *MatchInstance) Base() string {
	return i.base
}

func (i *MatchInstance) Children() []Component {
	return i.children
}

func (i *MatchInstance) setProps(props Props) {
	i.props = props
	i.base = joinBase(props.Base, props.Prefix, i.match.base)
}

func (i *MatchInstance) handle(ev NavigationEvent) bool {
	if !i.mounted {
		return false
	}
	i.apply(ev.URL)
	return i.match.matcher != nil && i.state.Matches
}

func (i *MatchInstance) apply(url string) {
	state, prefix := i.evaluate(url)
	if state.equal(i.state) && prefix == i.prefix {
		return
	}
	i.state = state
	i.prefix = prefix

	childProps := i.childProps()
	for _, c := range i.children {
		updateComponent(c, childProps)
	}
	if i.match.onChange != nil {
		i.match.onChange(state)
	}
}

func (i *MatchInstance) evaluate(url string) (MatchState, string) {
	state := MatchState{URL: url, Params: Params{}}
	stripped, ok := stripBase(pathOf(url), i.base)
	if !ok {
		state.Path = pathOf(url)
		return state, ""
	}
	state.Path = stripped

	if i.match.matcher == nil {
		state.Matches = i.props.Matches
		state.Params = i.props.Params.Clone()
		return state, ""
	}

	res, ok := i.match.matcher.Match(stripped)
	if !ok {
		return state, ""
	}
	state.Matches = true
	state.Params = mergeParams(i.props.Params, res.Params)
	return state, res.Prefix
}

func (i *MatchInstance) childProps() Props {
	return Props{
		URL:       i.state.URL,
		Path:      i.state.Path,
		Query:     queryOf(i.state.URL),
		Matches:   i.state.Matches,
		Params:    i.state.Params,
		Base:      i.base,
		Prefix:    i.prefix,
		Navigator: i.nav,
	}
}
