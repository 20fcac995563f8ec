package router

import (
	"maps"
	"net/url"
)

// Component is anything a Router can mount. Lifecycle hooks are
// optional capability interfaces: BeforeMounter, Updater and
// BeforeUnmounter.
type Component any

// ComponentFunc creates a fresh Component for each mount.
type ComponentFunc func() Component

// BeforeMounter is called right before a component becomes mounted.
type BeforeMounter interface {
	BeforeMount(props Props)
}

// BeforeUnmounter is called right before a component is removed.
type BeforeUnmounter interface {
	BeforeUnmount()
}

// Updater receives new props when the same route stays selected but
// its URL or params changed.
type Updater interface {
	Update(props Props)
}

// Props is the contextual data handed to mounted components.
type Props struct {
	// URL is the full navigation URL, query included.
	URL string
	// Path is the path the route was matched against, with the
	// declaring router's base stripped.
	Path    string
	Query   url.Values
	Matches bool
	Params  Params
	// Base is the effective base of the declaring router.
	Base string
	// Prefix is the part of Path consumed by the route pattern that
	// selected this component. Nested routers and matches append it
	// to Base.
	Prefix    string
	Navigator *Broadcaster
}

// Param returns a named param or a default.
func (p Props) Param(name string, defaultValue ...string) string {
	return p.Params.Get(name, defaultValue...)
}

func (p Props) navigator() *Broadcaster {
	if p.Navigator != nil {
		return p.Navigator
	}
	return DefaultBroadcaster()
}

func (p Props) equal(o Props) bool {
	return p.URL == o.URL &&
		p.Path == o.Path &&
		p.Matches == o.Matches &&
		p.Base == o.Base &&
		p.Prefix == o.Prefix &&
		p.Navigator == o.Navigator &&
		maps.Equal(p.Params, o.Params)
}

func mountComponent(c Component, props Props) {
	if m, ok := c.(BeforeMounter); ok {
		m.BeforeMount(props)
	}
}

func updateComponent(c Component, props Props) {
	if u, ok := c.(Updater); ok {
		u.Update(props)
	}
}

func unmountComponent(c Component) {
	if u, ok := c.(BeforeUnmounter); ok {
		u.BeforeUnmount()
	}
}

// Group mounts every child together and forwards lifecycle calls to
// them. Children see the group's Base but not its Prefix, the same
// way plain elements wrapping a router behave.
func Group(children ...ComponentFunc) ComponentFunc {
	return func() Component {
		return &group{factories: children}
	}
}

type group struct {
	factories []ComponentFunc
	children  []Component
}

func (g *group) childProps(props Props) Props {
	props.Prefix = ""
	return props
}

func (g *group) BeforeMount(props Props) {
	g.children = make([]Component, 0, len(g.factories))
	for _, factory := range g.factories {
		c := factory()
		g.children = append(g.children, c)
		mountComponent(c, g.childProps(props))
	}
}

func (g *group) Update(props Props) {
	for _, c := range g.children {
		updateComponent(c, g.childProps(props))
	}
}

func (g *group) BeforeUnmount() {
	for i := len(g.children) - 1; i >= 0; i-- {
		unmountComponent(g.children[i])
	}
	g.children = nil
}

// Children returns the mounted children.
func (g *group) Children() []Component {
	return g.children
}

// Root is a component tree mounted with Mount.
type Root struct {
	nav       *Broadcaster
	component Component
	mounted   bool
}

// Mount creates the root component and mounts it against nav's
// current URL. Navigations issued by lifecycle hooks during the
// mount are deferred until it completes.
func Mount(nav *Broadcaster, c ComponentFunc) *Root {
	if nav == nil {
		nav = DefaultBroadcaster()
	}
	root := &Root{nav: nav, component: c()}
	current := nav.Current()
	props := Props{
		URL:       current,
		Path:      pathOf(current),
		Query:     queryOf(current),
		Matches:   true,
		Params:    Params{},
		Navigator: nav,
	}
	nav.pass(func() {
		mountComponent(root.component, props)
	})
	root.mounted = true
	return root
}

// Component returns the mounted root component.
func (r *Root) Component() Component {
	return r.component
}

// Unmount tears the tree down. Calling it twice is a no-op.
func (r *Root) Unmount() {
	if !r.mounted {
		return
	}
	r.mounted = false
	r.nav.pass(func() {
		unmountComponent(r.component)
	})
}
