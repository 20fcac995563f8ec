package router

import (
	"errors"
	"strings"
)

// Router is a compiled set of sibling routes. A Router is immutable
// once built and can be mounted any number of times through Instance
// or Component.
type Router struct {
	base     string
	routes   []RouteDefinition
	order    []int
	onChange func(ChangeEvent)
	logger   Logger
	mode     SelectionMode
}

// Option configures a Router.
type Option func(*Router)

// WithBase sets the router's own base path. It is appended to the
// base inherited from enclosing routers.
func WithBase(base string) Option {
	return func(r *Router) {
		r.base = base
	}
}

// WithRoutes appends child routes in declaration order.
func WithRoutes(routes ...RouteDefinition) Option {
	return func(r *Router) {
		r.routes = append(r.routes, routes...)
	}
}

// WithOnChange registers a callback invoked when an instance resolves
// its initial URL and for every later navigation to a different URL,
// whether or not a route matched.
func WithOnChange(fn func(ChangeEvent)) Option {
	return func(r *Router) {
		r.onChange = fn
	}
}

func WithLogger(l Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithSelectionMode sets the order in which sibling routes are tested.
func WithSelectionMode(mode SelectionMode) Option {
	return func(r *Router) {
		r.mode = mode
	}
}

// ChangeEvent is passed to the onChange callback.
type ChangeEvent struct {
	Instance *Instance
	URL      string
	Previous string
	// Matched reports whether the instance selected a route.
	Matched bool
	// Active is the selected route, nil when nothing matched.
	Active *RouteDefinition
}

// NewRouter compiles the declared routes. Invalid patterns and
// declarations are reported together.
func NewRouter(opts ...Option) (*Router, error) {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = loggerOrDefault(r.logger)
	r.mode = r.mode.normalize()

	var errs error
	if strings.ContainsAny(r.base, ":*?#") {
		errs = errors.Join(errs, newConfigError("router base must be a literal path", map[string]any{
			"base": r.base,
		}))
	}
	r.base = normalizeBase(r.base)

	defaults := 0
	for i := range r.routes {
		if err := r.routes[i].compile(); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if r.routes[i].Default {
			defaults++
		}
	}
	if errs != nil {
		return nil, errs
	}

	if defaults > 1 {
		r.logger.Warn("router %q declares %d default routes, the first declared is used", r.base, defaults)
	}

	if r.mode == SelectionRanked {
		r.order = rankRoutes(r.routes)
	} else {
		r.order = declaredOrder(len(r.routes))
	}

	return r, nil
}

// MustRouter is like NewRouter but panics on error.
func MustRouter(opts ...Option) *Router {
	r, err := NewRouter(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Base returns the router's own base, without inherited prefixes.
func (r *Router) Base() string {
	return r.base
}

func (r *Router) SelectionMode() SelectionMode {
	return r.mode
}

// Routes returns the declared routes in declaration order.
func (r *Router) Routes() []RouteDefinition {
	out := make([]RouteDefinition, len(r.routes))
	copy(out, r.routes)
	return out
}

// Instance creates an unmounted instance of the router.
func (r *Router) Instance() *Instance {
	return &Instance{router: r, active: -1}
}

// Component returns a factory mounting a new Instance each time.
func (r *Router) Component() ComponentFunc {
	return func() Component {
		return r.Instance()
	}
}

type selection struct {
	index    int
	result   MatchResult
	fallback bool
}

// selectRoute picks the child route for a path already stripped of
// the effective base. Path bearing routes and nested routers are
// tested in selection order, then the first default is used.
func (r *Router) selectRoute(path string) (selection, bool) {
	for _, idx := range r.order {
		route := r.routes[idx]
		if route.matcher != nil {
			if res, ok := route.matcher.Match(path); ok {
				return selection{index: idx, result: res}, true
			}
			continue
		}
		if route.Router != nil && !route.Default {
			if _, ok := stripBase(path, route.Router.base); ok {
				return selection{index: idx, result: MatchResult{Matches: true, Params: Params{}}}, true
			}
		}
	}

	for idx, route := range r.routes {
		if route.Default {
			return selection{
				index:    idx,
				result:   MatchResult{Matches: true, Params: Params{}},
				fallback: true,
			}, true
		}
	}

	return selection{index: -1}, false
}

// ResolvedRoute is one level of a Resolution.
type ResolvedRoute struct {
	Route RouteDefinition
	// Base is the effective base of the router that selected Route.
	Base string
	// Path is the path Route was matched against.
	Path    string
	Params  Params
	Default bool
}

// Resolution is the chain of routes selected for a URL, outermost first.
type Resolution struct {
	URL   string
	Chain []ResolvedRoute
}

// Leaf returns the innermost selected route.
func (r Resolution) Leaf() (ResolvedRoute, bool) {
	if len(r.Chain) == 0 {
		return ResolvedRoute{}, false
	}
	return r.Chain[len(r.Chain)-1], true
}

// Params returns the params captured along the whole chain.
func (r Resolution) Params() Params {
	leaf, ok := r.Leaf()
	if !ok {
		return Params{}
	}
	return leaf.Params.Clone()
}

// Resolve runs the selection algorithm for url without mounting
// anything, descending into nested routers. It reports false when
// some level of the chain resolved to no match.
func (r *Router) Resolve(url string) (Resolution, bool) {
	res := Resolution{URL: url}
	ok := r.resolveInto(&res, pathOf(url), "", Params{})
	return res, ok
}

func (r *Router) resolveInto(res *Resolution, path, inherited string, params Params) bool {
	base := joinBase(inherited, r.base)
	stripped, ok := stripBase(path, base)
	if !ok {
		return false
	}
	sel, ok := r.selectRoute(stripped)
	if !ok {
		return false
	}

	route := r.routes[sel.index]
	merged := mergeParams(params, sel.result.Params)
	res.Chain = append(res.Chain, ResolvedRoute{
		Route:   route,
		Base:    base,
		Path:    stripped,
		Params:  merged,
		Default: sel.fallback,
	})

	if route.Router != nil {
		return route.Router.resolveInto(res, path, joinBase(base, sel.result.Prefix), merged)
	}
	return true
}

func mergeParams(inherited, own Params) Params {
	out := make(Params, len(inherited)+len(own))
	for k, v := range inherited {
		out[k] = v
	}
	for k, v := range own {
		out[k] = v
	}
	return out
}

// Instance is a mounted Router. It subscribes to the Broadcaster on
// mount and keeps exactly one child route mounted, or none.
// Instances are driven by broadcaster passes and are not safe for
// concurrent use.
type Instance struct {
	router *Router
	nav    *Broadcaster
	sub    *Subscription

	props   Props
	base    string
	mounted bool

	active     int
	child      Component
	childProps Props

	// observed is the last URL seen through a notification.
	observed string
}

// BeforeMount subscribes to the navigator and resolves the initial
// URL. Navigations issued by child hooks during the mount are
// deferred until it completes.
func (i *Instance) BeforeMount(props Props) {
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
	i.observed = url
	i.sub = i.nav.Subscribe(i.handle)

	i.nav.pass(func() {
		matched := i.resolve(url)
		i.changed(url, "", matched)
	})
}

// Update re-resolves the instance with props handed down by the
// enclosing component.
func (i *Instance) Update(props Props) {
	if !i.mounted {
		return
	}
	i.setProps(props)
	url := props.URL
	if url == "" {
		url = i.nav.Current()
	}
	i.nav.pass(func() {
		i.resolve(url)
	})
}

// BeforeUnmount unsubscribes and unmounts the selected child.
func (i *Instance) BeforeUnmount() {
	if !i.mounted {
		return
	}
	i.mounted = false
	i.sub.Unsubscribe()
	i.nav.pass(func() {
		i.transition(-1, Props{})
	})
}

func (i *Instance) setProps(props Props) {
	i.props = props
	i.base = joinBase(props.Base, props.Prefix, i.router.base)
}

func (i *Instance) handle(ev NavigationEvent) bool {
	if !i.mounted {
		return false
	}
	previous := i.observed
	i.observed = ev.URL

	matched := i.resolve(ev.URL)
	if ev.URL != previous {
		i.changed(ev.URL, previous, matched)
	}
	return matched
}

// changed reports a resolved URL to the onChange callback. The
// initial resolution at mount is reported with an empty Previous.
func (i *Instance) changed(url, previous string, matched bool) {
	if i.router.onChange == nil {
		return
	}
	change := ChangeEvent{
		Instance: i,
		URL:      url,
		Previous: previous,
		Matched:  matched,
	}
	if route, ok := i.Active(); ok {
		change.Active = &route
	}
	i.router.onChange(change)
}

func (i *Instance) resolve(url string) bool {
	stripped, ok := stripBase(pathOf(url), i.base)
	if !ok {
		i.transition(-1, Props{})
		return false
	}

	sel, ok := i.router.selectRoute(stripped)
	if !ok {
		i.transition(-1, Props{})
		return false
	}

	i.transition(sel.index, Props{
		URL:       url,
		Path:      stripped,
		Query:     queryOf(url),
		Matches:   true,
		Params:    mergeParams(i.props.Params, sel.result.Params),
		Base:      i.base,
		Prefix:    sel.result.Prefix,
		Navigator: i.nav,
	})
	return true
}

// transition moves to the route at index, -1 meaning none. The same
// route with identical props is left untouched.
func (i *Instance) transition(index int, props Props) {
	if index >= 0 && index == i.active {
		if i.childProps.equal(props) {
			return
		}
		i.childProps = props
		i.router.logger.Debug("router %q: updating %s", i.base, i.router.routes[index].label())
		updateComponent(i.child, props)
		return
	}

	if i.child != nil {
		old := i.child
		label := i.router.routes[i.active].label()
		i.child = nil
		i.active = -1
		i.childProps = Props{}
		i.router.logger.Debug("router %q: unmounting %s", i.base, label)
		unmountComponent(old)
	}

	if index < 0 {
		return
	}

	route := i.router.routes[index]
	i.active = index
	i.childProps = props
	i.child = route.instantiate()
	i.router.logger.Debug("router %q: mounting %s", i.base, route.label())
	mountComponent(i.child, props)
}

// Router returns the declaration this instance was created from.
func (i *Instance) Router() *Router {
	return i.router
}

func (i *Instance) Mounted() bool {
	return i.mounted
}

// Base returns the effective base: inherited base, the prefix consumed
// by the enclosing route and the router's own base.
func (i *Instance) Base() string {
	return i.base
}

// Active returns the selected route.
func (i *Instance) Active() (RouteDefinition, bool) {
	if i.active < 0 {
		return RouteDefinition{}, false
	}
	return i.router.routes[i.active], true
}

// Child returns the mounted child component, nil when nothing matched.
func (i *Instance) Child() Component {
	return i.child
}

// ChildProps returns the props the mounted child last received.
func (i *Instance) ChildProps() Props {
	return i.childProps
}
