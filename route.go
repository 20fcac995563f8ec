package router

import "errors"

// RouteDefinition declares one child of a Router. Exactly one of
// Component or Router must be set. Siblings are evaluated in order.
type RouteDefinition struct {
	Name string
	// Path is the route pattern. Routes without a path are only
	// selected as the default fallback, except nested routers with a
	// base, which are eligible when their base matches.
	Path      string
	Default   bool
	Component ComponentFunc
	Router    *Router

	matcher *Matcher
}

// Path declares a route mounting c when pattern matches.
func Path(pattern string, c ComponentFunc) RouteDefinition {
	return RouteDefinition{Path: pattern, Component: c}
}

// DefaultRoute declares the fallback route mounting c when no
// sibling path matches.
func DefaultRoute(c ComponentFunc) RouteDefinition {
	return RouteDefinition{Default: true, Component: c}
}

// Nest declares a nested router as a child route.
//
// Example:
//
//	router.Nest(admin).At("/admin/:rest*")
//	router.Nest(app).AsDefault()
func Nest(r *Router) RouteDefinition {
	return RouteDefinition{Router: r}
}

// At returns a copy of the route with pattern as its path.
func (r RouteDefinition) At(pattern string) RouteDefinition {
	r.Path = pattern
	r.matcher = nil
	return r
}

// AsDefault returns a copy of the route marked as default.
func (r RouteDefinition) AsDefault() RouteDefinition {
	r.Default = true
	return r
}

// Named returns a copy of the route with a name used in logs and
// resolutions.
func (r RouteDefinition) Named(name string) RouteDefinition {
	r.Name = name
	return r
}

// Matcher returns the compiled pattern, nil for path-less routes.
func (r RouteDefinition) Matcher() *Matcher {
	return r.matcher
}

func (r *RouteDefinition) compile() error {
	if r.Component == nil && r.Router == nil {
		return newRouteError(*r, "component or router is required")
	}
	if r.Component != nil && r.Router != nil {
		return newRouteError(*r, "component and router are mutually exclusive")
	}
	if r.Path == "" {
		r.matcher = nil
		return nil
	}
	m, err := Compile(r.Path)
	if err != nil {
		return err
	}
	r.matcher = m
	return nil
}

func (r RouteDefinition) instantiate() Component {
	if r.Router != nil {
		return r.Router.Instance()
	}
	return r.Component()
}

func (r RouteDefinition) label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Path != "":
		return r.Path
	case r.Router != nil && r.Router.base != "":
		return "router(" + r.Router.base + ")"
	case r.Default:
		return "default(" + funcName(r.Component) + ")"
	case r.Component != nil:
		return funcName(r.Component)
	default:
		return "router"
	}
}

// RouteBuilder declares routes fluently. Groups become nested
// routers with their own base, kept in declaration order.
type RouteBuilder struct {
	parent  *RouteBuilder
	base    string
	entries []builderEntry
	opts    []Option
}

type builderEntry struct {
	route *RouteDeclaration
	group *RouteBuilder
}

// RouteDeclaration is a route being configured by a RouteBuilder.
type RouteDeclaration struct {
	builder    *RouteBuilder
	definition RouteDefinition
}

func NewRouteBuilder() *RouteBuilder {
	return &RouteBuilder{}
}

// NewRoute starts the configuration of a new route
func (b *RouteBuilder) NewRoute() *RouteDeclaration {
	route := &RouteDeclaration{builder: b}
	b.entries = append(b.entries, builderEntry{route: route})
	return route
}

// Group creates a nested builder whose routes are mounted by a
// nested router with base.
func (b *RouteBuilder) Group(base string, opts ...Option) *RouteBuilder {
	child := &RouteBuilder{
		parent: b,
		base:   base,
		opts:   opts,
	}
	b.entries = append(b.entries, builderEntry{group: child})
	return child
}

// Parent returns the enclosing builder, nil at the top level.
func (b *RouteBuilder) Parent() *RouteBuilder {
	return b.parent
}

// BuildAll validates and returns this builder's route definitions.
// Groups are built into nested routers.
func (b *RouteBuilder) BuildAll() ([]RouteDefinition, error) {
	if len(b.entries) == 0 {
		return nil, newEmptyBuilderError()
	}

	var (
		routes []RouteDefinition
		errs   error
	)
	for _, entry := range b.entries {
		if entry.route != nil {
			if err := entry.route.validate(); err != nil {
				errs = errors.Join(errs, newBuildError("route", entry.route.definition.label(), err))
				continue
			}
			routes = append(routes, entry.route.definition)
			continue
		}

		nested, err := entry.group.Router()
		if err != nil {
			errs = errors.Join(errs, newBuildError("group", entry.group.base, err))
			continue
		}
		routes = append(routes, Nest(nested))
	}

	if errs != nil {
		return nil, errs
	}
	return routes, nil
}

// Router builds a Router from the declared routes.
func (b *RouteBuilder) Router(opts ...Option) (*Router, error) {
	routes, err := b.BuildAll()
	if err != nil {
		return nil, err
	}
	all := make([]Option, 0, len(b.opts)+len(opts)+2)
	all = append(all, WithBase(b.base))
	all = append(all, b.opts...)
	all = append(all, opts...)
	all = append(all, WithRoutes(routes...))
	return NewRouter(all...)
}

func (r *RouteDeclaration) Path(path string) *RouteDeclaration {
	r.definition.Path = path
	return r
}

func (r *RouteDeclaration) Name(name string) *RouteDeclaration {
	r.definition.Name = name
	return r
}

func (r *RouteDeclaration) Default() *RouteDeclaration {
	r.definition.Default = true
	return r
}

func (r *RouteDeclaration) Component(c ComponentFunc) *RouteDeclaration {
	r.definition.Component = c
	return r
}

// Router mounts a nested router for this route instead of a component.
func (r *RouteDeclaration) Router(nested *Router) *RouteDeclaration {
	r.definition.Router = nested
	return r
}

// Builder returns the owning builder, for chaining sibling routes.
func (r *RouteDeclaration) Builder() *RouteBuilder {
	return r.builder
}

func (r *RouteDeclaration) validate() error {
	if r.definition.Path == "" && !r.definition.Default && r.definition.Router == nil {
		return newRouteError(r.definition, "path is required unless the route is default")
	}
	def := r.definition
	return def.compile()
}
