package router

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Validate lints the router and its nested routers for routes that
// can never be selected: duplicate patterns or names, routes shadowed
// by an earlier sibling in selection order, and more than one default.
// A router with lint errors still works; the first match wins.
func (r *Router) Validate() []error {
	return r.validate(r.base)
}

func (r *Router) validate(base string) []error {
	var errs []error

	for i := 0; i < len(r.order); i++ {
		for j := i + 1; j < len(r.order); j++ {
			existing := r.routes[r.order[i]]
			route := r.routes[r.order[j]]
			if conflict := detectRouteConflict(existing, route); conflict != nil {
				errs = append(errs, newRouteConflictError(base, conflict))
			}
		}
	}

	names := map[string]RouteDefinition{}
	var defaults []RouteDefinition
	for _, route := range r.routes {
		if route.Name != "" {
			if existing, ok := names[route.Name]; ok {
				errs = append(errs, newDuplicateNameError(base, route.Name, existing, route))
			} else {
				names[route.Name] = route
			}
		}
		if route.Default {
			defaults = append(defaults, route)
		}
	}

	if len(defaults) > 1 {
		errs = append(errs, newMultipleDefaultsError(base, defaults))
	}

	for _, route := range r.routes {
		if route.Router != nil {
			errs = append(errs, route.Router.validate(joinBase(base, route.Router.base))...)
		}
	}

	return errs
}

func newDuplicateNameError(base, name string, existing, route RouteDefinition) error {
	return goerrors.New(fmt.Sprintf("route name %q is declared more than once", name), goerrors.CategoryConflict).
		WithTextCode(TextCodeRouteDuplicate).
		WithMetadata(map[string]any{
			"base":          base,
			"name":          name,
			"path":          route.Path,
			"existing_path": existing.Path,
		})
}

func newMultipleDefaultsError(base string, defaults []RouteDefinition) error {
	labels := make([]string, len(defaults))
	for i, route := range defaults {
		labels[i] = route.label()
	}
	return goerrors.New(fmt.Sprintf("%d routes are marked default, %s is used", len(defaults), labels[0]), goerrors.CategoryConflict).
		WithTextCode(TextCodeRouteMultipleDefaults).
		WithMetadata(map[string]any{
			"base":     base,
			"defaults": labels,
			"selected": labels[0],
		})
}
