package router

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type routeConflict struct {
	existing RouteDefinition
	route    RouteDefinition
	reason   string
	code     string
}

func patternKey(segs []segment) string {
	parts := make([]string, len(segs))
	for i, seg := range segs {
		if seg.kind == segmentParam {
			// param names do not change what a pattern matches
			parts[i] = ":"
			if seg.optional {
				parts[i] += "?"
			}
			continue
		}
		if seg.kind == segmentCatchAll {
			parts[i] = "*"
			if seg.oneOrMore {
				parts[i] = "+"
			}
			continue
		}
		parts[i] = seg.String()
	}
	return "/" + strings.Join(parts, "/")
}

// shadows reports whether every path matched by later is also
// matched by earlier, so later can never be selected when earlier is
// tested first.
func shadows(earlier, later []segment) bool {
	for i, seg := range earlier {
		if seg.kind == segmentCatchAll {
			if !seg.oneOrMore {
				return true
			}
			if i >= len(later) {
				return false
			}
			other := later[i]
			if other.kind == segmentCatchAll {
				return other.oneOrMore
			}
			return !other.optional
		}

		if i >= len(later) {
			if !seg.optional {
				return false
			}
			continue
		}

		other := later[i]
		if other.kind == segmentCatchAll {
			return false
		}
		if other.optional && !seg.optional {
			return false
		}
		if seg.kind == segmentStatic && (other.kind != segmentStatic || other.value != seg.value) {
			return false
		}
	}
	return len(later) <= len(earlier)
}

// detectRouteConflict compares two routes tested in this order.
func detectRouteConflict(existing, route RouteDefinition) *routeConflict {
	existingParts, ok := routeSegments(existing)
	if !ok {
		return nil
	}
	routeParts, ok := routeSegments(route)
	if !ok {
		return nil
	}

	if patternKey(existingParts) == patternKey(routeParts) {
		return &routeConflict{
			existing: existing,
			route:    route,
			reason:   "pattern matches the same paths as an earlier route",
			code:     TextCodeRouteDuplicate,
		}
	}

	if shadows(existingParts, routeParts) {
		return &routeConflict{
			existing: existing,
			route:    route,
			reason:   "route is unreachable, every path it matches is taken by an earlier route",
			code:     TextCodeRouteShadowed,
		}
	}

	return nil
}

func newRouteConflictError(base string, conflict *routeConflict) error {
	message := fmt.Sprintf("route conflict: %s conflicts with %s (%s)", conflict.route.label(), conflict.existing.label(), conflict.reason)
	return goerrors.New(message, goerrors.CategoryConflict).
		WithTextCode(conflict.code).
		WithMetadata(map[string]any{
			"base":           base,
			"route":          conflict.route.label(),
			"path":           conflict.route.Path,
			"existing_route": conflict.existing.label(),
			"existing_path":  conflict.existing.Path,
			"reason":         conflict.reason,
		})
}
