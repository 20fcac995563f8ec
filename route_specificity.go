package router

import "sort"

// rankRoutes returns route indexes ordered from the most to the
// least specific pattern. Ties keep declaration order.
func rankRoutes(routes []RouteDefinition) []int {
	order := make([]int, len(routes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return compareRouteSpecificity(routes[order[i]], routes[order[j]]) > 0
	})
	return order
}

func declaredOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// routeSegments returns the segments a route is selected by. Nested
// routers without a path are selected by their base, which behaves
// like a static prefix followed by a catch-all.
func routeSegments(route RouteDefinition) ([]segment, bool) {
	if route.matcher != nil {
		return route.matcher.segments, true
	}
	if route.Router != nil && route.Router.base != "" {
		var segs []segment
		for _, part := range splitPathSegments(route.Router.base) {
			segs = append(segs, segment{kind: segmentStatic, value: part})
		}
		return append(segs, segment{kind: segmentCatchAll}), true
	}
	return nil, false
}

func compareRouteSpecificity(left, right RouteDefinition) int {
	leftParts, leftOK := routeSegments(left)
	rightParts, rightOK := routeSegments(right)
	switch {
	case leftOK && !rightOK:
		return 1
	case !leftOK && rightOK:
		return -1
	case !leftOK && !rightOK:
		return 0
	}

	minLen := len(leftParts)
	if len(rightParts) < minLen {
		minLen = len(rightParts)
	}

	for i := 0; i < minLen; i++ {
		leftSegment := leftParts[i]
		rightSegment := rightParts[i]

		if leftSegment.kind != rightSegment.kind {
			return compareSegmentKind(leftSegment.kind, rightSegment.kind)
		}

		if leftSegment.kind == segmentStatic && leftSegment.value != rightSegment.value {
			return 0
		}
	}

	// a trailing catch-all makes the longer pattern broader, not narrower
	if len(leftParts) > len(rightParts) {
		if leftParts[minLen].kind == segmentCatchAll {
			return -1
		}
		return 1
	}
	if len(rightParts) > len(leftParts) {
		if rightParts[minLen].kind == segmentCatchAll {
			return 1
		}
		return -1
	}

	return 0
}

func compareSegmentKind(left, right segmentKind) int {
	if left == right {
		return 0
	}
	if left == segmentStatic {
		return 1
	}
	if right == segmentStatic {
		return -1
	}
	if left == segmentParam {
		return 1
	}
	return -1
}
