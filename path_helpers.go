package router

import (
	"net/url"
	"strings"
)

// PathParam returns a parameter segment (e.g., ":id").
func PathParam(name string) string {
	return ":" + name
}

// OptionalPathParam returns an optional parameter segment (e.g., ":tab?").
func OptionalPathParam(name string) string {
	return ":" + name + "?"
}

// GreedyPathParam returns a trailing segment capturing the rest of
// the path (e.g., ":rest*"). An empty name yields the unnamed "*".
func GreedyPathParam(name string) string {
	if name == "" {
		return "*"
	}
	return ":" + name + "*"
}

// JoinPath joins pattern or path parts with a single slash and
// returns a rooted path without a trailing slash.
//
// Example:
//
//	router.JoinPath("/users", router.PathParam("id"), "edit") // "/users/:id/edit"
func JoinPath(parts ...string) string {
	var out []string
	for _, part := range parts {
		out = append(out, splitPathSegments(part)...)
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// normalizeBase trims the trailing slash of a base path. Both ""
// and "/" normalize to "".
func normalizeBase(base string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base
}

// joinBase concatenates base prefixes contributed by nesting levels.
func joinBase(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(normalizeBase(part))
	}
	return b.String()
}

// stripBase removes base from path as a literal, segment aligned
// prefix. It reports false when path is outside base.
func stripBase(path, base string) (string, bool) {
	base = normalizeBase(base)
	if path == "" {
		path = "/"
	}
	if base == "" {
		return path, true
	}
	if path == base || path == base+"/" {
		return "/", true
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):], true
	}
	return "", false
}

// pathOf returns the path portion of a navigation URL, without the
// query and fragment.
func pathOf(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	if rawURL == "" {
		return "/"
	}
	return rawURL
}

// queryOf parses the query portion of a navigation URL. Parsing is
// lenient: malformed pairs are dropped.
func queryOf(rawURL string) url.Values {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}
	i := strings.IndexByte(rawURL, '?')
	if i < 0 {
		return url.Values{}
	}
	values, _ := url.ParseQuery(rawURL[i+1:])
	if values == nil {
		values = url.Values{}
	}
	return values
}
