package router

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Config is a route table loaded from a file.
//
// Example (YAML):
//
//	base: /app
//	routes:
//	  - path: /
//	    component: home
//	  - base: /users
//	    routes:
//	      - path: /:id
//	        component: user
//	  - default: true
//	    component: not_found
type Config struct {
	Base        string            `yaml:"base" toml:"base" json:"base"`
	Selection   string            `yaml:"selection" toml:"selection" json:"selection"`
	Routes      []RouteConfig     `yaml:"routes" toml:"routes" json:"routes"`
	Interceptor InterceptorConfig `yaml:"interceptor" toml:"interceptor" json:"interceptor"`
}

// RouteConfig declares one route. Entries with Routes become nested
// routers; Base only applies to them.
type RouteConfig struct {
	Name      string        `yaml:"name" toml:"name" json:"name"`
	Path      string        `yaml:"path" toml:"path" json:"path"`
	Default   bool          `yaml:"default" toml:"default" json:"default"`
	Component string        `yaml:"component" toml:"component" json:"component"`
	Base      string        `yaml:"base" toml:"base" json:"base"`
	Routes    []RouteConfig `yaml:"routes" toml:"routes" json:"routes"`
}

// Config file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

func DefaultConfig() Config {
	return Config{
		Selection:   string(SelectionDeclared),
		Interceptor: DefaultInterceptorConfig(),
	}
}

// LoadConfig decodes a route table in the given format and applies
// defaults.
func LoadConfig(r io.Reader, format string) (Config, error) {
	var cfg Config

	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, newConfigError(fmt.Sprintf("failed to read config: %v", err), nil)
	}

	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, newConfigError(fmt.Sprintf("failed to parse yaml config: %v", err), map[string]any{
				"format": FormatYAML,
			})
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, newConfigError(fmt.Sprintf("failed to parse toml config: %v", err), map[string]any{
				"format": FormatTOML,
			})
		}
	default:
		return cfg, newConfigError(fmt.Sprintf("unsupported config format %q", format), map[string]any{
			"format": format,
		})
	}

	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return cfg, newConfigError(fmt.Sprintf("failed to apply config defaults: %v", err), nil)
	}

	return cfg, nil
}

// LoadConfigFile loads a route table, picking the format from the
// file extension.
func LoadConfigFile(path string) (Config, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	f, err := os.Open(path)
	if err != nil {
		return Config{}, newConfigError(fmt.Sprintf("failed to open config: %v", err), map[string]any{
			"path": path,
		})
	}
	defer f.Close()

	return LoadConfig(f, format)
}

// NewInterceptor creates the link interceptor described by the
// config's interceptor section.
func (c Config) NewInterceptor(nav *Broadcaster) (*Interceptor, error) {
	return NewInterceptor(nav, c.Interceptor)
}

// Registry resolves component names used in a Config.
type Registry interface {
	Lookup(name string) (ComponentFunc, bool)
}

// ComponentMap is a Registry backed by a map.
type ComponentMap map[string]ComponentFunc

func (m ComponentMap) Lookup(name string) (ComponentFunc, bool) {
	c, ok := m[name]
	return c, ok
}

// RegistryFunc adapts a function to Registry.
type RegistryFunc func(name string) (ComponentFunc, bool)

func (f RegistryFunc) Lookup(name string) (ComponentFunc, bool) {
	return f(name)
}

// Build creates the router described by the config. Extra options
// are applied after the ones derived from the config.
func (c Config) Build(reg Registry, opts ...Option) (*Router, error) {
	mode := SelectionMode(c.Selection)
	if c.Selection == "" {
		mode = SelectionDeclared
	}
	if mode != SelectionDeclared && mode != SelectionRanked {
		return nil, newConfigError(fmt.Sprintf("unknown selection mode %q", c.Selection), map[string]any{
			"selection": c.Selection,
		})
	}

	routes, err := buildRoutes(c.Routes, reg, mode, "")
	if err != nil {
		return nil, err
	}

	all := []Option{WithBase(c.Base), WithSelectionMode(mode), WithRoutes(routes...)}
	return NewRouter(append(all, opts...)...)
}

func buildRoutes(entries []RouteConfig, reg Registry, mode SelectionMode, parent string) ([]RouteDefinition, error) {
	var (
		routes []RouteDefinition
		errs   error
	)

	for i, entry := range entries {
		where := fmt.Sprintf("%s/routes[%d]", parent, i)
		route, err := buildRoute(entry, reg, mode, where)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		routes = append(routes, route)
	}

	if errs != nil {
		return nil, errs
	}
	return routes, nil
}

func buildRoute(entry RouteConfig, reg Registry, mode SelectionMode, where string) (RouteDefinition, error) {
	route := RouteDefinition{
		Name:    entry.Name,
		Path:    entry.Path,
		Default: entry.Default,
	}

	switch {
	case entry.Component != "" && len(entry.Routes) > 0:
		return route, newConfigError("route declares both a component and nested routes", map[string]any{
			"route": where,
		})

	case len(entry.Routes) > 0:
		children, err := buildRoutes(entry.Routes, reg, mode, where)
		if err != nil {
			return route, err
		}
		nested, err := NewRouter(WithBase(entry.Base), WithSelectionMode(mode), WithRoutes(children...))
		if err != nil {
			return route, err
		}
		route.Router = nested

	case entry.Component != "":
		if entry.Base != "" {
			return route, newConfigError("base is only allowed on routes with nested routes", map[string]any{
				"route": where,
			})
		}
		if reg == nil {
			return route, newComponentNotFoundError(entry.Component, where)
		}
		c, ok := reg.Lookup(entry.Component)
		if !ok || c == nil {
			return route, newComponentNotFoundError(entry.Component, where)
		}
		route.Component = c

	default:
		return route, newConfigError("route declares neither a component nor nested routes", map[string]any{
			"route": where,
		})
	}

	if route.Path == "" && !route.Default && route.Router == nil {
		return route, newConfigError("route without a path must be default", map[string]any{
			"route": where,
		})
	}

	return route, nil
}
