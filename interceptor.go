package router

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/gobwas/glob"
	goerrors "github.com/goliatone/go-errors"
)

// Element is the part of a DOM element the Interceptor reads.
type Element interface {
	TagName() string
	Attr(name string) (string, bool)
	// Parent returns nil at the root.
	Parent() Element
}

// ClickEvent is a click delivered by a ClickSource.
type ClickEvent struct {
	Target Element
	// Button is 0 for the primary button.
	Button int
	Meta   bool
	Ctrl   bool
	Shift  bool
	Alt    bool

	prevented bool
}

// PreventDefault cancels the native navigation.
func (e *ClickEvent) PreventDefault() {
	e.prevented = true
}

func (e *ClickEvent) DefaultPrevented() bool {
	return e.prevented
}

func (e *ClickEvent) modified() bool {
	return e.Meta || e.Ctrl || e.Shift || e.Alt
}

// ClickSource delivers click events bubbling to the document root.
type ClickSource interface {
	OnClick(fn func(*ClickEvent)) (remove func())
}

// InterceptorConfig controls which links are handled by the router.
type InterceptorConfig struct {
	// Origin is the document origin, e.g. "https://example.com".
	// Absolute hrefs are only intercepted when they share it.
	Origin string `yaml:"origin" toml:"origin" json:"origin"`
	// LinkTags are the element names treated as links.
	LinkTags []string `yaml:"link_tags" toml:"link_tags" json:"link_tags"`
	// OptOutAttributes make a link navigate natively when present.
	OptOutAttributes []string `yaml:"opt_out_attributes" toml:"opt_out_attributes" json:"opt_out_attributes"`
	// OptInAttribute, when set, restricts interception to links
	// carrying it.
	OptInAttribute string `yaml:"opt_in_attribute" toml:"opt_in_attribute" json:"opt_in_attribute"`
	// Ignore holds glob patterns of paths left to the browser.
	Ignore []string `yaml:"ignore" toml:"ignore" json:"ignore"`
}

// DefaultInterceptorConfig returns the defaults merged into every config.
func DefaultInterceptorConfig() InterceptorConfig {
	return InterceptorConfig{
		LinkTags:         []string{"a"},
		OptOutAttributes: []string{"native", "data-native"},
	}
}

// Interceptor turns link clicks into router navigations.
type Interceptor struct {
	nav    *Broadcaster
	config InterceptorConfig
	origin *url.URL
	tags   map[string]bool
	ignore []glob.Glob
	logger Logger

	attachOnce sync.Once
	detach     func()
}

func NewInterceptor(nav *Broadcaster, config InterceptorConfig) (*Interceptor, error) {
	if nav == nil {
		nav = DefaultBroadcaster()
	}
	if err := mergo.Merge(&config, DefaultInterceptorConfig()); err != nil {
		return nil, newInterceptorError("failed to apply defaults", err, nil)
	}

	i := &Interceptor{
		nav:    nav,
		config: config,
		tags:   map[string]bool{},
		logger: nav.logger,
	}

	if config.Origin != "" {
		origin, err := url.Parse(config.Origin)
		if err != nil || origin.Scheme == "" || origin.Host == "" {
			return nil, newInterceptorError("origin must be an absolute http(s) url", err, map[string]any{
				"origin": config.Origin,
			})
		}
		i.origin = origin
	}

	for _, tag := range config.LinkTags {
		i.tags[strings.ToLower(tag)] = true
	}

	for _, pattern := range config.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, newInterceptorError("invalid ignore pattern", err, map[string]any{
				"pattern": pattern,
			})
		}
		i.ignore = append(i.ignore, g)
	}

	return i, nil
}

func newInterceptorError(message string, cause error, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(TextCodeInterceptorInvalid).
		WithMetadata(metadata)
}

// Config returns the effective configuration, defaults included.
func (i *Interceptor) Config() InterceptorConfig {
	return i.config
}

// Attach starts handling clicks from src. Only the first call has
// an effect.
func (i *Interceptor) Attach(src ClickSource) {
	i.attachOnce.Do(func() {
		i.detach = src.OnClick(func(ev *ClickEvent) {
			i.HandleClick(ev)
		})
	})
}

// Detach stops handling clicks.
func (i *Interceptor) Detach() {
	if i.detach != nil {
		i.detach()
		i.detach = nil
	}
}

// HandleClick routes the click through the navigator when the link
// is interceptable and a route handled it. It reports whether the
// native navigation was prevented.
func (i *Interceptor) HandleClick(ev *ClickEvent) bool {
	if ev == nil || ev.DefaultPrevented() {
		return false
	}
	if ev.Button != 0 || ev.modified() {
		return false
	}

	link := i.findLink(ev.Target)
	if link == nil || !i.interceptable(link) {
		return false
	}

	href, _ := link.Attr("href")
	target, ok := i.resolve(href)
	if !ok {
		return false
	}

	handled, err := i.nav.Navigate(target, WithSource(SourceLink))
	if err != nil {
		i.logger.Debug("link %q falls back to native navigation: %v", href, err)
		return false
	}
	if !handled {
		return false
	}

	ev.PreventDefault()
	return true
}

func (i *Interceptor) findLink(el Element) Element {
	for el != nil {
		if i.tags[strings.ToLower(el.TagName())] {
			if _, ok := el.Attr("href"); ok {
				return el
			}
		}
		el = el.Parent()
	}
	return nil
}

func (i *Interceptor) interceptable(link Element) bool {
	for _, attr := range i.config.OptOutAttributes {
		if v, ok := link.Attr(attr); ok && v != "false" {
			return false
		}
	}
	if i.config.OptInAttribute != "" {
		v, ok := link.Attr(i.config.OptInAttribute)
		if !ok || v == "false" {
			return false
		}
	}
	if t, ok := link.Attr("target"); ok && t != "" && t != "_self" {
		return false
	}
	if _, ok := link.Attr("download"); ok {
		return false
	}
	return true
}

// resolve returns the navigation URL for href, or false when the
// browser should handle it.
func (i *Interceptor) resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if ref.Scheme != "" || ref.Host != "" {
		if i.origin == nil ||
			!strings.EqualFold(ref.Scheme, i.origin.Scheme) ||
			!strings.EqualFold(ref.Host, i.origin.Host) {
			return "", false
		}
	}

	current, err := url.Parse(i.nav.Current())
	if err != nil {
		return "", false
	}
	next := current.ResolveReference(ref)

	path := next.EscapedPath()
	if path == "" {
		path = "/"
	}
	if next.Fragment != "" && path == current.EscapedPath() && next.RawQuery == current.RawQuery {
		return "", false
	}

	for _, g := range i.ignore {
		if g.Match(path) {
			return "", false
		}
	}

	out := path
	if next.RawQuery != "" {
		out += "?" + next.RawQuery
	}
	if next.Fragment != "" {
		out += "#" + next.EscapedFragment()
	}
	return out, true
}
