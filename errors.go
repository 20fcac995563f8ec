package router

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to every error produced by this package.
const (
	TextCodePatternInvalid        = "PATTERN_INVALID"
	TextCodeRouteInvalid          = "ROUTE_INVALID"
	TextCodeInvalidURL            = "INVALID_URL"
	TextCodeRouteDuplicate        = "ROUTE_DUPLICATE"
	TextCodeRouteShadowed         = "ROUTE_SHADOWED"
	TextCodeRouteMultipleDefaults = "ROUTE_MULTIPLE_DEFAULTS"
	TextCodeComponentNotFound     = "COMPONENT_NOT_FOUND"
	TextCodeConfigInvalid         = "CONFIG_INVALID"
	TextCodeInterceptorInvalid    = "INTERCEPTOR_INVALID"
	TextCodeParamInvalid          = "PARAM_INVALID"
)

func newPatternError(pattern, reason string, segment int) error {
	metadata := map[string]any{
		"pattern": pattern,
		"reason":  reason,
	}
	if segment >= 0 {
		metadata["segment_index"] = segment
	}

	return goerrors.New(fmt.Sprintf("invalid route pattern %q: %s", pattern, reason), goerrors.CategoryValidation).
		WithTextCode(TextCodePatternInvalid).
		WithMetadata(metadata)
}

func newRouteError(route RouteDefinition, reason string) error {
	return goerrors.New(fmt.Sprintf("invalid route %s: %s", route.label(), reason), goerrors.CategoryValidation).
		WithTextCode(TextCodeRouteInvalid).
		WithMetadata(map[string]any{
			"name":    route.Name,
			"path":    route.Path,
			"default": route.Default,
			"reason":  reason,
		})
}

// newBuildError wraps a declaration error with the builder entry it
// came from. Joined causes are wrapped one by one and keep their text
// codes.
func newBuildError(kind, label string, cause error) error {
	if joined, ok := cause.(interface{ Unwrap() []error }); ok {
		var errs error
		for _, err := range joined.Unwrap() {
			errs = errors.Join(errs, newBuildError(kind, label, err))
		}
		return errs
	}
	return goerrors.Wrap(cause, goerrors.CategoryValidation, fmt.Sprintf("failed to build %s %s", kind, label))
}

func newEmptyBuilderError() error {
	return goerrors.New("no routes to build", goerrors.CategoryValidation).
		WithTextCode(TextCodeRouteInvalid).
		WithMetadata(map[string]any{
			"reason": "builder has no routes",
		})
}

func newParamError(name, reason string, cause error) error {
	message := "cannot bind params: " + reason
	if name != "" {
		message = fmt.Sprintf("cannot bind param %q: %s", name, reason)
	}
	metadata := map[string]any{
		"param":  name,
		"reason": reason,
	}
	if cause == nil {
		return goerrors.New(message, goerrors.CategoryValidation).
			WithTextCode(TextCodeParamInvalid).
			WithMetadata(metadata)
	}
	return goerrors.Wrap(cause, goerrors.CategoryValidation, message).
		WithTextCode(TextCodeParamInvalid).
		WithMetadata(metadata)
}

func newNavigationError(url, reason string) error {
	return goerrors.New(fmt.Sprintf("invalid navigation url %q: %s", url, reason), goerrors.CategoryValidation).
		WithTextCode(TextCodeInvalidURL).
		WithMetadata(map[string]any{
			"url":    url,
			"reason": reason,
		})
}

func newConfigError(message string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(TextCodeConfigInvalid).
		WithMetadata(metadata)
}

func newComponentNotFoundError(name, path string) error {
	return goerrors.New(fmt.Sprintf("component %q not found in registry", name), goerrors.CategoryValidation).
		WithTextCode(TextCodeComponentNotFound).
		WithMetadata(map[string]any{
			"component": name,
			"path":      path,
		})
}

// HasTextCode reports whether err, or any error it wraps or joins,
// is a router error with the given text code.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if errors.As(err, &rich) && rich.TextCode == code {
		return true
	}
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if HasTextCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasTextCode(e.Unwrap(), code)
	}
	return false
}
