package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/goliatone/go-navrouter"
)

func TestValidate_ShadowedRouteDependsOnSelectionMode(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	routes := router.WithRoutes(
		router.Path("/admin/content/:name/:id", c),
		router.Path("/admin/content/:name/new", c),
	)

	declared := router.MustRouter(routes)
	errs := declared.Validate()
	require.Len(t, errs, 1)
	assert.True(t, router.HasTextCode(errs[0], router.TextCodeRouteShadowed))
	assert.Contains(t, errs[0].Error(), "/admin/content/:name/new")

	ranked := router.MustRouter(routes, router.WithSelectionMode(router.SelectionRanked))
	assert.Empty(t, ranked.Validate())
}

func TestValidate_DuplicatesConflictInEveryMode(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	for _, mode := range []router.SelectionMode{router.SelectionDeclared, router.SelectionRanked} {
		t.Run(mode.String(), func(t *testing.T) {
			r := router.MustRouter(
				router.WithSelectionMode(mode),
				router.WithRoutes(
					router.Path("/users/:id", c),
					router.Path("/users/:id", c),
				),
			)
			errs := r.Validate()
			require.Len(t, errs, 1)
			assert.True(t, router.HasTextCode(errs[0], router.TextCodeRouteDuplicate))
		})
	}
}

func TestValidate_CatchAllShadowsEverySelectionMode(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	r := router.MustRouter(router.WithRoutes(
		router.Path("/files/:path*", c),
		router.Path("/files/:name", c),
		router.Path("/files/readme", c),
	))

	errs := r.Validate()
	assert.Len(t, errs, 3)
	for _, err := range errs {
		assert.True(t, router.HasTextCode(err, router.TextCodeRouteShadowed))
	}

	ranked := router.MustRouter(
		router.WithSelectionMode(router.SelectionRanked),
		router.WithRoutes(
			router.Path("/files/:path*", c),
			router.Path("/files/:name", c),
			router.Path("/files/readme", c),
		),
	)
	assert.Empty(t, ranked.Validate())
}

func TestValidate_DuplicateNamesAndNestedRouters(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	nested := router.MustRouter(
		router.WithBase("/admin"),
		router.WithRoutes(
			router.DefaultRoute(c),
			router.DefaultRoute(c),
		),
	)
	r := router.MustRouter(router.WithRoutes(
		router.Path("/a", c).Named("page"),
		router.Path("/b", c).Named("page"),
		router.Nest(nested),
	))

	errs := r.Validate()
	require.Len(t, errs, 2)
	assert.True(t, router.HasTextCode(errs[0], router.TextCodeRouteDuplicate))
	assert.True(t, router.HasTextCode(errs[1], router.TextCodeRouteMultipleDefaults))
}

func TestValidate_CleanTable(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	r := router.MustRouter(router.WithRoutes(
		router.Path("/", c),
		router.Path("/users/new", c),
		router.Path("/users/:id", c),
		router.Path("/users/:id/:tab?", c),
		router.DefaultRoute(c),
	))
	assert.Empty(t, r.Validate())
}
