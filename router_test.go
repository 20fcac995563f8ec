package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/goliatone/go-navrouter"
)

func navigate(t *testing.T, nav *router.Broadcaster, url string) bool {
	t.Helper()
	handled, err := nav.Navigate(url)
	require.NoError(t, err)
	return handled
}

func assertCounts(t *testing.T, c *router.MockComponent, mounts, updates, unmounts int) {
	t.Helper()
	m, u, un := c.Counts()
	assert.Equal(t, mounts, m, "%s mounts", c.Name)
	assert.Equal(t, updates, u, "%s updates", c.Name)
	assert.Equal(t, unmounts, un, "%s unmounts", c.Name)
}

func TestRouter_PathAndDefault(t *testing.T) {
	nav := router.NewBroadcaster()
	foo := router.NewMockComponent("foo")
	fallback := router.NewMockComponent("default")

	r, err := router.NewRouter(router.WithRoutes(
		router.Path("/foo", foo.Factory()),
		router.DefaultRoute(fallback.Factory()),
	))
	require.NoError(t, err)

	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	assertCounts(t, fallback, 1, 0, 0)
	assertCounts(t, foo, 0, 0, 0)

	assert.True(t, navigate(t, nav, "/foo"))
	assertCounts(t, foo, 1, 0, 0)
	assertCounts(t, fallback, 1, 0, 1)

	assert.True(t, navigate(t, nav, "/missing"))
	assertCounts(t, foo, 1, 0, 1)
	assertCounts(t, fallback, 2, 0, 1)
	assert.True(t, fallback.Mounted())
}

func TestRouter_AddsAndRemovesChildren(t *testing.T) {
	nav := router.NewBroadcaster()
	a := router.NewMockComponent("a")
	r := router.MustRouter(router.WithRoutes(router.Path("/foo", a.Factory())))

	root := router.Mount(nav, r.Component())
	defer root.Unmount()
	assertCounts(t, a, 0, 0, 0)

	assert.True(t, navigate(t, nav, "/foo"))
	assertCounts(t, a, 1, 0, 0)

	assert.False(t, navigate(t, nav, "/bar"), "no match is reported as unhandled")
	assertCounts(t, a, 1, 0, 1)

	inst := root.Component().(*router.Instance)
	assert.Nil(t, inst.Child())
	_, ok := inst.Active()
	assert.False(t, ok)
}

func TestRouter_FirstDeclaredMatchWins(t *testing.T) {
	nav := router.NewBroadcaster()
	first := router.NewMockComponent("first")
	second := router.NewMockComponent("second")
	r := router.MustRouter(router.WithRoutes(
		router.Path("/a/:id", first.Factory()),
		router.Path("/a/b", second.Factory()),
	))

	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	for i := 0; i < 3; i++ {
		navigate(t, nav, "/a/b")
		navigate(t, nav, "/")
	}
	assertCounts(t, first, 3, 0, 3)
	assertCounts(t, second, 0, 0, 0)
}

func TestRouter_DefaultNeverPreemptsMatch(t *testing.T) {
	nav := router.NewBroadcaster()
	fallback := router.NewMockComponent("default")
	foo := router.NewMockComponent("foo")
	r := router.MustRouter(router.WithRoutes(
		router.DefaultRoute(fallback.Factory()),
		router.Path("/foo", foo.Factory()),
	))

	root := router.Mount(nav, r.Component())
	defer root.Unmount()
	navigate(t, nav, "/foo")

	assert.True(t, foo.Mounted())
	assert.False(t, fallback.Mounted())
}

func TestRouter_MultipleDefaultsFirstWins(t *testing.T) {
	nav := router.NewBroadcaster()
	first := router.NewMockComponent("first")
	second := router.NewMockComponent("second")
	r, err := router.NewRouter(router.WithRoutes(
		router.DefaultRoute(first.Factory()),
		router.DefaultRoute(second.Factory()),
	))
	require.NoError(t, err)

	root := router.Mount(nav, r.Component())
	defer root.Unmount()
	navigate(t, nav, "/anything")
	navigate(t, nav, "/else")

	assert.True(t, first.Mounted())
	assertCounts(t, second, 0, 0, 0)

	errs := r.Validate()
	require.Len(t, errs, 1)
	assert.True(t, router.HasTextCode(errs[0], router.TextCodeRouteMultipleDefaults))
}

func TestRouter_UpdatesInPlaceWhenParamsChange(t *testing.T) {
	nav := router.NewBroadcaster()
	user := router.NewMockComponent("user")
	r := router.MustRouter(router.WithRoutes(router.Path("/users/:id", user.Factory())))

	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	navigate(t, nav, "/users/1")
	assertCounts(t, user, 1, 0, 0)
	assert.Equal(t, "1", user.LastProps().Param("id"))

	navigate(t, nav, "/users/2?tab=posts")
	assertCounts(t, user, 1, 1, 0)
	props := user.LastProps()
	assert.Equal(t, "2", props.Param("id"))
	assert.Equal(t, "posts", props.Query.Get("tab"))
	assert.Equal(t, "/users/2?tab=posts", props.URL)
	assert.Equal(t, "/users/2", props.Path)
	assert.Same(t, nav, props.Navigator)

	navigate(t, nav, "/users/2?tab=posts")
	assertCounts(t, user, 1, 1, 0)
}

func TestRouter_NestedDefaultRouter(t *testing.T) {
	nav := router.NewBroadcaster()
	x := router.NewMockComponent("x")
	inner := router.MustRouter(router.WithRoutes(router.Path("/x", x.Factory())))
	outer := router.MustRouter(
		router.WithBase("/app"),
		router.WithRoutes(router.Nest(inner).AsDefault()),
	)

	root := router.Mount(nav, outer.Component())
	defer root.Unmount()
	assertCounts(t, x, 0, 0, 0)

	assert.True(t, navigate(t, nav, "/app/x"))
	assertCounts(t, x, 1, 0, 0)
	assert.Equal(t, "/x", x.LastProps().Path)
	assert.Equal(t, "/app", x.LastProps().Base)

	navigate(t, nav, "/other")
	assertCounts(t, x, 1, 0, 1)
	inst := root.Component().(*router.Instance)
	assert.Nil(t, inst.Child(), "a failed base strip never falls back to the default")
}

func TestRouter_NestedRouterWithSiblings(t *testing.T) {
	nav := router.NewBroadcaster()
	x := router.NewMockComponent("x")
	y := router.NewMockComponent("y")
	inner := router.MustRouter(router.WithRoutes(router.Path("/y", y.Factory())))
	outer := router.MustRouter(
		router.WithBase("/app"),
		router.WithRoutes(
			router.Path("/x", x.Factory()),
			router.Nest(inner).AsDefault(),
		),
	)

	root := router.Mount(nav, outer.Component())
	defer root.Unmount()

	navigate(t, nav, "/app/x")
	assertCounts(t, x, 1, 0, 0)
	assertCounts(t, y, 0, 0, 0)

	navigate(t, nav, "/app/y")
	assertCounts(t, x, 1, 0, 1)
	assertCounts(t, y, 1, 0, 0)

	navigate(t, nav, "/app/x")
	assertCounts(t, x, 2, 0, 1)
	assertCounts(t, y, 1, 0, 1)

	navigate(t, nav, "/app/y")
	assertCounts(t, y, 2, 0, 1)

	navigate(t, nav, "/app/z")
	assertCounts(t, y, 2, 0, 2)
	assertCounts(t, x, 2, 0, 2)
}

func TestRouter_NestedBaseComposition(t *testing.T) {
	nav := router.NewBroadcaster()
	x := router.NewMockComponent("x")
	inner := router.MustRouter(
		router.WithBase("/sub"),
		router.WithRoutes(router.Path("/x", x.Factory())),
	)
	outer := router.MustRouter(
		router.WithBase("/app"),
		router.WithRoutes(router.Nest(inner)),
	)

	root := router.Mount(nav, outer.Component())
	defer root.Unmount()

	navigate(t, nav, "/app/sub/x")
	require.True(t, x.Mounted())
	props := x.LastProps()
	assert.Equal(t, "/x", props.Path)
	assert.Equal(t, "/app/sub", props.Base)

	navigate(t, nav, "/app/other/x")
	assert.False(t, x.Mounted())
}

func TestRouter_PatternPrefixBecomesNestedBase(t *testing.T) {
	nav := router.NewBroadcaster()
	user := router.NewMockComponent("user")
	admin := router.MustRouter(router.WithRoutes(router.Path("/users/:id", user.Factory())))
	outer := router.MustRouter(router.WithRoutes(
		router.Nest(admin).At("/admin/:rest*"),
	))

	root := router.Mount(nav, outer.Component())
	defer root.Unmount()

	navigate(t, nav, "/admin/users/7")
	require.True(t, user.Mounted())
	props := user.LastProps()
	assert.Equal(t, "7", props.Param("id"))
	assert.Equal(t, "users/7", props.Param("rest"), "params are inherited from enclosing routes")
	assert.Equal(t, "/admin", props.Base)
	assert.Equal(t, "/users/7", props.Path)

	navigate(t, nav, "/admin/users/8")
	assertCounts(t, user, 1, 1, 0)
}

func TestRouter_GroupClearsPrefix(t *testing.T) {
	nav := router.NewBroadcaster()
	header := router.NewMockComponent("header")
	page := router.NewMockComponent("page")
	inner := router.MustRouter(router.WithRoutes(router.Path("/app/page", page.Factory())))
	outer := router.MustRouter(router.WithRoutes(
		router.Path("/app/:rest*", router.Group(header.Factory(), inner.Component())),
	))

	root := router.Mount(nav, outer.Component())
	defer root.Unmount()

	navigate(t, nav, "/app/page")
	assert.True(t, header.Mounted())
	assert.True(t, page.Mounted())
	assert.Equal(t, "", header.LastProps().Prefix)

	navigate(t, nav, "/elsewhere")
	assert.False(t, header.Mounted())
	assert.False(t, page.Mounted())
}

func TestRouter_OnChange(t *testing.T) {
	nav := router.NewBroadcaster()
	foo := router.NewMockComponent("foo")

	var changes []router.ChangeEvent
	r := router.MustRouter(
		router.WithRoutes(router.Path("/foo", foo.Factory())),
		router.WithOnChange(func(ev router.ChangeEvent) {
			changes = append(changes, ev)
		}),
	)

	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	require.Len(t, changes, 1, "the initial resolution is reported")
	assert.Equal(t, "/", changes[0].URL)
	assert.Equal(t, "", changes[0].Previous)
	assert.False(t, changes[0].Matched)
	changes = nil

	navigate(t, nav, "/foo")
	navigate(t, nav, "/foo")
	navigate(t, nav, "/missing")

	require.Len(t, changes, 2)
	assert.Equal(t, "/foo", changes[0].URL)
	assert.Equal(t, "/", changes[0].Previous)
	assert.True(t, changes[0].Matched)
	require.NotNil(t, changes[0].Active)
	assert.Equal(t, "/foo", changes[0].Active.Path)

	assert.Equal(t, "/missing", changes[1].URL)
	assert.Equal(t, "/foo", changes[1].Previous)
	assert.False(t, changes[1].Matched)
	assert.Nil(t, changes[1].Active)
	assert.Same(t, root.Component(), changes[1].Instance)
}

func TestRouter_OnChangeAtMountSeesSelectedRoute(t *testing.T) {
	nav := router.NewBroadcaster(router.WithHistory(router.NewMemoryHistory("/foo")))
	foo := router.NewMockComponent("foo")

	var changes []router.ChangeEvent
	r := router.MustRouter(
		router.WithRoutes(router.Path("/foo", foo.Factory()).Named("foo")),
		router.WithOnChange(func(ev router.ChangeEvent) {
			changes = append(changes, ev)
		}),
	)
	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	require.Len(t, changes, 1)
	assert.Equal(t, "/foo", changes[0].URL)
	assert.True(t, changes[0].Matched)
	require.NotNil(t, changes[0].Active)
	assert.Equal(t, "foo", changes[0].Active.Name)
	assertCounts(t, foo, 1, 0, 0)
}

func TestRouter_ReentrantNavigationFromMountHook(t *testing.T) {
	nav := router.NewBroadcaster()
	a := router.NewMockComponent("a")
	b := router.NewMockComponent("b")
	a.OnMount = func(router.Props) {
		handled, err := nav.Navigate("/b")
		assert.NoError(t, err)
		assert.True(t, handled)
		assertCounts(t, b, 0, 0, 0)
	}

	r := router.MustRouter(router.WithRoutes(
		router.Path("/a", a.Factory()),
		router.Path("/b", b.Factory()),
	))
	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	assert.True(t, navigate(t, nav, "/a"))

	assertCounts(t, a, 1, 0, 1)
	assertCounts(t, b, 1, 0, 0)
	assert.Equal(t, "/b", nav.Current())
}

func TestRouter_ReentrantNavigationWaitsForScheduler(t *testing.T) {
	queue := router.NewTaskQueue()
	nav := router.NewBroadcaster(router.WithScheduler(queue))
	a := router.NewMockComponent("a")
	b := router.NewMockComponent("b")
	a.OnMount = func(router.Props) {
		_, _ = nav.Navigate("/b")
	}

	r := router.MustRouter(router.WithRoutes(
		router.Path("/a", a.Factory()),
		router.Path("/b", b.Factory()),
	))
	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	navigate(t, nav, "/a")
	assertCounts(t, a, 1, 0, 0)
	assertCounts(t, b, 0, 0, 0)
	assert.Equal(t, "/b", nav.Current())

	queue.Flush()
	assertCounts(t, a, 1, 0, 1)
	assertCounts(t, b, 1, 0, 0)
}

func TestRouter_ChainedNavigationsSettleOnLastIssued(t *testing.T) {
	tests := []struct {
		name      string
		scheduler router.Scheduler
	}{
		{name: "sync scheduler", scheduler: router.SyncScheduler},
		{name: "task queue", scheduler: router.NewTaskQueue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := router.NewBroadcaster(router.WithScheduler(tt.scheduler))
			a := router.NewMockComponent("a")
			b := router.NewMockComponent("b")
			c := router.NewMockComponent("c")
			d := router.NewMockComponent("d")
			a.OnMount = func(router.Props) {
				_, _ = nav.Navigate("/b")
				_, _ = nav.Navigate("/c")
			}
			b.OnMount = func(router.Props) {
				_, _ = nav.Navigate("/d")
			}

			r := router.MustRouter(router.WithRoutes(
				router.Path("/a", a.Factory()),
				router.Path("/b", b.Factory()),
				router.Path("/c", c.Factory()),
				router.Path("/d", d.Factory()),
			))
			root := router.Mount(nav, r.Component())
			defer root.Unmount()

			navigate(t, nav, "/a")
			if queue, ok := tt.scheduler.(*router.TaskQueue); ok {
				queue.Flush()
			}

			assert.Equal(t, "/d", nav.Current())
			assertCounts(t, a, 1, 0, 1)
			assertCounts(t, b, 1, 0, 1)
			assertCounts(t, c, 1, 0, 1)
			assertCounts(t, d, 1, 0, 0)

			inst := root.Component().(*router.Instance)
			assert.Same(t, d, inst.Child())
		})
	}
}

func TestRouter_NavigationDuringInitialMountIsDeferred(t *testing.T) {
	nav := router.NewBroadcaster(router.WithHistory(router.NewMemoryHistory("/a")))
	a := router.NewMockComponent("a")
	b := router.NewMockComponent("b")
	a.OnMount = func(router.Props) {
		_, _ = nav.Navigate("/b", router.WithReplace())
	}

	r := router.MustRouter(router.WithRoutes(
		router.Path("/a", a.Factory()),
		router.Path("/b", b.Factory()),
	))
	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	assertCounts(t, a, 1, 0, 1)
	assertCounts(t, b, 1, 0, 0)
	assert.Equal(t, []string{"/b"}, nav.History().(*router.MemoryHistory).Entries())
}

func TestRouter_HistoryTraversal(t *testing.T) {
	history := router.NewMemoryHistory("/")
	nav := router.NewBroadcaster(router.WithHistory(history))
	defer nav.Close()

	a := router.NewMockComponent("a")
	b := router.NewMockComponent("b")
	r := router.MustRouter(router.WithRoutes(
		router.Path("/a", a.Factory()),
		router.Path("/b", b.Factory()),
	))
	root := router.Mount(nav, r.Component())
	defer root.Unmount()

	navigate(t, nav, "/a")
	navigate(t, nav, "/b")
	require.True(t, history.Back())

	assert.True(t, a.Mounted())
	assert.False(t, b.Mounted())
	assertCounts(t, a, 2, 0, 1)
}

func TestRouter_UnmountUnsubscribes(t *testing.T) {
	nav := router.NewBroadcaster()
	a := router.NewMockComponent("a")
	inner := router.MustRouter(router.WithRoutes(router.Path("/a", a.Factory())))
	outer := router.MustRouter(router.WithRoutes(router.Nest(inner).AsDefault()))

	root := router.Mount(nav, outer.Component())
	navigate(t, nav, "/a")
	assert.Equal(t, 2, nav.Subscribers())

	root.Unmount()
	root.Unmount()
	assert.Equal(t, 0, nav.Subscribers())
	assertCounts(t, a, 1, 0, 1)

	assert.False(t, navigate(t, nav, "/b"))
	navigate(t, nav, "/a")
	assertCounts(t, a, 1, 0, 1)
}

func TestRouter_NestedInstanceIsNotUpdatedTwice(t *testing.T) {
	nav := router.NewBroadcaster()
	page := router.NewMockComponent("page")
	inner := router.MustRouter(router.WithRoutes(router.Path("/pages/:id", page.Factory())))
	outer := router.MustRouter(router.WithRoutes(router.Nest(inner).AsDefault()))

	root := router.Mount(nav, outer.Component())
	defer root.Unmount()

	navigate(t, nav, "/pages/1")
	navigate(t, nav, "/pages/2")
	assertCounts(t, page, 1, 1, 0)
}

func TestRouter_RankedSelection(t *testing.T) {
	nav := router.NewBroadcaster()
	param := router.NewMockComponent("param")
	static := router.NewMockComponent("static")
	routes := router.WithRoutes(
		router.Path("/users/:id", param.Factory()),
		router.Path("/users/new", static.Factory()),
	)

	declared := router.MustRouter(routes)
	res, ok := declared.Resolve("/users/new")
	require.True(t, ok)
	leaf, _ := res.Leaf()
	assert.Equal(t, "/users/:id", leaf.Route.Path)

	ranked := router.MustRouter(routes, router.WithSelectionMode(router.SelectionRanked))
	assert.Equal(t, router.SelectionRanked, ranked.SelectionMode())

	root := router.Mount(nav, ranked.Component())
	defer root.Unmount()

	navigate(t, nav, "/users/new")
	assert.True(t, static.Mounted())
	assert.False(t, param.Mounted())

	navigate(t, nav, "/users/42")
	assert.True(t, param.Mounted())
	assert.False(t, static.Mounted())
}

func TestRouter_InvalidDeclarations(t *testing.T) {
	c := router.NewMockComponent("c").Factory()

	_, err := router.NewRouter(router.WithRoutes(
		router.Path("/:a*/:b*", c),
		router.RouteDefinition{Path: "/x"},
		router.RouteDefinition{Path: "/y", Component: c, Router: router.MustRouter()},
	))
	require.Error(t, err)
	assert.True(t, router.HasTextCode(err, router.TextCodePatternInvalid))
	assert.True(t, router.HasTextCode(err, router.TextCodeRouteInvalid))

	_, err = router.NewRouter(router.WithBase("/:id"))
	assert.True(t, router.HasTextCode(err, router.TextCodeConfigInvalid))

	assert.Panics(t, func() {
		router.MustRouter(router.WithRoutes(router.Path("bad", c)))
	})
}

func TestRouter_Resolve(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	settings := router.MustRouter(
		router.WithBase("/settings"),
		router.WithRoutes(
			router.Path("/:section?", c).Named("settings"),
		),
	)
	users := router.MustRouter(router.WithRoutes(
		router.Path("/:id", c).Named("user"),
		router.Nest(settings),
	))
	r := router.MustRouter(
		router.WithBase("/app"),
		router.WithRoutes(
			router.Nest(users).At("/users/:rest*").Named("users"),
			router.DefaultRoute(c).Named("missing"),
		),
	)

	res, ok := r.Resolve("/app/users/42?x=1")
	require.True(t, ok)
	require.Len(t, res.Chain, 2)
	assert.Equal(t, "users", res.Chain[0].Route.Name)
	assert.Equal(t, "/app", res.Chain[0].Base)
	assert.Equal(t, "/users/42", res.Chain[0].Path)
	assert.Equal(t, "user", res.Chain[1].Route.Name)
	assert.Equal(t, "/app/users", res.Chain[1].Base)
	assert.Equal(t, "/42", res.Chain[1].Path)
	assert.Equal(t, router.Params{"rest": "42", "id": "42"}, res.Params())

	res, ok = r.Resolve("/app/users/settings/profile")
	require.True(t, ok)
	require.Len(t, res.Chain, 3)
	leaf, _ := res.Leaf()
	assert.Equal(t, "settings", leaf.Route.Name)
	assert.Equal(t, "/app/users/settings", leaf.Base)
	assert.Equal(t, "profile", leaf.Params["section"])

	res, ok = r.Resolve("/app/nope/deeper")
	require.True(t, ok)
	leaf, _ = res.Leaf()
	assert.True(t, leaf.Default)
	assert.Equal(t, "missing", leaf.Route.Name)

	res, ok = r.Resolve("/elsewhere")
	assert.False(t, ok)
	assert.Empty(t, res.Chain)
}

func TestRouter_RoutesAndBase(t *testing.T) {
	c := router.NewMockComponent("c").Factory()
	r := router.MustRouter(
		router.WithBase("/app/"),
		router.WithRoutes(router.Path("/a", c), router.DefaultRoute(c)),
	)

	assert.Equal(t, "/app", r.Base())
	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/a", routes[0].Path)
	require.NotNil(t, routes[0].Matcher())
	assert.Nil(t, routes[1].Matcher())

	routes[0].Path = "/changed"
	assert.Equal(t, "/a", r.Routes()[0].Path)
}
