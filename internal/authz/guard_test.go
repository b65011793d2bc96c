package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mentora-app/mentora/internal/authz"
	_ "github.com/mentora-app/mentora/testing"
)

func fixedPrincipal(p authz.Principal) authz.PrincipalResolver {
	return func(*http.Request) authz.Principal { return p }
}

func serveGuarded(t *testing.T, guard authz.Guard, target string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	res := httptest.NewRecorder()
	guard.Middleware(next).ServeHTTP(res, req)
	return res
}

func TestGuardPublicPathPassesThrough(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{})

	for _, path := range []string{"/", "/content", "/dashboardx", "/administrator"} {
		res := serveGuarded(t, guard, path)
		if res.Code != http.StatusOK {
			t.Fatalf("path %s: expected 200, got %d", path, res.Code)
		}
	}
}

func TestGuardUnauthenticatedRedirectsToSignIn(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{})

	res := serveGuarded(t, guard, "/dashboard/library?tab=videos")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	loc := res.Header().Get("Location")
	want := "/auth/login?callbackUrl=%2Fdashboard%2Flibrary%3Ftab%3Dvideos"
	if loc != want {
		t.Fatalf("expected redirect to %s, got %s", want, loc)
	}
}

func TestGuardUnauthenticatedAdminRedirectsToSignIn(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{})

	res := serveGuarded(t, guard, "/admin")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/auth/login?callbackUrl=%2Fadmin" {
		t.Fatalf("unexpected redirect: %s", loc)
	}
}

func TestGuardUserOnAdminRouteRedirectsToUnauthorized(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{ID: "7", Role: authz.RoleUser})

	res := serveGuarded(t, guard, "/admin/content")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/unauthorized" {
		t.Fatalf("expected /unauthorized, got %s", loc)
	}
}

func TestGuardUnknownRoleOnAdminRouteRedirectsToUnauthorized(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{ID: "7", Role: "EDITOR"})

	res := serveGuarded(t, guard, "/admin")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/unauthorized" {
		t.Fatalf("expected /unauthorized, got %s", loc)
	}
}

func TestGuardAuthenticatedUserReachesDashboard(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{ID: "7", Role: authz.RoleUser})

	res := serveGuarded(t, guard, "/dashboard")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestGuardAdminReachesAdminRoute(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = fixedPrincipal(authz.Principal{ID: "1", Role: authz.RoleAdmin})

	res := serveGuarded(t, guard, "/admin/users")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestGuardNilResolverTreatsRequestAnonymous(t *testing.T) {
	guard := authz.NewGuard(nil)
	guard.Resolve = nil

	res := serveGuarded(t, guard, "/dashboard")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
}
