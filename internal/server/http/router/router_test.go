package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/cinema/internal/server/http/handlers"
	"github.com/polkiloo/cinema/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/cinema/internal/test"
)

func serve(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSetupBookingsRoutes(t *testing.T) {
	engine := SetupBookings(testhelpers.BookingFacadeStub{}, testhelpers.HealthCheckerStub{}, testLogger())

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/bookings/new", `{"user":1,"movie":2,"date":"2024-01-01"}`, http.StatusOK},
		{http.MethodGet, "/bookings", "", http.StatusOK},
		{http.MethodGet, "/bookings/1", "", http.StatusOK},
		{http.MethodGet, "/admin/bookings/failed", "", http.StatusOK},
		{http.MethodPost, "/admin/sweep", "", http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}
	for _, tc := range cases {
		resp := serve(engine, tc.method, tc.target, tc.body)
		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.want, resp.Code)
		}
		if resp.Header().Get(middleware.RequestIDHeader) == "" {
			t.Fatalf("%s %s: expected request id header", tc.method, tc.target)
		}
	}
}

func TestSetupRewardsRoutes(t *testing.T) {
	engine := SetupRewards(testhelpers.RewardFacadeStub{}, testhelpers.HealthCheckerStub{}, testLogger())

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/rewards", "", http.StatusOK},
		{http.MethodPost, "/rewards/new", `{"user":1}`, http.StatusCreated},
		{http.MethodPost, "/rewards/add_score", `{"user":1,"add_to_score":1}`, http.StatusOK},
		{http.MethodGet, "/rewards/1", "", http.StatusOK},
		{http.MethodGet, "/rewards/prizes/1", "", http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
	}
	for _, tc := range cases {
		if resp := serve(engine, tc.method, tc.target, tc.body); resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.want, resp.Code)
		}
	}
}

func TestSetupUsersRoutes(t *testing.T) {
	engine := SetupUsers(testhelpers.UserFacadeStub{}, testhelpers.HealthCheckerStub{}, testLogger())

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/users", "", http.StatusOK},
		{http.MethodPost, "/users/new", `{"name":"alice"}`, http.StatusCreated},
		{http.MethodGet, "/users/1", "", http.StatusOK},
		{http.MethodGet, "/users/1/bookings", "", http.StatusOK},
		{http.MethodGet, "/users/1/suggested", "", http.StatusNotImplemented},
		{http.MethodGet, "/healthz", "", http.StatusOK},
	}
	for _, tc := range cases {
		if resp := serve(engine, tc.method, tc.target, tc.body); resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.want, resp.Code)
		}
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	engine := SetupUsers(testhelpers.UserFacadeStub{}, testhelpers.HealthCheckerStub{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if !strings.Contains(resp.Header().Get("Content-Encoding"), "gzip") {
		t.Fatalf("expected gzip response, got headers %v", resp.Header())
	}
}

var (
	_ handlers.BookingFacade = testhelpers.BookingFacadeStub{}
	_ handlers.RewardFacade  = testhelpers.RewardFacadeStub{}
	_ handlers.UserFacade    = testhelpers.UserFacadeStub{}
	_ handlers.HealthChecker = testhelpers.HealthCheckerStub{}
)
