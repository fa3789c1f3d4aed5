// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sage/internal/cache"
	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/suggest"
	"github.com/tomtom215/sage/internal/testinfra"
)

type fakeReports []*evaluation.Report

func (f fakeReports) LatestReports() []*evaluation.Report { return f }

// downStore is a store whose connection check always fails.
type downStore struct{ *graph.MemoryStore }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		MetricsPath:       "/metrics",
		ShutdownTimeout:   time.Second,
		RateLimitDisabled: true,
	}
}

// newTestRouter serves a container: red car and blue car on o1 and o2, tree on o3.
func newTestRouter(t *testing.T, reports ReportSource) (http.Handler, *testinfra.GraphBuilder) {
	t.Helper()

	b := testinfra.NewGraphBuilder(t)
	b.Concept("red", "red car")
	b.Concept("blue", "blue car")
	b.Concept("tree", "tree")
	b.Object("o1")
	b.Object("o2")
	b.Object("o3")
	b.Edge("red", "o1")
	b.Edge("red", "o2")
	b.Edge("blue", "o1")
	b.Edge("tree", "o3")

	engine, err := suggest.NewEngine(b.Store, suggest.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return NewRouter(testServerConfig(), NewHandler(b.Store, engine, reports)), b
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// decode unmarshals the envelope, placing Data into data when non-nil.
func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	var env struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("invalid data %s: %v", env.Data, err)
		}
	}
	return env.APIResponse
}

func TestHealth(t *testing.T) {
	finished := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	router, _ := newTestRouter(t, fakeReports{{ContainerID: 1, Finished: finished}})

	rec := get(t, router, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status HealthStatus
	env := decode(t, rec, &status)
	if env.Status != "success" {
		t.Errorf("envelope status = %q, want success", env.Status)
	}
	if status.Status != "healthy" || !status.StoreReachable || status.Containers != 1 {
		t.Errorf("health = %+v, want healthy with one container", status)
	}
	if status.LastEvaluation == nil || !status.LastEvaluation.Equal(finished) {
		t.Errorf("LastEvaluation = %v, want %v", status.LastEvaluation, finished)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if env.Meta.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("meta request_id = %q, want header value", env.Meta.RequestID)
	}
}

func TestHealthProbes(t *testing.T) {
	up := graph.NewMemoryStore()
	down := downStore{graph.NewMemoryStore()}

	tests := []struct {
		name   string
		store  graph.Store
		path   string
		want   int
		status string
	}{
		{"live", up, "/api/v1/health/live", http.StatusOK, "success"},
		{"live while store down", down, "/api/v1/health/live", http.StatusOK, "success"},
		{"ready", up, "/api/v1/health/ready", http.StatusOK, "ready"},
		{"not ready", down, "/api/v1/health/ready", http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := suggest.NewEngine(tt.store, suggest.DefaultConfig(), zerolog.Nop())
			if err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}
			router := NewRouter(testServerConfig(), NewHandler(tt.store, engine, nil))

			rec := get(t, router, tt.path)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if env := decode(t, rec, nil); env.Status != tt.status {
				t.Errorf("envelope status = %q, want %q", env.Status, tt.status)
			}
		})
	}
}

func TestHealth_DegradedWhenStoreDown(t *testing.T) {
	store := downStore{graph.NewMemoryStore()}
	engine, err := suggest.NewEngine(store, suggest.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	router := NewRouter(testServerConfig(), NewHandler(store, engine, nil))

	var status HealthStatus
	decode(t, get(t, router, "/api/v1/health"), &status)
	if status.Status != "degraded" || status.StoreReachable {
		t.Errorf("health = %+v, want degraded", status)
	}
}

func TestSuggestions(t *testing.T) {
	router, b := newTestRouter(t, nil)
	base := "/api/v1/containers/" + itoa(b.Container.ID)

	rec := get(t, router, base+"/suggestions?item="+b.O("o2").String()+"&algorithm=VotePlus&limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp SuggestionResponse
	decode(t, rec, &resp)
	if resp.Item != b.O("o2").String() {
		t.Errorf("Item = %q, want %q", resp.Item, b.O("o2").String())
	}
	if resp.Algorithm != string(suggest.KindVotePlus) {
		t.Errorf("Algorithm = %q, want VotePlus", resp.Algorithm)
	}
	if len(resp.Suggestions) > 1 {
		t.Errorf("len(Suggestions) = %d, want at most 1", len(resp.Suggestions))
	}
	for _, s := range resp.Suggestions {
		if !strings.HasPrefix(s.Item, "concept:") || s.Label == "" {
			t.Errorf("suggestion = %+v, want a labelled concept", s)
		}
	}
}

func TestSuggestions_SnapshotCache(t *testing.T) {
	b := testinfra.NewGraphBuilder(t)
	b.Concept("red", "red car")
	b.Object("o1")
	b.Object("o2")
	b.Edge("red", "o1")

	engine, err := suggest.NewEngine(b.Store, suggest.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	snapshots := cache.NewSnapshots(b.Store, 4, time.Minute)
	router := NewRouter(testServerConfig(), NewHandler(b.Store, engine, nil).WithSnapshots(snapshots))

	base := "/api/v1/containers/" + itoa(b.Container.ID)
	for i := 0; i < 3; i++ {
		rec := get(t, router, base+"/suggestions?item="+b.O("o2").String())
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d: %s", i, rec.Code, rec.Body.String())
		}
	}
	if rec := get(t, router, base+"/suggestions/text?q=red"); rec.Code != http.StatusOK {
		t.Fatalf("text status = %d: %s", rec.Code, rec.Body.String())
	}

	hits, misses, size := snapshots.Stats()
	if hits != 3 || misses != 1 || size != 1 {
		t.Errorf("Stats() = %d, %d, %d, want 3, 1, 1", hits, misses, size)
	}

	if rec := get(t, router, "/api/v1/containers/999/suggestions?item=object:1"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown container status = %d, want 404", rec.Code)
	}
}

func TestSuggestions_Errors(t *testing.T) {
	router, b := newTestRouter(t, nil)
	base := "/api/v1/containers/" + itoa(b.Container.ID)
	item := b.O("o1").String()

	tests := []struct {
		name   string
		target string
		want   int
		code   string
	}{
		{"missing item", base + "/suggestions", http.StatusBadRequest, CodeValidation},
		{"malformed item", base + "/suggestions?item=o1", http.StatusBadRequest, CodeValidation},
		{"unknown algorithm", base + "/suggestions?item=" + item + "&algorithm=Magic", http.StatusBadRequest, CodeValidation},
		{"zero limit", base + "/suggestions?item=" + item + "&limit=0", http.StatusBadRequest, CodeValidation},
		{"non-numeric limit", base + "/suggestions?item=" + item + "&limit=ten", http.StatusBadRequest, CodeValidation},
		{"non-numeric container", "/api/v1/containers/abc/suggestions?item=" + item, http.StatusBadRequest, CodeValidation},
		{"unknown container", "/api/v1/containers/999/suggestions?item=" + item, http.StatusNotFound, CodeNotFound},
		{"unknown item", base + "/suggestions?item=object:999", http.StatusNotFound, CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, router, tt.target)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			env := decode(t, rec, nil)
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
		})
	}
}

func TestTextSuggestions(t *testing.T) {
	router, b := newTestRouter(t, nil)
	base := "/api/v1/containers/" + itoa(b.Container.ID)

	rec := get(t, router, base+"/suggestions/text?q=red+car")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp SuggestionResponse
	decode(t, rec, &resp)
	if resp.Text != "red car" || resp.Algorithm != string(suggest.KindSAGA) {
		t.Errorf("response = %+v", resp)
	}
	for _, s := range resp.Suggestions {
		if !strings.HasPrefix(s.Item, "object:") {
			t.Errorf("suggestion %q is not an object", s.Item)
		}
	}

	if rec := get(t, router, base+"/suggestions/text"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", rec.Code)
	}
}

func TestContainers(t *testing.T) {
	router, b := newTestRouter(t, nil)

	var containers []graph.Container
	rec := get(t, router, "/api/v1/containers")
	decode(t, rec, &containers)
	if rec.Code != http.StatusOK || len(containers) != 1 || containers[0].ID != b.Container.ID {
		t.Errorf("containers = %d %+v, want the fixture container", rec.Code, containers)
	}

	rec = get(t, router, "/api/v1/containers/"+itoa(b.Container.ID)+"/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var stats struct {
		Statistics struct {
			Objects     int `json:"objects"`
			Concepts    int `json:"concepts"`
			Annotations int `json:"annotations"`
		} `json:"statistics"`
	}
	decode(t, rec, &stats)
	if s := stats.Statistics; s.Objects != 3 || s.Concepts != 3 || s.Annotations != 4 {
		t.Errorf("statistics = %+v, want 3 objects, 3 concepts, 4 annotations", s)
	}

	if rec := get(t, router, "/api/v1/containers/999/stats"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown container stats status = %d, want 404", rec.Code)
	}
}

func TestEvaluations(t *testing.T) {
	vote := evaluation.NewMeasurement("Precision", 0.5, 1)
	reports := fakeReports{
		{RunID: "b", ContainerID: 9, Duration: 2 * time.Second},
		{RunID: "a", ContainerID: 2, Algorithms: []string{"Vote"},
			Results: map[string]map[string]*evaluation.Measurement{"Vote": {"precision": vote}}},
	}
	router, _ := newTestRouter(t, reports)

	var out []EvaluationSummary
	rec := get(t, router, "/api/v1/evaluations")
	decode(t, rec, &out)
	if rec.Code != http.StatusOK || len(out) != 2 {
		t.Fatalf("evaluations = %d %+v, want two", rec.Code, out)
	}
	if out[0].ContainerID != 2 || out[1].ContainerID != 9 {
		t.Errorf("order = [%d %d], want [2 9]", out[0].ContainerID, out[1].ContainerID)
	}
	if got := out[0].Means["Vote"]["precision"]; got != 0.75 {
		t.Errorf("Vote precision mean = %v, want 0.75", got)
	}
	if out[1].DurationMs != 2000 {
		t.Errorf("DurationMs = %d, want 2000", out[1].DurationMs)
	}
}

func TestEvaluations_NoSource(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rec := get(t, router, "/api/v1/evaluations")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []EvaluationSummary
	decode(t, rec, &out)
	if len(out) != 0 {
		t.Errorf("evaluations = %+v, want none", out)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	get(t, router, "/api/v1/health/live")

	rec := get(t, router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sage_http_requests_total") {
		t.Error("metrics output missing sage_http_requests_total")
	}
}
