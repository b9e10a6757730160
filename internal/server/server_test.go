package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/treeprint/pkg/buildinfo"
	"github.com/matzehuels/treeprint/pkg/cache"
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/observability"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(fc, opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func sampleBody(t *testing.T, extra map[string]any) []byte {
	t.Helper()
	body := map[string]any{"records": family.Sample()}
	for k, v := range extra {
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func post(t *testing.T, ts *httptest.Server, path string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

// =============================================================================
// Meta endpoints
// =============================================================================

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("missing request id")
	}
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var info buildinfo.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != buildinfo.Version {
		t.Errorf("version = %q, want %q", info.Version, buildinfo.Version)
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t, Options{})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/v2/nothing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != "NOT_FOUND" || e.RequestID == "" {
		t.Errorf("error = %+v", e)
	}
}

// =============================================================================
// Layout
// =============================================================================

func TestLayout(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := post(t, ts, "/v1/layout", sampleBody(t, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, decodeError(t, resp))
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("first request X-Cache = %q", resp.Header.Get("X-Cache"))
	}

	var l graph.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatal(err)
	}
	if l.VizType != graph.VizTypeTree || len(l.Nodes) != 14 || len(l.Connectors) != 4 {
		t.Errorf("layout = %s with %d nodes, %d connectors", l.VizType, len(l.Nodes), len(l.Connectors))
	}
	if l.Width != 450 || l.Height != 280 {
		t.Errorf("frame = %dx%d, want 450x280", l.Width, l.Height)
	}

	again := post(t, ts, "/v1/layout", sampleBody(t, nil))
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second request X-Cache = %q", again.Header.Get("X-Cache"))
	}
}

func TestLayoutErrors(t *testing.T) {
	twoRoots := map[string]any{"records": family.Records{Persons: []family.Person{
		{ID: 1, Name: "A", Sex: family.Male},
		{ID: 2, Name: "B", Sex: family.Female},
	}}}
	twoRootsBody, _ := json.Marshal(twoRoots)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty body", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"not json", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"no records", `{"viz_type":"tree"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"records":{"persons":[]},"colour":"red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad viz type", string(sampleBody(t, map[string]any{"viz_type": "tower"})), http.StatusBadRequest, "INVALID_VIZ_TYPE"},
		{"negative box", string(sampleBody(t, map[string]any{"layout": map[string]int{"box_width": -1}})), http.StatusBadRequest, "INVALID_CONFIG"},
		{"two roots", string(twoRootsBody), http.StatusUnprocessableEntity, "MALFORMED_INPUT"},
	}

	ts := newTestServer(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/layout", []byte(tt.body))
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decodeError(t, resp); e.Code != tt.code {
				t.Errorf("code = %s (%s), want %s", e.Code, e.Message, tt.code)
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, Options{MaxBodyBytes: 64})

	resp := post(t, ts, "/v1/layout", sampleBody(t, nil))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

// =============================================================================
// Render
// =============================================================================

func TestRenderFormats(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", `"viz_type"`},
		{"txt", "text/plain; charset=utf-8", "╭"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, ts, "/v1/render?format="+tt.format, sampleBody(t, nil))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %v", resp.StatusCode, decodeError(t, resp))
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q", got)
			}
			var buf bytes.Buffer
			buf.ReadFrom(resp.Body)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("body lacks %q", tt.contains)
			}
		})
	}
}

func TestRenderFormatFromBody(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := post(t, ts, "/v1/render", sampleBody(t, map[string]any{"formats": []string{"txt"}}))
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q", got)
	}

	resp = post(t, ts, "/v1/render", sampleBody(t, map[string]any{"formats": []string{"svg", "txt"}}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("two formats: status = %d", resp.StatusCode)
	}
}

func TestRenderRejects(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name  string
		query string
		extra map[string]any
		code  string
	}{
		{"bad format", "?format=gif", nil, "INVALID_FORMAT"},
		{"bad style", "?format=svg", map[string]any{"style": "neon"}, "INVALID_STYLE"},
		{"text for nodelink", "?format=txt", map[string]any{"viz_type": "nodelink"}, "UNSUPPORTED"},
		{"dot for tree", "?format=dot", nil, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/render"+tt.query, sampleBody(t, tt.extra))
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if e := decodeError(t, resp); e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestVisualize(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := post(t, ts, "/v1/layout", sampleBody(t, nil))
	var layoutJSON bytes.Buffer
	layoutJSON.ReadFrom(resp.Body)

	svg := post(t, ts, "/v1/visualize?format=svg&style=simple&pan_zoom=true", layoutJSON.Bytes())
	if svg.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", svg.StatusCode, decodeError(t, svg))
	}
	var body bytes.Buffer
	body.ReadFrom(svg.Body)
	if !strings.Contains(body.String(), "<script") || !strings.Contains(body.String(), "#FFFFFF") {
		t.Error("visualize ignored style or pan_zoom")
	}

	bad := post(t, ts, "/v1/visualize", []byte(`{"viz_type":`))
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid layout: status = %d", bad.StatusCode)
	}
}

func TestOversizedInput(t *testing.T) {
	ts := newTestServer(t, Options{})

	farNodes := `{"width":20040,"height":20040,"nodes":[` +
		`{"index":0,"kind":"person","name":"A"},` +
		`{"index":1,"kind":"person","name":"B","x":20000,"y":20000}]}`
	farConnector := `{"width":40,"height":40,"nodes":[{"index":0,"kind":"person","name":"A"}],` +
		`"connectors":[{"from":0,"segments":[{"op":"M","to":{"x":0,"y":0}},{"op":"L","to":{"x":1000000000,"y":0}}]}]}`

	tests := []struct {
		name string
		path string
		body []byte
		code string
	}{
		{"render box width", "/v1/render?format=txt", sampleBody(t, map[string]any{"layout": map[string]int{"box_width": 1 << 30}}), "INVALID_CONFIG"},
		{"render origin", "/v1/render?format=svg", sampleBody(t, map[string]any{"layout": map[string]int{"origin_x": 1 << 30}}), "INVALID_CONFIG"},
		{"visualize far connector", "/v1/visualize?format=txt", []byte(farConnector), "INVALID_INPUT"},
		{"visualize far nodes as text", "/v1/visualize?format=txt", []byte(farNodes), "INVALID_INPUT"},
		{"visualize far nodes as png", "/v1/visualize?format=png", []byte(farNodes), "INVALID_INPUT"},
		{"visualize huge box", "/v1/visualize?format=txt", []byte(`{"config":{"box_width":1000000},"nodes":[{"index":0}]}`), "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if e := decodeError(t, resp); e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

// =============================================================================
// Hooks and lifecycle
// =============================================================================

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
	h.status = append(h.status, status)
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	ts := newTestServer(t, Options{})
	post(t, ts, "/v1/layout", sampleBody(t, nil))

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "POST /v1/layout" || hooks.status[0] != http.StatusOK {
		t.Errorf("hooks saw %v %v", hooks.routes, hooks.status)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(errBodyTooLarge); got != http.StatusRequestEntityTooLarge {
		t.Errorf("body too large = %d", got)
	}
	if got := statusFor(context.Canceled); got != http.StatusInternalServerError {
		t.Errorf("plain error = %d", got)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(nil, Options{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
