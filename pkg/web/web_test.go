package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/notify"
	"github.com/jeevanra/jeevanra/pkg/store"
)

const testEmail = "asha@example.com"

type reply struct {
	status int
	body   string
}

// fakeAPI is a scripted upstream REST API.
type fakeAPI struct {
	mu      sync.Mutex
	replies map[string]reply // "METHOD /path"
	calls   map[string]int
	bodies  map[string]string
	queries map[string]string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		replies: make(map[string]reply),
		calls:   make(map[string]int),
		bodies:  make(map[string]string),
		queries: make(map[string]string),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"email": testEmail,
		"name":  "Asha",
	}).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	f.set("POST /api/auth/login", http.StatusOK, `{"token":"`+token+`"}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls[key]++
		f.bodies[key] = string(body)
		f.queries[key] = r.URL.RawQuery
		rep, ok := f.replies[key]
		f.mu.Unlock()
		if !ok {
			rep = reply{http.StatusNotFound, `{"error":"not found"}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = io.WriteString(w, rep.body)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) set(key string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[key] = reply{status, body}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) body(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func (f *fakeAPI) query(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[key]
}

func newTestServer(t *testing.T, apiURL string, opts ...func(*Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIURL = apiURL
	cfg.MetricsAddr = ""
	cfg.WeatherKey = ""
	cfg.SessionSecret = "a-test-session-secret-of-at-least-32-bytes"
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := New(cfg, Dependencies{Store: store.NewMemory()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.cancel()
	})
	return s, ts
}

// newBrowser returns a client with a cookie jar that does not follow
// redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func signIn(t *testing.T, c *http.Client, base string) {
	t.Helper()
	resp, err := c.PostForm(base+"/login", url.Values{
		"email":       {testEmail},
		"password":    {"secret"},
		"callbackUrl": {"/dashboard"},
	})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	_ = readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("login redirect = %q, want /dashboard", loc)
	}
}

func TestSignInFlow(t *testing.T) {
	api, upstream := newFakeAPI(t)
	s, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)

	signIn(t, c, ts.URL)

	if api.count("POST /api/auth/login") != 1 {
		t.Fatalf("login calls = %d, want 1", api.count("POST /api/auth/login"))
	}
	if got := s.Metrics().SignIns.Load(); got != 1 {
		t.Fatalf("SignIns = %d, want 1", got)
	}

	resp, err := c.Get(ts.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{"Welcome back, Asha", "Login successful!", "Total emissions"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	// The flash toast is shown once.
	resp, err = c.Get(ts.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	if body := readBody(t, resp); strings.Contains(body, "Login successful!") {
		t.Errorf("sign-in toast shown twice")
	}
}

func TestSignInFailure(t *testing.T) {
	api, upstream := newFakeAPI(t)
	api.set("POST /api/auth/login", http.StatusUnauthorized, `{"error":"bad credentials"}`)
	s, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)

	resp, err := c.PostForm(ts.URL+"/login", url.Values{"email": {testEmail}, "password": {"nope"}})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	_ = readBody(t, resp)
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/?callbackUrl=") {
		t.Fatalf("redirect = %q, want landing page", loc)
	}
	if got := s.Metrics().FailedSignIns.Load(); got != 1 {
		t.Fatalf("FailedSignIns = %d, want 1", got)
	}

	resp, err = c.Get(ts.URL + loc)
	if err != nil {
		t.Fatalf("GET landing: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Authentication failed. Please try again.") {
		t.Errorf("landing page missing failure toast")
	}
	if strings.Contains(body, "bad credentials") {
		t.Errorf("upstream detail leaked to the page")
	}
}

func TestProtectedPagesRedirect(t *testing.T) {
	_, upstream := newFakeAPI(t)
	_, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)

	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/?callbackUrl=%2Fdashboard"},
		{"/track?type=diet_vegan", "/?callbackUrl=%2Ftrack%3Ftype%3Ddiet_vegan"},
		{"/challenges/3/leaderboard", "/?callbackUrl=%2Fchallenges%2F3%2Fleaderboard"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := c.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			_ = readBody(t, resp)
			if resp.StatusCode != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", resp.StatusCode)
			}
			if got := resp.Header.Get("Location"); got != tt.want {
				t.Fatalf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeCallback(t *testing.T) {
	tests := map[string]string{
		"/challenges":          "/challenges",
		"/track?type=x":        "/track?type=x",
		"https://evil.example": "/dashboard",
		"//evil.example":       "/dashboard",
		"/\\evil.example":      "/dashboard",
		"":                     "/dashboard",
	}
	for in, want := range tests {
		if got := safeCallback(in, "/dashboard"); got != want {
			t.Errorf("safeCallback(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrackFlow(t *testing.T) {
	api, upstream := newFakeAPI(t)
	api.set("POST /api/track", http.StatusCreated, `{}`)
	s, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	resp, err := c.PostForm(ts.URL+"/track", url.Values{"type": {"commute_car"}, "units": {"10"}})
	if err != nil {
		t.Fatalf("POST /track: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if n := api.count("POST /api/track"); n != 1 {
		t.Fatalf("track calls = %d, want 1", n)
	}

	var sent model.TrackRequest
	if err := json.Unmarshal([]byte(api.body("POST /api/track")), &sent); err != nil {
		t.Fatalf("decode track body: %v", err)
	}
	want := model.TrackRequest{Type: "commute_car", Units: 10, Email: testEmail}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Fatalf("track body mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(body, "Activity tracked successfully!") {
		t.Errorf("missing success toast")
	}
	if !strings.Contains(body, `name="units" step="any" min="0" value=""`) {
		t.Errorf("units input not cleared")
	}
	if got := s.Metrics().ActivitiesTracked.Load(); got != 1 {
		t.Errorf("ActivitiesTracked = %d, want 1", got)
	}
}

func TestTrackFailureKeepsInput(t *testing.T) {
	api, upstream := newFakeAPI(t)
	api.set("POST /api/track", http.StatusInternalServerError, `{"error":"db down"}`)
	_, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	resp, err := c.PostForm(ts.URL+"/track", url.Values{"type": {"commute_car"}, "units": {"10"}})
	if err != nil {
		t.Fatalf("POST /track: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if !strings.Contains(body, "Failed to track activity") {
		t.Errorf("missing error message")
	}
	if !strings.Contains(body, `value="10"`) {
		t.Errorf("units input not preserved")
	}
	if n := api.count("POST /api/track"); n != 1 {
		t.Errorf("track calls = %d, want 1", n)
	}
}

func TestTrackRejectsBadUnits(t *testing.T) {
	api, upstream := newFakeAPI(t)
	_, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	for _, units := range []string{"", "0", "-2", "ten"} {
		resp, err := c.PostForm(ts.URL+"/track", url.Values{"type": {"commute_car"}, "units": {units}})
		if err != nil {
			t.Fatalf("POST /track: %v", err)
		}
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("units %q: status = %d, want 422", units, resp.StatusCode)
		}
		if !strings.Contains(body, "Please enter a valid positive number for units") {
			t.Errorf("units %q: missing validation message", units)
		}
	}
	if n := api.count("POST /api/track"); n != 0 {
		t.Errorf("track calls = %d, want 0", n)
	}
}

func postJSON(t *testing.T, c *http.Client, target string) (*http.Response, membershipResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	var out membershipResponse
	if err := json.Unmarshal([]byte(readBody(t, resp)), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestJoinChallenge(t *testing.T) {
	api, upstream := newFakeAPI(t)
	api.set("POST /api/challenges/7/join", http.StatusOK,
		`{"id":7,"name":"Bike Week","goal":20,"participants":[{"id":1,"name":"Asha","email":"asha@example.com","co2Saved":0}]}`)
	s, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	resp, out := postJSON(t, c, ts.URL+"/challenges/7/join")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if n := api.count("POST /api/challenges/7/join"); n != 1 {
		t.Fatalf("join calls = %d, want 1", n)
	}
	if out.Challenge == nil || !out.Challenge.Participating {
		t.Fatalf("challenge = %+v, want participating", out.Challenge)
	}
	if len(out.Challenge.Participants) != 1 {
		t.Fatalf("participants = %d, want 1", len(out.Challenge.Participants))
	}
	if len(out.Toasts) != 1 || out.Toasts[0].Text != "Joined challenge!" {
		t.Fatalf("toasts = %+v", out.Toasts)
	}
	if got := s.Metrics().ChallengesJoined.Load(); got != 1 {
		t.Errorf("ChallengesJoined = %d, want 1", got)
	}
}

func TestMembershipInvalidID(t *testing.T) {
	api, upstream := newFakeAPI(t)
	_, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	for _, id := range []string{"abc", "0", "-4"} {
		resp, out := postJSON(t, c, ts.URL+"/challenges/"+id+"/leave")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", id, resp.StatusCode)
		}
		if out.Error != "Invalid challenge ID" {
			t.Errorf("id %q: error = %q", id, out.Error)
		}
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	for key, n := range api.calls {
		if strings.Contains(key, "/leave") {
			t.Errorf("%s called %d times", key, n)
		}
	}
}

func TestMembershipRequiresSession(t *testing.T) {
	_, upstream := newFakeAPI(t)
	_, ts := newTestServer(t, upstream.URL)

	resp, _ := postJSON(t, newBrowser(t), ts.URL+"/challenges/7/join")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	_, upstream := newFakeAPI(t)
	s, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	resp, err := c.PostForm(ts.URL+"/logout", nil)
	if err != nil {
		t.Fatalf("POST /logout: %v", err)
	}
	_ = readBody(t, resp)
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("logout redirect = %q, want /", loc)
	}

	resp, err = c.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Successfully signed out") {
		t.Errorf("landing page missing sign-out toast")
	}

	resp, err = c.Get(ts.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	_ = readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("dashboard after logout: status = %d, want 303", resp.StatusCode)
	}
	if got := s.activeSessions(); got != 0 {
		t.Errorf("active sessions = %d, want 0", got)
	}
}

func TestToasterSkipsOriginTab(t *testing.T) {
	_, upstream := newFakeAPI(t)
	s, _ := newTestServer(t, upstream.URL)
	sess := &model.Session{ID: "raw-session-id", Email: testEmail}
	scope := scopeOf(sess)

	var got = map[string][]string{}
	join := func(tab string) {
		s.Hub().Join(scope, tab, notify.DisplayFunc(func(m notify.Message) {
			got[tab] = append(got[tab], m.Text)
		}))
	}
	join("tab-a")
	join("tab-b")
	join("tab-c")

	r := httptest.NewRequest(http.MethodPost, "/track", nil)
	r.Header.Set(tabHeader, "tab-a")
	b, sink := s.toaster(r, sess)
	b.Success("Saved")

	want := map[string][]string{"tab-b": {"Saved"}, "tab-c": {"Saved"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("deliveries mismatch (-want +got):\n%s", diff)
	}
	if len(sink.msgs) != 1 || sink.msgs[0].Text != "Saved" {
		t.Fatalf("origin tab toasts = %+v", sink.msgs)
	}
	if n := s.Metrics().ToastsSent.Load(); n != 1 {
		t.Errorf("ToastsSent = %d, want 1", n)
	}
}

func TestTabSocketReceivesOtherTabsToasts(t *testing.T) {
	api, upstream := newFakeAPI(t)
	api.set("POST /api/track", http.StatusCreated, `{}`)
	s, ts := newTestServer(t, upstream.URL)
	c := newBrowser(t)
	signIn(t, c, ts.URL)

	base, _ := url.Parse(ts.URL)
	header := http.Header{}
	for _, ck := range c.Jar.Cookies(base) {
		header.Add("Cookie", ck.String())
	}
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?tab=" + uuid.NewString()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = resp.Body.Close()
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("tab never joined the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/track",
		strings.NewReader(url.Values{"type": {"commute_car"}, "units": {"2.5"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(tabHeader, uuid.NewString())
	resp, err = c.Do(req)
	if err != nil {
		t.Fatalf("POST /track: %v", err)
	}
	_ = readBody(t, resp)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg notify.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read toast: %v", err)
	}
	if msg.Kind != notify.KindSuccess || msg.Text != "Activity tracked successfully!" {
		t.Fatalf("toast = %+v", msg)
	}
	if msg.Options.Duration != trackedDuration {
		t.Errorf("duration = %d, want %d", msg.Options.Duration, trackedDuration)
	}
}

func TestTabSocketRejects(t *testing.T) {
	_, upstream := newFakeAPI(t)
	_, ts := newTestServer(t, upstream.URL)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?tab=" + uuid.NewString()
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("dial without session succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("response = %v, want 401", resp)
	}
}

func TestTabToast(t *testing.T) {
	tests := []struct {
		name  string
		frame notify.Message
		ok    bool
		text  string
	}{
		{"valid", notify.Message{Kind: notify.KindInfo, Text: "hello"}, true, "hello"},
		{"newlines", notify.Message{Kind: notify.KindInfo, Text: "a\nb\x07"}, true, "a b"},
		{"blank", notify.Message{Kind: notify.KindInfo, Text: "   "}, false, ""},
		{"unknown kind", notify.Message{Kind: "loud", Text: "hi"}, false, ""},
		{"too long", notify.Message{Kind: notify.KindInfo, Text: strings.Repeat("x", maxToastLength+1)}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := tabToast(tt.frame, "tab-a")
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if msg.Text != tt.text || msg.Origin != "tab-a" || msg.ID == "" {
				t.Fatalf("msg = %+v", msg)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	_, upstream := newFakeAPI(t)
	_, ts := newTestServer(t, upstream.URL)

	resp, err := http.Get(ts.URL + "/no/such/page")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body, "Page not found") {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://api.internal:8080")
	t.Setenv(EnvPublicAPIURL, "https://api.example.com")
	t.Setenv(EnvPublicWeather, "pub-key")
	t.Setenv(EnvCookieSecure, "true")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	cfg := DefaultConfig()
	if err := LoadEnv(&cfg, t.TempDir()+"/missing.env"); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	want := DefaultConfig()
	want.APIURL = "https://api.example.com"
	want.WeatherKey = "pub-key"
	want.CookieSecure = true
	want.RedisURL = "redis://localhost:6379/0"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvRejectsBadBool(t *testing.T) {
	t.Setenv(EnvCookieSecure, "maybe")
	cfg := DefaultConfig()
	if err := LoadEnv(&cfg, ""); err == nil {
		t.Fatalf("expected error for bad %s", EnvCookieSecure)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, upstream := newFakeAPI(t)
	s, ts := newTestServer(t, upstream.URL)
	signIn(t, newBrowser(t), ts.URL)

	rec := httptest.NewRecorder()
	s.handleMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		"jeevanra_sign_ins_total 1",
		"jeevanra_sessions_active 1",
		"jeevanra_api_calls_total 1",
		"# TYPE jeevanra_tabs_connected gauge",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
	if js := s.Metrics().JSON(); !strings.Contains(js, `"sign_ins": 1`) {
		t.Errorf("JSON snapshot = %s", js)
	}
}

func TestBars(t *testing.T) {
	got := bars([]float64{1, 4, 2})
	want := []bar{
		{Label: "Mon", Value: 1, Height: 25},
		{Label: "Tue", Value: 4, Height: 100},
		{Label: "Wed", Value: 2, Height: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}
}
