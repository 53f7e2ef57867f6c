package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/dinacharya/internal/account"
	"github.com/hyperengineering/dinacharya/internal/api"
	"github.com/hyperengineering/dinacharya/internal/planner"
	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/hyperengineering/dinacharya/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const testAPIKey = "e2e-test-api-key"

// clock is a settable time source shared by the server under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// server is an in-process dinacharya API on a real listener.
type server struct {
	url    string
	apiKey string
	clock  *clock
	store  *store.SQLiteStore
}

// startServer runs the full router against a temp database. Plan generation
// uses the no-op generator, so plans are always the fallback plan.
func startServer(t *testing.T, start time.Time) *server {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "dinacharya.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}

	clk := &clock{now: start}
	prog := progress.NewService(st,
		progress.WithClock(clk.Now),
		progress.WithLocation(time.UTC),
	)
	plans := planner.NewService(planner.Noop{}, time.Second)
	accounts := account.NewService(st, bcrypt.MinCost)
	h := api.NewHandler(st, prog, plans, accounts, testAPIKey, "e2e")

	ts := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(func() {
		ts.Close()
		st.Close()
	})

	return &server{url: ts.URL, apiKey: testAPIKey, clock: clk, store: st}
}

// request sends an authenticated JSON request and decodes a JSON response
// into out when out is non-nil. It returns the status code.
func request(t *testing.T, baseURL, apiKey, method, path string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode %s %s: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s %s: %v", method, path, err)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s %s (%d): %v; body: %s", method, path, resp.StatusCode, err, raw)
		}
	}
	return resp.StatusCode
}

func (s *server) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	return request(t, s.url, s.apiKey, method, path, body, out)
}

// mustDo is do with an expected status.
func (s *server) mustDo(t *testing.T, want int, method, path string, body, out any) {
	t.Helper()
	if got := s.do(t, method, path, body, out); got != want {
		t.Fatalf("%s %s: status %d, want %d", method, path, got, want)
	}
}

func ptr[T any](v T) *T { return &v }

func achievementIDs(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
