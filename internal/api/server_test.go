package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/broker"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
	"github.com/talgya/tramp-freighter/internal/navigation"
	"github.com/talgya/tramp-freighter/internal/persistence"
	"github.com/talgya/tramp-freighter/internal/state"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, tun := galaxy.Default(), balance.Default()
	store := state.New(state.Options{Catalog: cat, Tuning: tun, Storage: persistence.NewMemory(), Seed: 11})
	nav := navigation.New(cat, tun)
	srv := NewServer(store, nav, broker.New(cat, store.Pricer(), tun, nil), 0)

	ctx, cancel := context.WithCancel(context.Background())
	go srv.Hub.Run(ctx)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestQueryBeforeGame_Conflict(t *testing.T) {
	ts := newTestServer(t)
	if resp := get(t, ts, "/api/v1/player"); resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if resp := get(t, ts, "/api/v1/galaxy"); resp.StatusCode != http.StatusOK {
		t.Fatalf("galaxy status = %d, want 200", resp.StatusCode)
	}
}

func TestNewGameDockBuy(t *testing.T) {
	ts := newTestServer(t)
	if resp := post(t, ts, "/api/v1/game/new", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("new game status = %d", resp.StatusCode)
	}
	if r := decodeBody[state.Result](t, post(t, ts, "/api/v1/dock", nil)); !r.Success {
		t.Fatalf("dock = %+v", r)
	}

	r := decodeBody[state.Result](t, post(t, ts, "/api/v1/buy", map[string]any{"good": "grain", "qty": 10, "price": 2}))
	if !r.Success {
		t.Fatalf("buy = %+v", r)
	}
	p := decodeBody[model.Player](t, get(t, ts, "/api/v1/player"))
	if p.Credits != 480 {
		t.Fatalf("credits = %d, want 480", p.Credits)
	}

	r = decodeBody[state.Result](t, post(t, ts, "/api/v1/buy", map[string]any{"good": "grain", "qty": 1000, "price": 2}))
	if r.Success || r.Reason != "Insufficient credits" {
		t.Fatalf("oversized buy = %+v", r)
	}
	if resp := post(t, ts, "/api/v1/buy", map[string]any{"good": "spice", "qty": 1, "price": 1}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown good status = %d, want 400", resp.StatusCode)
	}
}

func TestJump(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/api/v1/game/new", nil)

	v := decodeBody[navigation.JumpValidation](t, get(t, ts, "/api/v1/jump/1"))
	if !v.Valid || v.JumpTime < 1 {
		t.Fatalf("validation = %+v", v)
	}
	v = decodeBody[navigation.JumpValidation](t, get(t, ts, "/api/v1/jump/13"))
	if v.Valid || v.Error != navigation.ReasonNoConnection {
		t.Fatalf("validation = %+v", v)
	}

	res := decodeBody[navigation.JumpResult](t, post(t, ts, "/api/v1/jump", map[string]int{"target": 1}))
	if !res.Success {
		t.Fatalf("jump = %+v", res)
	}
	p := decodeBody[model.Player](t, get(t, ts, "/api/v1/player"))
	if p.CurrentSystem != 1 || p.DaysElapsed != res.JumpTime {
		t.Fatalf("player = %+v", p)
	}
}

func TestWebSocket_ForwardsStoreEvents(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/api/v1/game/new", nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		return m
	}
	if m := read(); m.Type != "hello" {
		t.Fatalf("first message = %q, want hello", m.Type)
	}

	post(t, ts, "/api/v1/buy", map[string]any{"good": "ore", "qty": 2, "price": 5})

	seen := map[string]bool{}
	for !seen[state.CreditsChanged.Name()] || !seen[state.CargoChanged.Name()] {
		m := read()
		seen[m.Type] = true
		if m.Type == state.CreditsChanged.Name() && m.Payload != float64(490) {
			t.Fatalf("credits payload = %v, want 490", m.Payload)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	clock := time.Unix(0, 0)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests refused")
	}
	if rl.Allow("a") {
		t.Fatal("third request allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("other client throttled")
	}
	if got := rl.RetryAfter("a"); got != 61 {
		t.Fatalf("RetryAfter = %d, want 61", got)
	}
	clock = clock.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("window did not reset")
	}

	if unlimited := NewRateLimiter(0, time.Minute); !unlimited.Allow("a") {
		t.Fatal("disabled limiter refused")
	}
}
