// Package api is the local bridge between the simulation core and its UI.
// GET endpoints are queries, POST endpoints are player actions, and /ws
// streams every store event.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/talgya/tramp-freighter/internal/broker"
	"github.com/talgya/tramp-freighter/internal/economy"
	"github.com/talgya/tramp-freighter/internal/navigation"
	"github.com/talgya/tramp-freighter/internal/ship"
	"github.com/talgya/tramp-freighter/internal/state"
)

// Server serves the game over HTTP. All store access is serialised by mu, so
// the core stays single-threaded.
type Server struct {
	Store      *state.Store
	Nav        *navigation.Navigator
	Broker     *broker.Broker
	Hub        *Hub
	Port       int
	Origins    []string // extra CORS origins; localhost dev servers are always allowed
	ActionRate int      // POST requests per minute per client; 0 disables

	mu sync.Mutex
}

// NewServer wires a server to the store and subscribes the hub to every
// store event.
func NewServer(store *state.Store, nav *navigation.Navigator, b *broker.Broker, port int) *Server {
	s := &Server{Store: store, Nav: nav, Broker: b, Hub: NewHub(), Port: port}
	store.Bus().Tap(s.Hub.Publish)
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	actions := NewRateLimiter(s.ActionRate, time.Minute)
	post := func(fn http.HandlerFunc) http.HandlerFunc { return RateLimitMiddleware(actions, fn) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/state", s.query(func() any { return s.Store.State() }))
	mux.HandleFunc("GET /api/v1/player", s.query(func() any { return s.Store.Player() }))
	mux.HandleFunc("GET /api/v1/ship", s.query(func() any { return s.Store.Ship() }))
	mux.HandleFunc("GET /api/v1/ship/stats", s.query(func() any { return s.Store.Stats() }))
	mux.HandleFunc("GET /api/v1/system", s.query(func() any { return s.Store.CurrentSystem() }))
	mux.HandleFunc("GET /api/v1/cargo", s.query(s.cargo))
	mux.HandleFunc("GET /api/v1/prices", s.query(func() any { return s.Store.CurrentSystemPrices() }))
	mux.HandleFunc("GET /api/v1/fuel-price", s.query(func() any {
		return map[string]int{"price": s.Store.Pricer().FuelPrice(s.Store.CurrentSystem())}
	}))
	mux.HandleFunc("GET /api/v1/knowledge", s.query(func() any { return s.Store.PriceKnowledge() }))
	mux.HandleFunc("GET /api/v1/events", s.query(func() any { return s.Store.ActiveEvents() }))
	mux.HandleFunc("GET /api/v1/galaxy", s.handleGalaxy)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/v1/npc/{id}", s.handleNPC)
	mux.HandleFunc("GET /api/v1/jump/{target}", s.handleValidateJump)
	mux.HandleFunc("GET /api/v1/intel", s.action(func(*http.Request) (any, error) {
		return s.Broker.ListAvailableIntelligence(s.Store)
	}))
	mux.HandleFunc("GET /api/v1/rumor", s.query(func() any {
		return map[string]string{"rumor": s.Broker.GenerateRumor(s.Store)}
	}))
	mux.HandleFunc("GET /api/v1/animating", s.handleAnimating)

	mux.HandleFunc("POST /api/v1/game/new", post(s.action(func(*http.Request) (any, error) {
		if err := s.Store.NewGame(); err != nil {
			return nil, err
		}
		return s.Store.State(), nil
	})))
	mux.HandleFunc("POST /api/v1/game/load", post(s.action(func(*http.Request) (any, error) {
		return map[string]bool{"loaded": s.Store.LoadGame()}, nil
	})))
	mux.HandleFunc("POST /api/v1/game/save", post(s.action(func(*http.Request) (any, error) {
		return state.Result{Success: true}, s.Store.ForceSave()
	})))
	mux.HandleFunc("POST /api/v1/game/clear", post(s.action(func(*http.Request) (any, error) {
		return state.Result{Success: true}, s.Store.ClearSave()
	})))
	mux.HandleFunc("POST /api/v1/dock", post(s.action(func(*http.Request) (any, error) {
		return s.Store.Dock(), nil
	})))
	mux.HandleFunc("POST /api/v1/undock", post(s.action(func(*http.Request) (any, error) {
		return s.Store.Undock(), nil
	})))
	mux.HandleFunc("POST /api/v1/buy", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Good  string `json:"good"`
			Qty   int    `json:"qty"`
			Price int    `json:"price"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Store.BuyGood(req.Good, req.Qty, req.Price)
	})))
	mux.HandleFunc("POST /api/v1/sell", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Index int `json:"index"`
			Qty   int `json:"qty"`
			Price int `json:"price"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Store.SellGood(req.Index, req.Qty, req.Price)
	})))
	mux.HandleFunc("POST /api/v1/refuel", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Amount float64 `json:"amount"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Store.Refuel(req.Amount), nil
	})))
	mux.HandleFunc("POST /api/v1/repair", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			System string  `json:"system"`
			Amount float64 `json:"amount"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Store.RepairShipSystem(req.System, req.Amount)
	})))
	mux.HandleFunc("POST /api/v1/upgrade", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			ID string `json:"id"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Store.PurchaseUpgrade(req.ID)
	})))
	mux.HandleFunc("POST /api/v1/cargo/hide", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[moveRequest](r)
		if err != nil {
			return nil, err
		}
		return s.Store.MoveToHiddenCargo(req.Index, req.Qty)
	})))
	mux.HandleFunc("POST /api/v1/cargo/unhide", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[moveRequest](r)
		if err != nil {
			return nil, err
		}
		return s.Store.MoveToRegularCargo(req.Index, req.Qty)
	})))
	mux.HandleFunc("POST /api/v1/ship/name", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Name string `json:"name"`
		}](r)
		if err != nil {
			return nil, err
		}
		return map[string]string{"name": s.Store.UpdateShipName(req.Name)}, nil
	})))
	mux.HandleFunc("POST /api/v1/debt", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Amount int `json:"amount"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Store.PayDebt(req.Amount), nil
	})))
	mux.HandleFunc("POST /api/v1/intel", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			SystemID int `json:"systemId"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Broker.PurchaseIntelligence(s.Store, req.SystemID)
	})))
	mux.HandleFunc("POST /api/v1/jump", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Target int `json:"target"`
		}](r)
		if err != nil {
			return nil, err
		}
		return s.Nav.ExecuteJump(r.Context(), s.Store, req.Target, navigation.Hooks{
			UI: func(_ context.Context, res navigation.JumpResult) { s.Hub.Publish("jumpCompleted", res) },
		})
	})))
	mux.HandleFunc("POST /api/v1/npc/{id}/rep", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Delta int `json:"delta"`
		}](r)
		if err != nil {
			return nil, err
		}
		rep := s.Store.ModifyRep(r.PathValue("id"), req.Delta)
		return map[string]any{"rep": rep, "tier": state.RepTier(rep)}, nil
	})))
	mux.HandleFunc("POST /api/v1/npc/{id}/flag", post(s.action(func(r *http.Request) (any, error) {
		req, err := decode[struct {
			Flag string `json:"flag"`
		}](r)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"added": s.Store.SetNPCFlag(r.PathValue("id"), req.Flag)}, nil
	})))

	mux.HandleFunc("GET /ws", s.Hub.ServeWs)

	return corsMiddleware(s.Origins, mux)
}

// Start runs the hub and serves HTTP until ctx is cancelled.
func (s *Server) Start(ctx context.Context) *http.Server {
	go s.Hub.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP bridge starting", "addr", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv
}

// Save writes the current game immediately, bypassing the debounce. It is a
// no-op before a game exists.
func (s *Server) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Store.Initialized() {
		return nil
	}
	return s.Store.ForceSave()
}

type moveRequest struct {
	Index int `json:"index"`
	Qty   int `json:"qty"`
}

// query wraps a read that cannot fail except by being made before a game
// exists.
func (s *Server) query(fn func() any) http.HandlerFunc {
	return s.action(func(*http.Request) (any, error) { return fn(), nil })
}

// action runs fn under the store lock. Errors are caller bugs and map to
// 400; a store with no game maps to 409.
func (s *Server) action(fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		defer func() {
			if rec := recover(); rec != nil {
				if err, ok := rec.(error); ok && errors.Is(err, state.ErrNotInitialized) {
					writeError(w, http.StatusConflict, err)
					return
				}
				panic(rec)
			}
		}()

		v, err := fn(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, v)
	}
}

func (s *Server) cargo() any {
	return map[string]any{
		"cargo":                s.Store.Ship().Cargo,
		"hiddenCargo":          s.Store.Ship().HiddenCargo,
		"cargoUsed":            s.Store.CargoUsed(),
		"cargoRemaining":       s.Store.CargoRemaining(),
		"hiddenCargoUsed":      s.Store.HiddenCargoUsed(),
		"hiddenCargoRemaining": s.Store.HiddenCargoRemaining(),
		"fuelCapacity":         s.Store.FuelCapacity(),
	}
}

// handleGalaxy returns the static catalog with adjacency. It works before a
// game exists.
func (s *Server) handleGalaxy(w http.ResponseWriter, r *http.Request) {
	type systemEntry struct {
		ID        int     `json:"id"`
		Name      string  `json:"name"`
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
		Z         float64 `json:"z"`
		Type      string  `json:"type"`
		TechLevel float64 `json:"techLevel"`
		Station   bool    `json:"station"`
		Connected []int   `json:"connected"`
	}
	cat := s.Store.Catalog()
	out := make([]systemEntry, 0, cat.Len())
	for _, sys := range cat.Systems() {
		out = append(out, systemEntry{
			ID: sys.ID, Name: sys.Name, X: sys.X, Y: sys.Y, Z: sys.Z,
			Type: sys.Type, TechLevel: sys.TechLevel, Station: sys.Station,
			Connected: cat.Connected(sys.ID),
		})
	}
	writeJSON(w, out)
}

// handleCatalog lists the goods, upgrades, quirks and event types.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"goods":      economy.Commodities(),
		"upgrades":   ship.Upgrades(),
		"quirks":     ship.Quirks(),
		"eventTypes": economy.EventTypes(),
	})
}

func (s *Server) handleNPC(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.query(func() any {
		n := s.Store.NPCState(id)
		return map[string]any{"id": id, "state": n, "tier": state.RepTier(n.Rep)}
	})(w, r)
}

func (s *Server) handleValidateJump(w http.ResponseWriter, r *http.Request) {
	target, err := strconv.Atoi(r.PathValue("target"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("target: %w", err))
		return
	}
	s.action(func(*http.Request) (any, error) {
		return s.Nav.Preview(s.Store, target)
	})(w, r)
}

// handleAnimating is lock-free so a renderer can poll it mid-jump.
func (s *Server) handleAnimating(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"animating": s.Nav.IsAnimating()})
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func corsMiddleware(extra []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range extra {
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&v); err != nil {
		return v, fmt.Errorf("decode request: %w", err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
