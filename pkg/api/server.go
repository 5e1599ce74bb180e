// Package api is the transport collaborator: it frames client commands off
// a websocket (and a small REST surface), hands typed requests to the
// engine, and serializes results back. The engine never sees wire formats.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

type Server struct {
	eng    *engine.Engine
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger
}

// NewServer wires the router over an engine and a hub. The hub is built by
// the caller so the engine's OnFill hook can point at BroadcastFill before
// the engine exists here.
func NewServer(eng *engine.Engine, hub *Hub, log *zap.SugaredLogger) *Server {
	s := &Server{
		eng:    eng,
		router: mux.NewRouter(),
		hub:    hub,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Primary interface: persistent websocket speaking request envelopes.
	s.router.HandleFunc("/api", s.handleWebSocket)

	// REST mirror of the same operations.
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders", s.handleAddOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/matches", s.handleListMatches).Methods("GET")
	api.HandleFunc("/books/{symbol}", s.handleGetBook).Methods("GET")
}

func (s *Server) Start(addr string) error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("To access the API go to /api"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	var msg AddMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request: " + err.Error()})
		return
	}
	s.respond(w, Envelope{Add: &msg})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var msg DelMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request: " + err.Error()})
		return
	}
	s.respond(w, Envelope{Del: &msg})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	msg := ListMessage{
		User:  queryParam(r, "user"),
		Side:  queryParam(r, "side"),
		Stock: queryParam(r, "stock"),
	}
	s.respond(w, Envelope{List: &msg})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	msg := MatchMessage{
		User:   queryParam(r, "user"),
		Buyer:  queryParam(r, "buyer"),
		Seller: queryParam(r, "seller"),
		Stock:  queryParam(r, "stock"),
	}
	s.respond(w, Envelope{Match: &msg})
}

// BookSnapshot is the REST view of one symbol's book.
type BookSnapshot struct {
	Stock   string      `json:"stock"`
	BestBid *int64      `json:"bestBid"`
	BestAsk *int64      `json:"bestAsk"`
	Orders  []OrderInfo `json:"orders"`
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	snap := BookSnapshot{Stock: symbol, Orders: []OrderInfo{}}
	bid, bidOK, ask, askOK := s.eng.BestPrices(symbol)
	if bidOK {
		snap.BestBid = &bid
	}
	if askOK {
		snap.BestAsk = &ask
	}
	for _, o := range s.eng.List(engine.ListFilter{Symbol: &symbol}) {
		snap.Orders = append(snap.Orders, orderInfo(o))
	}
	writeJSON(w, http.StatusOK, snap)
}

// respond runs an envelope through the shared dispatcher and maps engine
// errors to 400s (validation failures are the only errors the engine
// surfaces to clients).
func (s *Server) respond(w http.ResponseWriter, env Envelope) {
	res, err := dispatch(s.eng, env)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}
