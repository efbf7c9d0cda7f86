package router

import (
	"net/http"

	"gigflow/internal/controller"
	"gigflow/internal/realtime"
)

func NewRouter(c *controller.Controller, hub *realtime.Hub) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", c.Ping)

	mux.HandleFunc("POST /api/auth/register", c.Register)
	mux.HandleFunc("POST /api/auth/login", c.Login)
	mux.HandleFunc("POST /api/auth/logout", c.Logout)
	mux.HandleFunc("GET /api/auth/me", c.Me)

	mux.HandleFunc("GET /api/gigs", c.GetGigs)
	mux.HandleFunc("POST /api/gigs", c.NewGig)
	mux.HandleFunc("GET /api/gigs/{gigId}", c.GigById)

	mux.HandleFunc("POST /api/bids", c.NewBid)
	mux.HandleFunc("GET /api/bids/my", c.MyBids)
	mux.HandleFunc("GET /api/bids/{gigId}", c.GigBids)
	mux.HandleFunc("PATCH /api/bids/{bidId}/hire", c.HireBid)

	mux.HandleFunc("GET /ws", hub.HandleWS)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("page not found"))
	})

	cors := http.NewServeMux()
	cors.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// cookies ride along, so the origin must be echoed rather than wildcarded
		if origin := r.Header.Get("Origin"); len(origin) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
		} else {
			mux.ServeHTTP(w, r)
		}
	})

	return cors
}
