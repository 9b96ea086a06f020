package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/ray-remotestate/restro-pos/handlers"
	"github.com/ray-remotestate/restro-pos/middlewares"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
)

type Server struct {
	Router *mux.Router

	mu     sync.Mutex
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

type actorHandler func(w http.ResponseWriter, r *http.Request, actor models.Actor)

func SetupRoutes(h *handlers.Handler, secret []byte) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.Recoverer, middlewares.RequestLogger)

	router.HandleFunc("/health", handlers.Health).Methods("GET")
	router.HandleFunc("/register", h.Register).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
	router.HandleFunc("/activate", h.Activate).Methods("POST")
	router.HandleFunc("/refresh", h.RefreshToken).Methods("POST")

	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware(secret))

	// gate wraps a handler with the roles holding perm.
	gate := func(perm policy.Permission, fn actorHandler) http.Handler {
		return middlewares.RequirePermission(perm)(handlers.WithActor(fn))
	}

	authRoutes.HandleFunc("/logout", h.Logout).Methods("POST")
	authRoutes.Handle("/me", handlers.WithActor(h.Me)).Methods("GET")
	authRoutes.Handle("/stream", handlers.WithActor(h.Stream)).Methods("GET")
	authRoutes.HandleFunc("/tax-rates", h.TaxRates).Methods("GET")
	authRoutes.Handle("/dashboard", gate(policy.ViewOrders, h.Dashboard)).Methods("GET")

	authRoutes.Handle("/tables", gate(policy.ViewTables, h.ListTables)).Methods("GET")
	authRoutes.Handle("/tables", gate(policy.ManageTables, h.CreateTable)).Methods("POST")
	authRoutes.Handle("/tables/{id}", gate(policy.ViewTables, h.GetTable)).Methods("GET")
	authRoutes.Handle("/tables/{id}", gate(policy.ManageTables, h.UpdateTable)).Methods("PUT")
	authRoutes.Handle("/tables/{id}", gate(policy.ManageTables, h.DeleteTable)).Methods("DELETE")
	authRoutes.Handle("/tables/{id}/status", gate(policy.SetTableStatus, h.SetTableStatus)).Methods("PATCH")

	authRoutes.Handle("/menu", gate(policy.ViewMenu, h.ListMenu)).Methods("GET")
	authRoutes.Handle("/menu", gate(policy.ManageMenu, h.CreateMenuItem)).Methods("POST")
	authRoutes.Handle("/menu/{id}", gate(policy.ManageMenu, h.UpdateMenuItem)).Methods("PUT")
	authRoutes.Handle("/menu/{id}", gate(policy.ManageMenu, h.DeleteMenuItem)).Methods("DELETE")

	authRoutes.Handle("/orders", gate(policy.ViewOrders, h.ListOrders)).Methods("GET")
	authRoutes.Handle("/orders", gate(policy.CreateOrder, h.CreateOrder)).Methods("POST")
	authRoutes.Handle("/orders/kitchen", gate(policy.ViewOrders, h.Kitchen)).Methods("GET")
	authRoutes.Handle("/orders/{id}", gate(policy.ViewOrders, h.GetOrder)).Methods("GET")
	// Whether a role may move an order depends on its current status.
	authRoutes.Handle("/orders/{id}/advance", handlers.WithActor(h.AdvanceOrder)).Methods("POST")

	authRoutes.Handle("/bills", gate(policy.ViewBills, h.ListBills)).Methods("GET")
	authRoutes.Handle("/bills", gate(policy.GenerateBill, h.GenerateBill)).Methods("POST")
	authRoutes.Handle("/bills/billable", gate(policy.GenerateBill, h.Billable)).Methods("GET")
	authRoutes.Handle("/bills/{id}", gate(policy.ViewBills, h.GetBill)).Methods("GET")
	authRoutes.Handle("/bills/{id}", gate(policy.DeleteBill, h.DeleteBill)).Methods("DELETE")

	authRoutes.Handle("/bookings", gate(policy.ManageBookings, h.ListBookings)).Methods("GET")
	authRoutes.Handle("/bookings", gate(policy.ManageBookings, h.CreateBooking)).Methods("POST")
	authRoutes.Handle("/bookings/{id}/complete", gate(policy.ManageBookings, h.CompleteBooking)).Methods("POST")
	authRoutes.Handle("/bookings/{id}/cancel", gate(policy.ManageBookings, h.CancelBooking)).Methods("POST")

	reports := authRoutes.PathPrefix("/reports").Subrouter()
	reports.Use(middlewares.RequirePermission(policy.ViewReports))
	reports.Handle("/daily", handlers.WithActor(h.DailySales)).Methods("GET")
	reports.Handle("/monthly", handlers.WithActor(h.MonthlySales)).Methods("GET")
	reports.Handle("/history", handlers.WithActor(h.ListOrders)).Methods("GET")

	staff := authRoutes.PathPrefix("/staff").Subrouter()
	staff.Use(middlewares.RequirePermission(policy.ManageStaff))
	staff.Handle("", handlers.WithActor(h.ListStaff)).Methods("GET")
	staff.Handle("", handlers.WithActor(h.InviteStaff)).Methods("POST")
	staff.Handle("/{id}", handlers.WithActor(h.UpdateStaff)).Methods("PATCH")
	staff.Handle("/{id}", handlers.WithActor(h.RemoveStaff)).Methods("DELETE")

	return &Server{
		Router: router,
	}
}

// Run blocks until the server stops. It returns nil after Shutdown.
func (svr *Server) Run(port string) error {
	srv := &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	svr.mu.Lock()
	svr.server = srv
	svr.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	svr.mu.Lock()
	srv := svr.server
	svr.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
