// Package httpapi wires the HTTP surface of the fintrack service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
    "log/slog"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"

    "github.com/fintrack/fintrackd/internal/service/books"
    "github.com/fintrack/fintrackd/internal/service/customer"
)

// Server wires handlers and middleware using Chi.
// It composes read (repo) and write (writer) dependencies through services.
type Server struct {
    books      books.Service
    customers  customer.Service
    store      Store
    windowDays int
    log        *slog.Logger
    rt         *chi.Mux
}

// New constructs the HTTP server with routes and middleware. windowDays is
// the default dashboard window when the request does not specify one.
func New(store Store, windowDays int, logger *slog.Logger) *Server {
    if windowDays < 1 {
        windowDays = 7
    }
    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(requestLogger(logger))
    r.Use(recoverer(logger))
    r.Use(metricsMiddleware)

    s := &Server{
        books:      books.New(store, store),
        customers:  customer.New(store, store),
        store:      store,
        windowDays: windowDays,
        rt:         r,
        log:        logger,
    }
    s.routes()
    return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
    // Cycles
    s.rt.Post("/v1/cycles", s.postCycle)
    s.rt.Get("/v1/cycles", s.listCycles)
    s.rt.Get("/v1/cycles/latest", s.latestCycle)
    s.rt.Get("/v1/cycles/{id}/transactions", s.cycleTransactionsPage)
    s.rt.Get("/v1/cycles/{id}/transactions/all", s.cycleTransactionsAll)
    s.rt.Get("/v1/cycles/{id}/stats", s.cycleStats)
    // Transactions
    s.rt.Get("/v1/transactions", s.listTransactions)
    s.rt.Post("/v1/transactions/sale", s.postSale)
    s.rt.Post("/v1/transactions/expense", s.postExpense)
    s.rt.Post("/v1/transactions/usage", s.postUsage)
    // Customers
    s.rt.Post("/v1/customers", s.postCustomer)
    s.rt.Get("/v1/customers", s.listCustomers)
    s.rt.Patch("/v1/customers/{id}", s.patchCustomer)
    s.rt.Get("/v1/customers/{id}/transactions", s.customerTransactions)
    s.rt.Get("/v1/customers/{id}/debt", s.customerDebt)
    s.rt.Post("/v1/customers/{id}/debt-increase", s.postDebtIncrease)
    s.rt.Post("/v1/customers/{id}/repayments", s.postRepayment)
    // Consolidation
    s.rt.Get("/v1/consolidation", s.consolidationSnapshot)
    s.rt.Post("/v1/consolidation/preview", s.postConsolidationPreview)
    s.rt.Post("/v1/consolidation", s.postConsolidationCommit)
    // Ops (unversioned)
    s.rt.Get("/healthz", s.healthz)
    s.rt.Get("/readyz", s.readyz)
    s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
