package handlers

import (
	"net/http"

	"cashbox/internal/config"
	"cashbox/internal/db"
	"cashbox/internal/middleware"
	"cashbox/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	customers    CustomerStore
	currencies   CurrencyStore
	accountTypes AccountTypeStore
	boxes        CashBoxStore
	transactions TransactionStore
	audit        AuditStore
	service      LedgerService
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, customers CustomerStore, currencies CurrencyStore, accountTypes AccountTypeStore, boxes CashBoxStore, transactions TransactionStore, audit AuditStore, service LedgerService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		customers:    customers,
		currencies:   currencies,
		accountTypes: accountTypes,
		boxes:        boxes,
		transactions: transactions,
		audit:        audit,
		service:      service,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	authed := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authed).Get("/me", h.Me)
	})

	router.With(authed).Post("/customers", h.CreateCustomer)
	router.With(authed).Get("/customers", h.ListCustomers)
	router.With(authed).Get("/customers/names", h.CustomerNames)
	router.With(authed).Get("/customers/{id}", h.GetCustomer)
	router.With(authed).Get("/customers/{id}/cashboxes", h.ListCustomerCashBoxes)
	router.With(authed).Get("/customers/{id}/transactions", h.ListCustomerTransactions)
	router.With(authed).Get("/customers/{id}/report", h.CustomerReport)
	router.With(authed).Get("/customers/{id}/report.pdf", h.CustomerReportPDF)

	router.With(authed).Post("/currencies", h.CreateCurrency)
	router.With(authed).Get("/currencies", h.ListCurrencies)
	router.With(authed).Put("/currencies/{id}", h.UpdateCurrency)

	router.With(authed).Post("/account-types", h.CreateAccountType)
	router.With(authed).Get("/account-types", h.ListAccountTypes)

	router.With(authed).Post("/cashboxes", h.CreateCashBox)
	router.With(authed).Get("/cashboxes/{id}", h.GetCashBox)
	router.With(authed).Get("/cashboxes/{id}/balance", h.GetCashBoxBalance)
	router.With(authed).Get("/cashboxes/{id}/transactions", h.ListCashBoxTransactions)
	router.With(authed).Get("/cashboxes/{id}/statement.pdf", h.CashBoxStatementPDF)
	router.With(authed).Get("/cashboxes/{id}/statement.xlsx", h.CashBoxStatementXLSX)

	router.With(authed).Post("/transactions", h.CreateTransaction)
	router.With(authed).Get("/transactions", h.ListTransactions)
	router.With(authed).Get("/transactions/search", h.SearchTransactions)
	router.With(authed).Get("/transactions/{id}", h.GetTransaction)
	router.With(authed).Get("/transactions/{id}/receipt.pdf", h.TransactionReceiptPDF)

	router.With(authed).Get("/dashboard", h.Dashboard)
	router.With(authed).Get("/audit", h.ListAuditLog)

	router.Get("/ws", h.WSTransactions)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
