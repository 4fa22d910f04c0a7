package http

import (
	"avalom-backend/internal/handlers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	accountingHandler *handlers.AccountingHandler,
	periodHandler *handlers.PeriodHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	// Accounting overview and rental ledger views
	r.HandleFunc("/api/accounting", accountingHandler.Overview).Methods("GET")
	r.HandleFunc("/api/accounting/rental/{rental_id}", accountingHandler.RentalLedger).Methods("GET")

	// Monthly periods
	r.HandleFunc("/api/monthlyrent/next/{rental_id}", periodHandler.NextPeriod).Methods("GET")
	r.HandleFunc("/api/monthlyrent/drafts/{rental_id}", periodHandler.Drafts).Methods("GET")
	r.HandleFunc("/api/monthlyrent/validate", periodHandler.Validate).Methods("POST")
	r.HandleFunc("/api/monthlyrent/saveall", periodHandler.SaveAll).Methods("POST")
	r.HandleFunc("/api/monthlyrent", periodHandler.Create).Methods("POST")
	r.HandleFunc("/api/monthlyrent/{period_id}", periodHandler.Update).Methods("PUT")
	r.HandleFunc("/api/monthlyrent/{period_id}", periodHandler.Delete).Methods("DELETE")

	// Money movements
	r.HandleFunc("/api/accounting/payment/{period_id}", accountingHandler.RegisterPayment).Methods("POST")
	r.HandleFunc("/api/accounting/deposit/payment/{rental_id}", accountingHandler.RegisterDepositPayment).Methods("POST")
	r.HandleFunc("/api/accounting/deposit/canceledpayment", accountingHandler.AnnulPayment).Methods("POST")
	r.HandleFunc("/api/accounting/payment/gift/{period_id}", accountingHandler.ToggleGift).Methods("PUT")
	r.HandleFunc("/api/accounting/canceledrent/{rental_id}", accountingHandler.CancelRental).Methods("PUT")
	r.HandleFunc("/api/accounting/finishedrent/finalize/{rental_id}", accountingHandler.FinishRental).Methods("PUT")
	r.HandleFunc("/api/rent/haspayments/{rental_id}", accountingHandler.HasPayments).Methods("GET")

	// Operational endpoints
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/system", healthHandler.System).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
