package http

import (
	"fmt"
	"net/http"
)

type ServerConfig struct {
	Port int
}

func NewServer(config ServerConfig, h *CirculationHandler, r *ReportsHandler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", ping)
	mux.HandleFunc("/books", h.books)
	mux.HandleFunc("/books/", h.bookByPath)
	mux.HandleFunc("/borrowers", h.borrowers)
	mux.HandleFunc("/borrowers/", h.borrowerById)
	mux.HandleFunc("/loans", h.loans)
	mux.HandleFunc("/loans/", h.loanByPath)
	mux.HandleFunc("/reports/borrower-loans", r.borrowerLoans)
	mux.HandleFunc("/reports/active-borrowers", r.activeBorrowers)
	mux.HandleFunc("/reports/borrowing-frequency", r.borrowingFrequency)
	mux.HandleFunc("/reports/popular-genres", r.popularGenres)
	mux.HandleFunc("/reports/overdue", r.overdueAnalysis)
	mux.HandleFunc("/reports/author-popularity", r.authorPopularity)
	mux.HandleFunc("/reports/genre-preference", r.genrePreference)
	mux.HandleFunc("/reports/overdue-borrowers", r.overdueBorrowers)
	mux.HandleFunc("/reports/activity", r.activity)

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: mux,
	}
	return &server
}

/* Tests the http server connection.  */
func ping(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}
