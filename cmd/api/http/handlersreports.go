package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/circulation-service/cmd/api/reporting"
	"github.com/google/uuid"
)

const defaultOverdueThresholdDays = 30

type ReportsHandler struct {
	reports reporting.ServiceAPI
}

func NewReportsHandler(reports reporting.ServiceAPI) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

/* Every loan of the borrower given by the 'borrower_id' query parameter. */
func (h *ReportsHandler) borrowerLoans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	borrowerID, err := uuid.Parse(r.URL.Query().Get("borrower_id"))
	if err != nil {
		responseJSON(w, http.StatusBadRequest, circulation.ErrResponseIdInvalidFormat)
		return
	}

	loans, err := h.reports.LoansForBorrower(r.Context(), borrowerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, loans)
}

/* Borrowers with at least 'min_open_loans' open loans, defaulting to 1. */
func (h *ReportsHandler) activeBorrowers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	minOpenLoans := 1
	if minStr := r.URL.Query().Get("min_open_loans"); minStr != "" {
		parsed, err := strconv.Atoi(minStr)
		if err != nil || parsed < 1 {
			responseJSON(w, http.StatusBadRequest, circulation.ErrResponseEntryInvalidJSON)
			return
		}
		minOpenLoans = parsed
	}

	borrowers, err := h.reports.ActiveBorrowers(r.Context(), minOpenLoans)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, borrowers)
}

func (h *ReportsHandler) borrowingFrequency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	frequencies, err := h.reports.BorrowingFrequency(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, frequencies)
}

/* Loan counts per genre for the month given by the 'month' query parameter (1-12). */
func (h *ReportsHandler) popularGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		responseJSON(w, http.StatusBadRequest, circulation.ErrResponseInvalidMonth)
		return
	}

	genres, err := h.reports.PopularGenres(r.Context(), month)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, genres)
}

/* Open loans overdue by more than 'threshold_days' days, defaulting to 30. */
func (h *ReportsHandler) overdueAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	thresholdDays := defaultOverdueThresholdDays
	if thresholdStr := r.URL.Query().Get("threshold_days"); thresholdStr != "" {
		parsed, err := strconv.Atoi(thresholdStr)
		if err != nil {
			responseJSON(w, http.StatusBadRequest, circulation.ErrResponseInvalidThreshold)
			return
		}
		thresholdDays = parsed
	}

	overdue, err := h.reports.OverdueAnalysis(r.Context(), time.Time{}, thresholdDays)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, overdue)
}

func (h *ReportsHandler) authorPopularity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ranks, err := h.reports.AuthorPopularity(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, ranks)
}

func (h *ReportsHandler) genrePreference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	preferences, err := h.reports.GenrePreferenceByAgeGroup(r.Context(), time.Time{})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, preferences)
}

func (h *ReportsHandler) overdueBorrowers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	details, err := h.reports.OverdueBorrowersDetail(r.Context(), time.Time{})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, details)
}

/* Checkout and return counts inside the range given by 'from' and 'to'. */
func (h *ReportsHandler) activity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	from, err := parseTime(r.URL.Query().Get("from"))
	if err != nil {
		responseJSON(w, http.StatusBadRequest, invalidJSON(err))
		return
	}
	to, err := parseTime(r.URL.Query().Get("to"))
	if err != nil {
		responseJSON(w, http.StatusBadRequest, invalidJSON(err))
		return
	}

	activity, err := h.reports.CirculationActivity(r.Context(), from, to)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, activity)
}
