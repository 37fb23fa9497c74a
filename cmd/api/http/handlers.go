package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/google/uuid"
)

type CirculationHandler struct {
	service circulation.ServiceAPI
}

func NewCirculationHandler(service circulation.ServiceAPI) *CirculationHandler {
	return &CirculationHandler{service: service}
}

/* Addresses a call to "/books" according to the requested action. */
func (h *CirculationHandler) books(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addBook(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

/* Addresses a call to "/books/{id}" or "/books/{id}/audit". */
func (h *CirculationHandler) bookByPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest, _ := strings.CutPrefix(r.URL.Path, "/books/")
	if idStr, found := strings.CutSuffix(rest, "/audit"); found {
		id, err := parseId(w, idStr)
		if err != nil {
			return
		}
		h.bookAuditTrail(w, r, id)
		return
	}

	id, err := parseId(w, rest)
	if err != nil {
		return
	}
	h.getBook(w, r, id)
}

type BookEntry struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	ISBN          *string `json:"isbn"`
	PublishedDate *string `json:"published_date"`
	Genre         string  `json:"genre"`
	ShelfLocation string  `json:"shelf_location"`
}

/* Validates the entry, then stores it as a new book. */
func (h *CirculationHandler) addBook(w http.ResponseWriter, r *http.Request) {
	var bookEntry BookEntry
	if err := json.NewDecoder(r.Body).Decode(&bookEntry); err != nil {
		log.Println(err)
		responseJSON(w, http.StatusBadRequest, invalidJSON(err))
		return
	}

	var publishedDate *time.Time
	if bookEntry.PublishedDate != nil {
		parsed, err := parseTime(*bookEntry.PublishedDate)
		if err != nil {
			responseJSON(w, http.StatusBadRequest, invalidJSON(err))
			return
		}
		publishedDate = &parsed
	}

	createdBook, err := h.service.AddBook(r.Context(), circulation.AddBookRequest{
		Title:         bookEntry.Title,
		Author:        bookEntry.Author,
		ISBN:          bookEntry.ISBN,
		PublishedDate: publishedDate,
		Genre:         bookEntry.Genre,
		ShelfLocation: bookEntry.ShelfLocation,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusCreated, bookToResponse(createdBook))
}

func (h *CirculationHandler) getBook(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	returnedBook, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(returnedBook))
}

func (h *CirculationHandler) bookAuditTrail(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	entries, err := h.service.BookAuditTrail(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	trail := []AuditEntryResponse{}
	for _, entry := range entries {
		trail = append(trail, AuditEntryResponse{
			ID:          entry.ID,
			BookID:      entry.BookID,
			Description: entry.Description,
			ChangedAt:   entry.ChangedAt,
		})
	}

	responseJSON(w, http.StatusOK, trail)
}

/* Addresses a call to "/borrowers" according to the requested action. */
func (h *CirculationHandler) borrowers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addBorrower(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

/* Addresses a call to "/borrowers/{id}". */
func (h *CirculationHandler) borrowerById(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	idStr, _ := strings.CutPrefix(r.URL.Path, "/borrowers/")
	id, err := parseId(w, idStr)
	if err != nil {
		return
	}

	returnedBorrower, err := h.service.GetBorrower(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, borrowerToResponse(returnedBorrower))
}

type BorrowerEntry struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	DateOfBirth    string  `json:"date_of_birth"`
	MembershipDate *string `json:"membership_date"`
}

/* Validates the entry, then registers a new borrower. */
func (h *CirculationHandler) addBorrower(w http.ResponseWriter, r *http.Request) {
	var borrowerEntry BorrowerEntry
	if err := json.NewDecoder(r.Body).Decode(&borrowerEntry); err != nil {
		log.Println(err)
		responseJSON(w, http.StatusBadRequest, invalidJSON(err))
		return
	}

	dateOfBirth, err := parseTime(borrowerEntry.DateOfBirth)
	if err != nil {
		responseJSON(w, http.StatusBadRequest, invalidJSON(err))
		return
	}

	var membershipDate time.Time
	if borrowerEntry.MembershipDate != nil {
		membershipDate, err = parseTime(*borrowerEntry.MembershipDate)
		if err != nil {
			responseJSON(w, http.StatusBadRequest, invalidJSON(err))
			return
		}
	}

	createdBorrower, err := h.service.AddBorrower(r.Context(), circulation.AddBorrowerRequest{
		FirstName:      borrowerEntry.FirstName,
		LastName:       borrowerEntry.LastName,
		Email:          borrowerEntry.Email,
		DateOfBirth:    dateOfBirth,
		MembershipDate: membershipDate,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusCreated, borrowerToResponse(createdBorrower))
}

/* Addresses a call to "/loans" according to the requested action. */
func (h *CirculationHandler) loans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.checkoutBook(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

/* Addresses a call to "/loans/{id}" or "/loans/{id}/return". */
func (h *CirculationHandler) loanByPath(w http.ResponseWriter, r *http.Request) {
	rest, _ := strings.CutPrefix(r.URL.Path, "/loans/")

	if idStr, found := strings.CutSuffix(rest, "/return"); found {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id, err := parseId(w, idStr)
		if err != nil {
			return
		}
		h.returnBook(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, err := parseId(w, rest)
	if err != nil {
		return
	}

	returnedLoan, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, loanToResponse(returnedLoan))
}

type CheckoutEntry struct {
	BookID     string `json:"book_id"`
	BorrowerID string `json:"borrower_id"`
	DueDate    string `json:"due_date"`
}

/* Validates the entry, then checks the book out to the borrower. */
func (h *CirculationHandler) checkoutBook(w http.ResponseWriter, r *http.Request) {
	var checkoutEntry CheckoutEntry
	if err := json.NewDecoder(r.Body).Decode(&checkoutEntry); err != nil {
		log.Println(err)
		responseJSON(w, http.StatusBadRequest, invalidJSON(err))
		return
	}

	bookID, err := uuid.Parse(checkoutEntry.BookID)
	if err != nil {
		responseJSON(w, http.StatusBadRequest, circulation.ErrResponseIdInvalidFormat)
		return
	}
	borrowerID, err := uuid.Parse(checkoutEntry.BorrowerID)
	if err != nil {
		responseJSON(w, http.StatusBadRequest, circulation.ErrResponseIdInvalidFormat)
		return
	}

	var dueDate time.Time
	if checkoutEntry.DueDate != "" {
		dueDate, err = parseTime(checkoutEntry.DueDate)
		if err != nil {
			responseJSON(w, http.StatusBadRequest, invalidJSON(err))
			return
		}
	}

	createdLoan, err := h.service.CheckoutBook(r.Context(), circulation.CheckoutBookRequest{
		BookID:     bookID,
		BorrowerID: borrowerID,
		DueDate:    dueDate,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusCreated, loanToResponse(createdLoan))
}

type ReturnEntry struct {
	ReturnedAt *string `json:"returned_at"`
}

/* Closes the loan. The return date defaults to now when the body omits it. */
func (h *CirculationHandler) returnBook(w http.ResponseWriter, r *http.Request, loanID uuid.UUID) {
	returnedAt := time.Now().UTC().Round(time.Millisecond)

	if r.Body != nil && r.ContentLength != 0 {
		var returnEntry ReturnEntry
		if err := json.NewDecoder(r.Body).Decode(&returnEntry); err != nil {
			log.Println(err)
			responseJSON(w, http.StatusBadRequest, invalidJSON(err))
			return
		}
		if returnEntry.ReturnedAt != nil {
			parsed, err := parseTime(*returnEntry.ReturnedAt)
			if err != nil {
				responseJSON(w, http.StatusBadRequest, invalidJSON(err))
				return
			}
			returnedAt = parsed
		}
	}

	closedLoan, fee, err := h.service.ReturnBook(r.Context(), circulation.ReturnBookRequest{
		LoanID:     loanID,
		ReturnedAt: returnedAt,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	responseJSON(w, http.StatusOK, ReturnResponse{
		Loan: loanToResponse(closedLoan),
		Fee:  fee,
	})
}

// -- Response shapes --

type BookResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          *string    `json:"isbn"`
	PublishedDate *time.Time `json:"published_date"`
	Genre         string     `json:"genre"`
	ShelfLocation string     `json:"shelf_location"`
	Status        string     `json:"status"`
}

func bookToResponse(b circulation.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		ShelfLocation: b.ShelfLocation,
		Status:        string(b.Status),
	}
}

type BorrowerResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	MembershipDate time.Time `json:"membership_date"`
}

func borrowerToResponse(b circulation.Borrower) BorrowerResponse {
	return BorrowerResponse{
		ID:             b.ID,
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		DateOfBirth:    b.DateOfBirth,
		MembershipDate: b.MembershipDate,
	}
}

type LoanResponse struct {
	ID           uuid.UUID  `json:"id"`
	BookID       uuid.UUID  `json:"book_id"`
	BorrowerID   uuid.UUID  `json:"borrower_id"`
	DateBorrowed time.Time  `json:"date_borrowed"`
	DueDate      time.Time  `json:"due_date"`
	DateReturned *time.Time `json:"date_returned"`
}

func loanToResponse(l circulation.Loan) LoanResponse {
	return LoanResponse{
		ID:           l.ID,
		BookID:       l.BookID,
		BorrowerID:   l.BorrowerID,
		DateBorrowed: l.DateBorrowed,
		DueDate:      l.DueDate,
		DateReturned: l.DateReturned,
	}
}

type ReturnResponse struct {
	Loan LoanResponse `json:"loan"`
	Fee  float64      `json:"fee"`
}

type AuditEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	BookID      uuid.UUID `json:"book_id"`
	Description string    `json:"description"`
	ChangedAt   time.Time `json:"changed_at"`
}

// -- Shared helpers --

/* Isolates and parses an ID segment from the URL. */
func parseId(w http.ResponseWriter, idStr string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Println(err)
		responseJSON(w, http.StatusBadRequest, circulation.ErrResponseIdInvalidFormat)
		return id, err
	}
	return id, nil
}

/* Accepts RFC 3339 timestamps and plain dates. */
func parseTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

func invalidJSON(err error) circulation.ErrResponse {
	return circulation.ErrResponse{
		Code:    circulation.ErrResponseEntryInvalidJSON.Code,
		Kind:    circulation.ErrResponseEntryInvalidJSON.Kind,
		Message: circulation.ErrResponseEntryInvalidJSON.Message + err.Error(),
	}
}

/* Maps a service error onto an http status: not found 404, conflict 409, validation 400,
anything else 500 with the error logged. */
func respondServiceError(w http.ResponseWriter, err error) {
	var errR circulation.ErrResponse
	if !errors.As(err, &errR) {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch errR.Kind {
	case circulation.KindNotFound:
		log.Println(err)
		responseJSON(w, http.StatusNotFound, errR)
	case circulation.KindConflict:
		log.Println(err)
		responseJSON(w, http.StatusConflict, errR)
	case circulation.KindValidation:
		responseJSON(w, http.StatusBadRequest, errR)
	default:
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

/*Writes a JSON response into a http.ResponseWriter. */
func responseJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}
