package circulation

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_repository.go -package=mocks

type ServiceAPI interface {
	AddBook(ctx context.Context, req AddBookRequest) (Book, error)
	AddBorrower(ctx context.Context, req AddBorrowerRequest) (Borrower, error)
	CheckoutBook(ctx context.Context, req CheckoutBookRequest) (Loan, error)
	ReturnBook(ctx context.Context, req ReturnBookRequest) (Loan, float64, error)
	GetBook(ctx context.Context, id uuid.UUID) (Book, error)
	GetBorrower(ctx context.Context, id uuid.UUID) (Borrower, error)
	GetLoan(ctx context.Context, id uuid.UUID) (Loan, error)
	BookAuditTrail(ctx context.Context, bookID uuid.UUID) ([]AuditEntry, error)
}

type Repository interface {
	BeginTx(ctx context.Context) (Repository, driver.Tx, error)
	CreateBook(ctx context.Context, bookEntry Book) (Book, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (Book, error)
	GetBookForUpdate(ctx context.Context, id uuid.UUID) (Book, error)
	UpdateBookStatus(ctx context.Context, id uuid.UUID, status BookStatus) (Book, error)
	CreateBorrower(ctx context.Context, borrowerEntry Borrower) (Borrower, error)
	GetBorrowerByID(ctx context.Context, id uuid.UUID) (Borrower, error)
	FindBorrowerByEmail(ctx context.Context, email string) (Borrower, error)
	CreateLoan(ctx context.Context, loanEntry Loan) (Loan, error)
	GetLoanByID(ctx context.Context, id uuid.UUID) (Loan, error)
	FindOpenLoanForBook(ctx context.Context, bookID uuid.UUID) (Loan, error)
	CloseLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time) (Loan, error)
	AppendAuditEntry(ctx context.Context, entry AuditEntry) (AuditEntry, error)
	ListAuditEntries(ctx context.Context, bookID uuid.UUID) ([]AuditEntry, error)
}

type Notifier interface {
	OverdueFeeCharged(bookTitle string, fee float64) error
}

/* Service is the single mutation path for book status and loan lifecycle. Every
mutation runs its check-and-mutate inside one repository transaction, so two
concurrent checkouts of the same book cannot both see it available. */
type Service struct {
	repo    Repository
	auditor *AuditLogger
	ntfy    Notifier
}

func NewService(repo Repository, auditor *AuditLogger, ntfy Notifier) *Service {
	return &Service{repo: repo, auditor: auditor, ntfy: ntfy}
}

type AddBookRequest struct {
	Title         string
	Author        string
	ISBN          *string
	PublishedDate *time.Time
	Genre         string
	ShelfLocation string
}

/* Registers a newly acquired book. New books start available. */
func (s *Service) AddBook(ctx context.Context, req AddBookRequest) (Book, error) {
	if req.Title == "" || req.Author == "" {
		return Book{}, ErrResponseBlankFields
	}

	createdAt := time.Now().UTC().Round(time.Millisecond)
	newBook := Book{
		ID:            uuid.New(),
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		PublishedDate: req.PublishedDate,
		Genre:         req.Genre,
		ShelfLocation: req.ShelfLocation,
		Status:        BookStatusAvailable,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	createdBook, err := s.repo.CreateBook(ctx, newBook)
	if err != nil {
		return Book{}, fmt.Errorf("adding book: %w", err)
	}

	return createdBook, nil
}

type AddBorrowerRequest struct {
	FirstName      string
	LastName       string
	Email          string
	DateOfBirth    time.Time
	MembershipDate time.Time
}

/* Registers a borrower. The duplicate-email check and the insert run inside the same
transaction, backed by the unique email constraint on the store. */
func (s *Service) AddBorrower(ctx context.Context, req AddBorrowerRequest) (Borrower, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.DateOfBirth.IsZero() {
		return Borrower{}, ErrResponseBlankFields
	}

	membership := req.MembershipDate
	if membership.IsZero() {
		membership = time.Now().UTC().Round(time.Millisecond)
	}

	txRepo, tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return Borrower{}, fmt.Errorf("registering borrower: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = txRepo.FindBorrowerByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return Borrower{}, fmt.Errorf("registering borrower: %w", ErrResponseEmailAlreadyRegistered)
	case !IsNotFound(err):
		return Borrower{}, fmt.Errorf("registering borrower: %w", err)
	}

	newBorrower := Borrower{
		ID:             uuid.New(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		DateOfBirth:    req.DateOfBirth,
		MembershipDate: membership,
	}

	createdBorrower, err := txRepo.CreateBorrower(ctx, newBorrower)
	if err != nil {
		return Borrower{}, fmt.Errorf("registering borrower: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Borrower{}, fmt.Errorf("registering borrower: %w", err)
	}

	return createdBorrower, nil
}

type CheckoutBookRequest struct {
	BookID     uuid.UUID
	BorrowerID uuid.UUID
	DueDate    time.Time
}

/* Checks a book out to a borrower. Fails with a conflict if the book is already
borrowed or an open loan exists for it. The book row is locked for the duration of the
check-and-mutate, and the new loan, the status flip and the audit entry commit as one. */
func (s *Service) CheckoutBook(ctx context.Context, req CheckoutBookRequest) (Loan, error) {
	if req.DueDate.IsZero() {
		return Loan{}, ErrResponseDueDateMissing
	}

	txRepo, tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	bookToLend, err := txRepo.GetBookForUpdate(ctx, req.BookID)
	if err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	_, err = txRepo.GetBorrowerByID(ctx, req.BorrowerID)
	if err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	if bookToLend.Status == BookStatusBorrowed {
		return Loan{}, fmt.Errorf("checking out book: %w", ErrResponseBookAlreadyBorrowed)
	}

	//The status field is a cache of loan state, the open loan check is what really guards.
	_, err = txRepo.FindOpenLoanForBook(ctx, req.BookID)
	switch {
	case err == nil:
		return Loan{}, fmt.Errorf("checking out book: %w", ErrResponseBookAlreadyBorrowed)
	case !IsNotFound(err):
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	newLoan := Loan{
		ID:           uuid.New(),
		BookID:       req.BookID,
		BorrowerID:   req.BorrowerID,
		DateBorrowed: time.Now().UTC().Round(time.Millisecond),
		DueDate:      req.DueDate,
	}

	createdLoan, err := txRepo.CreateLoan(ctx, newLoan)
	if err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	if _, err := txRepo.UpdateBookStatus(ctx, req.BookID, BookStatusBorrowed); err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	if err := s.auditor.StatusChanged(ctx, txRepo, req.BookID, bookToLend.Status, BookStatusBorrowed); err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Loan{}, fmt.Errorf("checking out book: %w", err)
	}

	return createdLoan, nil
}

type ReturnBookRequest struct {
	LoanID     uuid.UUID
	ReturnedAt time.Time
}

/* Closes a loan and makes the book available again. Returning an already returned loan
is a conflict, not a silent no-op. The returned fee is computed from the loan's due date
and the return date. */
func (s *Service) ReturnBook(ctx context.Context, req ReturnBookRequest) (Loan, float64, error) {
	if req.ReturnedAt.IsZero() {
		return Loan{}, 0, ErrResponseReturnDateMissing
	}

	txRepo, tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	loanToClose, err := txRepo.GetLoanByID(ctx, req.LoanID)
	if err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}

	if !loanToClose.Open() {
		return Loan{}, 0, fmt.Errorf("returning book: %w", ErrResponseLoanAlreadyReturned)
	}

	lentBook, err := txRepo.GetBookForUpdate(ctx, loanToClose.BookID)
	if err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}

	closedLoan, err := txRepo.CloseLoan(ctx, req.LoanID, req.ReturnedAt)
	if err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}

	if _, err := txRepo.UpdateBookStatus(ctx, loanToClose.BookID, BookStatusAvailable); err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}

	if err := s.auditor.StatusChanged(ctx, txRepo, loanToClose.BookID, lentBook.Status, BookStatusAvailable); err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Loan{}, 0, fmt.Errorf("returning book: %w", err)
	}

	fee := ComputeOverdueFee(loanToClose.DueDate, req.ReturnedAt)
	if fee > 0 && s.ntfy != nil {
		if err := s.ntfy.OverdueFeeCharged(lentBook.Title, fee); err != nil {
			log.Println(fmt.Errorf("notifying overdue fee: %w", err))
		}
	}

	return closedLoan, fee, nil
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

func (s *Service) GetBorrower(ctx context.Context, id uuid.UUID) (Borrower, error) {
	return s.repo.GetBorrowerByID(ctx, id)
}

func (s *Service) GetLoan(ctx context.Context, id uuid.UUID) (Loan, error) {
	return s.repo.GetLoanByID(ctx, id)
}

/* Returns the status transition trail of a book, oldest entry first. */
func (s *Service) BookAuditTrail(ctx context.Context, bookID uuid.UUID) ([]AuditEntry, error) {
	if _, err := s.repo.GetBookByID(ctx, bookID); err != nil {
		return nil, fmt.Errorf("listing audit trail: %w", err)
	}
	return s.repo.ListAuditEntries(ctx, bookID)
}
