package circulation

import (
	"time"

	"github.com/google/uuid"
)

type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
)

/* One Book row is one physical copy. Status is a cache of "does an open loan exist"
and is only ever written by the Service, inside the same transaction that touches the loan. */
type Book struct {
	ID            uuid.UUID
	Title         string
	Author        string
	ISBN          *string
	PublishedDate *time.Time
	Genre         string
	ShelfLocation string
	Status        BookStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Borrower struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	DateOfBirth    time.Time
	MembershipDate time.Time
}

/* A Loan with DateReturned == nil is open: the book is out. Loans are never deleted,
they form the permanent circulation history. */
type Loan struct {
	ID           uuid.UUID
	BookID       uuid.UUID
	BorrowerID   uuid.UUID
	DateBorrowed time.Time
	DueDate      time.Time
	DateReturned *time.Time
}

func (l Loan) Open() bool {
	return l.DateReturned == nil
}

/* Append-only record of a book status transition. */
type AuditEntry struct {
	ID          uuid.UUID
	BookID      uuid.UUID
	Description string
	ChangedAt   time.Time
}
