package inmemory

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sort"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/circulation-service/cmd/api/reporting"
	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

/* InMemoryStore implements the circulation and reporting repositories on top of
go-memdb. memdb allows a single write transaction at a time, which gives the
check-and-mutate sections the serialization they need without a database. */
type InMemoryStore struct {
	db  *memdb.MemDB
	exc *memdb.Txn //Set only on transaction-scoped stores returned by BeginTx.
}

func NewInMemoryStore() (*InMemoryStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"book": {
				Name: "book",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
			"borrower": {
				Name: "borrower",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"email": {
						Name:    "email",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
				},
			},
			"loan": {
				Name: "loan",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"book_id": {
						Name:    "book_id",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "BookID"},
					},
					"borrower_id": {
						Name:    "borrower_id",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "BorrowerID"},
					},
				},
			},
			"audit_entry": {
				Name: "audit_entry",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"book_id": {
						Name:    "book_id",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "BookID"},
					},
				},
			},
		},
	}

	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("validating in-memory schema: %w", err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("initializing in-memory database: %w", err)
	}
	return &InMemoryStore{db: db}, nil
}

//memdb indexes string fields, so records carry ids as strings.

type AdaptedBook struct {
	ID            string
	Title         string
	Author        string
	ISBN          *string
	PublishedDate *time.Time
	Genre         string
	ShelfLocation string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func adaptBook(b circulation.Book) AdaptedBook {
	return AdaptedBook{
		ID:            b.ID.String(),
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		ShelfLocation: b.ShelfLocation,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func restoreBook(b AdaptedBook) circulation.Book {
	return circulation.Book{
		ID:            uuid.MustParse(b.ID),
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		ShelfLocation: b.ShelfLocation,
		Status:        circulation.BookStatus(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type AdaptedBorrower struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	DateOfBirth    time.Time
	MembershipDate time.Time
}

func adaptBorrower(b circulation.Borrower) AdaptedBorrower {
	return AdaptedBorrower{
		ID:             b.ID.String(),
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		DateOfBirth:    b.DateOfBirth,
		MembershipDate: b.MembershipDate,
	}
}

func restoreBorrower(b AdaptedBorrower) circulation.Borrower {
	return circulation.Borrower{
		ID:             uuid.MustParse(b.ID),
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		DateOfBirth:    b.DateOfBirth,
		MembershipDate: b.MembershipDate,
	}
}

type AdaptedLoan struct {
	ID           string
	BookID       string
	BorrowerID   string
	DateBorrowed time.Time
	DueDate      time.Time
	DateReturned *time.Time
}

func adaptLoan(l circulation.Loan) AdaptedLoan {
	return AdaptedLoan{
		ID:           l.ID.String(),
		BookID:       l.BookID.String(),
		BorrowerID:   l.BorrowerID.String(),
		DateBorrowed: l.DateBorrowed,
		DueDate:      l.DueDate,
		DateReturned: l.DateReturned,
	}
}

func restoreLoan(l AdaptedLoan) circulation.Loan {
	return circulation.Loan{
		ID:           uuid.MustParse(l.ID),
		BookID:       uuid.MustParse(l.BookID),
		BorrowerID:   uuid.MustParse(l.BorrowerID),
		DateBorrowed: l.DateBorrowed,
		DueDate:      l.DueDate,
		DateReturned: l.DateReturned,
	}
}

type AdaptedAuditEntry struct {
	ID          string
	BookID      string
	Description string
	ChangedAt   time.Time
}

func adaptAuditEntry(e circulation.AuditEntry) AdaptedAuditEntry {
	return AdaptedAuditEntry{
		ID:          e.ID.String(),
		BookID:      e.BookID.String(),
		Description: e.Description,
		ChangedAt:   e.ChangedAt,
	}
}

func restoreAuditEntry(e AdaptedAuditEntry) circulation.AuditEntry {
	return circulation.AuditEntry{
		ID:          uuid.MustParse(e.ID),
		BookID:      uuid.MustParse(e.BookID),
		Description: e.Description,
		ChangedAt:   e.ChangedAt,
	}
}

/* Returns the enclosing transaction when this store is transaction-scoped, otherwise a
fresh one the caller owns and must finish. */
func (store *InMemoryStore) txn(write bool) (txn *memdb.Txn, owned bool) {
	if store.exc != nil {
		return store.exc, false
	}
	return store.db.Txn(write), true
}

// -- Books --

func (store *InMemoryStore) CreateBook(ctx context.Context, bookEntry circulation.Book) (circulation.Book, error) {
	txn, owned := store.txn(true)
	if owned {
		defer txn.Abort()
	}

	if err := txn.Insert("book", adaptBook(bookEntry)); err != nil {
		return circulation.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	if owned {
		txn.Commit()
	}
	return bookEntry, nil
}

func (store *InMemoryStore) GetBookByID(ctx context.Context, id uuid.UUID) (circulation.Book, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	return store.getBook(txn, id)
}

/* Inside a memdb write transaction the writer lock is already held, so locking "for
update" needs no extra work here. */
func (store *InMemoryStore) GetBookForUpdate(ctx context.Context, id uuid.UUID) (circulation.Book, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	return store.getBook(txn, id)
}

func (store *InMemoryStore) getBook(txn *memdb.Txn, id uuid.UUID) (circulation.Book, error) {
	raw, err := txn.First("book", "id", id.String())
	if err != nil {
		return circulation.Book{}, fmt.Errorf("searching book by ID: %w", err)
	}
	if raw == nil {
		return circulation.Book{}, fmt.Errorf("searching book by ID: %w", circulation.ErrResponseBookNotFound)
	}

	return restoreBook(raw.(AdaptedBook)), nil
}

func (store *InMemoryStore) UpdateBookStatus(ctx context.Context, id uuid.UUID, status circulation.BookStatus) (circulation.Book, error) {
	txn, owned := store.txn(true)
	if owned {
		defer txn.Abort()
	}

	raw, err := txn.First("book", "id", id.String())
	if err != nil {
		return circulation.Book{}, fmt.Errorf("updating book status on db: %w", err)
	}
	if raw == nil {
		return circulation.Book{}, fmt.Errorf("updating book status on db: %w", circulation.ErrResponseBookNotFound)
	}

	updatedBook := raw.(AdaptedBook)
	updatedBook.Status = string(status)
	updatedBook.UpdatedAt = time.Now().UTC().Round(time.Millisecond)

	if err := txn.Insert("book", updatedBook); err != nil {
		return circulation.Book{}, fmt.Errorf("updating book status on db: %w", err)
	}

	if owned {
		txn.Commit()
	}
	return restoreBook(updatedBook), nil
}

// -- Borrowers --

func (store *InMemoryStore) CreateBorrower(ctx context.Context, borrowerEntry circulation.Borrower) (circulation.Borrower, error) {
	txn, owned := store.txn(true)
	if owned {
		defer txn.Abort()
	}

	if err := txn.Insert("borrower", adaptBorrower(borrowerEntry)); err != nil {
		return circulation.Borrower{}, fmt.Errorf("storing borrower on db: %w", err)
	}

	if owned {
		txn.Commit()
	}
	return borrowerEntry, nil
}

func (store *InMemoryStore) GetBorrowerByID(ctx context.Context, id uuid.UUID) (circulation.Borrower, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	raw, err := txn.First("borrower", "id", id.String())
	if err != nil {
		return circulation.Borrower{}, fmt.Errorf("searching borrower by ID: %w", err)
	}
	if raw == nil {
		return circulation.Borrower{}, fmt.Errorf("searching borrower by ID: %w", circulation.ErrResponseBorrowerNotFound)
	}

	return restoreBorrower(raw.(AdaptedBorrower)), nil
}

func (store *InMemoryStore) FindBorrowerByEmail(ctx context.Context, email string) (circulation.Borrower, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	raw, err := txn.First("borrower", "email", email)
	if err != nil {
		return circulation.Borrower{}, fmt.Errorf("searching borrower by email: %w", err)
	}
	if raw == nil {
		return circulation.Borrower{}, fmt.Errorf("searching borrower by email: %w", circulation.ErrResponseBorrowerNotFound)
	}

	return restoreBorrower(raw.(AdaptedBorrower)), nil
}

// -- Loans --

func (store *InMemoryStore) CreateLoan(ctx context.Context, loanEntry circulation.Loan) (circulation.Loan, error) {
	txn, owned := store.txn(true)
	if owned {
		defer txn.Abort()
	}

	if err := txn.Insert("loan", adaptLoan(loanEntry)); err != nil {
		return circulation.Loan{}, fmt.Errorf("storing loan on db: %w", err)
	}

	if owned {
		txn.Commit()
	}
	return loanEntry, nil
}

func (store *InMemoryStore) GetLoanByID(ctx context.Context, id uuid.UUID) (circulation.Loan, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	raw, err := txn.First("loan", "id", id.String())
	if err != nil {
		return circulation.Loan{}, fmt.Errorf("searching loan by ID: %w", err)
	}
	if raw == nil {
		return circulation.Loan{}, fmt.Errorf("searching loan by ID: %w", circulation.ErrResponseLoanNotFound)
	}

	return restoreLoan(raw.(AdaptedLoan)), nil
}

func (store *InMemoryStore) FindOpenLoanForBook(ctx context.Context, bookID uuid.UUID) (circulation.Loan, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	it, err := txn.Get("loan", "book_id", bookID.String())
	if err != nil {
		return circulation.Loan{}, fmt.Errorf("searching open loan for book: %w", err)
	}

	for obj := it.Next(); obj != nil; obj = it.Next() {
		l := obj.(AdaptedLoan)
		if l.DateReturned == nil {
			return restoreLoan(l), nil
		}
	}

	return circulation.Loan{}, fmt.Errorf("searching open loan for book: %w", circulation.ErrResponseNoOpenLoanForBook)
}

func (store *InMemoryStore) CloseLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time) (circulation.Loan, error) {
	txn, owned := store.txn(true)
	if owned {
		defer txn.Abort()
	}

	raw, err := txn.First("loan", "id", id.String())
	if err != nil {
		return circulation.Loan{}, fmt.Errorf("closing loan on db: %w", err)
	}
	if raw == nil {
		return circulation.Loan{}, fmt.Errorf("closing loan on db: %w", circulation.ErrResponseLoanNotFound)
	}

	closedLoan := raw.(AdaptedLoan)
	closedLoan.DateReturned = &returnedAt

	if err := txn.Insert("loan", closedLoan); err != nil {
		return circulation.Loan{}, fmt.Errorf("closing loan on db: %w", err)
	}

	if owned {
		txn.Commit()
	}
	return restoreLoan(closedLoan), nil
}

// -- Audit trail --

func (store *InMemoryStore) AppendAuditEntry(ctx context.Context, entry circulation.AuditEntry) (circulation.AuditEntry, error) {
	txn, owned := store.txn(true)
	if owned {
		defer txn.Abort()
	}

	if err := txn.Insert("audit_entry", adaptAuditEntry(entry)); err != nil {
		return circulation.AuditEntry{}, fmt.Errorf("appending audit entry on db: %w", err)
	}

	if owned {
		txn.Commit()
	}
	return entry, nil
}

func (store *InMemoryStore) ListAuditEntries(ctx context.Context, bookID uuid.UUID) ([]circulation.AuditEntry, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	it, err := txn.Get("audit_entry", "book_id", bookID.String())
	if err != nil {
		return nil, fmt.Errorf("listing audit entries from db: %w", err)
	}

	entries := []circulation.AuditEntry{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		entries = append(entries, restoreAuditEntry(obj.(AdaptedAuditEntry)))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ChangedAt.Before(entries[j].ChangedAt)
	})

	return entries, nil
}

// -- Reporting primitives --

func (store *InMemoryStore) LoansByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]reporting.LoanDetail, error) {
	details, err := store.loanDetails(func(l AdaptedLoan) bool {
		return l.BorrowerID == borrowerID.String()
	})
	if err != nil {
		return nil, fmt.Errorf("listing loans by borrower from db: %w", err)
	}
	return details, nil
}

func (store *InMemoryStore) OpenLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	details, err := store.loanDetails(func(l AdaptedLoan) bool {
		return l.DateReturned == nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing open loans from db: %w", err)
	}
	return details, nil
}

func (store *InMemoryStore) ClosedLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	details, err := store.loanDetails(func(l AdaptedLoan) bool {
		return l.DateReturned != nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing closed loans from db: %w", err)
	}
	return details, nil
}

func (store *InMemoryStore) AllLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	details, err := store.loanDetails(func(l AdaptedLoan) bool {
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("listing all loans from db: %w", err)
	}
	return details, nil
}

/* Joins every loan matching the filter to its book and borrower, in borrow order. */
func (store *InMemoryStore) loanDetails(match func(AdaptedLoan) bool) ([]reporting.LoanDetail, error) {
	txn, owned := store.txn(false)
	if owned {
		defer txn.Abort()
	}

	it, err := txn.Get("loan", "id")
	if err != nil {
		return nil, err
	}

	details := []reporting.LoanDetail{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		l := obj.(AdaptedLoan)
		if !match(l) {
			continue
		}

		rawBook, err := txn.First("book", "id", l.BookID)
		if err != nil {
			return nil, err
		}
		if rawBook == nil {
			return nil, circulation.ErrResponseBookNotFound
		}
		b := rawBook.(AdaptedBook)

		rawBorrower, err := txn.First("borrower", "id", l.BorrowerID)
		if err != nil {
			return nil, err
		}
		if rawBorrower == nil {
			return nil, circulation.ErrResponseBorrowerNotFound
		}
		br := rawBorrower.(AdaptedBorrower)

		details = append(details, reporting.LoanDetail{
			LoanID:            uuid.MustParse(l.ID),
			BookID:            uuid.MustParse(l.BookID),
			BookTitle:         b.Title,
			BookAuthor:        b.Author,
			BookGenre:         b.Genre,
			BorrowerID:        uuid.MustParse(l.BorrowerID),
			BorrowerFirstName: br.FirstName,
			BorrowerLastName:  br.LastName,
			BorrowerEmail:     br.Email,
			DateOfBirth:       br.DateOfBirth,
			DateBorrowed:      l.DateBorrowed,
			DueDate:           l.DueDate,
			DateReturned:      l.DateReturned,
		})
	}

	sort.Slice(details, func(i, j int) bool {
		return details[i].DateBorrowed.Before(details[j].DateBorrowed)
	})

	return details, nil
}

// -- Transactions --

func (store *InMemoryStore) BeginTx(ctx context.Context) (circulation.Repository, driver.Tx, error) {
	txn := store.db.Txn(true)

	txStore := &InMemoryStore{db: store.db, exc: txn}
	return txStore, &TxWrapper{txn: txn}, nil
}

type TxWrapper struct {
	txn *memdb.Txn
}

func (tx *TxWrapper) Commit() error {
	tx.txn.Commit()
	return nil
}

func (tx *TxWrapper) Rollback() error {
	tx.txn.Abort()
	return nil
}
