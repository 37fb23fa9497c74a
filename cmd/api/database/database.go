package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/circulation-service/cmd/api/reporting"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/google/uuid"

	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/lib/pq"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

/* Store implements the circulation and reporting repositories over postgres. The schema
backs the service-level checks with constraints of its own: a unique borrower email and
a partial unique index allowing one open loan per book. */
type Store struct {
	db  *sql.DB
	exc *Executor
}

type Executor struct {
	DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, exc: NewExc(db)}
}

func NewExc(dbtx DBTX) *Executor {
	return &Executor{DBTX: dbtx}
}

/* Starts a transaction and returns a store scoped to it. All statements issued through
the returned repository run inside the transaction until Commit or Rollback. */
func (store *Store) BeginTx(ctx context.Context) (circulation.Repository, driver.Tx, error) {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}

	txRepo := NewStore(store.db)
	txRepo.exc = NewExc(tx)
	return txRepo, tx, nil
}

/* Connects to the database through a connection string and returns a pointer to a valid DB object (*sql.DB). */
func ConnectDb(connStr string) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to db, opening: %w", err)
	}

	err = sqlDB.Ping()
	if err != nil {
		return nil, fmt.Errorf("connecting to db, pinging: %w", err)
	}

	log.Println("Successfully connected!")
	return sqlDB, nil
}

func MigrationUp(store *Store, path string) error {
	driver, err := postgres.WithInstance(store.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", path),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	err = m.Up()
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

// -- Books --

func (store *Store) CreateBook(ctx context.Context, bookEntry circulation.Book) (circulation.Book, error) {
	sqlStatement := `
	INSERT INTO books (id, title, author, isbn, published_date, genre, shelf_location, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, title, author, isbn, published_date, genre, shelf_location, status, created_at, updated_at`
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, bookEntry.ID, bookEntry.Title, bookEntry.Author,
		bookEntry.ISBN, bookEntry.PublishedDate, bookEntry.Genre, bookEntry.ShelfLocation, bookEntry.Status,
		bookEntry.CreatedAt, bookEntry.UpdatedAt)

	bookToReturn, err := scanBook(createdRow)
	if err != nil {
		return circulation.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	return bookToReturn, nil
}

func (store *Store) GetBookByID(ctx context.Context, id uuid.UUID) (circulation.Book, error) {
	sqlStatement := `SELECT id, title, author, isbn, published_date, genre, shelf_location, status, created_at, updated_at
	FROM books
	WHERE id=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)

	bookToReturn, err := scanBook(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Book{}, fmt.Errorf("searching book by ID: %w", circulation.ErrResponseBookNotFound)
		default:
			return circulation.Book{}, fmt.Errorf("searching book by ID: %w", err)
		}
	}

	return bookToReturn, nil
}

/* Locks the book row for the rest of the enclosing transaction, serializing concurrent
checkouts and returns of the same book. */
func (store *Store) GetBookForUpdate(ctx context.Context, id uuid.UUID) (circulation.Book, error) {
	sqlStatement := `SELECT id, title, author, isbn, published_date, genre, shelf_location, status, created_at, updated_at
	FROM books
	WHERE id=$1
	FOR UPDATE;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)

	bookToReturn, err := scanBook(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Book{}, fmt.Errorf("locking book by ID: %w", circulation.ErrResponseBookNotFound)
		default:
			return circulation.Book{}, fmt.Errorf("locking book by ID: %w", err)
		}
	}

	return bookToReturn, nil
}

func (store *Store) UpdateBookStatus(ctx context.Context, id uuid.UUID, status circulation.BookStatus) (circulation.Book, error) {
	sqlStatement := `
	UPDATE books
	SET status = $2, updated_at = $3
	WHERE id = $1
	RETURNING id, title, author, isbn, published_date, genre, shelf_location, status, created_at, updated_at`
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement, id, status, time.Now().UTC().Round(time.Millisecond))

	bookToReturn, err := scanBook(updatedRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Book{}, fmt.Errorf("updating book status on db: %w", circulation.ErrResponseBookNotFound)
		default:
			return circulation.Book{}, fmt.Errorf("updating book status on db: %w", err)
		}
	}

	return bookToReturn, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (circulation.Book, error) {
	var b circulation.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishedDate, &b.Genre, &b.ShelfLocation,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// -- Borrowers --

func (store *Store) CreateBorrower(ctx context.Context, borrowerEntry circulation.Borrower) (circulation.Borrower, error) {
	sqlStatement := `
	INSERT INTO borrowers (id, first_name, last_name, email, date_of_birth, membership_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, first_name, last_name, email, date_of_birth, membership_date`
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, borrowerEntry.ID, borrowerEntry.FirstName,
		borrowerEntry.LastName, borrowerEntry.Email, borrowerEntry.DateOfBirth, borrowerEntry.MembershipDate)

	borrowerToReturn, err := scanBorrower(createdRow)
	if err != nil {
		return circulation.Borrower{}, fmt.Errorf("storing borrower on db: %w", err)
	}

	return borrowerToReturn, nil
}

func (store *Store) GetBorrowerByID(ctx context.Context, id uuid.UUID) (circulation.Borrower, error) {
	sqlStatement := `SELECT id, first_name, last_name, email, date_of_birth, membership_date
	FROM borrowers
	WHERE id=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)

	borrowerToReturn, err := scanBorrower(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Borrower{}, fmt.Errorf("searching borrower by ID: %w", circulation.ErrResponseBorrowerNotFound)
		default:
			return circulation.Borrower{}, fmt.Errorf("searching borrower by ID: %w", err)
		}
	}

	return borrowerToReturn, nil
}

func (store *Store) FindBorrowerByEmail(ctx context.Context, email string) (circulation.Borrower, error) {
	sqlStatement := `SELECT id, first_name, last_name, email, date_of_birth, membership_date
	FROM borrowers
	WHERE email=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, email)

	borrowerToReturn, err := scanBorrower(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Borrower{}, fmt.Errorf("searching borrower by email: %w", circulation.ErrResponseBorrowerNotFound)
		default:
			return circulation.Borrower{}, fmt.Errorf("searching borrower by email: %w", err)
		}
	}

	return borrowerToReturn, nil
}

func scanBorrower(row rowScanner) (circulation.Borrower, error) {
	var b circulation.Borrower
	err := row.Scan(&b.ID, &b.FirstName, &b.LastName, &b.Email, &b.DateOfBirth, &b.MembershipDate)
	return b, err
}

// -- Loans --

func (store *Store) CreateLoan(ctx context.Context, loanEntry circulation.Loan) (circulation.Loan, error) {
	sqlStatement := `
	INSERT INTO loans (id, book_id, borrower_id, date_borrowed, due_date, date_returned)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, book_id, borrower_id, date_borrowed, due_date, date_returned`
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, loanEntry.ID, loanEntry.BookID,
		loanEntry.BorrowerID, loanEntry.DateBorrowed, loanEntry.DueDate, loanEntry.DateReturned)

	loanToReturn, err := scanLoan(createdRow)
	if err != nil {
		return circulation.Loan{}, fmt.Errorf("storing loan on db: %w", err)
	}

	return loanToReturn, nil
}

func (store *Store) GetLoanByID(ctx context.Context, id uuid.UUID) (circulation.Loan, error) {
	sqlStatement := `SELECT id, book_id, borrower_id, date_borrowed, due_date, date_returned
	FROM loans
	WHERE id=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)

	loanToReturn, err := scanLoan(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Loan{}, fmt.Errorf("searching loan by ID: %w", circulation.ErrResponseLoanNotFound)
		default:
			return circulation.Loan{}, fmt.Errorf("searching loan by ID: %w", err)
		}
	}

	return loanToReturn, nil
}

func (store *Store) FindOpenLoanForBook(ctx context.Context, bookID uuid.UUID) (circulation.Loan, error) {
	sqlStatement := `SELECT id, book_id, borrower_id, date_borrowed, due_date, date_returned
	FROM loans
	WHERE book_id=$1 AND date_returned IS NULL;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, bookID)

	loanToReturn, err := scanLoan(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Loan{}, fmt.Errorf("searching open loan for book: %w", circulation.ErrResponseNoOpenLoanForBook)
		default:
			return circulation.Loan{}, fmt.Errorf("searching open loan for book: %w", err)
		}
	}

	return loanToReturn, nil
}

func (store *Store) CloseLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time) (circulation.Loan, error) {
	sqlStatement := `
	UPDATE loans
	SET date_returned = $2
	WHERE id = $1
	RETURNING id, book_id, borrower_id, date_borrowed, due_date, date_returned`
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement, id, returnedAt)

	loanToReturn, err := scanLoan(updatedRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return circulation.Loan{}, fmt.Errorf("closing loan on db: %w", circulation.ErrResponseLoanNotFound)
		default:
			return circulation.Loan{}, fmt.Errorf("closing loan on db: %w", err)
		}
	}

	return loanToReturn, nil
}

func scanLoan(row rowScanner) (circulation.Loan, error) {
	var l circulation.Loan
	err := row.Scan(&l.ID, &l.BookID, &l.BorrowerID, &l.DateBorrowed, &l.DueDate, &l.DateReturned)
	return l, err
}

// -- Audit trail --

func (store *Store) AppendAuditEntry(ctx context.Context, entry circulation.AuditEntry) (circulation.AuditEntry, error) {
	sqlStatement := `
	INSERT INTO audit_entries (id, book_id, description, changed_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id, book_id, description, changed_at`
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, entry.ID, entry.BookID, entry.Description, entry.ChangedAt)

	var entryToReturn circulation.AuditEntry
	err := createdRow.Scan(&entryToReturn.ID, &entryToReturn.BookID, &entryToReturn.Description, &entryToReturn.ChangedAt)
	if err != nil {
		return circulation.AuditEntry{}, fmt.Errorf("appending audit entry on db: %w", err)
	}

	return entryToReturn, nil
}

func (store *Store) ListAuditEntries(ctx context.Context, bookID uuid.UUID) ([]circulation.AuditEntry, error) {
	sqlStatement := `SELECT id, book_id, description, changed_at
	FROM audit_entries
	WHERE book_id=$1
	ORDER BY changed_at ASC;`

	rows, err := store.exc.QueryContext(ctx, sqlStatement, bookID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries from db: %w", err)
	}
	defer rows.Close()

	entries := []circulation.AuditEntry{}
	for rows.Next() {
		var entry circulation.AuditEntry
		err = rows.Scan(&entry.ID, &entry.BookID, &entry.Description, &entry.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("listing audit entries from db: %w", err)
		}
		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing audit entries from db: %w", err)
	}

	return entries, nil
}

// -- Reporting primitives --

const loanDetailColumns = `
	l.id, l.book_id, b.title, b.author, b.genre,
	l.borrower_id, br.first_name, br.last_name, br.email, br.date_of_birth,
	l.date_borrowed, l.due_date, l.date_returned`

const loanDetailJoins = `
	FROM loans l
	JOIN books b ON b.id = l.book_id
	JOIN borrowers br ON br.id = l.borrower_id`

func (store *Store) LoansByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]reporting.LoanDetail, error) {
	sqlStatement := `SELECT` + loanDetailColumns + loanDetailJoins + `
	WHERE l.borrower_id = $1
	ORDER BY l.date_borrowed ASC;`

	details, err := store.queryLoanDetails(ctx, sqlStatement, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("listing loans by borrower from db: %w", err)
	}
	return details, nil
}

func (store *Store) OpenLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	sqlStatement := `SELECT` + loanDetailColumns + loanDetailJoins + `
	WHERE l.date_returned IS NULL
	ORDER BY l.date_borrowed ASC;`

	details, err := store.queryLoanDetails(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing open loans from db: %w", err)
	}
	return details, nil
}

func (store *Store) ClosedLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	sqlStatement := `SELECT` + loanDetailColumns + loanDetailJoins + `
	WHERE l.date_returned IS NOT NULL
	ORDER BY l.date_borrowed ASC;`

	details, err := store.queryLoanDetails(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing closed loans from db: %w", err)
	}
	return details, nil
}

func (store *Store) AllLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	sqlStatement := `SELECT` + loanDetailColumns + loanDetailJoins + `
	ORDER BY l.date_borrowed ASC;`

	details, err := store.queryLoanDetails(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing all loans from db: %w", err)
	}
	return details, nil
}

func (store *Store) queryLoanDetails(ctx context.Context, sqlStatement string, args ...any) ([]reporting.LoanDetail, error) {
	rows, err := store.exc.QueryContext(ctx, sqlStatement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []reporting.LoanDetail{}
	for rows.Next() {
		var d reporting.LoanDetail
		err = rows.Scan(&d.LoanID, &d.BookID, &d.BookTitle, &d.BookAuthor, &d.BookGenre,
			&d.BorrowerID, &d.BorrowerFirstName, &d.BorrowerLastName, &d.BorrowerEmail, &d.DateOfBirth,
			&d.DateBorrowed, &d.DueDate, &d.DateReturned)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}
