package database_test

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/circulation-service/cmd/api/database"
	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"
	"github.com/matryer/is"

	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/lib/pq"
)

var store *database.Store
var sqlDB *sql.DB
var ctx context.Context = context.Background()

// TestMain is called before all the tests run.
// Usually is where we add logic to initialise resources.
func TestMain(m *testing.M) {
	// Setting up the database for tests.
	var err error
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Println("DATABASE_URL not set, skipping the database tests")
		os.Exit(0)
	}
	sqlDB, err = database.ConnectDb(connStr)
	if err != nil {
		log.Fatalln(err)
	}

	store = database.NewStore(sqlDB)
	path := os.Getenv("DATABASE_MIGRATIONS_PATH")
	err = database.MigrationUp(store, path)
	if err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalln(err)
		}
		log.Println(err)
	}

	os.Exit(m.Run())
}

func teardownDB(t *testing.T) {
	t.Helper()
	for _, table := range []string{"audit_entries", "loans", "borrowers", "books"} {
		_, err := sqlDB.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func seedBook(t *testing.T) circulation.Book {
	t.Helper()
	is := is.New(t)

	now := time.Now().UTC().Round(time.Millisecond)
	b := circulation.Book{
		ID:            uuid.New(),
		Title:         "A database tester book",
		Author:        "An author",
		Genre:         "Fiction",
		ShelfLocation: "D-1",
		Status:        circulation.BookStatusAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := store.CreateBook(ctx, b)
	is.NoErr(err)
	return created
}

func seedBorrower(t *testing.T, email string) circulation.Borrower {
	t.Helper()
	is := is.New(t)

	br := circulation.Borrower{
		ID:             uuid.New(),
		FirstName:      "Nina",
		LastName:       "Costa",
		Email:          email,
		DateOfBirth:    time.Date(1993, time.April, 4, 0, 0, 0, 0, time.UTC),
		MembershipDate: time.Now().UTC().Round(time.Millisecond),
	}
	created, err := store.CreateBorrower(ctx, br)
	is.NoErr(err)
	return created
}

func TestCreateBook(t *testing.T) {
	// Removing all data from the test database.
	// We don't want to the database to be tainted with
	// this test data in another tests.
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("creates a book without errors", func(t *testing.T) {
		is := is.New(t)

		b := seedBook(t)

		fetched, err := store.GetBookByID(ctx, b.ID)
		is.NoErr(err)
		is.Equal(fetched.ID, b.ID)
		is.Equal(fetched.Status, circulation.BookStatusAvailable)
	})

	t.Run("fetching a non existing book returns a not found error", func(t *testing.T) {
		is := is.New(t)

		_, err := store.GetBookByID(ctx, uuid.New())
		is.True(errors.Is(err, circulation.ErrResponseBookNotFound))
	})
}

func TestUpdateBookStatus(t *testing.T) {
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("flips the status without errors", func(t *testing.T) {
		is := is.New(t)

		b := seedBook(t)

		updated, err := store.UpdateBookStatus(ctx, b.ID, circulation.BookStatusBorrowed)
		is.NoErr(err)
		is.Equal(updated.Status, circulation.BookStatusBorrowed)
	})
}

func TestBorrowers(t *testing.T) {
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("creates and finds a borrower by email", func(t *testing.T) {
		is := is.New(t)

		br := seedBorrower(t, "nina.costa@example.com")

		found, err := store.FindBorrowerByEmail(ctx, br.Email)
		is.NoErr(err)
		is.Equal(found.ID, br.ID)
	})

	t.Run("the unique email constraint holds at the schema level", func(t *testing.T) {
		is := is.New(t)

		seedBorrower(t, "unique@example.com")

		duplicate := circulation.Borrower{
			ID:             uuid.New(),
			FirstName:      "Other",
			LastName:       "Person",
			Email:          "unique@example.com",
			DateOfBirth:    time.Date(1980, time.May, 5, 0, 0, 0, 0, time.UTC),
			MembershipDate: time.Now().UTC().Round(time.Millisecond),
		}
		_, err := store.CreateBorrower(ctx, duplicate)
		is.True(err != nil)
	})
}

func TestLoans(t *testing.T) {
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("creates, finds open and closes a loan", func(t *testing.T) {
		is := is.New(t)

		b := seedBook(t)
		br := seedBorrower(t, "loans.db@example.com")

		l := circulation.Loan{
			ID:           uuid.New(),
			BookID:       b.ID,
			BorrowerID:   br.ID,
			DateBorrowed: time.Now().UTC().Round(time.Millisecond),
			DueDate:      time.Now().UTC().Round(time.Millisecond).AddDate(0, 0, 14),
		}
		_, err := store.CreateLoan(ctx, l)
		is.NoErr(err)

		open, err := store.FindOpenLoanForBook(ctx, b.ID)
		is.NoErr(err)
		is.Equal(open.ID, l.ID)

		closed, err := store.CloseLoan(ctx, l.ID, time.Now().UTC().Round(time.Millisecond))
		is.NoErr(err)
		is.True(!closed.Open())

		_, err = store.FindOpenLoanForBook(ctx, b.ID)
		is.True(errors.Is(err, circulation.ErrResponseNoOpenLoanForBook))
	})

	t.Run("the partial index rejects a second open loan for the same book", func(t *testing.T) {
		is := is.New(t)

		b := seedBook(t)
		br := seedBorrower(t, "partial.index@example.com")

		first := circulation.Loan{
			ID:           uuid.New(),
			BookID:       b.ID,
			BorrowerID:   br.ID,
			DateBorrowed: time.Now().UTC().Round(time.Millisecond),
			DueDate:      time.Now().UTC().Round(time.Millisecond).AddDate(0, 0, 14),
		}
		_, err := store.CreateLoan(ctx, first)
		is.NoErr(err)

		second := first
		second.ID = uuid.New()
		_, err = store.CreateLoan(ctx, second)
		is.True(err != nil)
	})
}

func TestAuditEntries(t *testing.T) {
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("appends and lists entries in changed_at order", func(t *testing.T) {
		is := is.New(t)

		b := seedBook(t)

		base := time.Now().UTC().Round(time.Millisecond)
		for i, description := range []string{
			"status changed from available to borrowed",
			"status changed from borrowed to available",
		} {
			_, err := store.AppendAuditEntry(ctx, circulation.AuditEntry{
				ID:          uuid.New(),
				BookID:      b.ID,
				Description: description,
				ChangedAt:   base.Add(time.Duration(i) * time.Second),
			})
			is.NoErr(err)
		}

		entries, err := store.ListAuditEntries(ctx, b.ID)
		is.NoErr(err)
		is.Equal(len(entries), 2)
		is.Equal(entries[0].Description, "status changed from available to borrowed")
		is.Equal(entries[1].Description, "status changed from borrowed to available")
	})
}

func TestTransactions(t *testing.T) {
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("a rolled back write leaves no trace", func(t *testing.T) {
		is := is.New(t)

		txRepo, tx, err := store.BeginTx(ctx)
		is.NoErr(err)

		now := time.Now().UTC().Round(time.Millisecond)
		b := circulation.Book{
			ID:        uuid.New(),
			Title:     "Rolled back",
			Author:    "Nobody",
			Status:    circulation.BookStatusAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = txRepo.CreateBook(ctx, b)
		is.NoErr(err)

		is.NoErr(tx.Rollback())

		_, err = store.GetBookByID(ctx, b.ID)
		is.True(errors.Is(err, circulation.ErrResponseBookNotFound))
	})
}

func TestReportingPrimitives(t *testing.T) {
	t.Cleanup(func() {
		teardownDB(t)
	})

	t.Run("joins loans to books and borrowers", func(t *testing.T) {
		is := is.New(t)

		b := seedBook(t)
		br := seedBorrower(t, "reporting.db@example.com")

		l := circulation.Loan{
			ID:           uuid.New(),
			BookID:       b.ID,
			BorrowerID:   br.ID,
			DateBorrowed: time.Now().UTC().Round(time.Millisecond),
			DueDate:      time.Now().UTC().Round(time.Millisecond).AddDate(0, 0, 14),
		}
		_, err := store.CreateLoan(ctx, l)
		is.NoErr(err)

		open, err := store.OpenLoans(ctx)
		is.NoErr(err)
		is.Equal(len(open), 1)
		is.Equal(open[0].BookTitle, b.Title)
		is.Equal(open[0].BorrowerEmail, br.Email)

		all, err := store.AllLoans(ctx)
		is.NoErr(err)
		is.Equal(len(all), 1)

		byBorrower, err := store.LoansByBorrower(ctx, br.ID)
		is.NoErr(err)
		is.Equal(len(byBorrower), 1)
	})
}
