package reporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/circulation-service/cmd/api/reporting"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

var ctx context.Context = context.Background()

/* stubRepository serves a fixed set of loan rows, the way the stores do. */
type stubRepository struct {
	loans []reporting.LoanDetail
}

func (r *stubRepository) LoansByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]reporting.LoanDetail, error) {
	matched := []reporting.LoanDetail{}
	for _, l := range r.loans {
		if l.BorrowerID == borrowerID {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

func (r *stubRepository) OpenLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	matched := []reporting.LoanDetail{}
	for _, l := range r.loans {
		if l.Open() {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

func (r *stubRepository) ClosedLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	matched := []reporting.LoanDetail{}
	for _, l := range r.loans {
		if !l.Open() {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

func (r *stubRepository) AllLoans(ctx context.Context) ([]reporting.LoanDetail, error) {
	return r.loans, nil
}

var (
	asOf = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	aliceID = uuid.New()
	bobID   = uuid.New()
	carolID = uuid.New()
)

func loanRow(borrowerID uuid.UUID, firstName, title, author, genre string, dateOfBirth, borrowed, due time.Time, returned *time.Time) reporting.LoanDetail {
	return reporting.LoanDetail{
		LoanID:            uuid.New(),
		BookID:            uuid.New(),
		BookTitle:         title,
		BookAuthor:        author,
		BookGenre:         genre,
		BorrowerID:        borrowerID,
		BorrowerFirstName: firstName,
		BorrowerLastName:  "Tester",
		BorrowerEmail:     firstName + "@example.com",
		DateOfBirth:       dateOfBirth,
		DateBorrowed:      borrowed,
		DueDate:           due,
		DateReturned:      returned,
	}
}

func fixtureRepo() *stubRepository {
	aliceBirth := time.Date(1990, time.March, 5, 0, 0, 0, 0, time.UTC)  //34 at asOf
	bobBirth := time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC) //24 at asOf
	carolBirth := time.Date(1985, time.July, 20, 0, 0, 0, 0, time.UTC)  //38 at asOf

	march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)
	returnedApril := time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)

	return &stubRepository{loans: []reporting.LoanDetail{
		//Alice: one closed fantasy loan, two open loans, one of them long overdue.
		loanRow(aliceID, "alice", "A Wizard of Earthsea", "Ursula K. Le Guin", "Fantasy", aliceBirth, march, march.AddDate(0, 0, 14), &returnedApril),
		loanRow(aliceID, "alice", "The Dispossessed", "Ursula K. Le Guin", "Science Fiction", aliceBirth, april, asOf.AddDate(0, 0, -40), nil),
		loanRow(aliceID, "alice", "The Tombs of Atuan", "Ursula K. Le Guin", "Fantasy", aliceBirth, april, asOf.AddDate(0, 0, 7), nil),
		//Bob: one open loan, slightly overdue.
		loanRow(bobID, "bob", "Dune", "Frank Herbert", "Science Fiction", bobBirth, april, asOf.AddDate(0, 0, -5), nil),
		//Carol: one closed mystery loan in March.
		loanRow(carolID, "carol", "The Big Sleep", "Raymond Chandler", "Mystery", carolBirth, march, march.AddDate(0, 0, 14), &returnedApril),
	}}
}

func TestLoansForBorrower(t *testing.T) {
	t.Run("lists every loan of the borrower in borrow order", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		loans, err := mS.LoansForBorrower(ctx, aliceID)
		is.NoErr(err)
		is.Equal(len(loans), 3)
		is.Equal(loans[0].BookTitle, "A Wizard of Earthsea")
		is.True(loans[0].DateReturned != nil)
	})

	t.Run("a borrower with no loans gets an empty report", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		loans, err := mS.LoansForBorrower(ctx, uuid.New())
		is.NoErr(err)
		is.Equal(len(loans), 0)
	})
}

func TestActiveBorrowers(t *testing.T) {
	t.Run("counts open loans and orders by count then name", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		active, err := mS.ActiveBorrowers(ctx, 1)
		is.NoErr(err)
		is.Equal(len(active), 2)
		is.Equal(active[0].BorrowerID, aliceID)
		is.Equal(active[0].OpenLoans, 2)
		is.Equal(active[1].BorrowerID, bobID)
		is.Equal(active[1].OpenLoans, 1)
	})

	t.Run("the minimum filters borrowers below it", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		active, err := mS.ActiveBorrowers(ctx, 2)
		is.NoErr(err)
		is.Equal(len(active), 1)
		is.Equal(active[0].BorrowerID, aliceID)
	})
}

func TestBorrowingFrequency(t *testing.T) {
	t.Run("counts open and closed loans alike", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		frequencies, err := mS.BorrowingFrequency(ctx)
		is.NoErr(err)
		is.Equal(len(frequencies), 3)
		is.Equal(frequencies[0].BorrowerID, aliceID)
		is.Equal(frequencies[0].LoansTotal, 3)
		//bob and carol tie at 1 loan, name ascending breaks it.
		is.Equal(frequencies[1].Name, "bob Tester")
		is.Equal(frequencies[2].Name, "carol Tester")
	})
}

func TestPopularGenres(t *testing.T) {
	t.Run("counts loans borrowed in the given month of any year", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		genres, err := mS.PopularGenres(ctx, 3)
		is.NoErr(err)
		is.Equal(len(genres), 2)
		//Fantasy and Mystery tie at 1 in March, genre name breaks the tie.
		is.Equal(genres[0].Genre, "Fantasy")
		is.Equal(genres[1].Genre, "Mystery")
	})

	t.Run("april belongs to science fiction", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		genres, err := mS.PopularGenres(ctx, 4)
		is.NoErr(err)
		is.Equal(genres[0].Genre, "Science Fiction")
		is.Equal(genres[0].Loans, 2)
	})

	t.Run("an out of range month is a validation error", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		_, err := mS.PopularGenres(ctx, 13)
		is.True(errors.Is(err, circulation.ErrResponseInvalidMonth))

		_, err = mS.PopularGenres(ctx, 0)
		is.True(errors.Is(err, circulation.ErrResponseInvalidMonth))
	})
}

func TestOverdueAnalysis(t *testing.T) {
	t.Run("includes only loans over the threshold, most overdue first", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		overdue, err := mS.OverdueAnalysis(ctx, asOf, 0)
		is.NoErr(err)
		is.Equal(len(overdue), 2)
		is.Equal(overdue[0].BookTitle, "The Dispossessed")
		is.Equal(overdue[0].OverdueDays, 40)
		is.Equal(overdue[0].Fee, 50.0) //30*1.0 + 10*2.0
		is.Equal(overdue[1].BookTitle, "Dune")
		is.Equal(overdue[1].OverdueDays, 5)
		is.Equal(overdue[1].Fee, 5.0)
	})

	t.Run("the threshold is strict", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		overdue, err := mS.OverdueAnalysis(ctx, asOf, 5)
		is.NoErr(err)
		is.Equal(len(overdue), 1)
		is.Equal(overdue[0].BookTitle, "The Dispossessed")
	})

	t.Run("a negative threshold is a validation error", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		_, err := mS.OverdueAnalysis(ctx, asOf, -1)
		is.True(errors.Is(err, circulation.ErrResponseInvalidThreshold))
	})
}

func TestAuthorPopularity(t *testing.T) {
	t.Run("ranks authors densely by loan count", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		ranks, err := mS.AuthorPopularity(ctx)
		is.NoErr(err)
		is.Equal(len(ranks), 3)
		is.Equal(ranks[0].Author, "Ursula K. Le Guin")
		is.Equal(ranks[0].Loans, 3)
		is.Equal(ranks[0].Rank, 1)
		//Chandler and Herbert tie at 1 loan: same rank, no gap after.
		is.Equal(ranks[1].Author, "Frank Herbert")
		is.Equal(ranks[1].Rank, 2)
		is.Equal(ranks[2].Author, "Raymond Chandler")
		is.Equal(ranks[2].Rank, 2)
	})
}

func TestGenrePreferenceByAgeGroup(t *testing.T) {
	t.Run("computes cohort favorites over closed loans only", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		preferences, err := mS.GenrePreferenceByAgeGroup(ctx, asOf)
		is.NoErr(err)
		//Open loans never count: bob's cohort (20s) has no closed loan, so no row.
		is.Equal(len(preferences), 2)
		is.Equal(preferences[0].AgeGroup, 30)
		is.Equal(preferences[0].Genre, "Fantasy")
		is.Equal(preferences[1].AgeGroup, 30)
		is.Equal(preferences[1].Genre, "Mystery")
	})
}

func TestOverdueBorrowersDetail(t *testing.T) {
	t.Run("one row per overdue loan with the borrower total", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		details, err := mS.OverdueBorrowersDetail(ctx, asOf)
		is.NoErr(err)
		is.Equal(len(details), 2)
		is.Equal(details[0].BorrowerName, "alice Tester")
		is.Equal(details[0].OverdueLoans, 1)
		is.Equal(details[0].OverdueDays, 40)
		is.Equal(details[1].BorrowerName, "bob Tester")
		is.Equal(details[1].OverdueDays, 5)
	})
}

func TestCirculationActivity(t *testing.T) {
	t.Run("counts checkouts and returns inside the range", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		from := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)

		activity, err := mS.CirculationActivity(ctx, from, to)
		is.NoErr(err)
		is.Equal(activity.Checkouts, 3)
		is.Equal(activity.Returns, 2)
	})

	t.Run("a start date after the end date is a validation error", func(t *testing.T) {
		is := is.New(t)
		mS := reporting.NewService(fixtureRepo())

		_, err := mS.CirculationActivity(ctx, asOf, asOf.AddDate(0, 0, -1))
		is.True(errors.Is(err, circulation.ErrResponseInvalidDateRange))
		is.True(circulation.IsValidation(err))
	})
}

func TestAgeGroup(t *testing.T) {
	is := is.New(t)

	born := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	//The 34th birthday has not happened yet on June 1st.
	is.Equal(reporting.AgeGroup(born, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)), 30)
	is.Equal(reporting.AgeGroup(born, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)), 30)
	is.Equal(reporting.AgeGroup(born, time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)), 10)
	//Never below zero, even with a birth date in the future.
	is.Equal(reporting.AgeGroup(born, time.Date(1989, time.January, 1, 0, 0, 0, 0, time.UTC)), 0)
}
