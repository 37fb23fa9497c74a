package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/google/uuid"
)

/* LoanDetail is one loan joined to its book and borrower, the flat row shape every
report is computed from. */
type LoanDetail struct {
	LoanID            uuid.UUID
	BookID            uuid.UUID
	BookTitle         string
	BookAuthor        string
	BookGenre         string
	BorrowerID        uuid.UUID
	BorrowerFirstName string
	BorrowerLastName  string
	BorrowerEmail     string
	DateOfBirth       time.Time
	DateBorrowed      time.Time
	DueDate           time.Time
	DateReturned      *time.Time
}

func (d LoanDetail) BorrowerName() string {
	return d.BorrowerFirstName + " " + d.BorrowerLastName
}

func (d LoanDetail) Open() bool {
	return d.DateReturned == nil
}

type Repository interface {
	LoansByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]LoanDetail, error)
	OpenLoans(ctx context.Context) ([]LoanDetail, error)
	ClosedLoans(ctx context.Context) ([]LoanDetail, error)
	AllLoans(ctx context.Context) ([]LoanDetail, error)
}

/* Service answers the read-only reporting queries. It never mutates the store and only
needs a snapshot view: grouping, ranking and ordering all happen here, in code, not in
the store's query surface. */
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ServiceAPI interface {
	LoansForBorrower(ctx context.Context, borrowerID uuid.UUID) ([]BorrowerLoan, error)
	ActiveBorrowers(ctx context.Context, minOpenLoans int) ([]ActiveBorrower, error)
	BorrowingFrequency(ctx context.Context) ([]BorrowerFrequency, error)
	PopularGenres(ctx context.Context, month int) ([]GenreCount, error)
	OverdueAnalysis(ctx context.Context, asOf time.Time, thresholdDays int) ([]OverdueLoan, error)
	AuthorPopularity(ctx context.Context) ([]AuthorRank, error)
	GenrePreferenceByAgeGroup(ctx context.Context, asOf time.Time) ([]AgeGroupPreference, error)
	OverdueBorrowersDetail(ctx context.Context, asOf time.Time) ([]OverdueBorrowerLoan, error)
	CirculationActivity(ctx context.Context, from, to time.Time) (Activity, error)
}

type BorrowerLoan struct {
	LoanID       uuid.UUID
	BookTitle    string
	BookAuthor   string
	DateBorrowed time.Time
	DueDate      time.Time
	DateReturned *time.Time
}

/* Every loan a borrower ever took, joined to book title and author, in borrow order. */
func (s *Service) LoansForBorrower(ctx context.Context, borrowerID uuid.UUID) ([]BorrowerLoan, error) {
	rows, err := s.repo.LoansByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("listing loans for borrower: %w", err)
	}

	loans := []BorrowerLoan{}
	for _, row := range rows {
		loans = append(loans, BorrowerLoan{
			LoanID:       row.LoanID,
			BookTitle:    row.BookTitle,
			BookAuthor:   row.BookAuthor,
			DateBorrowed: row.DateBorrowed,
			DueDate:      row.DueDate,
			DateReturned: row.DateReturned,
		})
	}

	return loans, nil
}

type ActiveBorrower struct {
	BorrowerID uuid.UUID
	Name       string
	Email      string
	OpenLoans  int
}

/* Borrowers holding at least minOpenLoans currently open loans, most loans first,
name as the tie break. */
func (s *Service) ActiveBorrowers(ctx context.Context, minOpenLoans int) ([]ActiveBorrower, error) {
	rows, err := s.repo.OpenLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active borrowers: %w", err)
	}

	byBorrower := map[uuid.UUID]*ActiveBorrower{}
	for _, row := range rows {
		entry, ok := byBorrower[row.BorrowerID]
		if !ok {
			entry = &ActiveBorrower{
				BorrowerID: row.BorrowerID,
				Name:       row.BorrowerName(),
				Email:      row.BorrowerEmail,
			}
			byBorrower[row.BorrowerID] = entry
		}
		entry.OpenLoans++
	}

	active := []ActiveBorrower{}
	for _, entry := range byBorrower {
		if entry.OpenLoans >= minOpenLoans {
			active = append(active, *entry)
		}
	}

	sortStable(active, func(a, b ActiveBorrower) bool {
		if a.OpenLoans != b.OpenLoans {
			return a.OpenLoans > b.OpenLoans
		}
		return a.Name < b.Name
	})

	return active, nil
}

type BorrowerFrequency struct {
	BorrowerID uuid.UUID
	Name       string
	Email      string
	LoansTotal int
}

/* Count of all loans ever taken per borrower, open and closed alike. */
func (s *Service) BorrowingFrequency(ctx context.Context) ([]BorrowerFrequency, error) {
	rows, err := s.repo.AllLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing borrowing frequency: %w", err)
	}

	byBorrower := map[uuid.UUID]*BorrowerFrequency{}
	for _, row := range rows {
		entry, ok := byBorrower[row.BorrowerID]
		if !ok {
			entry = &BorrowerFrequency{
				BorrowerID: row.BorrowerID,
				Name:       row.BorrowerName(),
				Email:      row.BorrowerEmail,
			}
			byBorrower[row.BorrowerID] = entry
		}
		entry.LoansTotal++
	}

	frequencies := []BorrowerFrequency{}
	for _, entry := range byBorrower {
		frequencies = append(frequencies, *entry)
	}

	sortStable(frequencies, func(a, b BorrowerFrequency) bool {
		if a.LoansTotal != b.LoansTotal {
			return a.LoansTotal > b.LoansTotal
		}
		return a.Name < b.Name
	})

	return frequencies, nil
}

type GenreCount struct {
	Genre string
	Loans int
}

/* Loans per genre for the given month of the year, any year, most borrowed genre
first. Ties break on genre name ascending. */
func (s *Service) PopularGenres(ctx context.Context, month int) ([]GenreCount, error) {
	if month < 1 || month > 12 {
		return nil, circulation.ErrResponseInvalidMonth
	}

	rows, err := s.repo.AllLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing popular genres: %w", err)
	}

	byGenre := map[string]int{}
	for _, row := range rows {
		if row.DateBorrowed.Month() != time.Month(month) {
			continue
		}
		byGenre[row.BookGenre]++
	}

	counts := []GenreCount{}
	for genre, loans := range byGenre {
		counts = append(counts, GenreCount{Genre: genre, Loans: loans})
	}

	sortStable(counts, func(a, b GenreCount) bool {
		if a.Loans != b.Loans {
			return a.Loans > b.Loans
		}
		return a.Genre < b.Genre
	})

	return counts, nil
}

type OverdueLoan struct {
	LoanID        uuid.UUID
	BookTitle     string
	BorrowerName  string
	BorrowerEmail string
	DueDate       time.Time
	OverdueDays   int
	Fee           float64
}

/* Open loans overdue by strictly more than thresholdDays as of asOf, most overdue
first. A zero asOf means now. */
func (s *Service) OverdueAnalysis(ctx context.Context, asOf time.Time, thresholdDays int) ([]OverdueLoan, error) {
	if thresholdDays < 0 {
		return nil, circulation.ErrResponseInvalidThreshold
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	rows, err := s.repo.OpenLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing overdue analysis: %w", err)
	}

	overdue := []OverdueLoan{}
	for _, row := range rows {
		days := circulation.OverdueDays(row.DueDate, asOf)
		if days <= thresholdDays {
			continue
		}
		overdue = append(overdue, OverdueLoan{
			LoanID:        row.LoanID,
			BookTitle:     row.BookTitle,
			BorrowerName:  row.BorrowerName(),
			BorrowerEmail: row.BorrowerEmail,
			DueDate:       row.DueDate,
			OverdueDays:   days,
			Fee:           circulation.ComputeOverdueFee(row.DueDate, asOf),
		})
	}

	sortStable(overdue, func(a, b OverdueLoan) bool {
		if a.OverdueDays != b.OverdueDays {
			return a.OverdueDays > b.OverdueDays
		}
		return a.BorrowerName < b.BorrowerName
	})

	return overdue, nil
}

type AuthorRank struct {
	Author string
	Loans  int
	Rank   int
}

/* Loan count per author with a dense rank: authors with the same count share a rank
and the next distinct count takes the following rank. */
func (s *Service) AuthorPopularity(ctx context.Context) ([]AuthorRank, error) {
	rows, err := s.repo.AllLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing author popularity: %w", err)
	}

	byAuthor := map[string]int{}
	for _, row := range rows {
		byAuthor[row.BookAuthor]++
	}

	ranks := []AuthorRank{}
	for author, loans := range byAuthor {
		ranks = append(ranks, AuthorRank{Author: author, Loans: loans})
	}

	sortStable(ranks, func(a, b AuthorRank) bool {
		if a.Loans != b.Loans {
			return a.Loans > b.Loans
		}
		return a.Author < b.Author
	})

	denseRank(ranks, func(r AuthorRank) int { return r.Loans }, func(r *AuthorRank, rank int) { r.Rank = rank })

	return ranks, nil
}

type AgeGroupPreference struct {
	AgeGroup int
	Genre    string
	Loans    int
}

/* The favorite genre of each age cohort, computed over closed loans only. Age group is
floor(age/10)*10 at asOf. Genres tied for first within a cohort all make the report. */
func (s *Service) GenrePreferenceByAgeGroup(ctx context.Context, asOf time.Time) ([]AgeGroupPreference, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	rows, err := s.repo.ClosedLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing genre preference by age group: %w", err)
	}

	type groupGenre struct {
		ageGroup int
		genre    string
	}
	counts := map[groupGenre]int{}
	for _, row := range rows {
		group := AgeGroup(row.DateOfBirth, asOf)
		counts[groupGenre{ageGroup: group, genre: row.BookGenre}]++
	}

	topPerGroup := map[int]int{}
	for key, loans := range counts {
		if loans > topPerGroup[key.ageGroup] {
			topPerGroup[key.ageGroup] = loans
		}
	}

	preferences := []AgeGroupPreference{}
	for key, loans := range counts {
		if loans == topPerGroup[key.ageGroup] {
			preferences = append(preferences, AgeGroupPreference{
				AgeGroup: key.ageGroup,
				Genre:    key.genre,
				Loans:    loans,
			})
		}
	}

	sortStable(preferences, func(a, b AgeGroupPreference) bool {
		if a.AgeGroup != b.AgeGroup {
			return a.AgeGroup < b.AgeGroup
		}
		return a.Genre < b.Genre
	})

	return preferences, nil
}

type OverdueBorrowerLoan struct {
	BorrowerID   uuid.UUID
	BorrowerName string
	OverdueLoans int
	BookTitle    string
	DueDate      time.Time
	OverdueDays  int
}

/* One row per currently overdue loan, each carrying its borrower's total overdue
count. Ordered by borrower name, then most overdue loan first. */
func (s *Service) OverdueBorrowersDetail(ctx context.Context, asOf time.Time) ([]OverdueBorrowerLoan, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	rows, err := s.repo.OpenLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing overdue borrowers detail: %w", err)
	}

	totals := map[uuid.UUID]int{}
	for _, row := range rows {
		if circulation.OverdueDays(row.DueDate, asOf) > 0 {
			totals[row.BorrowerID]++
		}
	}

	details := []OverdueBorrowerLoan{}
	for _, row := range rows {
		days := circulation.OverdueDays(row.DueDate, asOf)
		if days == 0 {
			continue
		}
		details = append(details, OverdueBorrowerLoan{
			BorrowerID:   row.BorrowerID,
			BorrowerName: row.BorrowerName(),
			OverdueLoans: totals[row.BorrowerID],
			BookTitle:    row.BookTitle,
			DueDate:      row.DueDate,
			OverdueDays:  days,
		})
	}

	sortStable(details, func(a, b OverdueBorrowerLoan) bool {
		if a.BorrowerName != b.BorrowerName {
			return a.BorrowerName < b.BorrowerName
		}
		return a.OverdueDays > b.OverdueDays
	})

	return details, nil
}

type Activity struct {
	From      time.Time
	To        time.Time
	Checkouts int
	Returns   int
}

/* Counts checkouts and returns that happened inside [from, to]. */
func (s *Service) CirculationActivity(ctx context.Context, from, to time.Time) (Activity, error) {
	if from.After(to) {
		return Activity{}, circulation.ErrResponseInvalidDateRange
	}

	rows, err := s.repo.AllLoans(ctx)
	if err != nil {
		return Activity{}, fmt.Errorf("computing circulation activity: %w", err)
	}

	activity := Activity{From: from, To: to}
	for _, row := range rows {
		if !row.DateBorrowed.Before(from) && !row.DateBorrowed.After(to) {
			activity.Checkouts++
		}
		if row.DateReturned != nil && !row.DateReturned.Before(from) && !row.DateReturned.After(to) {
			activity.Returns++
		}
	}

	return activity, nil
}

/* Age cohort bucket: floor(age/10)*10, with age counted in completed years at asOf. */
func AgeGroup(dateOfBirth, asOf time.Time) int {
	age := asOf.Year() - dateOfBirth.Year()
	birthdayThisYear := time.Date(asOf.Year(), dateOfBirth.Month(), dateOfBirth.Day(), 0, 0, 0, 0, asOf.Location())
	if asOf.Before(birthdayThisYear) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return (age / 10) * 10
}
