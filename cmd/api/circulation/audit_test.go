package circulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	circulationmock "github.com/circulation-service/cmd/api/circulation/mocks"
	"github.com/google/uuid"
	"github.com/matryer/is"
	gomock "go.uber.org/mock/gomock"
)

func TestStatusChanged(t *testing.T) {
	t.Run("appends one entry per real transition", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := circulationmock.NewMockRepository(ctrl)
		auditor := circulation.NewAuditLogger()

		bookID := uuid.New()

		mockRepo.EXPECT().AppendAuditEntry(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, entry circulation.AuditEntry) (circulation.AuditEntry, error) {
			is.True(entry.ID != uuid.Nil)
			is.Equal(entry.BookID, bookID)
			is.Equal(entry.Description, "status changed from available to borrowed")
			is.True(entry.ChangedAt.Compare(time.Now().Round(time.Millisecond)) <= 0)
			return entry, nil
		})

		err := auditor.StatusChanged(ctx, mockRepo, bookID, circulation.BookStatusAvailable, circulation.BookStatusBorrowed)
		is.NoErr(err)
	})

	t.Run("a rewrite to the same status appends nothing", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := circulationmock.NewMockRepository(ctrl)
		auditor := circulation.NewAuditLogger()

		err := auditor.StatusChanged(ctx, mockRepo, uuid.New(), circulation.BookStatusAvailable, circulation.BookStatusAvailable)
		is.NoErr(err)
	})
}
