package notifications

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestOverdueFeeCharged(t *testing.T) {
	t.Run("publishes the fee notice to the topic", func(t *testing.T) {
		is := is.New(t)

		var gotPath, gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ntfy := NewNtfy(true, 2*time.Second, server.URL)

		err := ntfy.OverdueFeeCharged("Dune", 14.0)
		is.NoErr(err)
		is.Equal(gotPath, "/Overdue_fee_charged")
		is.Equal(gotBody, "Overdue return:\nTitle: Dune\nFee charged: 14.00")
	})

	t.Run("a non 200 answer is an error", func(t *testing.T) {
		is := is.New(t)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		ntfy := NewNtfy(true, 2*time.Second, server.URL)

		err := ntfy.OverdueFeeCharged("Dune", 14.0)
		is.True(errors.Is(err, NewErrNotificationFailed(http.StatusBadGateway)))
	})

	t.Run("a disabled notifier swallows every call", func(t *testing.T) {
		is := is.New(t)

		ntfy := NewNtfy(false, 2*time.Second, "http://localhost:1")

		err := ntfy.OverdueFeeCharged("Dune", 14.0)
		is.NoErr(err)
	})
}
