package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

/* Ntfy pushes plain-text notices to an ntfy.sh style topic server. Disabled instances
swallow every call, so callers never need to branch on configuration. */
type Ntfy struct {
	baseURL string
	enabled bool
	timeout time.Duration
	client  *http.Client
}

func NewNtfy(enableNotifications bool, notificationsTimeout time.Duration, notificationsBaseURL string) *Ntfy {
	return &Ntfy{
		baseURL: notificationsBaseURL,
		enabled: enableNotifications,
		timeout: notificationsTimeout,
		client:  &http.Client{},
	}
}

/* Announces an overdue fee charged at return time. */
func (ntf *Ntfy) OverdueFeeCharged(bookTitle string, fee float64) error {
	message := fmt.Sprintf("Overdue return:\nTitle: %s\nFee charged: %.2f", bookTitle, fee)
	return ntf.publish("Overdue_fee_charged", message)
}

func (ntf *Ntfy) publish(topic, message string) error {
	if !ntf.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ntf.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ntf.baseURL+"/"+topic, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("delivering message to topic (%s/%s): %w", ntf.baseURL, topic, err)
	}

	resp, err := ntf.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering message to topic (%s/%s): %w", ntf.baseURL, topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewErrNotificationFailed(resp.StatusCode)
	}

	return nil
}

type ErrNotificationFailed struct {
	statusCode int
}

func (e ErrNotificationFailed) Error() string {
	return fmt.Sprintf("ntfy wrong response - want: 200 OK, got: %d", e.statusCode)
}

func NewErrNotificationFailed(statusCode int) ErrNotificationFailed {
	return ErrNotificationFailed{statusCode: statusCode}
}
