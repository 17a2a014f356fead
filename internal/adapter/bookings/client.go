package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/polkiloo/cinema/internal/adapter/remote"
	"github.com/polkiloo/cinema/internal/domain/model"
)

const dateLayout = "2006-01-02"

// Client reads bookings from the bookings service.
type Client interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
}

// HTTPClient implements Client via the bookings HTTP API.
type HTTPClient struct {
	remote *remote.Client
}

type bookingResponse struct {
	ID     int64  `json:"id"`
	User   int64  `json:"user"`
	Movie  int64  `json:"movie"`
	Date   string `json:"date"`
	Status string `json:"reward_status"`
}

// NewHTTPClient creates a bookings client for baseURL.
func NewHTTPClient(baseURL string, policy remote.Policy, logger *slog.Logger) (*HTTPClient, error) {
	client, err := remote.New("bookings", baseURL, policy, logger)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{remote: client}, nil
}

// ListByUser returns bookings of the user. A user without bookings yields an error
// matching errors.ErrNotFound.
func (c *HTTPClient) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	resp, err := c.remote.Call(ctx, remote.Request{
		Method: http.MethodGet,
		Path:   "/bookings/" + strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, err
	}

	var data []bookingResponse
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("bookings: %w", err)
	}

	result := make([]model.Booking, 0, len(data))
	for _, item := range data {
		date, err := time.Parse(dateLayout, item.Date)
		if err != nil {
			return nil, fmt.Errorf("bookings: parse date of booking %d: %w", item.ID, err)
		}
		result = append(result, model.Booking{
			ID:      item.ID,
			UserID:  item.User,
			MovieID: item.Movie,
			Date:    date,
			Reward:  model.RewardState{Status: model.RewardStatus(item.Status)},
		})
	}
	return result, nil
}
