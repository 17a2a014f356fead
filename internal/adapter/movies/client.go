package movies

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/polkiloo/cinema/internal/adapter/remote"
	"github.com/polkiloo/cinema/internal/domain/model"
)

// Client reads movie details from the movies service.
type Client interface {
	Get(ctx context.Context, movieID int64) (*model.Movie, error)
}

// HTTPClient implements Client via the movies HTTP API.
type HTTPClient struct {
	remote *remote.Client
}

type movieResponse struct {
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
	URI    string  `json:"uri"`
}

// NewHTTPClient creates a movies client for baseURL.
func NewHTTPClient(baseURL string, policy remote.Policy, logger *slog.Logger) (*HTTPClient, error) {
	client, err := remote.New("movies", baseURL, policy, logger)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{remote: client}, nil
}

// Get returns the movie with the given id.
func (c *HTTPClient) Get(ctx context.Context, movieID int64) (*model.Movie, error) {
	resp, err := c.remote.Call(ctx, remote.Request{
		Method: http.MethodGet,
		Path:   "/movies/" + strconv.FormatInt(movieID, 10),
	})
	if err != nil {
		return nil, err
	}

	var data movieResponse
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("movies: %w", err)
	}
	return &model.Movie{Title: data.Title, Rating: data.Rating, URI: data.URI}, nil
}
