package seller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Qwwn/capstone-sangar/internal/domain"
	apperrors "github.com/Qwwn/capstone-sangar/pkg/errors"
	"github.com/Qwwn/capstone-sangar/pkg/httpclient"
)

// HTTPDirectory resolves sellers by calling the seller directory service over
// HTTP. Calls go through a circuit breaker so a degraded directory cannot
// drag search down with it.
type HTTPDirectory struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewHTTPDirectory creates a directory client for the given base URL.
func NewHTTPDirectory(client *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *HTTPDirectory {
	return &HTTPDirectory{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// sellerEnvelope mirrors the directory service's response format.
type sellerEnvelope struct {
	Data *domain.Seller `json:"data"`
}

// GetSellerByID fetches a seller projection from the directory service.
func (d *HTTPDirectory) GetSellerByID(ctx context.Context, id string) (*domain.Seller, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sellers/%s", d.baseURL, url.PathEscape(id))

	resp, err := d.client.Get(ctx, endpoint)
	if err != nil {
		return nil, apperrors.Upstream("seller directory", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFound("seller", id)
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.Upstream("seller directory",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope sellerEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, apperrors.Upstream("seller directory", fmt.Errorf("decode response: %w", err))
	}
	if envelope.Data == nil {
		return nil, apperrors.NotFound("seller", id)
	}

	return envelope.Data, nil
}
