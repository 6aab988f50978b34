package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/models"
)

// HTTPProvider resolves emails from the managed identity service's admin
// lookup endpoint using a service token.
type HTTPProvider struct {
	baseURL      string
	serviceToken string
	client       *http.Client
}

func NewHTTPProvider(baseURL, serviceToken string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		client:       &http.Client{Timeout: timeout},
	}
}

type userProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (p *HTTPProvider) GetEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	url := fmt.Sprintf("%s/admin/users/%s", p.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusNotFound:
		return "", models.ErrNotFound
	default:
		return "", fmt.Errorf("identity lookup returned status %d", resp.StatusCode)
	}

	var profile userProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("failed to decode identity response: %w", err)
	}

	if profile.Email == "" {
		return "", models.ErrNotFound
	}

	return profile.Email, nil
}
