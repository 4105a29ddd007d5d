package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nishantchy/ecom-microservice/internal/entity"
	"github.com/nishantchy/ecom-microservice/internal/logging"
	"github.com/nishantchy/ecom-microservice/internal/usecase"
)

// Client delegates token verification to the remote identity authority.
// Every failure mode (transport, non-200, malformed body) folds into
// ErrUnauthenticated: callers never learn authority-internal detail, only the
// server-side log does.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// The authority sends the user id as a JSON number.
type verifyResponse struct {
	UserID      json.Number `json:"user_id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Street      string      `json:"street"`
	City        string      `json:"city"`
	Province    string      `json:"province"`
	PostalCode  string      `json:"postal_code"`
	Country     string      `json:"country"`
	PhoneNumber string      `json:"phone_number"`
}

func (c *Client) Verify(ctx context.Context, token string) (entity.Principal, error) {
	l := logging.FromCtx(ctx)

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return entity.Principal{}, usecase.ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify-token", bytes.NewReader(body))
	if err != nil {
		return entity.Principal{}, usecase.ErrUnauthenticated
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("identity authority unreachable", "error", err)
		return entity.Principal{}, usecase.ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.Info("identity authority rejected token", "status", resp.StatusCode)
		return entity.Principal{}, usecase.ErrUnauthenticated
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		l.Warn("identity authority returned malformed body", "error", err)
		return entity.Principal{}, usecase.ErrUnauthenticated
	}
	if vr.UserID.String() == "" || vr.Email == "" {
		l.Warn("identity authority returned incomplete principal")
		return entity.Principal{}, usecase.ErrUnauthenticated
	}

	return entity.Principal{
		UserID:      vr.UserID.String(),
		Username:    vr.Username,
		Email:       vr.Email,
		FirstName:   vr.FirstName,
		LastName:    vr.LastName,
		Street:      vr.Street,
		City:        vr.City,
		Province:    vr.Province,
		PostalCode:  vr.PostalCode,
		Country:     vr.Country,
		PhoneNumber: vr.PhoneNumber,
	}, nil
}

var _ usecase.IdentityVerifier = (*Client)(nil)
