package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/shopspring/decimal"
)

// Client resolves authoritative unit prices from the remote catalog.
// Anything other than a 200 with a well-formed {"product": {"price": <number>}}
// body is a PriceError; the pipeline treats that as fatal for the whole order.
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

type productResponse struct {
	Product *struct {
		Price json.Number `json:"price"`
	} `json:"product"`
}

func (c *Client) UnitPrice(ctx context.Context, productID int64) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, &usecase.PriceError{ProductID: productID, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, &usecase.PriceError{ProductID: productID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, &usecase.PriceError{
			ProductID: productID,
			Err:       fmt.Errorf("catalog returned status %d", resp.StatusCode),
		}
	}

	var pr productResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return decimal.Decimal{}, &usecase.PriceError{ProductID: productID, Err: fmt.Errorf("malformed body: %w", err)}
	}
	if pr.Product == nil || pr.Product.Price.String() == "" {
		return decimal.Decimal{}, &usecase.PriceError{ProductID: productID, Err: fmt.Errorf("missing product price")}
	}

	// decimal keeps the catalog's scale exactly; no float round-trip.
	price, err := decimal.NewFromString(pr.Product.Price.String())
	if err != nil {
		return decimal.Decimal{}, &usecase.PriceError{ProductID: productID, Err: fmt.Errorf("unparseable price %q", pr.Product.Price)}
	}
	return price, nil
}

var _ usecase.PriceCatalog = (*Client)(nil)
