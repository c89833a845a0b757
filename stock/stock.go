// Package stock contains a minimal client for the data.go.kr stock securities price API,
// used by the !주가 command. Lookups match by name fragment and take the first result.
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const defaultBaseURL = "https://apis.data.go.kr/1160100/service/GetStockSecuritiesInfoService"

// ErrNotFound means the API returned no item for the name fragment.
var ErrNotFound = errors.New("stock not found")

// Quote holds the price fields for one listed security, verbatim from the API.
type Quote struct {
	Name    string
	Current string
	High    string
	Low     string
}

// Client calls the public stock price API.
type Client struct {
	ServiceKey string
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}

// Lookup finds the best match for a name fragment (likeItmsNm, one row). It returns
// ErrNotFound when no security matches; transport and decode failures are returned as-is
// so callers can log them separately before folding them into a not-found reply.
func (c *Client) Lookup(ctx context.Context, fragment string) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/getStockPriceInfo", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("serviceKey", c.ServiceKey)
	q.Set("resultType", "json")
	q.Set("likeItmsNm", fragment)
	q.Set("numOfRows", "1")
	q.Set("pageNo", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := c.http().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock api status %d", resp.StatusCode)
	}

	var body struct {
		Response struct {
			Body struct {
				// The API serializes an empty result set as "" instead of an
				// object, so items has to be decoded in a second step.
				Items json.RawMessage `json:"items"`
			} `json:"body"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode stock response: %w", err)
	}

	var items struct {
		Item []struct {
			ItmsNm string `json:"itmsNm"`
			Clpr   string `json:"clpr"`
			Hipr   string `json:"hipr"`
			Lopr   string `json:"lopr"`
		} `json:"item"`
	}
	if len(body.Response.Body.Items) == 0 || json.Unmarshal(body.Response.Body.Items, &items) != nil || len(items.Item) == 0 {
		return nil, ErrNotFound
	}
	first := items.Item[0]
	return &Quote{Name: first.ItmsNm, Current: first.Clpr, High: first.Hipr, Low: first.Lopr}, nil
}
