package roundsapi

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const requestTimeout = 15 * time.Second

type Config struct {
	BaseURL  string `json:"baseUrl"`
	PageSize int    `json:"pageSize"`
	MaxPages int    `json:"maxPages"`
}

// Round is the upstream listing shape. Only the fields the mirror needs
// are decoded; everything else the upstream sends is dropped.
type Round struct {
	ID                 string    `json:"id"`
	CommunityID        string    `json:"communityId"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	StartsAt           time.Time `json:"startsAt"`
	AreWinnersReported bool      `json:"areWinnersReported"`
	Award              Award     `json:"award"`
}

type Award struct {
	AssetType    string `json:"assetType"`
	TokenAddress string `json:"tokenAddress"`
}

// Winner keeps the typed join fields plus whatever else the upstream
// reported for the entry, so the mirror does not lose upstream data.
type Winner struct {
	Fid    int64
	Amount Amount
	Extra  map[string]json.RawMessage
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["fid"]; ok {
		if err := json.Unmarshal(raw, &w.Fid); err != nil {
			return fmt.Errorf("invalid winner fid: %w", err)
		}
		delete(fields, "fid")
	}
	if raw, ok := fields["amount"]; ok {
		if err := w.Amount.UnmarshalJSON(raw); err != nil {
			return err
		}
		delete(fields, "amount")
	}
	if len(fields) > 0 {
		w.Extra = fields
	}

	return nil
}

// Amount tolerates the upstream reporting prize amounts either as JSON
// numbers or as numeric strings. Unparsable values coerce to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*a = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}

	*a = Amount(f)
	return nil
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	maxPages   int
}

func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    cfg.BaseURL,
		pageSize:   cfg.PageSize,
		maxPages:   cfg.MaxPages,
	}
}

// FetchRounds pages through the upstream listing until an empty page or
// the page cap, concatenating pages in upstream order.
func (c *Client) FetchRounds(ctx context.Context) ([]Round, error) {
	var all []Round

	for page := 0; page <= c.maxPages; page++ {
		params := url.Values{}
		params.Set("currentPage", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(c.pageSize))

		var out struct {
			Rounds []Round `json:"rounds"`
		}
		if err := c.get(ctx, fmt.Sprintf("%s/rounds?%s", c.baseURL, params.Encode()), &out); err != nil {
			return nil, fmt.Errorf("failed to fetch rounds page %d: %w", page, err)
		}

		if len(out.Rounds) == 0 {
			break
		}
		all = append(all, out.Rounds...)
	}

	return all, nil
}

// FetchWinners returns the reported winners of a single round.
func (c *Client) FetchWinners(ctx context.Context, roundID string) ([]Winner, error) {
	var out struct {
		Winners []Winner `json:"winners"`
	}
	if err := c.get(ctx, fmt.Sprintf("%s/rounds/%s/winners", c.baseURL, url.PathEscape(roundID)), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch winners for round %s: %w", roundID, err)
	}

	return out.Winners, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}

	return nil
}
