package tokeninfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"roundsmirror/pkg/logger"
	"go.uber.org/zap"

	json "github.com/goccy/go-json"
)

const (
	// UnknownSymbol is the ticker used whenever metadata cannot be
	// resolved for a token address.
	UnknownSymbol = "UNKNOWN"

	// PlaceholderLogo is served for native assets and unresolved tokens.
	PlaceholderLogo = "https://static.roundsmirror.app/tokens/unknown.png"
)

type Config struct {
	BaseURL       string        `json:"baseUrl"`
	PrimaryChain  string        `json:"primaryChain"`
	FallbackChain string        `json:"fallbackChain"`
	Timeout       time.Duration `json:"timeout"`
}

type Info struct {
	Symbol string `json:"symbol"`
	Logo   string `json:"logo"`
}

type Resolver struct {
	httpClient *http.Client
	baseURL    string
	chains     []string
	timeout    time.Duration
}

func NewResolver(cfg Config) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Resolver{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		chains:     []string{cfg.PrimaryChain, cfg.FallbackChain},
		timeout:    timeout,
	}
}

// Resolve looks a token address up on the primary chain and retries on
// the fallback chain when the primary yields no symbol. It never fails:
// any remaining miss degrades to the UNKNOWN placeholder so a refresh
// cycle is not blocked by the metadata service.
func (r *Resolver) Resolve(ctx context.Context, address string) Info {
	log := logger.Logger()

	for _, chain := range r.chains {
		if chain == "" {
			continue
		}

		info, err := r.lookup(ctx, chain, address)
		if err != nil {
			log.Warn("token metadata lookup failed",
				zap.String("chain", chain),
				zap.String("address", address),
				zap.Error(err))
			continue
		}
		if info.Symbol == "" {
			continue
		}
		if info.Logo == "" {
			info.Logo = PlaceholderLogo
		}
		return info
	}

	return Info{Symbol: UnknownSymbol, Logo: PlaceholderLogo}
}

func (r *Resolver) lookup(ctx context.Context, chain, address string) (Info, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rawURL := fmt.Sprintf("%s/tokens/%s/%s", r.baseURL, url.PathEscape(chain), url.PathEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Info{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Info{}, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var info Info
	if err := json.Unmarshal(body, &info); err != nil {
		return Info{}, fmt.Errorf("error parsing response: %w", err)
	}

	return info, nil
}
