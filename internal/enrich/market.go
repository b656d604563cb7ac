package enrich

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klemjul/dobbychat/internal/config"
	"go.uber.org/zap"
)

const (
	MARKET_SOURCE      = "market"
	MARKET_PLACEHOLDER = " (Unable to fetch latest crypto info right now, check back soon!)"

	TRENDING_LIMIT = 5
	GAINERS_LIMIT  = 5
	MARKETS_PAGE   = 10
)

var assetSymbols = map[string]string{
	"bitcoin":     "BTC",
	"ethereum":    "ETH",
	"solana":      "SOL",
	"binancecoin": "BNB",
	"ripple":      "XRP",
	"cardano":     "ADA",
	"dogecoin":    "DOGE",
	"tether":      "USDT",
}

type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank *int   `json:"market_cap_rank"`
		} `json:"item"`
	} `json:"coins"`
}

type marketCoin struct {
	ID                   string   `json:"id"`
	Symbol               string   `json:"symbol"`
	Name                 string   `json:"name"`
	CurrentPrice         float64  `json:"current_price"`
	PriceChangePercent1h *float64 `json:"price_change_percentage_1h_in_currency"`
}

func (c marketCoin) change1h() float64 {
	if c.PriceChangePercent1h == nil {
		return 0
	}
	return *c.PriceChangePercent1h
}

// Market summarizes prices, trending coins and short-interval gainers from
// CoinGecko. It needs no credential.
type Market struct {
	base
	cfg    *config.MarketConfig
	logger *zap.Logger
}

func NewMarket(cfg *config.MarketConfig, logger *zap.Logger, opts ...Option) *Market {
	return &Market{base: newBase(opts), cfg: cfg, logger: logger.Named(MARKET_SOURCE)}
}

func (m *Market) Name() string { return MARKET_SOURCE }

func (m *Market) Heading() string {
	return "Use this current crypto info (prices, trends, emerging projects) in your responses if relevant:"
}

func (m *Market) Fetch(ctx context.Context) Result {
	text, err := m.summary(ctx)
	if err != nil {
		m.logger.Error("error fetching crypto data", zap.Error(err))
		return failed(MARKET_SOURCE, MARKET_PLACEHOLDER, err)
	}
	return ok(MARKET_SOURCE, text)
}

func (m *Market) summary(ctx context.Context) (string, error) {
	var sb strings.Builder
	currency := m.currency()

	if len(m.cfg.Assets) > 0 {
		prices, err := m.prices(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Current crypto prices (%s):\n", strings.ToUpper(currency))
		for _, id := range m.cfg.Assets {
			quote, found := prices[id]
			if !found {
				continue
			}
			price, found := quote[currency]
			if !found {
				continue
			}
			change := "n/a"
			if v, found := quote[currency+"_24h_change"]; found {
				change = fmt.Sprintf("%.2f%%", v)
			}
			fmt.Fprintf(&sb, "- %s (%s): %s (24h change: %s)\n", symbolFor(id), id, formatPrice(currency, price), change)
		}
	}

	var trending trendingResponse
	if err := getJSON(ctx, m.client, m.endpoint("/search/trending", nil), nil, &trending); err != nil {
		return "", fmt.Errorf("trending: %w", err)
	}
	if len(trending.Coins) > 0 {
		sb.WriteString("\nTrending crypto coins right now:\n")
		for _, coin := range trending.Coins[:min(len(trending.Coins), TRENDING_LIMIT)] {
			rank := "N/A"
			if coin.Item.MarketCapRank != nil {
				rank = fmt.Sprint(*coin.Item.MarketCapRank)
			}
			fmt.Fprintf(&sb, "- %s (%s): Market rank #%s\n", coin.Item.Name, strings.ToUpper(coin.Item.Symbol), rank)
		}
	}

	var markets []marketCoin
	query := url.Values{
		"vs_currency":             {currency},
		"order":                   {"market_cap_desc"},
		"per_page":                {fmt.Sprint(MARKETS_PAGE)},
		"page":                    {"1"},
		"sparkline":               {"false"},
		"price_change_percentage": {"1h"},
		"locale":                  {"en"},
		"precision":               {"2"},
	}
	if err := getJSON(ctx, m.client, m.endpoint("/coins/markets", query), nil, &markets); err != nil {
		return "", fmt.Errorf("markets: %w", err)
	}
	if len(markets) > 0 {
		sb.WriteString("\nNew/emerging crypto projects (top risers by 1h change):\n")
		slices.SortStableFunc(markets, func(a, b marketCoin) int { return cmp.Compare(b.change1h(), a.change1h()) })
		for _, coin := range markets[:min(len(markets), GAINERS_LIMIT)] {
			fmt.Fprintf(&sb, "- %s (%s): %s (1h change: %.2f%%)\n",
				coin.Name, strings.ToUpper(coin.Symbol), formatPrice(currency, coin.CurrentPrice), coin.change1h())
		}
	}

	return sb.String(), nil
}

func (m *Market) prices(ctx context.Context) (map[string]map[string]float64, error) {
	query := url.Values{
		"ids":                 {strings.Join(m.cfg.Assets, ",")},
		"vs_currencies":       {m.currency()},
		"include_24hr_change": {"true"},
	}
	var prices map[string]map[string]float64
	if err := getJSON(ctx, m.client, m.endpoint("/simple/price", query), nil, &prices); err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	return prices, nil
}

func (m *Market) endpoint(path string, query url.Values) string {
	endpoint := strings.TrimRight(m.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (m *Market) currency() string {
	if m.cfg.Currency == "" {
		return config.DEFAULT_MARKET_CURRENCY
	}
	return m.cfg.Currency
}

func symbolFor(id string) string {
	if symbol, ok := assetSymbols[id]; ok {
		return symbol
	}
	return strings.ToUpper(id)
}

func formatPrice(currency string, price float64) string {
	digits := 2
	if price < 1 {
		digits = 6
	}
	amount := humanize.CommafWithDigits(price, digits)
	if currency == "usd" {
		return "$" + amount
	}
	return strings.ToUpper(currency) + " " + amount
}
