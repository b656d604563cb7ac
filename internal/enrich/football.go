package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klemjul/dobbychat/internal/config"
	"go.uber.org/zap"
)

const (
	FOOTBALL_SOURCE      = "football"
	FOOTBALL_PLACEHOLDER = " (Unable to fetch latest football info right now, check back soon!)"

	RECENT_MATCH_DAYS   = 10
	UPCOMING_MATCH_DAYS = 7
	MATCH_LIMIT         = 10

	matchDateLayout    = "2006-01-02"
	matchDisplayLayout = "Mon 02 Jan 15:04 MST"
)

var leagueNames = map[string]string{
	"PL":  "Premier League",
	"PD":  "La Liga",
	"BL1": "Bundesliga",
	"SA":  "Serie A",
	"FL1": "Ligue 1",
	"CL":  "Champions League",
}

type matchesResponse struct {
	Matches []match `json:"matches"`
}

type match struct {
	UTCDate  time.Time `json:"utcDate"`
	Status   string    `json:"status"`
	HomeTeam team      `json:"homeTeam"`
	AwayTeam team      `json:"awayTeam"`
	Score    struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type team struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

func (t team) display() string {
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.Name
}

func (m match) score() string {
	return fmt.Sprintf("%d-%d", orZero(m.Score.FullTime.Home), orZero(m.Score.FullTime.Away))
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// Football summarizes live, recently finished and upcoming matches of one
// competition from football-data.org.
type Football struct {
	base
	cfg    *config.FootballConfig
	logger *zap.Logger
}

func NewFootball(cfg *config.FootballConfig, logger *zap.Logger, opts ...Option) *Football {
	return &Football{base: newBase(opts), cfg: cfg, logger: logger.Named(FOOTBALL_SOURCE)}
}

func (f *Football) Name() string { return FOOTBALL_SOURCE }

func (f *Football) Heading() string {
	return fmt.Sprintf("Use this current %s info in your responses if relevant:", f.leagueName())
}

func (f *Football) Fetch(ctx context.Context) Result {
	if f.cfg.APIKey == "" {
		f.logger.Warn("no football api key set, skipping football data fetch")
		return disabled(FOOTBALL_SOURCE)
	}

	text, err := f.summary(ctx)
	if err != nil {
		f.logger.Error("error fetching football data", zap.Error(err))
		return failed(FOOTBALL_SOURCE, FOOTBALL_PLACEHOLDER, err)
	}
	return ok(FOOTBALL_SOURCE, text)
}

func (f *Football) summary(ctx context.Context) (string, error) {
	now := f.now().UTC()
	today := now.Format(matchDateLayout)
	league := f.leagueName()
	var sb strings.Builder

	live, err := f.matches(ctx, url.Values{"status": {"LIVE"}})
	if err != nil {
		return "", err
	}

	if len(live) > 0 {
		fmt.Fprintf(&sb, "Live %s matches right now:\n", league)
		for _, m := range live {
			fmt.Fprintf(&sb, "- %s vs %s: %s (Status: %s, Time: %s)\n",
				m.HomeTeam.display(), m.AwayTeam.display(), m.score(), m.Status, m.UTCDate.UTC().Format(matchDisplayLayout))
		}
	} else {
		from := now.AddDate(0, 0, -RECENT_MATCH_DAYS).Format(matchDateLayout)
		recent, err := f.matches(ctx, url.Values{"status": {"FINISHED"}, "dateFrom": {from}, "dateTo": {today}})
		if err != nil {
			return "", err
		}
		if len(recent) > 0 {
			fmt.Fprintf(&sb, "Recent finished %s matches (last %d days):\n", league, RECENT_MATCH_DAYS)
			slices.SortStableFunc(recent, func(a, b match) int { return b.UTCDate.Compare(a.UTCDate) })
			for _, m := range recent[:min(len(recent), MATCH_LIMIT)] {
				fmt.Fprintf(&sb, "- %s %s %s (Ended: %s)\n",
					m.HomeTeam.display(), m.score(), m.AwayTeam.display(), f.when(m.UTCDate, now))
			}
		} else {
			fmt.Fprintf(&sb, "No recent or live %s matches found.\n", league)
		}
	}

	to := now.AddDate(0, 0, UPCOMING_MATCH_DAYS).Format(matchDateLayout)
	upcoming, err := f.matches(ctx, url.Values{"status": {"SCHEDULED"}, "dateFrom": {today}, "dateTo": {to}})
	if err != nil {
		return "", err
	}
	if len(upcoming) > 0 {
		fmt.Fprintf(&sb, "\nUpcoming %s fixtures (next week):\n", league)
		slices.SortStableFunc(upcoming, func(a, b match) int { return a.UTCDate.Compare(b.UTCDate) })
		for _, m := range upcoming[:min(len(upcoming), MATCH_LIMIT)] {
			fmt.Fprintf(&sb, "- %s vs %s (Scheduled: %s)\n",
				m.HomeTeam.display(), m.AwayTeam.display(), f.when(m.UTCDate, now))
		}
	} else {
		fmt.Fprintf(&sb, "\nNo upcoming %s fixtures found in the next week.\n", league)
	}

	return sb.String(), nil
}

func (f *Football) matches(ctx context.Context, query url.Values) ([]match, error) {
	query.Set("season", strconv.Itoa(seasonYear(f.now().UTC())))
	endpoint := fmt.Sprintf("%s/competitions/%s/matches?%s",
		strings.TrimRight(f.cfg.BaseURL, "/"), url.PathEscape(f.cfg.League), query.Encode())

	var res matchesResponse
	header := http.Header{"X-Auth-Token": {f.cfg.APIKey}}
	if err := getJSON(ctx, f.client, endpoint, header, &res); err != nil {
		return nil, fmt.Errorf("%s matches: %w", query.Get("status"), err)
	}
	return res.Matches, nil
}

func (f *Football) when(t, now time.Time) string {
	return fmt.Sprintf("%s, %s", t.UTC().Format(matchDisplayLayout), humanize.RelTime(t, now, "ago", "from now"))
}

func (f *Football) leagueName() string {
	if name, ok := leagueNames[f.cfg.League]; ok {
		return name
	}
	return f.cfg.League
}

// seasonYear returns the year a European season started in: the 2025/26
// season is "2025" for the whole of it.
func seasonYear(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}
