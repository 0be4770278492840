// Package trend fetches 12 months of search-volume data for one keyword and
// renders it as a single evidence line for the generation oracle
package trend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopkeeper/internal/platform/config"
	perr "shopkeeper/internal/platform/errors"
)

// Config configures the search-volume client
type Config struct {
	URL          string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// ConfigFromEnv reads TREND_URL, TREND_CLIENT_ID and TREND_CLIENT_SECRET
func ConfigFromEnv(cfg config.Conf) Config {
	return Config{
		URL:          cfg.MayString("TREND_URL", "https://openapi.naver.com/v1/datalab/search"),
		ClientID:     cfg.MayString("TREND_CLIENT_ID", ""),
		ClientSecret: cfg.MayString("TREND_CLIENT_SECRET", ""),
		Timeout:      cfg.MayDuration("TREND_TIMEOUT", 10*time.Second),
	}
}

// Point is one month of relative search volume
type Point struct {
	Period string  `json:"period"`
	Ratio  float64 `json:"ratio"`
}

// Client calls the search-volume API
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time // seam
}

// NewClient constructs a Client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

type searchReq struct {
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	TimeUnit      string         `json:"timeUnit"`
	KeywordGroups []keywordGroup `json:"keywordGroups"`
}

type keywordGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}

type searchResp struct {
	Results []struct {
		Data []Point `json:"data"`
	} `json:"results"`
}

// FetchSeries returns the last 12 months of monthly volume for keyword
func (c *Client) FetchSeries(ctx context.Context, keyword string) ([]Point, error) {
	end := c.now()
	start := end.AddDate(0, 0, -365)

	body, err := json.Marshal(searchReq{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		TimeUnit:  "month",
		KeywordGroups: []keywordGroup{
			{GroupName: keyword, Keywords: []string{keyword}},
		},
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "marshal trend request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build trend request")
	}
	req.Header.Set("X-Naver-Client-Id", c.cfg.ClientID)
	req.Header.Set("X-Naver-Client-Secret", c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "trend api call")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "read trend response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, perr.Upstreamf("trend api returned %d: %s", resp.StatusCode, string(raw))
	}

	var sr searchResp
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "parse trend response")
	}
	if len(sr.Results) == 0 {
		return nil, nil
	}
	return sr.Results[0].Data, nil
}

// SeriesText renders "keyword 검색량: period:ratio, ..." or "" for no data
func SeriesText(keyword string, points []Point) string {
	if len(points) == 0 {
		return ""
	}
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%s:%g", p.Period, p.Ratio))
	}
	return fmt.Sprintf("%s 검색량: %s", keyword, strings.Join(parts, ", "))
}
