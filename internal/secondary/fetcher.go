package secondary

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultFetchTimeout = 10 * time.Second

// publicHoliday is one entry of the Nager.Date response.
type publicHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Fetcher retrieves one year of public holidays from the Nager.Date feed.
// It is best-effort enrichment: every failure degrades to an empty result.
type Fetcher struct {
	apiURL     string // contains a {year} placeholder
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher for the given URL template. A zero timeout
// falls back to 10s.
func NewFetcher(apiURL string, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	return &Fetcher{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch returns the year's holidays as ISO date -> local display name.
// Network errors, non-2xx statuses and malformed payloads all yield an
// empty map with a warning log.
func (f *Fetcher) Fetch(year int) map[string]string {
	result := make(map[string]string)

	url := strings.ReplaceAll(f.apiURL, "{year}", strconv.Itoa(year))

	resp, err := f.httpClient.Get(url)
	if err != nil {
		f.logger.Warn("Secondary holiday feed unreachable",
			zap.Int("year", year),
			zap.Error(err))
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("Secondary holiday feed returned bad status",
			zap.Int("year", year),
			zap.Int("status", resp.StatusCode))
		return result
	}

	var holidays []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		f.logger.Warn("Secondary holiday feed payload malformed",
			zap.Int("year", year),
			zap.Error(err))
		return result
	}

	for _, h := range holidays {
		if h.Date == "" {
			continue
		}
		name := h.LocalName
		if name == "" {
			name = h.Name
		}
		result[h.Date] = name
	}

	f.logger.Info("Secondary holiday feed fetched",
		zap.Int("year", year),
		zap.Int("count", len(result)))

	return result
}
