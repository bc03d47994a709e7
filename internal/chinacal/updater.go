package chinacal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultUpdateTimeout = 10 * time.Second

// Updater refreshes the on-disk rule dataset from the holiday-cn mirror and
// hot-swaps the serving snapshot. It is driven by the daily scheduler; every
// failure is non-fatal and leaves the previous snapshot in place.
type Updater struct {
	datasetDir string
	mirrorURL  string // contains a {year} placeholder
	source     *SnapshotSource
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewUpdater creates a new Updater writing into datasetDir and swapping
// snapshots on source.
func NewUpdater(datasetDir, mirrorURL string, source *SnapshotSource, logger *zap.Logger) *Updater {
	return &Updater{
		datasetDir: datasetDir,
		mirrorURL:  mirrorURL,
		source:     source,
		httpClient: &http.Client{
			Timeout: defaultUpdateTimeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Run downloads the current and next year's rule files, then rebuilds the
// ruleset from disk and swaps it in. A per-year download failure does not
// block the other year; the swap happens as long as the dataset dir loads.
func (u *Updater) Run() error {
	currentYear := u.now().Year()

	downloaded := 0
	for _, year := range []int{currentYear, currentYear + 1} {
		if err := u.downloadYear(year); err != nil {
			u.logger.Warn("Rule dataset download failed",
				zap.Int("year", year),
				zap.Error(err))
			continue
		}
		downloaded++
	}

	rs, err := LoadDir(u.datasetDir, u.logger)
	if err != nil {
		return fmt.Errorf("failed to reload rule data: %w", err)
	}
	u.source.Swap(rs)

	u.logger.Info("Rule dataset refreshed",
		zap.Int("downloaded_years", downloaded),
		zap.Ints("covered_years", rs.Years()))

	if downloaded == 0 {
		return fmt.Errorf("no rule files could be downloaded")
	}
	return nil
}

// downloadYear fetches one year file from the mirror and writes it into the
// dataset dir via temp file + rename.
func (u *Updater) downloadYear(year int) error {
	url := strings.ReplaceAll(u.mirrorURL, "{year}", strconv.Itoa(year))

	u.logger.Debug("Downloading rule dataset file",
		zap.String("url", url),
		zap.Int("year", year))

	resp, err := u.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mirror returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Reject payloads that do not parse as a year file for the requested
	// year, so a mirror error page never replaces valid rule data.
	var yf yearFile
	if err := json.Unmarshal(data, &yf); err != nil {
		return fmt.Errorf("failed to parse dataset payload: %w", err)
	}
	if yf.Year != year {
		return fmt.Errorf("dataset payload is for year %d, want %d", yf.Year, year)
	}

	if err := os.MkdirAll(u.datasetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset dir: %w", err)
	}

	path := filepath.Join(u.datasetDir, fmt.Sprintf("%d.json", year))
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace dataset file: %w", err)
	}

	u.logger.Info("Rule dataset file updated",
		zap.Int("year", year),
		zap.Int("days", len(yf.Days)))

	return nil
}
