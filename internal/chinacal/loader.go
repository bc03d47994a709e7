package chinacal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// yearFile mirrors the holiday-cn dataset layout: one JSON file per year
// listing the officially published adjustments.
type yearFile struct {
	Year   int      `json:"year"`
	Papers []string `json:"papers"`
	Days   []struct {
		Name     string `json:"name"`
		Date     string `json:"date"`
		IsOffDay bool   `json:"isOffDay"`
	} `json:"days"`
}

// LoadDir builds a Ruleset from all <year>.json files in dir. A missing
// directory yields an empty ruleset; individual unreadable or malformed
// files are skipped with a warning.
func LoadDir(dir string, logger *zap.Logger) (*Ruleset, error) {
	rs := newRuleset()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Calendar dataset directory missing, starting with no rule data",
				zap.String("dir", dir))
			return rs, nil
		}
		return nil, fmt.Errorf("failed to read dataset dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := loadYearFile(rs, path); err != nil {
			logger.Warn("Skipping unreadable dataset file",
				zap.String("file", path),
				zap.Error(err))
		}
	}

	logger.Info("Calendar rule data loaded",
		zap.String("dir", dir),
		zap.Ints("years", rs.Years()))

	return rs, nil
}

func loadYearFile(rs *Ruleset, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var yf yearFile
	if err := json.Unmarshal(data, &yf); err != nil {
		return fmt.Errorf("failed to parse dataset file: %w", err)
	}
	if yf.Year == 0 {
		return fmt.Errorf("dataset file has no year field")
	}

	rules := rs.addYear(yf.Year)
	for _, day := range yf.Days {
		rules[day.Date] = dayRule{Name: day.Name, IsOffDay: day.IsOffDay}
	}

	return nil
}
