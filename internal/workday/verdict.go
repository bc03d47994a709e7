package workday

// Detail labels, mirroring the official notice wording.
const (
	detailStatutoryHoliday = "法定节假日"
	detailMakeupWork       = "调休补班"
	detailRestDay          = "休息日"
	detailNormalWorkday    = "正常工作日"
	detailWeekend          = "周末"

	warningSourcesDisagree = "数据源存在差异，请以官方通知为准"
)

// Verdict is the resolved answer for a single date. Built fresh per request,
// never persisted.
type Verdict struct {
	Date        string       `json:"date"`
	Weekday     string       `json:"weekday"`
	IsWorkday   bool         `json:"is_workday"`
	Detail      string       `json:"detail"`
	HolidayName string       `json:"holiday_name,omitempty"`
	Warning     string       `json:"warning,omitempty"`
	NextRestDay *NextRestDay `json:"next_rest_day,omitempty"`
}

// NextRestDay describes the nearest non-working day found by the scanner.
type NextRestDay struct {
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	Detail      string `json:"detail"`
	DaysFromNow int    `json:"days_from_now"`
}
