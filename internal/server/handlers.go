package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dyxcloud/workday-api/internal/chinacal"
	"github.com/dyxcloud/workday-api/internal/workday"
	"github.com/dyxcloud/workday-api/pkg/dateutil"
)

// checkResponse is the wire shape shared by all check endpoints. Exactly one
// of Today/Tomorrow/Date carries the main verdict, except the default check
// which fills both Today and Tomorrow. next_rest_day is always present,
// null when nothing is found within the scan horizon.
type checkResponse struct {
	Today       *workday.Verdict     `json:"today,omitempty"`
	Tomorrow    *workday.Verdict     `json:"tomorrow,omitempty"`
	Date        *workday.Verdict     `json:"date,omitempty"`
	NextRestDay *workday.NextRestDay `json:"next_rest_day"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Handlers holds the request handlers for the workday API.
type Handlers struct {
	resolver *workday.Resolver
	docsURL  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandlers creates the handler set over the given resolver. docsURL may
// be empty, in which case the index route serves a plain service descriptor.
func NewHandlers(resolver *workday.Resolver, docsURL string, logger *zap.Logger) *Handlers {
	return &Handlers{
		resolver: resolver,
		docsURL:  docsURL,
		logger:   logger,
		now:      time.Now,
	}
}

// Index redirects to the API docs when configured.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if h.docsURL != "" {
		http.Redirect(w, r, h.docsURL, http.StatusTemporaryRedirect)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"service": "中国工作日校验 API",
		"check":   "/workday/check/{date}",
	})
}

// CheckDefault returns today's and tomorrow's verdicts plus the next rest
// day computed from today.
func (h *Handlers) CheckDefault(w http.ResponseWriter, r *http.Request) {
	today := dateutil.StartOfDay(h.now())
	tomorrow := today.AddDate(0, 0, 1)

	todayVerdict, err := h.resolver.Resolve(today)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}
	tomorrowVerdict, err := h.resolver.Resolve(tomorrow)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}

	// Compact form: the shared next_rest_day replaces the nested ones.
	todayVerdict.NextRestDay = nil
	tomorrowVerdict.NextRestDay = nil

	h.writeJSON(w, http.StatusOK, checkResponse{
		Today:       todayVerdict,
		Tomorrow:    tomorrowVerdict,
		NextRestDay: h.resolver.FindNextRestDay(today, workday.DefaultHorizon),
	})
}

// CheckToday returns today's verdict.
func (h *Handlers) CheckToday(w http.ResponseWriter, r *http.Request) {
	today := dateutil.StartOfDay(h.now())

	verdict, err := h.resolver.Resolve(today)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}
	verdict.NextRestDay = nil

	h.writeJSON(w, http.StatusOK, checkResponse{
		Today:       verdict,
		NextRestDay: h.resolver.FindNextRestDay(today, workday.DefaultHorizon),
	})
}

// CheckTomorrow returns tomorrow's verdict. The sibling next_rest_day is
// still computed from today.
func (h *Handlers) CheckTomorrow(w http.ResponseWriter, r *http.Request) {
	today := dateutil.StartOfDay(h.now())
	tomorrow := today.AddDate(0, 0, 1)

	verdict, err := h.resolver.Resolve(tomorrow)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}
	verdict.NextRestDay = nil

	h.writeJSON(w, http.StatusOK, checkResponse{
		Tomorrow:    verdict,
		NextRestDay: h.resolver.FindNextRestDay(today, workday.DefaultHorizon),
	})
}

// CheckDate returns the verdict for an arbitrary date given in any of the
// accepted textual forms. The sibling next_rest_day is computed from today,
// not from the target date.
func (h *Handlers) CheckDate(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]

	target, err := ParseFlexibleDate(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdict, err := h.resolver.Resolve(target)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}
	verdict.NextRestDay = nil

	today := dateutil.StartOfDay(h.now())
	h.writeJSON(w, http.StatusOK, checkResponse{
		Date:        verdict,
		NextRestDay: h.resolver.FindNextRestDay(today, workday.DefaultHorizon),
	})
}

// writeResolveError maps resolver failures: an uncovered year is the
// caller's problem, anything else is ours.
func (h *Handlers) writeResolveError(w http.ResponseWriter, err error) {
	var uyErr *chinacal.UnsupportedYearError
	if errors.As(err, &uyErr) {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("暂不支持查询 %d 年的数据，节假日数据尚未收录", uyErr.Year))
		return
	}

	h.logger.Error("Date resolution failed", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "服务内部错误")
}

// writeJSON writes v as UTF-8 JSON with non-ASCII characters kept literal.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// Headers are gone; nothing left to do but note it.
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, errorResponse{Detail: detail})
}
