package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"TWStockDesk/internal/model"
)

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// selectedInput returns the symbol to show: free-text custom input wins over
// the select, which defaults to the first known symbol.
func (s *Server) selectedInput(r *http.Request) (selected, custom, input string) {
	q := r.URL.Query()
	selected = strings.TrimSpace(q.Get("symbol"))
	custom = strings.TrimSpace(q.Get("custom"))
	if selected == "" {
		if list := s.deps.Symbols.List(); len(list) > 0 {
			selected = list[0].Code
		}
	}
	input = selected
	if custom != "" {
		input = custom
	}
	return selected, custom, input
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	selected, custom, input := s.selectedInput(r)
	data := pageData{
		Symbols:   s.deps.Symbols.List(),
		Selected:  selected,
		Custom:    custom,
		News:      s.deps.News.Latest(r.Context()),
		RequestID: requestID(r.Context()),
	}

	if input != "" {
		d, err := s.deps.Builder.Build(r.Context(), input)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("symbol", input).Msg("dashboard unavailable")
		case d.Series.Len() == 0:
			s.logger.Warn().Str("symbol", input).Msg("dashboard has no bars")
		default:
			chart, err := chartJS(d)
			if err != nil {
				s.logger.Error().Err(err).Str("symbol", input).Msg("chart encoding failed")
				break
			}
			data.Dashboard = d
			data.Chart = chart
		}
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		s.logger.Error().Err(err).Str("template", "dashboard.html").Msg("failed to render dashboard")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if input == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	d, err := s.deps.Builder.Build(r.Context(), input)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", input).Msg("dashboard unavailable")
		msg := "找不到資料"
		if errors.Is(err, model.ErrInvalidSymbol) {
			msg = "invalid symbol: " + input
		}
		WriteError(w, http.StatusNotFound, msg)
		return
	}
	WriteJSON(w, http.StatusOK, d)
}

func (s *Server) handleNewsAPI(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.deps.News.Latest(r.Context()))
}

func (s *Server) handleSymbolsAPI(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.deps.Symbols.List())
}

func (s *Server) handleHistoryAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := strings.TrimSpace(q.Get("symbol"))
	if input == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	limit := 30
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	_, candidates := s.deps.Symbols.Resolve(input)
	for _, symbol := range candidates {
		rows, err := s.deps.Recorder.RecentSnapshots(symbol, limit)
		if err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("history query failed")
			WriteError(w, http.StatusInternalServerError, "history unavailable")
			return
		}
		if len(rows) > 0 {
			WriteJSON(w, http.StatusOK, rows)
			return
		}
	}
	WriteJSON(w, http.StatusOK, []any{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
