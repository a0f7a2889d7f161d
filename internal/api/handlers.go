package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// HandleCheck runs a full fetch cycle for the stored settings and returns
// the combined umbrella result framed for today or tomorrow.
func (s *Server) HandleCheck(w http.ResponseWriter, r *http.Request) {
	result, err := s.Service.Check(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: result})
}

// HandleHourly returns the representative window samples for one area.
// Query parameters start/end default to an all-day window.
func (s *Server) HandleHourly(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	samples, err := s.Service.Hourly(r.Context(), chi.URLParam(r, "areaCode"), window)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: samples})
}

// HandleTemperature returns the best-effort min/max temperature for an area.
func (s *Server) HandleTemperature(w http.ResponseWriter, r *http.Request) {
	tr, err := s.Service.Temperature(r.Context(), chi.URLParam(r, "areaCode"))
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: tr})
}

// HandleGetSettings returns the stored settings document.
func (s *Server) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Service.Settings(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: settings})
}

// HandlePutSettings validates and replaces the settings document.
func (s *Server) HandlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.Settings
	if err := DecodeJSON(r, &settings); err != nil {
		Error(w, r, err)
		return
	}
	if err := s.Service.UpdateSettings(r.Context(), &settings); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: settings})
}

// HandleNextReminders returns the upcoming reminder instants.
func (s *Server) HandleNextReminders(w http.ResponseWriter, r *http.Request) {
	plans, err := s.Service.NextReminders(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: plans})
}

// windowFromQuery builds an outing window from start/end query parameters,
// defaulting to the all-day window when both are absent.
func windowFromQuery(r *http.Request) (types.Window, error) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" && end == "" {
		return types.Window{Start: "00:00", End: "00:00"}, nil
	}
	if start == "" || end == "" {
		return types.Window{}, types.NewAppError(types.ErrCodeValidationMissingField,
			"start and end must be provided together", nil)
	}
	window := types.Window{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return types.Window{}, err
	}
	return window, nil
}
