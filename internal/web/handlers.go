package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gigurra/petrol-book/internal"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RecordRequest is the body of POST /api/records. Manufacturer and model
// update the vehicle when given.
type RecordRequest struct {
	internal.EntryInput
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
}

// RecordResponse is returned for an added record
type RecordResponse struct {
	Record  internal.FuelingRecord `json:"record"`
	Records int                    `json:"records"`
}

type indexPage struct {
	Title       string
	Table       internal.Table
	Headers     []string
	Error       string
	Input       RecordRequest
	PetrolTypes []string
	Stations    []string
}

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceDistance(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := RecordRequest{EntryInput: internal.NewEntryInput(time.Now())}
	s.renderIndex(w, ref, in, "", http.StatusOK)
}

// handleFormSubmit handles POST /records from the HTML form
func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := RecordRequest{
		EntryInput: internal.EntryInput{
			Date:       r.PostForm.Get("date"),
			Time:       r.PostForm.Get("time"),
			Station:    r.PostForm.Get("petrolStation"),
			PetrolType: r.PostForm.Get("petrolType"),
			Costs:      r.PostForm.Get("costs"),
			Liquid:     r.PostForm.Get("liquid"),
			Distance:   r.PostForm.Get("distance"),
			Mileage:    r.PostForm.Get("mileage"),
		},
		Manufacturer: r.PostForm.Get("manufacturer"),
		Model:        r.PostForm.Get("model"),
	}

	if _, _, err := s.addRecord(in); err != nil {
		s.renderIndex(w, s.ref, in, err.Error(), statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleTable handles GET /api/table
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	ref, err := s.referenceDistance(r)
	if err != nil {
		s.sendError(w, err, http.StatusBadRequest)
		return
	}

	_, table, err := s.buildTable(ref)
	if err != nil {
		s.sendError(w, err, statusFor(err))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	opts := internal.OutputOptions{
		Limit:   limit,
		Station: r.URL.Query().Get("station"),
	}
	s.sendJSON(w, http.StatusOK, internal.NewJSONOutput(table, opts))
}

// handleAddRecord handles POST /api/records
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var in RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.metrics.RecordRejection("malformed_request")
		s.sendError(w, fmt.Errorf("%w: request body: %v", internal.ErrInvalidInput, err), http.StatusBadRequest)
		return
	}

	rec, total, err := s.addRecord(in)
	if err != nil {
		s.sendError(w, err, statusFor(err))
		return
	}
	s.sendJSON(w, http.StatusCreated, RecordResponse{Record: rec, Records: total})
}

// handleStations handles GET /api/stations
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	doc, _, err := s.store.Load()
	if err != nil {
		s.sendError(w, err, statusFor(err))
		return
	}
	stations := internal.MatchStations(doc, r.URL.Query().Get("q"))
	if stations == nil {
		stations = []internal.StationCount{}
	}
	s.sendJSON(w, http.StatusOK, stations)
}

// addRecord loads the file, appends the entry and saves. The file is only
// written when the entry is accepted.
func (s *Server) addRecord(in RecordRequest) (internal.FuelingRecord, int, error) {
	doc, _, err := s.store.Load()
	if err != nil {
		s.metrics.RecordRejection("load_failed")
		return internal.FuelingRecord{}, 0, err
	}

	if m := strings.TrimSpace(in.Manufacturer); m != "" {
		doc.Meta.Manufacturer = m
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		doc.Meta.Model = m
	}
	in.Station = s.cfg.CanonicalStation(strings.TrimSpace(in.Station))

	rec, err := internal.AddRecord(doc, in.EntryInput)
	if err != nil {
		s.metrics.RecordRejection("invalid_input")
		return internal.FuelingRecord{}, 0, err
	}

	if err := s.store.Save(doc); err != nil {
		s.metrics.RecordRejection("save_failed")
		return internal.FuelingRecord{}, 0, err
	}

	s.metrics.RecordsAdded.Inc()
	slog.Info("Added fueling record", "date", rec.Date, "station", rec.PetrolStation, "records", len(doc.FuelingOperations))
	return rec, len(doc.FuelingOperations), nil
}

func (s *Server) buildTable(ref int) (*internal.Document, internal.Table, error) {
	doc, _, err := s.store.Load()
	if err != nil {
		return nil, internal.Table{}, err
	}
	table, err := internal.BuildTable(doc, ref)
	if err != nil {
		return nil, internal.Table{}, err
	}

	s.metrics.TableBuilds.Inc()
	s.metrics.Records.Set(float64(len(doc.FuelingOperations)))
	s.metrics.RecordProblems.Set(float64(len(table.Problems)))
	return doc, table, nil
}

func (s *Server) renderIndex(w http.ResponseWriter, ref int, in RecordRequest, errMsg string, status int) {
	page := indexPage{
		Title:       "Petrol Book",
		Headers:     internal.ColumnHeaders(ref),
		Error:       errMsg,
		Input:       in,
		PetrolTypes: s.cfg.PetrolTypeSuggestions(),
	}

	doc, table, err := s.buildTable(ref)
	if err != nil {
		page.Error = err.Error()
		status = statusFor(err)
	} else {
		page.Table = table
		page.Stations = internal.StationNames(doc)
		if page.Input.Manufacturer == "" {
			page.Input.Manufacturer = doc.Meta.Manufacturer
		}
		if page.Input.Model == "" {
			page.Input.Model = doc.Meta.Model
		}
		if v := strings.TrimSpace(doc.Meta.Manufacturer + " " + doc.Meta.Model); v != "" {
			page.Title = v
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.index.Execute(w, page); err != nil {
		slog.Error("Rendering index page failed", "error", err)
	}
}

func (s *Server) referenceDistance(r *http.Request) (int, error) {
	v := r.URL.Query().Get("per_distance")
	if v == "" {
		return s.ref, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: per_distance must be a positive integer, got %q", internal.ErrInvalidInput, v)
	}
	return n, nil
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Encoding response failed", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, err error, status int) {
	s.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internal.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internal.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
