package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/dataframe"
	"github.com/leapstack-labs/duckframe/pkg/types"
)

type sqlRequest struct {
	Query string `json:"query"`
	Args  []any  `json:"args"`
	Limit int    `json:"limit"`
}

type fieldSpec struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type dataFrameRequest struct {
	Rows   [][]any     `json:"rows"`
	Schema []fieldSpec `json:"schema"`
	Table  string      `json:"table"`
}

type resultResponse struct {
	Columns   []fieldSpec `json:"columns"`
	Rows      []core.Row  `json:"rows"`
	RowCount  int         `json:"row_count"`
	Truncated bool        `json:"truncated,omitempty"`
}

type savedResponse struct {
	Table    string      `json:"table"`
	Columns  []fieldSpec `json:"columns"`
	RowCount int64       `json:"row_count"`
}

type tableResponse struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"session": s.session.ID(),
		"app":     s.session.AppName(),
		"version": dataframe.Version,
	})
}

func (s *Server) handleSQL(w http.ResponseWriter, r *http.Request) {
	var req sqlRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, core.ErrEmptyQuery)
		return
	}

	ctx := r.Context()
	start := time.Now()
	resp, err := s.runSQL(ctx, req)
	var n int64
	if resp != nil {
		n = int64(resp.RowCount)
	}
	s.record(ctx, state.KindSQL, req.Query, n, start, err)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runSQL(ctx context.Context, req sqlRequest) (*resultResponse, error) {
	args := make([]any, len(req.Args))
	for i, a := range req.Args {
		args[i] = normalize(a)
	}

	df, err := s.session.SQL(ctx, req.Query, args...)
	if err != nil {
		return nil, err
	}
	if df == nil {
		return &resultResponse{Columns: []fieldSpec{}, Rows: []core.Row{}}, nil
	}
	return collect(ctx, df, req.Limit)
}

func (s *Server) handleDataFrames(w http.ResponseWriter, r *http.Request) {
	var req dataFrameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	schema, err := buildSchema(req.Schema)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rows := make(core.RowSet, len(req.Rows))
	for i, row := range req.Rows {
		out := make(core.Row, len(row))
		for j, v := range row {
			out[j] = normalize(v)
		}
		rows[i] = out
	}

	ctx := r.Context()
	start := time.Now()
	statement := "POST /v1/dataframes"
	if req.Table != "" {
		statement = req.Table
	}

	df, err := s.session.CreateDataFrame(ctx, rows, schema)
	if err != nil {
		s.record(ctx, state.KindLoad, statement, 0, start, err)
		writeError(w, statusFor(err), err)
		return
	}
	defer func() { _ = df.Close() }()

	if req.Table == "" {
		resp, err := collect(ctx, df, 0)
		s.record(ctx, state.KindLoad, statement, int64(len(rows)), start, err)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	err = df.SaveAsTable(ctx, req.Table)
	s.record(ctx, state.KindLoad, statement, int64(len(rows)), start, err)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, savedResponse{
		Table:    req.Table,
		Columns:  columnsOf(df.Schema()),
		RowCount: int64(len(rows)),
	})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.session.Catalog().ListTables(r.Context(), r.URL.Query().Get("schema"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	out := make([]tableResponse, len(tables))
	for i, t := range tables {
		out[i] = tableResponse{Schema: t.Schema, Name: t.Name, Type: t.Type}
	}
	writeJSON(w, http.StatusOK, out)
}

// collect fetches at most limit rows (maxRows when limit is out of range).
func collect(ctx context.Context, df *dataframe.DataFrame, limit int) (*resultResponse, error) {
	if limit <= 0 || limit > maxRows {
		limit = maxRows
	}
	limited, err := df.Limit(ctx, limit+1)
	if err != nil {
		return nil, err
	}
	rows, err := limited.Collect(ctx)
	if err != nil {
		return nil, err
	}

	resp := &resultResponse{Columns: columnsOf(df.Schema())}
	if len(rows) > limit {
		rows = rows[:limit]
		resp.Truncated = true
	}
	for _, row := range rows {
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
	}
	resp.Rows = rows
	if resp.Rows == nil {
		resp.Rows = []core.Row{}
	}
	resp.RowCount = len(rows)
	return resp, nil
}

func columnsOf(cols []core.Column) []fieldSpec {
	out := make([]fieldSpec, len(cols))
	for i, c := range cols {
		out[i] = fieldSpec{Name: c.Name, Type: c.Type}
	}
	return out
}

func buildSchema(specs []fieldSpec) (*types.StructType, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	fields := make([]types.StructField, len(specs))
	for i, f := range specs {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field %d: name is required", i)
		}
		fields[i] = types.Field(f.Name, nil)
		if f.Type != "" {
			dt, err := types.Parse(f.Type)
			if err != nil {
				return nil, fmt.Errorf("schema field %q: %w", f.Name, err)
			}
			fields[i].DataType = dt
		}
	}
	return types.Struct(fields...), nil
}

// normalize converts decoded JSON numbers to int64 where exact, float64 otherwise.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps session and materialization errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dataframe.ErrSessionStopped), errors.Is(err, core.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
