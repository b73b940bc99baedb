package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mapforge/mapforge/pkg/buildinfo"
	"github.com/mapforge/mapforge/pkg/errors"
	"github.com/mapforge/mapforge/pkg/pipeline"
)

// handleGenerate runs one generation and streams the PNG back. Placement
// metadata travels in response headers so the body stays pure image data.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var params pipeline.Params
	var err error

	switch r.Method {
	case http.MethodPost:
		if err = json.NewDecoder(r.Body).Decode(&params); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidTiles, err, "decode request body"))
			return
		}
	default:
		params, err = paramsFromQuery(r.URL.Query())
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	if params.W == 0 && s.defaultWidth > 0 {
		params.W = s.defaultWidth
	}
	if params.H == 0 && s.defaultHeight > 0 {
		params.H = s.defaultHeight
	}

	res, err := s.runner.Generate(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Tile-Batches", strconv.Itoa(res.Batches))
	w.Header().Set("X-Tile-Count", strconv.Itoa(res.Placements))
	w.Header().Set("X-Seed", strconv.FormatInt(res.Seed, 10))
	w.Header().Set("X-Generation-ID", res.ID)
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// handleRecent lists archived generations, newest first.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidSize, "limit must be an integer"))
			return
		}
		limit = n
	}

	records, err := s.runner.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(records),
		"generations": records,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "mapforge",
		"version": buildinfo.Version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", "err", err)
	}
}

// writeError maps the error to an HTTP status and a JSON envelope. Internal
// error details stay in the log; the client sees the user message only.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

// paramsFromQuery builds Params from URL query values. Absent keys stay nil
// so pipeline defaults apply; malformed values are input errors.
func paramsFromQuery(q url.Values) (pipeline.Params, error) {
	p := pipeline.Params{
		Tiles: q.Get("tiles"),
		Mode:  q.Get("mode"),
		Seed:  q.Get("seed"),
	}

	var err error
	if p.W, err = queryInt(q, "w"); err != nil {
		return pipeline.Params{}, err
	}
	if p.H, err = queryInt(q, "h"); err != nil {
		return pipeline.Params{}, err
	}
	if p.Ka, err = queryFloatPtr(q, "ka"); err != nil {
		return pipeline.Params{}, err
	}
	if p.Cap, err = queryIntPtr(q, "cap"); err != nil {
		return pipeline.Params{}, err
	}
	if p.Rings, err = queryIntPtr(q, "rings"); err != nil {
		return pipeline.Params{}, err
	}
	if p.RingStart, err = queryFloatPtr(q, "ringStart"); err != nil {
		return pipeline.Params{}, err
	}
	if p.RingEnd, err = queryFloatPtr(q, "ringEnd"); err != nil {
		return pipeline.Params{}, err
	}
	if p.LogTone, err = queryBoolPtr(q, "logTone"); err != nil {
		return pipeline.Params{}, err
	}
	if p.BrownCap, err = queryIntPtr(q, "brownCap"); err != nil {
		return pipeline.Params{}, err
	}
	if p.BgAlpha, err = queryIntPtr(q, "bgA"); err != nil {
		return pipeline.Params{}, err
	}
	if p.Islands, err = queryIntPtr(q, "islands"); err != nil {
		return pipeline.Params{}, err
	}
	if p.IslandRFrac, err = queryFloatPtr(q, "islandRFrac"); err != nil {
		return pipeline.Params{}, err
	}
	if p.Rotate, err = queryBoolPtr(q, "rot"); err != nil {
		return pipeline.Params{}, err
	}
	if p.Polish, err = queryBoolPtr(q, "polish"); err != nil {
		return pipeline.Params{}, err
	}
	if p.N22, err = queryIntPtr(q, "n22"); err != nil {
		return pipeline.Params{}, err
	}
	if p.N21, err = queryIntPtr(q, "n21"); err != nil {
		return pipeline.Params{}, err
	}
	if p.N11, err = queryIntPtr(q, "n11"); err != nil {
		return pipeline.Params{}, err
	}
	return p, nil
}

func queryInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidSize, "parameter %s: %q is not an integer", key, v)
	}
	return n, nil
}

func queryIntPtr(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidSize, "parameter %s: %q is not an integer", key, v)
	}
	return &n, nil
}

func queryFloatPtr(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidSize, "parameter %s: %q is not a number", key, v)
	}
	return &f, nil
}

func queryBoolPtr(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidSize, "parameter %s: %q is not a boolean", key, v)
	}
	return &b, nil
}
