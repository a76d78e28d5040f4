package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tablefill/internal/lexicon"
	"github.com/tablefill/internal/match"
	"github.com/tablefill/internal/matcher"
	"github.com/tablefill/internal/table"
)

// FillRequest is the body of POST /api/fill. Lexicons are inline lexicon
// text; when omitted the server's own lexicons are used.
type FillRequest struct {
	Source            table.Table `json:"source"`
	Target            table.Table `json:"target"`
	MatchColumn       int         `json:"match_column"`
	FillColumn        int         `json:"fill_column"`
	TargetMatchColumn int         `json:"target_match_column"`
	AnswerColumn      int         `json:"answer_column"`
	Synonyms          *string     `json:"synonyms,omitempty"`
	Combinations      *string     `json:"combinations,omitempty"`
	Threshold         *float64    `json:"threshold,omitempty"`
	KeepExisting      bool        `json:"keep_existing,omitempty"`
}

// ScoreRequest is the body of POST /api/score.
type ScoreRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// ScoreResponse reports the normalized inputs and their similarity.
type ScoreResponse struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// LexiconsResponse describes the lexicons loaded by the server.
type LexiconsResponse struct {
	Synonyms     lexicon.Stats `json:"synonyms"`
	Combinations lexicon.Stats `json:"combinations"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// POST /api/fill
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req FillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if limit := s.config.Limits.MaxRows; limit > 0 && (len(req.Source.Rows) > limit || len(req.Target.Rows) > limit) {
		writeError(w, http.StatusRequestEntityTooLarge, "too many rows")
		return
	}

	settings := s.config.Matching.Settings()
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			writeError(w, http.StatusBadRequest, "threshold must be between 0 and 1")
			return
		}
		settings.Threshold = *req.Threshold
	}

	lexicons := s.lexicons
	if req.Synonyms != nil {
		lex, issues, err := lexicon.Parse(strings.NewReader(*req.Synonyms))
		if err != nil {
			writeError(w, http.StatusBadRequest, "synonyms: "+err.Error())
			return
		}
		lexicons.Synonyms = lexicon.LoadResult{Lexicon: lex, Issues: issues}
	}
	if req.Combinations != nil {
		lex, issues, err := lexicon.Parse(strings.NewReader(*req.Combinations))
		if err != nil {
			writeError(w, http.StatusBadRequest, "combinations: "+err.Error())
			return
		}
		lexicons.Combinations = lexicon.LoadResult{Lexicon: lex, Issues: issues}
	}

	source, err := table.FromRows(tableRows(&req.Source))
	if err != nil {
		writeError(w, http.StatusBadRequest, "source: "+err.Error())
		return
	}
	target, err := table.FromRows(tableRows(&req.Target))
	if err != nil {
		writeError(w, http.StatusBadRequest, "target: "+err.Error())
		return
	}

	result, err := matcher.Run(s.localDebug, matcher.Plan{
		Source:            source,
		Target:            target,
		MatchColumn:       req.MatchColumn,
		FillColumn:        req.FillColumn,
		TargetMatchColumn: req.TargetMatchColumn,
		AnswerColumn:      req.AnswerColumn,
		KeepExisting:      req.KeepExisting,
		Settings:          settings,
		Lexicons:          lexicons,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// tableRows flattens a request table to header-first rows.
func tableRows(t *table.Table) [][]string {
	rows := make([][]string, 0, len(t.Rows)+1)
	if len(t.Header) > 0 {
		rows = append(rows, t.Header)
	}
	for _, row := range t.Rows {
		rows = append(rows, row)
	}
	return rows
}

// POST /api/score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	opts := match.OptionsFrom(s.config.Matching.Settings())
	a := opts.Normalizer.Normalize(req.A)
	b := opts.Normalizer.Normalize(req.B)

	writeJSON(w, http.StatusOK, ScoreResponse{A: a, B: b, Score: opts.Scorer.Score(a, b)})
}

// GET /api/lexicons
func (s *Server) handleLexicons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LexiconsResponse{
		Synonyms:     lexicon.StatsOf(s.lexicons.Synonyms),
		Combinations: lexicon.StatsOf(s.lexicons.Combinations),
	})
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
