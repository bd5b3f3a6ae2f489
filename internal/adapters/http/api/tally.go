package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/rankvote/internal/app"
	"github.com/okian/rankvote/internal/domain/ballot"
	"github.com/okian/rankvote/internal/domain/tally"
)

// tallyRequest is the body of POST /tally.
type tallyRequest struct {
	Candidates []string   `json:"candidates"`
	Ballots    [][]string `json:"ballots"`
	Methods    []string   `json:"methods"`
}

type standing struct {
	Candidate string `json:"candidate"`
	Score     int    `json:"score"`
}

type placing struct {
	Candidate string `json:"candidate"`
	Score     int    `json:"score"`
	Winner    bool   `json:"winner"`
}

type roundResponse struct {
	Number     int        `json:"number"`
	Counts     []standing `json:"counts"`
	Exhausted  int        `json:"exhausted"`
	Eliminated []string   `json:"eliminated,omitempty"`
}

type matchupResponse struct {
	First       string `json:"first"`
	Second      string `json:"second"`
	FirstVotes  int    `json:"first_votes"`
	SecondVotes int    `json:"second_votes"`
	Point       string `json:"point"`
}

type resultResponse struct {
	Method   string            `json:"method"`
	Title    string            `json:"title"`
	Scores   []standing        `json:"scores"`
	Winners  []string          `json:"winners"`
	Total    int               `json:"total"`
	Ranking  []placing         `json:"ranking"`
	Rounds   []roundResponse   `json:"rounds,omitempty"`
	Matchups []matchupResponse `json:"matchups,omitempty"`
}

type tallyResponse struct {
	ID         string           `json:"id"`
	Candidates []string         `json:"candidates"`
	Ballots    int              `json:"ballots"`
	DurationMs float64          `json:"duration_ms"`
	Results    []resultResponse `json:"results"`
}

// TallyHandler handles election requests.
type TallyHandler struct {
	deps    Dependencies
	maxBody int64
}

// NewTallyHandler creates a new tally handler.
func NewTallyHandler(deps Dependencies) *TallyHandler {
	return &TallyHandler{deps: deps, maxBody: defaultMaxBodyBytes}
}

// HandlePostTally handles POST /tally requests. Methods may be given in the
// body or as a comma-separated ?method= query; the query wins.
func (h *TallyHandler) HandlePostTally(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_tally"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req tallyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if q := r.URL.Query().Get("method"); q != "" {
		req.Methods = strings.Split(q, ",")
	}

	out, err := h.deps.Run(r.Context(), service.Request{
		Candidates: req.Candidates,
		Ballots:    req.Ballots,
		Methods:    req.Methods,
	})
	if err != nil {
		status, code := classify(err)
		kind := ErrRejected
		if status >= http.StatusInternalServerError {
			kind = ErrInternal
		}
		writeError(w, status, code, WrapKind(op, kind, err))
		return
	}
	writeJSON(w, http.StatusOK, newTallyResponse(out))
}

// classify maps a service error to an HTTP status and a stable error code.
// Unknown methods stay distinct from schedule validation failures.
func classify(err error) (int, string) {
	var verr *ballot.ValidationError
	switch {
	case errors.Is(err, tally.ErrUnknownMethod):
		return http.StatusBadRequest, "unknown_method"
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, ballot.KindName(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func newTallyResponse(out service.Outcome) tallyResponse {
	resp := tallyResponse{
		ID:         out.ID.String(),
		Candidates: ballot.Ballot(out.Schedule.Candidates()).Strings(),
		Ballots:    out.Schedule.Len(),
		DurationMs: float64(out.Duration.Microseconds()) / 1000,
		Results:    make([]resultResponse, len(out.Results)),
	}
	for i, r := range out.Results {
		rr := resultResponse{
			Method:  r.Method.String(),
			Title:   r.Method.Title(),
			Scores:  make([]standing, len(r.Candidates)),
			Winners: ballot.Ballot(r.Winners).Strings(),
			Total:   r.Total(),
		}
		for j, c := range r.Candidates {
			rr.Scores[j] = standing{Candidate: string(c), Score: r.Score(c)}
		}
		for _, st := range r.Ranked() {
			rr.Ranking = append(rr.Ranking, placing{
				Candidate: string(st.Candidate),
				Score:     st.Score,
				Winner:    r.IsWinner(st.Candidate),
			})
		}
		for _, rd := range r.Rounds {
			rr.Rounds = append(rr.Rounds, roundResponse{
				Number:     rd.Number,
				Counts:     standings(rd.Active, rd.Counts),
				Exhausted:  rd.Exhausted,
				Eliminated: ballot.Ballot(rd.Eliminated).Strings(),
			})
		}
		for _, m := range r.Matchups {
			rr.Matchups = append(rr.Matchups, matchupResponse{
				First:       string(m.First),
				Second:      string(m.Second),
				FirstVotes:  m.FirstVotes,
				SecondVotes: m.SecondVotes,
				Point:       string(m.Point),
			})
		}
		resp.Results[i] = rr
	}
	return resp
}

func standings(order []ballot.Candidate, scores map[ballot.Candidate]int) []standing {
	out := make([]standing, len(order))
	for i, c := range order {
		out[i] = standing{Candidate: string(c), Score: scores[c]}
	}
	return out
}
