package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/rankvote/internal/adapters/http/api"
	service "github.com/okian/rankvote/internal/app"
	"github.com/okian/rankvote/internal/domain/tally"
	"github.com/okian/rankvote/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const threeVoters = `{"candidates":["A","B","C"],"ballots":[["A","B","C"],["B","C","A"],["A","B","C"]]}`

type result struct {
	Method  string `json:"method"`
	Winners []string
	Scores  []struct {
		Candidate string `json:"candidate"`
		Score     int    `json:"score"`
	} `json:"scores"`
	Total   int `json:"total"`
	Ranking []struct {
		Candidate string `json:"candidate"`
		Score     int    `json:"score"`
		Winner    bool   `json:"winner"`
	} `json:"ranking"`
	Rounds []struct {
		Number     int      `json:"number"`
		Eliminated []string `json:"eliminated"`
	} `json:"rounds"`
}

type response struct {
	ID      string   `json:"id"`
	Ballots int      `json:"ballots"`
	Results []result `json:"results"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

func newMux(svc *service.Service, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(svc, svc, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) (*httptest.ResponseRecorder, response) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	var resp response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestTallyHandler(t *testing.T) {
	Convey("Given a registered API backed by the service", t, func() {
		mux := newMux(service.New())

		Convey("When posting the three-voter election", func() {
			w, resp := do(mux, http.MethodPost, "/tally", threeVoters)

			Convey("Then the default methods are tallied in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				So(resp.ID, ShouldNotBeEmpty)
				So(resp.Ballots, ShouldEqual, 3)
				So(resp.Results, ShouldHaveLength, 3)
				So(resp.Results[0].Method, ShouldEqual, "plurality")
				So(resp.Results[0].Winners, ShouldResemble, []string{"A"})
				So(resp.Results[1].Method, ShouldEqual, "borda")
				So(resp.Results[1].Winners, ShouldResemble, []string{"A", "B"})
				So(resp.Results[2].Method, ShouldEqual, "pairwise")
			})

			Convey("And scores follow declared order", func() {
				borda := resp.Results[1].Scores
				So(borda, ShouldHaveLength, 3)
				So(borda[0].Candidate, ShouldEqual, "A")
				So(borda[0].Score, ShouldEqual, 7)
				So(borda[1].Score, ShouldEqual, 7)
				So(borda[2].Candidate, ShouldEqual, "C")
				So(borda[2].Score, ShouldEqual, 4)
			})
		})

		Convey("When the leader is declared last", func() {
			body := `{"candidates":["A","B","C"],"ballots":[["C","B","A"],["C","A","B"],["B","C","A"]],"methods":["borda"]}`
			w, resp := do(mux, http.MethodPost, "/tally", body)

			Convey("Then the ranking orders candidates by score", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				r := resp.Results[0]
				So(r.Scores[0].Candidate, ShouldEqual, "A")
				So(r.Total, ShouldEqual, 18)
				So(r.Ranking, ShouldHaveLength, 3)
				So(r.Ranking[0].Candidate, ShouldEqual, "C")
				So(r.Ranking[0].Score, ShouldEqual, 8)
				So(r.Ranking[0].Winner, ShouldBeTrue)
				So(r.Ranking[1].Candidate, ShouldEqual, "B")
				So(r.Ranking[1].Score, ShouldEqual, 6)
				So(r.Ranking[1].Winner, ShouldBeFalse)
				So(r.Ranking[2].Candidate, ShouldEqual, "A")
				So(r.Ranking[2].Score, ShouldEqual, 4)
			})
		})

		Convey("When the method is given in the query", func() {
			w, resp := do(mux, http.MethodPost, "/tally?method=irv", threeVoters)

			Convey("Then only that method runs and its rounds are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Results, ShouldHaveLength, 1)
				So(resp.Results[0].Method, ShouldEqual, "elimination")
				So(resp.Results[0].Winners, ShouldResemble, []string{"A"})
				So(resp.Results[0].Rounds, ShouldHaveLength, 1)
			})
		})

		Convey("When the method is unknown", func() {
			w, resp := do(mux, http.MethodPost, "/tally",
				`{"candidates":["A","B"],"ballots":[["A"]],"methods":["approval"]}`)

			Convey("Then it is rejected as unknown_method", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Code, ShouldEqual, "unknown_method")
				So(resp.Message, ShouldContainSubstring, "api.post_tally")
			})
		})

		Convey("When a ballot names a non-candidate", func() {
			w, resp := do(mux, http.MethodPost, "/tally", `{"candidates":["A","B"],"ballots":[["A","Z"]]}`)

			Convey("Then it is unprocessable with the validation kind", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(resp.Code, ShouldEqual, "unknown_candidate")
			})
		})

		Convey("When there are no candidates", func() {
			w, resp := do(mux, http.MethodPost, "/tally", `{"ballots":[]}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(resp.Code, ShouldEqual, "invalid_candidate_set")
		})

		Convey("When the body is not JSON", func() {
			w, resp := do(mux, http.MethodPost, "/tally", `{"candidates":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(resp.Code, ShouldEqual, "bad_request")
		})

		Convey("When the request is not a POST", func() {
			w, _ := do(mux, http.MethodGet, "/tally", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given size limits", t, func() {
		Convey("When the body exceeds the configured size", func() {
			mux := newMux(service.New(), api.WithMaxBodyBytes(16))
			w, resp := do(mux, http.MethodPost, "/tally", threeVoters)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(resp.Code, ShouldEqual, "too_large")
		})

		Convey("When the election exceeds the service limits", func() {
			mux := newMux(service.New(service.WithLimits(2, 10)))
			w, resp := do(mux, http.MethodPost, "/tally", threeVoters)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(resp.Code, ShouldEqual, "too_large")
		})
	})
}

func TestMethodsHandler(t *testing.T) {
	Convey("Given a service with custom default methods", t, func() {
		mux := newMux(service.New(service.WithDefaultMethods([]tally.Method{tally.Runoff})))

		Convey("When listing methods", func() {
			w, _ := do(mux, http.MethodGet, "/methods", "")
			var body struct {
				Methods []struct {
					Name  string `json:"name"`
					Title string `json:"title"`
				} `json:"methods"`
				Default []string `json:"default"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)

			Convey("Then every method and the defaults are listed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body.Methods, ShouldHaveLength, len(tally.Methods()))
				So(body.Methods[1].Title, ShouldEqual, "Borda count")
				So(body.Default, ShouldResemble, []string{"runoff"})
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given a registered API", t, func() {
		svc := service.New()
		mux := newMux(svc)
		_, _ = do(mux, http.MethodPost, "/tally", threeVoters)

		Convey("When requesting stats", func() {
			w, _ := do(mux, http.MethodGet, "/stats", "")
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)

			Convey("Then the service counters are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(stats["elections"], ShouldEqual, float64(1))
			})
		})

		Convey("When posting to stats", func() {
			w, _ := do(mux, http.MethodPost, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting health", func() {
			w, _ := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then the metrics exposition is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "rankvote_tally_http_requests_total")
				So(w.Body.String(), ShouldContainSubstring, "rankvote_tally_tallies_total")
			})
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given an error wrapped with a kind", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.op", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then a missing part is left out of the message", func() {
			So(api.WrapKind("api.op", api.ErrTooLarge, nil).Error(), ShouldEqual, "api.op: request too large")
			So((&api.OpError{Op: "api.op", Err: cause}).Error(), ShouldEqual, "api.op: boom")
		})
	})
}
