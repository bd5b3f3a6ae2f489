// Package service runs elections: it validates a request into a ballot
// schedule and tallies it under one or more counting methods.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/rankvote/internal/domain/ballot"
	"github.com/okian/rankvote/internal/domain/tally"
	"github.com/okian/rankvote/pkg/logger"
	"github.com/okian/rankvote/pkg/metrics"
)

// Request is one election: the declared candidates, the ballots in
// submission order and the methods to run. No methods means the defaults.
type Request struct {
	Candidates []string
	Ballots    [][]string
	Methods    []string
}

// Outcome is the result of one election run.
type Outcome struct {
	ID       uuid.UUID
	Schedule *ballot.Schedule
	// Results follow the requested method order.
	Results  []tally.Result
	Duration time.Duration
}

// Service runs elections. It holds no per-election state and is safe for
// concurrent use.
type Service struct {
	// Configuration
	strict        bool
	workers       int
	methods       []tally.Method
	maxCandidates int
	maxBallots    int

	// State
	started   atomic.Bool
	elections atomic.Int64
	rejected  atomic.Int64
	tallies   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictRankings sets whether ballots must rank each candidate once.
func WithStrictRankings(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithTallyWorkers bounds how many methods are tallied at once.
func WithTallyWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDefaultMethods sets the methods run when a request names none.
func WithDefaultMethods(methods []tally.Method) Option {
	return func(s *Service) {
		if len(methods) > 0 {
			s.methods = append([]tally.Method(nil), methods...)
		}
	}
}

// WithLimits caps candidates and ballots per election. Zero means unlimited;
// negative values are ignored.
func WithLimits(maxCandidates, maxBallots int) Option {
	return func(s *Service) {
		if maxCandidates >= 0 {
			s.maxCandidates = maxCandidates
		}
		if maxBallots >= 0 {
			s.maxBallots = maxBallots
		}
	}
}

// New constructs a Service with default configuration. Elections are
// unbounded unless WithLimits is given.
func New(opts ...Option) *Service {
	s := &Service{
		strict:  true,
		workers: runtime.NumCPU(),
		methods: tally.Sequence(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Named("service")
	}
	return s.logger
}

// Start marks the service ready. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.log().Info(ctx, "tally service started",
		logger.Bool("strict", s.strict),
		logger.Int("workers", s.workers),
		logger.Strings("methods", methodNames(s.methods)),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	if s.started.CompareAndSwap(true, false) {
		s.log().Info(context.Background(), "tally service stopped")
	}
}

// DefaultMethods returns the methods run when a request names none.
func (s *Service) DefaultMethods() []tally.Method {
	return append([]tally.Method(nil), s.methods...)
}

// Run validates req and tallies it. Method names are resolved before the
// ballots are looked at, so an unknown method is reported as
// tally.ErrUnknownMethod even when the ballots are also invalid.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	start := time.Now()
	id := uuid.New()
	l := s.log().With(logger.String("election", id.String()))

	methods, err := s.resolve(req.Methods)
	if err != nil {
		s.rejected.Add(1)
		metrics.RecordUnknownMethod()
		l.Warn(ctx, "election rejected", logger.Error(err))
		return Outcome{}, err
	}

	sched, err := s.NewSchedule(req.Candidates, req.Ballots)
	if err != nil {
		s.rejected.Add(1)
		l.Warn(ctx, "election rejected", logger.Error(err))
		return Outcome{}, err
	}
	metrics.UpdateElectionSize(sched.CandidateCount(), sched.Len())

	results, err := s.TallyAll(ctx, sched, methods)
	if err != nil {
		l.Error(ctx, "tally failed", logger.Error(err))
		return Outcome{}, err
	}
	s.elections.Add(1)

	out := Outcome{ID: id, Schedule: sched, Results: results, Duration: time.Since(start)}
	for _, r := range results {
		l.Debug(ctx, "method counted",
			logger.String("method", r.Method.String()),
			logger.Any("scores", r.Scores),
			logger.Any("winners", r.Winners),
		)
	}
	l.Info(ctx, "election counted",
		logger.Int("candidates", sched.CandidateCount()),
		logger.Int("ballots", sched.Len()),
		logger.Strings("methods", methodNames(methods)),
		logger.Duration("took", out.Duration),
	)
	return out, nil
}

func (s *Service) resolve(names []string) ([]tally.Method, error) {
	if len(names) == 0 {
		return s.DefaultMethods(), nil
	}
	return tally.ParseMethods(names)
}

// NewSchedule builds a validated schedule under the service's ranking mode
// and size limits.
func (s *Service) NewSchedule(candidates []string, ballots [][]string) (*ballot.Schedule, error) {
	if exceeds(len(candidates), s.maxCandidates) || exceeds(len(ballots), s.maxBallots) {
		metrics.RecordValidationError("too_large")
		return nil, fmt.Errorf("%w: %d candidates, %d ballots (limits %d, %d)",
			ErrTooLarge, len(candidates), len(ballots), s.maxCandidates, s.maxBallots)
	}
	bs := make([]ballot.Ballot, len(ballots))
	for i, b := range ballots {
		bs[i] = ballot.Of(b...)
	}
	sched, err := ballot.NewSchedule(ballot.Candidates(candidates...), bs, ballot.WithStrictRankings(s.strict))
	if err != nil {
		metrics.RecordValidationError(ballot.KindName(err))
		return nil, err
	}
	return sched, nil
}

// Tally runs a single method over sched and records its metrics.
func (s *Service) Tally(ctx context.Context, m tally.Method, sched *ballot.Schedule) (tally.Result, error) {
	if err := ctx.Err(); err != nil {
		return tally.Result{}, err
	}
	start := time.Now()
	r, err := tally.Run(m, sched)
	took := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordTallyDuration(m.String(), took)
	if err != nil {
		outcome := "error"
		if errors.Is(err, tally.ErrUnknownMethod) {
			outcome = "unknown_method"
		}
		metrics.RecordTally(m.String(), outcome)
		return tally.Result{}, fmt.Errorf("%s: %w", m, err)
	}
	s.tallies.Add(1)
	metrics.RecordTally(m.String(), "ok")
	metrics.RecordBallotsCounted(m.String(), r.Ballots)
	if len(r.Rounds) > 0 {
		metrics.RecordRunoffRounds(m.String(), len(r.Rounds))
	}
	s.log().Debug(ctx, "method tallied",
		logger.String("method", m.String()),
		logger.Int("rounds", len(r.Rounds)),
		logger.Float64("took_ms", took),
	)
	return r, nil
}

// TallyAll runs every method concurrently, at most the configured number at a
// time. Results are returned in the order of methods.
func (s *Service) TallyAll(ctx context.Context, sched *ballot.Schedule, methods []tally.Method) ([]tally.Result, error) {
	results := make([]tally.Result, len(methods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, m := range methods {
		i, m := i, m
		g.Go(func() error {
			r, err := s.Tally(gctx, m, sched)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"started":        s.started.Load(),
		"strictRankings": s.strict,
		"tallyWorkers":   s.workers,
		"defaultMethods": methodNames(s.methods),
		"maxCandidates":  s.maxCandidates,
		"maxBallots":     s.maxBallots,
		"elections":      s.elections.Load(),
		"rejected":       s.rejected.Load(),
		"tallies":        s.tallies.Load(),
	}
}

func exceeds(n, limit int) bool {
	return limit > 0 && n > limit
}

func methodNames(ms []tally.Method) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}
