package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"qisim/adapters/rng"
	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/domain/stats"
	"qisim/internal"
	"qisim/internal/analysis"
	cohortgen "qisim/internal/cohort"
	"qisim/internal/config"
	"qisim/internal/errors"
	"qisim/internal/report"
	"qisim/ports"
)

// Stream names for the random provider
const (
	streamSimulate = "simulate"
	streamCluster  = "cluster"
	streamDerive   = "derive"
)

// Service owns the in-memory cohort snapshot. The snapshot is replaced wholesale and
// never mutated, so readers can keep computing on the slice they took.
type Service struct {
	cfg *config.Config
	rng ports.RNGPort
	log *internal.Logger

	mu           sync.RWMutex
	participants []cohort.Participant
}

// NewService creates a service with an empty cohort
func NewService(cfg *config.Config, rngPort ports.RNGPort, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{cfg: cfg, rng: rngPort, log: logger}
}

// Snapshot returns the current participants. Callers must not modify them.
func (s *Service) Snapshot() []cohort.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participants
}

func (s *Service) replace(ps []cohort.Participant) {
	s.mu.Lock()
	s.participants = ps
	s.mu.Unlock()
}

// resolveSeed turns a requested seed into the base seed actually used; 0 falls back
// to the configured seed, then to entropy.
func (s *Service) resolveSeed(seed int64) int64 {
	if seed == 0 {
		seed = s.cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = rng.EntropySeed()
	}
	return seed
}

// Simulate generates a cohort and makes it current
func (s *Service) Simulate(cfg cohort.SimulationConfig, seed int64) (CohortInfo, error) {
	if cfg.NumParticipants > s.cfg.Simulation.MaxParticipants {
		return CohortInfo{}, errors.InvalidInput(fmt.Sprintf("numParticipants %d exceeds the limit of %d",
			cfg.NumParticipants, s.cfg.Simulation.MaxParticipants))
	}
	seed = s.resolveSeed(seed)

	start := time.Now()
	g, err := cohortgen.NewGenerator(cfg, s.rng.Stream(streamSimulate, seed), s.log)
	if err != nil {
		return CohortInfo{}, errors.Wrap(err, "simulate")
	}
	ps, err := g.Generate()
	if err != nil {
		return CohortInfo{}, errors.Wrap(err, "simulate")
	}
	s.replace(ps)

	info := s.info(ps)
	info.Seed = seed
	s.log.Info("simulated %d participants in %s (seed %d)", len(ps), time.Since(start).Round(time.Millisecond), seed)
	return info, nil
}

// Import makes externally supplied participants current
func (s *Service) Import(ps []cohort.Participant) (CohortInfo, error) {
	if len(ps) > s.cfg.Simulation.MaxParticipants {
		return CohortInfo{}, errors.InvalidInput(fmt.Sprintf("%d participants exceed the limit of %d",
			len(ps), s.cfg.Simulation.MaxParticipants))
	}
	if ps == nil {
		ps = []cohort.Participant{}
	}
	s.replace(ps)
	s.log.Info("imported %d participants", len(ps))
	return s.info(ps), nil
}

// Derive applies relations to the current cohort and makes the result current
func (s *Service) Derive(relations []cohort.DependencyRelation, seed int64) (CohortInfo, error) {
	ps, err := s.current()
	if err != nil {
		return CohortInfo{}, err
	}
	seed = s.resolveSeed(seed)
	derived, err := cohortgen.EvaluateDependencies(ps, relations, s.rng.Stream(streamDerive, seed))
	if err != nil {
		return CohortInfo{}, errors.Wrap(err, "derive")
	}
	s.replace(derived)
	info := s.info(derived)
	info.Seed = seed
	return info, nil
}

func (s *Service) info(ps []cohort.Participant) CohortInfo {
	return CohortInfo{Participants: len(ps), Fingerprint: cohortgen.Summarize(ps).Fingerprint}
}

// Page returns participants [offset, offset+limit) and the total count
func (s *Service) Page(offset, limit int) ([]cohort.Participant, int) {
	ps := s.Snapshot()
	total := len(ps)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return ps[offset:end], total
}

// Summary profiles the current cohort
func (s *Service) Summary() cohortgen.CohortSummary {
	return cohortgen.Summarize(s.Snapshot())
}

// current returns the snapshot, or NOT_FOUND when no cohort has been loaded
func (s *Service) current() ([]cohort.Participant, error) {
	ps := s.Snapshot()
	if len(ps) == 0 {
		return nil, errors.NotFound("cohort")
	}
	return ps, nil
}

func (s *Service) rows() ([]analysis.Row, error) {
	ps, err := s.current()
	if err != nil {
		return nil, err
	}
	return analysis.ParticipantRows(ps), nil
}

// Pair correlates two fields and optionally fits y on x
func (s *Service) Pair(req PairRequest, withLine bool) (PairResponse, error) {
	if err := checkFields(req.X, req.Y); err != nil {
		return PairResponse{}, err
	}
	rows, err := s.rows()
	if err != nil {
		return PairResponse{}, err
	}
	xs, ys := analysis.PairedColumns(rows, req.X, req.Y)
	resp := PairResponse{X: req.X, Y: req.Y, R: analysis.Correlation(xs, ys), N: len(xs)}
	if withLine {
		line := analysis.FitLine(xs, ys)
		resp.Line = &line
	}
	return resp, nil
}

// Regress fits a multiple regression over the current cohort
func (s *Service) Regress(req RegressionRequest) (stats.RegressionResult, error) {
	if err := checkFields(append([]string{req.Outcome}, req.Predictors...)...); err != nil {
		return stats.RegressionResult{}, err
	}
	for _, p := range req.Predictors {
		if p == req.Outcome {
			return stats.RegressionResult{}, errors.ValidationError(fmt.Sprintf("%q is both outcome and predictor", p))
		}
	}
	rows, err := s.rows()
	if err != nil {
		return stats.RegressionResult{}, err
	}
	return analysis.FitModel(rows, req.Outcome, req.Predictors), nil
}

// Cluster partitions the participants that carry every feature
func (s *Service) Cluster(req ClusterRequest) (ClusterResponse, error) {
	if err := checkFields(req.Features...); err != nil {
		return ClusterResponse{}, err
	}
	if req.K < 1 {
		return ClusterResponse{}, errors.InvalidInput("k must be at least 1")
	}
	ps, err := s.current()
	if err != nil {
		return ClusterResponse{}, err
	}
	seed := s.resolveSeed(req.Seed)
	opts := analysis.ClusterOptions{Iterate: req.Iterate, MaxIterations: req.MaxIterations, Standardize: req.Standardize}
	res := analysis.ClusterRows(analysis.ParticipantRows(ps), req.Features, req.K, opts, s.rng.Stream(streamCluster, seed))
	if len(res.Assignments) == 0 {
		return ClusterResponse{}, errors.Wrapf(core.ErrInsufficientData, "no participant has all of %v", req.Features)
	}

	ids := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		ids[i] = ps[row].ID.String()
	}
	return ClusterResponse{ClusterResult: res, ParticipantIDs: ids, Seed: seed}, nil
}

// Correlations computes every pairwise cell over fields concurrently
func (s *Service) Correlations(ctx context.Context, fields []string) ([]stats.CorrelationCell, error) {
	if err := checkFields(fields...); err != nil {
		return nil, err
	}
	rows, err := s.rows()
	if err != nil {
		return nil, err
	}
	cells, err := analysis.CorrelationMatrixContext(ctx, rows, fields)
	if err != nil {
		return nil, errors.Wrap(err, "correlation matrix")
	}
	return cells, nil
}

// Report assembles the requested sections over one snapshot
func (s *Service) Report(ctx context.Context, req ReportRequest) (report.Report, error) {
	title := req.Title
	if title == "" {
		title = s.cfg.Report.Title
	}
	rep := report.Report{Title: title, GeneratedAt: time.Now().UTC()}

	if req.IncludeSummary == nil || *req.IncludeSummary {
		summary := s.Summary()
		rep.Summary = &summary
	}
	if len(req.CorrelationFields) > 1 {
		cells, err := s.Correlations(ctx, req.CorrelationFields)
		if err != nil {
			return report.Report{}, err
		}
		rep.Correlations = cells
	}
	for _, l := range req.Lines {
		pair, err := s.Pair(l, true)
		if err != nil {
			return report.Report{}, err
		}
		rep.Lines = append(rep.Lines, report.LineSection{X: pair.X, Y: pair.Y, Fit: *pair.Line, R: pair.R, N: pair.N})
	}
	for _, r := range req.Regressions {
		res, err := s.Regress(r)
		if err != nil {
			return report.Report{}, err
		}
		rep.Regressions = append(rep.Regressions, res)
	}
	for _, c := range req.Clusters {
		res, err := s.Cluster(c)
		if err != nil {
			return report.Report{}, err
		}
		rep.Clusters = append(rep.Clusters, report.ClusterSection{Features: c.Features, Result: res.ClusterResult})
	}
	return rep, nil
}

// checkFields rejects malformed field paths
func checkFields(fields ...string) error {
	for _, f := range fields {
		if _, err := core.ParseFieldKey(f); err != nil {
			return errors.InvalidInput(fmt.Sprintf("field %q: %v", f, err))
		}
	}
	return nil
}
