package api

import (
	"qisim/domain/cohort"
	"qisim/domain/stats"
)

// PairRequest names two fields for correlation or a simple regression
type PairRequest struct {
	X string `json:"x" binding:"required"`
	Y string `json:"y" binding:"required"`
}

// RegressionRequest asks for outcome ~ predictors
type RegressionRequest struct {
	Outcome    string   `json:"outcome" binding:"required"`
	Predictors []string `json:"predictors"`
}

// ClusterRequest partitions participants on features
type ClusterRequest struct {
	Features      []string `json:"features" binding:"required,min=1"`
	K             int      `json:"k" binding:"required,min=1"`
	Iterate       bool     `json:"iterate"`
	MaxIterations int      `json:"maxIterations"`
	Standardize   bool     `json:"standardize"`
	Seed          int64    `json:"seed"`
}

// DeriveRequest applies dependency relations to the current cohort
type DeriveRequest struct {
	Relations []cohort.DependencyRelation `json:"relations" binding:"required,min=1"`
	Seed      int64                       `json:"seed"`
}

// ReportRequest selects the sections of an analysis report
type ReportRequest struct {
	Title             string              `json:"title"`
	IncludeSummary    *bool               `json:"includeSummary"`
	CorrelationFields []string            `json:"correlationFields"`
	Lines             []PairRequest       `json:"lines"`
	Regressions       []RegressionRequest `json:"regressions"`
	Clusters          []ClusterRequest    `json:"clusters"`
}

// PairResponse reports a correlation and, for line requests, the fitted line
type PairResponse struct {
	X    string         `json:"x"`
	Y    string         `json:"y"`
	R    float64        `json:"r"`
	N    int            `json:"n"`
	Line *stats.LineFit `json:"line,omitempty"`
}

// ClusterResponse is a cluster result with assignments keyed back to participants
type ClusterResponse struct {
	stats.ClusterResult
	ParticipantIDs []string `json:"participantIds"`
	Seed           int64    `json:"seed"`
}

// CohortInfo describes the snapshot after it changes
type CohortInfo struct {
	Participants int    `json:"participants"`
	Fingerprint  string `json:"fingerprint"`
	Seed         int64  `json:"seed,omitempty"`
}
