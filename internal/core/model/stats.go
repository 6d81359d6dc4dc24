package model

import "time"

// LoadStats accounts for every row a loader saw. Attempted must always
// equal Upserted + Rejected + Unresolved so no row is lost silently.
type LoadStats struct {
	Source     string `json:"source"`
	Attempted  int    `json:"attempted"`
	Upserted   int    `json:"upserted"`
	Rejected   int    `json:"rejected"`
	Unresolved int    `json:"unresolved"`
}

// Add folds another stats block for the same source into s.
func (s *LoadStats) Add(other LoadStats) {
	s.Attempted += other.Attempted
	s.Upserted += other.Upserted
	s.Rejected += other.Rejected
	s.Unresolved += other.Unresolved
}

// SimilarityStats summarizes one derivation pass.
type SimilarityStats struct {
	ContainsEdges int `json:"contains_edges"`
	PairsCounted  int `json:"pairs_counted"`
	EdgesWritten  int `json:"edges_written"`
	EdgesDropped  int `json:"edges_dropped"`
	Threshold     int `json:"threshold"`
}

// RunSummary is the end-of-run report for a full pipeline execution.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Sources    []LoadStats     `json:"sources"`
	Similarity SimilarityStats `json:"similarity"`
}

func (r *RunSummary) Record(stats LoadStats) {
	r.Sources = append(r.Sources, stats)
}

// TotalRejected sums rejected rows across all sources.
func (r *RunSummary) TotalRejected() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Rejected
	}
	return n
}

// TotalUnresolved sums unresolved edge references across all sources.
func (r *RunSummary) TotalUnresolved() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Unresolved
	}
	return n
}
