package keyed

import "time"

// PassInfo describes a reconciliation pass as it starts.
type PassInfo struct {
	// ListID identifies the list (its scope ID).
	ListID uint64

	// Pass is the 1-based pass counter of the list.
	Pass uint64

	// OldLen and NewLen are the row counts before and after the pass.
	OldLen int
	NewLen int

	// Start is when the pass began.
	Start time.Time
}

// PassStats describes what a finished pass did.
type PassStats struct {
	Path       Path
	Created    int
	Removed    int
	Moved      int
	Retained   int
	Duplicates int
	Duration   time.Duration
}

// Add accumulates other into s. Path and Duration keep the latest and the sum.
func (s *PassStats) Add(other PassStats) {
	s.Path = other.Path
	s.Created += other.Created
	s.Removed += other.Removed
	s.Moved += other.Moved
	s.Retained += other.Retained
	s.Duplicates += other.Duplicates
	s.Duration += other.Duration
}

// Observer receives a callback around every reconciliation pass.
// Callbacks run synchronously on the reconciling goroutine.
type Observer interface {
	PassStarted(info PassInfo)
	PassFinished(info PassInfo, stats PassStats)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Started  func(info PassInfo)
	Finished func(info PassInfo, stats PassStats)
}

// PassStarted implements Observer.
func (o ObserverFuncs) PassStarted(info PassInfo) {
	if o.Started != nil {
		o.Started(info)
	}
}

// PassFinished implements Observer.
func (o ObserverFuncs) PassFinished(info PassInfo, stats PassStats) {
	if o.Finished != nil {
		o.Finished(info, stats)
	}
}
