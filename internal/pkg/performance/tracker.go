package performance

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker tracks timing metrics for scoring operations. A single
// global instance feeds the /metrics endpoint.
type Tracker struct {
	mu sync.RWMutex

	TotalAppends int
	TotalUndos   int
	TotalWickets int
	TotalReads   int
	CacheHits    int

	AppendDuration  time.Duration
	ComputeDuration time.Duration
	StoreDuration   time.Duration
	ReadDuration    time.Duration

	StorageOperations []StorageOperation
}

// StorageOperation tracks a single storage call.
type StorageOperation struct {
	Operation string // "append", "undo", "get", "create"
	MatchID   string
	Duration  time.Duration
	Success   bool
	Error     string
	Timestamp time.Time
}

var globalTracker = &Tracker{
	StorageOperations: make([]StorageOperation, 0, 1000),
}

// GetTracker returns the global performance tracker
func GetTracker() *Tracker {
	return globalTracker
}

// Reset resets all metrics
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalAppends = 0
	t.TotalUndos = 0
	t.TotalWickets = 0
	t.TotalReads = 0
	t.CacheHits = 0
	t.AppendDuration = 0
	t.ComputeDuration = 0
	t.StoreDuration = 0
	t.ReadDuration = 0
	t.StorageOperations = t.StorageOperations[:0]
}

// RecordAppend records one ball append: total handler time, the engine
// compute share and the storage write share.
func (t *Tracker) RecordAppend(total, compute, store time.Duration, wicket bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalAppends++
	if wicket {
		t.TotalWickets++
	}
	t.AppendDuration += total
	t.ComputeDuration += compute
	t.StoreDuration += store
}

// RecordUndo records one undo operation.
func (t *Tracker) RecordUndo() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TotalUndos++
}

// RecordRead records one live-score or scorecard read.
func (t *Tracker) RecordRead(duration time.Duration, cacheHit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalReads++
	t.ReadDuration += duration
	if cacheHit {
		t.CacheHits++
	}
}

// RecordStorageOperation records a single storage call
func (t *Tracker) RecordStorageOperation(operation, matchID string, duration time.Duration, success bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	errStr := ""
	if err != nil {
		errStr = err.Error()
	}

	t.StorageOperations = append(t.StorageOperations, StorageOperation{
		Operation: operation,
		MatchID:   matchID,
		Duration:  duration,
		Success:   success,
		Error:     errStr,
		Timestamp: time.Now(),
	})
}

// PrintSummary prints a detailed performance summary
func (t *Tracker) PrintSummary() {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.TotalAppends == 0 && t.TotalReads == 0 {
		slog.Info("No performance data collected yet")
		return
	}

	slog.Info("PERFORMANCE SUMMARY")

	if t.TotalAppends > 0 {
		slog.Info("Appends",
			"total", t.TotalAppends,
			"wickets", t.TotalWickets,
			"undos", t.TotalUndos,
			"avg_total", t.AppendDuration/time.Duration(t.TotalAppends),
			"avg_compute", t.ComputeDuration/time.Duration(t.TotalAppends),
			"avg_store", t.StoreDuration/time.Duration(t.TotalAppends))
	}

	if t.TotalReads > 0 {
		slog.Info("Reads",
			"total", t.TotalReads,
			"cache_hits", t.CacheHits,
			"cache_hit_rate", float64(t.CacheHits)/float64(t.TotalReads)*100,
			"avg_duration", t.ReadDuration/time.Duration(t.TotalReads))
	}

	if len(t.StorageOperations) > 0 {
		opsByType := make(map[string]struct {
			count   int
			total   time.Duration
			success int
		})

		for _, op := range t.StorageOperations {
			stat := opsByType[op.Operation]
			stat.count++
			stat.total += op.Duration
			if op.Success {
				stat.success++
			}
			opsByType[op.Operation] = stat
		}

		for opType, stat := range opsByType {
			slog.Info("Storage Operation",
				"operation", opType,
				"count", stat.count,
				"avg_time", stat.total/time.Duration(stat.count),
				"success_rate", float64(stat.success)/float64(stat.count)*100)
		}
	}
}

// MetricsResponse represents the JSON response structure for /metrics endpoint
type MetricsResponse struct {
	Appends struct {
		Total      int    `json:"total"`
		Wickets    int    `json:"wickets"`
		Undos      int    `json:"undos"`
		AvgTotal   string `json:"avg_total"`
		AvgCompute string `json:"avg_compute"`
		AvgStore   string `json:"avg_store"`
	} `json:"appends"`

	Reads struct {
		Total        int     `json:"total"`
		CacheHits    int     `json:"cache_hits"`
		CacheHitRate float64 `json:"cache_hit_rate"`
		AvgDuration  string  `json:"avg_duration"`
	} `json:"reads"`

	StorageOperations map[string]struct {
		Count       int     `json:"count"`
		AvgTime     string  `json:"avg_time"`
		SuccessRate float64 `json:"success_rate"`
	} `json:"storage_operations"`
}

// GetMetrics returns structured metrics for JSON API
func (t *Tracker) GetMetrics() MetricsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var resp MetricsResponse

	resp.Appends.Total = t.TotalAppends
	resp.Appends.Wickets = t.TotalWickets
	resp.Appends.Undos = t.TotalUndos
	if t.TotalAppends > 0 {
		n := time.Duration(t.TotalAppends)
		resp.Appends.AvgTotal = (t.AppendDuration / n).String()
		resp.Appends.AvgCompute = (t.ComputeDuration / n).String()
		resp.Appends.AvgStore = (t.StoreDuration / n).String()
	}

	resp.Reads.Total = t.TotalReads
	resp.Reads.CacheHits = t.CacheHits
	if t.TotalReads > 0 {
		resp.Reads.CacheHitRate = float64(t.CacheHits) / float64(t.TotalReads) * 100
		resp.Reads.AvgDuration = (t.ReadDuration / time.Duration(t.TotalReads)).String()
	}

	resp.StorageOperations = make(map[string]struct {
		Count       int     `json:"count"`
		AvgTime     string  `json:"avg_time"`
		SuccessRate float64 `json:"success_rate"`
	})

	if len(t.StorageOperations) > 0 {
		opsByType := make(map[string]struct {
			count   int
			total   time.Duration
			success int
		})

		for _, op := range t.StorageOperations {
			stat := opsByType[op.Operation]
			stat.count++
			stat.total += op.Duration
			if op.Success {
				stat.success++
			}
			opsByType[op.Operation] = stat
		}

		for opType, stat := range opsByType {
			resp.StorageOperations[opType] = struct {
				Count       int     `json:"count"`
				AvgTime     string  `json:"avg_time"`
				SuccessRate float64 `json:"success_rate"`
			}{
				Count:       stat.count,
				AvgTime:     (stat.total / time.Duration(stat.count)).String(),
				SuccessRate: float64(stat.success) / float64(stat.count) * 100,
			}
		}
	}

	return resp
}
