package about_writer

import (
	"time"
)

// recordHit increments the ledger hit counter
func (l *Ledger) recordHit() {
	if l.stats == nil {
		return
	}
	l.stats.mutex.Lock()
	defer l.stats.mutex.Unlock()
	l.stats.TotalRequests++
	l.stats.Hits++
}

// recordMiss increments the ledger miss counter
func (l *Ledger) recordMiss() {
	if l.stats == nil {
		return
	}
	l.stats.mutex.Lock()
	defer l.stats.mutex.Unlock()
	l.stats.TotalRequests++
	l.stats.Misses++
}

// GetPerformanceStats returns lookup statistics since the last reset
func (l *Ledger) GetPerformanceStats() map[string]interface{} {
	if l.stats == nil {
		return map[string]interface{}{
			"total_requests": int64(0),
			"hits":           int64(0),
			"misses":         int64(0),
			"hit_rate":       0.0,
			"uptime_human":   "0s",
		}
	}

	l.stats.mutex.RLock()
	defer l.stats.mutex.RUnlock()

	hitRate := 0.0
	if l.stats.TotalRequests > 0 {
		hitRate = float64(l.stats.Hits) / float64(l.stats.TotalRequests) * 100
	}

	return map[string]interface{}{
		"total_requests": l.stats.TotalRequests,
		"hits":           l.stats.Hits,
		"misses":         l.stats.Misses,
		"hit_rate":       hitRate,
		"uptime_human":   time.Since(l.stats.LastResetTime).Round(time.Millisecond).String(),
		"last_reset":     l.stats.LastResetTime.Format(time.RFC3339),
	}
}

// ResetPerformanceStats resets all lookup counters
func (l *Ledger) ResetPerformanceStats() {
	if l.stats == nil {
		return
	}
	l.stats.mutex.Lock()
	defer l.stats.mutex.Unlock()

	l.stats.TotalRequests = 0
	l.stats.Hits = 0
	l.stats.Misses = 0
	l.stats.LastResetTime = time.Now()
}
