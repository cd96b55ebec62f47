package srt

import "github.com/irctrakz/gosrt/pkg/core"

// Bistats takes a full statistics snapshot in a single engine call. With
// clearIntervals set, the interval counters restart from zero after the
// snapshot. The returned value is a copy; it never changes after the call
// returns.
func (s *Socket) Bistats(clearIntervals bool) (core.TraceStats, error) {
	id, e := s.handle("stats")
	if e != nil {
		return core.TraceStats{}, e
	}
	var stats core.TraceStats
	if s.eng.Bstats(id, &stats, clearIntervals) != 0 {
		return core.TraceStats{}, nativeError(s.eng, "stats", id)
	}
	return stats, nil
}
