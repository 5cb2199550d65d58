package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total       int
	Current     int
	Fixed       int
	Unchanged   int
	Failed      int
	BytesBefore int64 // archive sizes before rewrite, fixed archives only
	BytesAfter  int64
	Results     []*Result // one per processed archive, in order
}

// SizeDelta returns how much the fixed archives grew (negative: shrank).
func (s *RunStats) SizeDelta() int64 {
	return s.BytesAfter - s.BytesBefore
}

func (s *RunStats) record(r *Result) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeFixed:
		s.Fixed++
		s.BytesBefore += r.SizeBefore
		s.BytesAfter += r.SizeAfter
	case OutcomeUnchanged:
		s.Unchanged++
	default:
		s.Failed++
	}
}
