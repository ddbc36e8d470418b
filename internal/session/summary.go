package session

import "time"

// Summary holds the totals shown when a run ends.
type Summary struct {
	Duration     time.Duration
	Answers      int
	Correct      int
	PointsGained int
}

// Accuracy returns Correct/Answers, or 0 before the first answer.
func (s Summary) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answers)
}

func (s *Summary) add(correct bool, delta int) {
	s.Answers++
	if correct {
		s.Correct++
	}
	s.PointsGained += delta
}

// Since returns the totals accumulated after prev was taken.
func (s Summary) Since(prev Summary) Summary {
	return Summary{
		Duration:     s.Duration - prev.Duration,
		Answers:      s.Answers - prev.Answers,
		Correct:      s.Correct - prev.Correct,
		PointsGained: s.PointsGained - prev.PointsGained,
	}
}
