package review

import (
	"time"

	"github.com/studymind/studymind/internal/models"
)

// Fixed next-review intervals per difficulty rating. This is a lookup table,
// not an adaptive algorithm: a note rated hard comes back tomorrow, medium in
// three days, easy in a week.
var reviewIntervals = map[string]time.Duration{
	models.DifficultyHard:   24 * time.Hour,
	models.DifficultyMedium: 3 * 24 * time.Hour,
	models.DifficultyEasy:   7 * 24 * time.Hour,
}

// NextReviewDue computes when a note should come back for review given the
// ratings its questions received in a session. The hardest rating wins, so a
// note with one hard question returns on the hard interval regardless of how
// many easy ratings it also collected. Returns the zero time when no rating
// is recognized.
func NextReviewDue(now time.Time, ratings []string) time.Time {
	best := time.Duration(0)
	for _, r := range ratings {
		interval, ok := reviewIntervals[r]
		if !ok {
			continue
		}
		if best == 0 || interval < best {
			best = interval
		}
	}
	if best == 0 {
		return time.Time{}
	}
	return now.Add(best)
}
