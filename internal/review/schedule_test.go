package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studymind/studymind/internal/models"
	"github.com/studymind/studymind/internal/review"
)

func TestNextReviewDue_HardestRatingWins(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ratings []string
		want    time.Time
	}{
		{
			name:    "single easy rating",
			ratings: []string{models.DifficultyEasy},
			want:    now.Add(7 * 24 * time.Hour),
		},
		{
			name:    "single medium rating",
			ratings: []string{models.DifficultyMedium},
			want:    now.Add(3 * 24 * time.Hour),
		},
		{
			name:    "single hard rating",
			ratings: []string{models.DifficultyHard},
			want:    now.Add(24 * time.Hour),
		},
		{
			name:    "hard beats many easies",
			ratings: []string{models.DifficultyEasy, models.DifficultyEasy, models.DifficultyHard, models.DifficultyEasy},
			want:    now.Add(24 * time.Hour),
		},
		{
			name:    "medium beats easy",
			ratings: []string{models.DifficultyEasy, models.DifficultyMedium},
			want:    now.Add(3 * 24 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, review.NextReviewDue(now, tt.ratings))
		})
	}
}

func TestNextReviewDue_NoRatings(t *testing.T) {
	now := time.Now()
	assert.True(t, review.NextReviewDue(now, nil).IsZero())
	assert.True(t, review.NextReviewDue(now, []string{"unknown"}).IsZero(), "unrecognized ratings contribute nothing")
}
