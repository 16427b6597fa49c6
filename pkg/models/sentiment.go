package models

import "time"

// SentimentSample represents the synthetic social sentiment for one day
type SentimentSample struct {
	Date       time.Time `json:"date"`
	Score      float64   `json:"score"`      // -1 (bearish) to 1 (bullish)
	Confidence float64   `json:"confidence"` // 0-1
	Volume     int       `json:"volume"`     // synthetic post count
}

// Scores extracts sentiment scores in order
func Scores(samples []SentimentSample) []float64 {
	scores := make([]float64, len(samples))
	for i, s := range samples {
		scores[i] = s.Score
	}
	return scores
}

// SentimentTrend represents sentiment direction over the latest samples
type SentimentTrend struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	Direction string  `json:"direction"` // improving, declining, stable
	Momentum  float64 `json:"momentum"`  // rate of change
}

// GetSentimentTrend compares the last two samples (oldest first ordering)
func GetSentimentTrend(samples []SentimentSample) *SentimentTrend {
	if len(samples) < 2 {
		return &SentimentTrend{
			Direction: "stable",
			Momentum:  0,
		}
	}

	current := samples[len(samples)-1].Score
	previous := samples[len(samples)-2].Score
	momentum := current - previous

	direction := "stable"
	if momentum > 0.1 {
		direction = "improving"
	} else if momentum < -0.1 {
		direction = "declining"
	}

	return &SentimentTrend{
		Current:   current,
		Previous:  previous,
		Direction: direction,
		Momentum:  momentum,
	}
}
