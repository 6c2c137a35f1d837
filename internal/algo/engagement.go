package algo

import (
	"fmt"

	"github.com/acantarero/news-server/internal/domain"
)

// Engagement coefficients map a single reading session to a weight in [0,1].
// A coefficient of 0 is treated downstream as negative engagement; anything
// positive as positive engagement.
//
// An earlier table (0.1/0.2/0.5/0.7/0.8) made the DNA update too fast; this
// is the slowed table with the same relative importance.
const (
	coeffShared   = 0.5
	coeffSaved    = 0.0625
	coeffReadFull = 0.4375
	coeffReadLong = 0.3125
	coeffSkimmed  = 0.125
)

// engagementMapper maps one engagement event to a coefficient.
type engagementMapper func(ev domain.EngagementEvent) float64

// Dispatch by algorithm id, extensible without virtual dispatch.
var engagementMappers = map[int]engagementMapper{
	1: mapEngagementV1,
}

// EngagementCoefficient maps one engagement event to a learning coefficient
// using the mapping algorithm selected on the user's profile.
// Parameters:
//   - ev: engagement analytics for a single article.
//   - algorithm: engagement-mapping algorithm id from the user profile.
// Returns:
//   - float64: coefficient in [0,1].
//   - error: wraps domain.ErrUnsupportedAlgorithm for an unknown id.
func EngagementCoefficient(ev domain.EngagementEvent, algorithm int) (float64, error) {
	mapper, ok := engagementMappers[algorithm]
	if !ok {
		return 0, fmt.Errorf("%w: engagement mapping %d", domain.ErrUnsupportedAlgorithm, algorithm)
	}
	return mapper(ev), nil
}

func mapEngagementV1(ev domain.EngagementEvent) float64 {
	if len(ev.Share) > 0 {
		return coeffShared
	}
	if ev.Action == domain.ActionSave {
		return coeffSaved
	}
	if ev.Down > 0 {
		switch {
		case ev.TotalTime > 60 && ev.Down >= 3 && ev.Percent > 85:
			return coeffReadFull
		case ev.TotalTime > 20:
			return coeffReadLong
		default:
			return coeffSkimmed
		}
	}
	return 0
}
