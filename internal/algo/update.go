package algo

import (
	"fmt"
	"math/rand"

	"github.com/acantarero/news-server/internal/dna"
	"github.com/acantarero/news-server/internal/domain"
)

// decayFactor shrinks a user's interest in topics an article touched when the
// user rejected that article.
const decayFactor = 0.0625

// dnaUpdater computes a new DNA vector from the current one, an article's
// vector and an engagement coefficient.
type dnaUpdater func(userDNA, articleDNA domain.DNA, coeff float64) domain.DNA

var dnaUpdaters = map[int]dnaUpdater{
	1: updateDNAV1,
}

// UpdateDNA blends an article's topic vector into a user's DNA.
// Parameters:
//   - userDNA: current interest vector.
//   - articleDNA: article's topic vector, same axis order.
//   - coeff: engagement coefficient from EngagementCoefficient.
//   - algorithm: update algorithm id from the user profile.
// Returns:
//   - domain.DNA: new vector; the input is not modified.
//   - error: wraps domain.ErrUnsupportedAlgorithm for an unknown id.
func UpdateDNA(userDNA, articleDNA domain.DNA, coeff float64, algorithm int) (domain.DNA, error) {
	updater, ok := dnaUpdaters[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: dna update %d", domain.ErrUnsupportedAlgorithm, algorithm)
	}
	if len(userDNA) != len(articleDNA) {
		return nil, fmt.Errorf("dna length mismatch: user %d, article %d", len(userDNA), len(articleDNA))
	}
	return updater(userDNA, articleDNA, coeff), nil
}

func updateDNAV1(userDNA, articleDNA domain.DNA, coeff float64) domain.DNA {
	result := make(domain.DNA, len(userDNA))
	if coeff == 0 {
		// Negative engagement: decay the categories the article touched,
		// leave the rest alone.
		for i := range userDNA {
			if articleDNA[i] > 0 {
				result[i] = decayFactor * userDNA[i]
			} else {
				result[i] = userDNA[i]
			}
		}
		return result
	}
	for i := range userDNA {
		result[i] = (1.0-coeff)*userDNA[i] + coeff*articleDNA[i]
	}
	return result
}

// successRate returns the fraction of the most recent n coefficients that
// are positive, using all of history when fewer than n exist.
func successRate(history []float64, n int) float64 {
	if len(history) == 0 {
		return 1
	}
	if len(history) > n {
		history = history[:n]
	}
	positive := 0
	for _, c := range history {
		if c > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(history))
}

// ConfidenceCorrect guards against runaway personalization when a user's net
// engagement signal is persistently negative (cold start, noisy signal, or
// disengagement). history must be ordered most-recent-first.
//
// With fewer than 100 recorded events and a sub-0.5 success rate over the
// last 100 or last 10, every axis of the updated vector is perturbed by an
// independent uniform offset in [-0.1, 0.1] and clamped to [0,1]. Once 100
// events exist and the 100-event success rate is still below 0.5, the update
// is discarded and the vector reset to neutral.
func ConfidenceCorrect(updated domain.DNA, history []float64, rng *rand.Rand) domain.DNA {
	if len(history) == 0 {
		return updated
	}

	rate100 := successRate(history, 100)
	rate10 := successRate(history, 10)

	switch {
	case len(history) < 100 && (rate100 < 0.5 || rate10 < 0.5):
		result := make(domain.DNA, len(updated))
		for i, v := range updated {
			val := v + (rng.Float64()*0.2 - 0.1)
			if val > 1 {
				val = 1
			}
			if val < 0 {
				val = 0
			}
			result[i] = val
		}
		return result

	case len(history) >= 100 && rate100 < 0.5:
		return dna.Neutral()
	}

	return updated
}
