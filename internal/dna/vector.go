package dna

import (
	"fmt"

	"github.com/acantarero/news-server/internal/domain"
)

// Neutral returns a fresh vector with every axis at 0.5, the profile a user
// starts with at signup and falls back to on a confidence reset.
func Neutral() domain.DNA {
	v := make(domain.DNA, domain.DNASize)
	for i := range v {
		v[i] = 0.5
	}
	return v
}

// TopicsToVector projects an article's topic scores onto the fixed axis
// order. Axes for topics the article does not mention stay 0.
// Parameters:
//   - scores: (topic, score) pairs from the categorization service.
// Returns:
//   - domain.DNA: 20-axis vector.
//   - error: wraps domain.ErrUnknownTopic if any pair names a topic outside
//     the taxonomy; the whole projection fails in that case.
func TopicsToVector(scores domain.TopicScores) (domain.DNA, error) {
	v := make(domain.DNA, domain.DNASize)
	for _, ts := range scores {
		i, err := TopicIndex(ts.Topic)
		if err != nil {
			return nil, fmt.Errorf("projecting topic scores: %w", err)
		}
		v[i] = ts.Score
	}
	return v, nil
}

// InnerProduct computes the dot product of two vectors. A length mismatch
// yields 0 rather than an error: the product only drives ranking, and a
// degraded score must not abort a serve.
func InnerProduct(a, b domain.DNA) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// DominantBuckets finds up to k non-overlapping interest clusters in v.
// It repeatedly takes the axis with the current maximum value, records that
// axis's bucket, and zeroes every axis in the bucket before repeating.
// Stops early when no positive axis remains. v is not modified.
func DominantBuckets(v domain.DNA, k int) []Bucket {
	work := v.Clone()
	buckets := make([]Bucket, 0, k)
	for len(buckets) < k {
		best := -1
		bestVal := 0.0
		for i, val := range work {
			if val > bestVal {
				best = i
				bestVal = val
			}
		}
		if best < 0 {
			break
		}
		bucket := topicToBucket[indexToTopic[best]]
		buckets = append(buckets, bucket)
		for _, topic := range bucket {
			work[topicToIndex[topic]] = 0
		}
	}
	return buckets
}

// ZeroBucket returns a copy of v with every axis belonging to the bucket
// forced to 0. Used to score an article with one interest cluster masked out.
func ZeroBucket(v domain.DNA, b Bucket) domain.DNA {
	out := v.Clone()
	for _, topic := range b {
		out[topicToIndex[topic]] = 0
	}
	return out
}
