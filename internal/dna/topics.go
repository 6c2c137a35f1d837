// Package dna implements the fixed 20-topic vector space the personalization
// engine operates in: topic/index mapping, article-to-vector projection, and
// the bucket table used for diversification.
package dna

import (
	"fmt"

	"github.com/acantarero/news-server/internal/domain"
)

// Topic names, alphabetical. Index in this list is the axis index in every
// DNA vector, so the order must never change.
var indexToTopic = [domain.DNASize]string{
	"Arts",
	"Belief",
	"Business",
	"Culture",
	"Education",
	"Environment",
	"Health",
	"History",
	"Language",
	"Law",
	"Leisure",
	"Mathematics",
	"Nature",
	"People",
	"Politics",
	"Science",
	"Sports",
	"Technology",
	"Violence",
	"Weather",
}

var topicToIndex = func() map[string]int {
	m := make(map[string]int, len(indexToTopic))
	for i, t := range indexToTopic {
		m[t] = i
	}
	return m
}()

// Bucket is a small fixed group of related topics. Serving diversifies away
// from a user's dominant interests bucket by bucket rather than topic by
// topic, so Science and Technology (say) count as one interest.
type Bucket []string

// topicToBucket groups related topics. Static; never mutated at runtime.
var topicToBucket = map[string]Bucket{
	"Arts":        {"Arts", "Culture", "Leisure"},
	"Belief":      {"Belief"},
	"Business":    {"Business"},
	"Culture":     {"Arts", "Culture", "Leisure"},
	"Education":   {"Education"},
	"Environment": {"Environment", "Nature"},
	"Health":      {"Health"},
	"History":     {"History"},
	"Language":    {"Language"},
	"Law":         {"Law", "Politics"},
	"Leisure":     {"Arts", "Culture", "Leisure"},
	"Mathematics": {"Mathematics"},
	"Nature":      {"Environment", "Nature"},
	"People":      {"People"},
	"Politics":    {"Law", "Politics"},
	"Science":     {"Science", "Technology"},
	"Sports":      {"Sports"},
	"Technology":  {"Science", "Technology"},
	"Violence":    {"Violence"},
	"Weather":     {"Weather"},
}

// TopicIndex returns the axis index for a topic name.
// Parameters:
//   - topic: canonical topic name.
// Returns:
//   - int: axis index in [0, DNASize).
//   - error: wraps domain.ErrUnknownTopic if the topic is not in the taxonomy.
func TopicIndex(topic string) (int, error) {
	i, ok := topicToIndex[topic]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownTopic, topic)
	}
	return i, nil
}

// TopicName returns the topic name bound to an axis index.
func TopicName(index int) string {
	return indexToTopic[index]
}

// BucketFor returns the bucket containing a topic.
func BucketFor(topic string) (Bucket, error) {
	b, ok := topicToBucket[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTopic, topic)
	}
	return b, nil
}

// Topics returns the full taxonomy in axis order.
func Topics() []string {
	out := make([]string, len(indexToTopic))
	copy(out, indexToTopic[:])
	return out
}
