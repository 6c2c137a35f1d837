package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/acantarero/news-server/internal/algo"
	"github.com/acantarero/news-server/internal/dna"
	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/logger"
)

// EngagementStore is the full engagement persistence surface the learn
// pipeline needs: appending new records and reading back recent history.
type EngagementStore interface {
	algo.EngagementLog
	Append(ctx context.Context, records []domain.EngagementRecord) error
}

// historyLimit is how much engagement history the confidence correction
// looks at.
const historyLimit = 100

// LearnResult is the outcome of one detached learning task. Submitters never
// wait on learning, so results surface here instead of in the HTTP response.
type LearnResult struct {
	UserID   string
	Events   int
	Duration time.Duration
	Err      error
}

// learnTask is one queued unit of background work.
type learnTask struct {
	userID string
	events []domain.EngagementEvent
}

// LearnConfig holds configuration for the learn worker pool.
type LearnConfig struct {
	Workers   int
	QueueSize int
}

// LearnService updates user DNA vectors from engagement batches. Submission
// is fire-and-forget: the synchronous part validates and persists the raw
// events, then hands the DNA update to a bounded worker pool.
type LearnService struct {
	users       algo.UserStore
	articles    algo.ArticleStore
	engagements EngagementStore

	tasks   chan learnTask
	results chan LearnResult
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewLearnService creates the learn service and starts its worker pool.
// Parameters:
//   - users: user profile store.
//   - articles: article store for event-to-article resolution.
//   - engagements: engagement record store.
//   - cfg: worker pool sizing; nil uses 2 workers with a queue of 64.
// Returns:
//   - *LearnService: running service. Call Stop to drain it.
func NewLearnService(users algo.UserStore, articles algo.ArticleStore, engagements EngagementStore, cfg *LearnConfig) *LearnService {
	workers := 2
	queueSize := 64
	if cfg != nil {
		if cfg.Workers > 0 {
			workers = cfg.Workers
		}
		if cfg.QueueSize > 0 {
			queueSize = cfg.QueueSize
		}
	}

	s := &LearnService{
		users:       users,
		articles:    articles,
		engagements: engagements,
		tasks:       make(chan learnTask, queueSize),
		results:     make(chan LearnResult, queueSize),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
		go s.worker(rng)
	}
	return s
}

// Results exposes the outcome channel for learning tasks. Consumers that
// fall behind do not block learning; overflow results are logged and dropped.
func (s *LearnService) Results() <-chan LearnResult {
	return s.results
}

// Stop closes the task queue and waits for in-flight learning to finish.
func (s *LearnService) Stop() {
	s.closeOnce.Do(func() {
		close(s.tasks)
		s.wg.Wait()
		close(s.results)
	})
}

// Learn validates and records an engagement batch, then schedules the DNA
// update. The call returns as soon as the raw events are persisted; the
// caller never waits on learning.
// Parameters:
//   - ctx: context for the synchronous validation/persist phase only.
//   - userID: submitting user.
//   - events: per-article engagement analytics.
// Returns:
//   - error: wraps domain.ErrUserNotFound for an unknown user or
//     domain.ErrUnsupportedAlgorithm for an unknown mapping id; nil once the
//     batch is queued.
func (s *LearnService) Learn(ctx context.Context, userID string, events []domain.EngagementEvent) error {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	records := make([]domain.EngagementRecord, 0, len(events))
	for _, ev := range events {
		coeff, err := algo.EngagementCoefficient(ev, profile.EngagementMapping)
		if err != nil {
			return err
		}

		source := ""
		if art, err := s.articles.FindByID(ctx, ev.ArticleID); err == nil {
			source = art.Source
		}

		raw, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode engagement event: %w", err)
		}
		records = append(records, domain.EngagementRecord{
			UserID:      userID,
			ArticleID:   ev.ArticleID,
			Source:      source,
			Coefficient: coeff,
			RawEvent:    string(raw),
		})
	}

	if err := s.engagements.Append(ctx, records); err != nil {
		return err
	}

	task := learnTask{userID: userID, events: events}
	select {
	case s.tasks <- task:
	default:
		// Queue saturated. Dropping is preferable to making the submitter
		// wait; the loss is observable on the results channel.
		err := errors.New("learn queue full, task dropped")
		logger.CtxError(ctx, "learn task dropped: user_id=%s, events=%d", userID, len(events))
		s.report(LearnResult{UserID: userID, Events: len(events), Err: err})
	}
	return nil
}

func (s *LearnService) worker(rng *rand.Rand) {
	defer s.wg.Done()
	for task := range s.tasks {
		start := time.Now()
		err := s.process(task, rng)
		s.report(LearnResult{
			UserID:   task.userID,
			Events:   len(task.events),
			Duration: time.Since(start),
			Err:      err,
		})
	}
}

func (s *LearnService) report(result LearnResult) {
	select {
	case s.results <- result:
	default:
		if result.Err != nil {
			logger.GetDefault().WithError(result.Err).
				WithField(logger.FieldUserID, result.UserID).
				Error("learn result dropped, channel full")
		}
	}
}

// process runs one queued learning task: fold every event of the batch into
// the DNA vector, apply the confidence correction once, and write the
// profile back. Concurrent tasks for the same user are not serialized; the
// profile store is last-write-wins.
func (s *LearnService) process(task learnTask, rng *rand.Rand) error {
	ctx := logger.WithFields(context.Background(), logger.Fields{
		logger.FieldComponent: "learn",
		logger.FieldUserID:    task.userID,
	})

	profile, err := s.users.GetProfile(ctx, task.userID)
	if err != nil {
		return err
	}

	updated := profile.DNA.Clone()
	applied := 0
	for _, ev := range task.events {
		coeff, err := algo.EngagementCoefficient(ev, profile.EngagementMapping)
		if err != nil {
			// Unknown algorithm id is fatal to the batch, not per-record.
			return err
		}

		article, err := s.articles.FindByID(ctx, ev.ArticleID)
		if err != nil {
			if errors.Is(err, domain.ErrMissingArticle) {
				logger.CtxWarn(ctx, "engagement references missing article: article_id=%s", ev.ArticleID)
				continue
			}
			return err
		}

		articleDNA, err := dna.TopicsToVector(article.Topics)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownTopic) {
				logger.CtxWarn(ctx, "skipping article with unknown topic: article_id=%s, error=%v", ev.ArticleID, err)
				continue
			}
			return err
		}

		updated, err = algo.UpdateDNA(updated, articleDNA, coeff, profile.UpdateAlgorithm)
		if err != nil {
			return err
		}
		applied++
		logger.CtxDebug(ctx, "applied engagement: article_id=%s, coefficient=%f", ev.ArticleID, coeff)
	}

	history, err := s.engagements.RecentCoefficients(ctx, task.userID, historyLimit)
	if err != nil {
		return err
	}
	updated = algo.ConfidenceCorrect(updated, history, rng)

	profile.DNA = updated
	if err := s.users.SaveProfile(ctx, profile); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "dna updated: events=%d, applied=%d", len(task.events), applied)
	return nil
}
