package achievement

import (
	"log/slog"
	"time"

	"github.com/brawlspace/brawlspace/internal/cache"
	"github.com/brawlspace/brawlspace/internal/database"
	"github.com/brawlspace/brawlspace/internal/model"
)

// Evaluator is the stateless rule check for achievement unlocks. Achievement
// definitions are static reference data, so they are cached by condition
// type; awards go straight to the store.
type Evaluator struct {
	db     *database.DatabaseManager
	byType *cache.Cache[[]*model.Achievement]
	logger *slog.Logger
}

func NewEvaluator(db *database.DatabaseManager) *Evaluator {
	e := &Evaluator{
		db:     db,
		logger: slog.With("logger", "achievements"),
	}

	e.byType = cache.NewWithTTL[[]*model.Achievement](time.Minute*5, func(condType string) []*model.Achievement {
		return db.AchievementQuery().Type(condType).Get()
	})

	return e
}

// CheckAndAward finds every achievement of the given condition type whose
// threshold is at or below current and awards the ones the brawler does not
// have yet. It returns the names of achievements that were actually newly
// earned, so callers can announce unlocks without duplicates. Safe to call
// concurrently for the same brawler: the idempotent insert is the only
// guard.
func (e *Evaluator) CheckAndAward(brawlerID uint, condType string, current int) ([]string, error) {
	var earned []string

	for _, a := range e.byType.Load(condType) {
		if a.ConditionValue > current {
			continue
		}

		fresh, err := e.db.AwardOnce(brawlerID, a.ID)
		if err != nil {
			return earned, err
		}

		if fresh {
			e.logger.Info("achievement earned",
				slog.Uint64("brawler", uint64(brawlerID)),
				slog.String("achievement", a.Name))
			earned = append(earned, a.Name)
		}
	}

	return earned, nil
}
