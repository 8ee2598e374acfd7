package reconciler

import (
	"context"
	"time"

	"github.com/smile19439/forum-express-grading/internal/config"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/internal/store"
	pkglog "github.com/smile19439/forum-express-grading/pkg/log"
)

// Reconciler periodically rewrites the cached follower counts of the most
// accessed users from the followships table, correcting any drift between
// the synchronous counter updates and the database.
type Reconciler struct {
	store      store.FollowerStore
	followRepo repository.RelationRepository
	cfg        config.ReconcilerConfig
	quit       chan struct{}
	doneCh     chan struct{}
}

// New creates a new Reconciler. followRepo must be the followship-kind
// relation repository.
func New(followerStore store.FollowerStore, followRepo repository.RelationRepository, cfg config.ReconcilerConfig) *Reconciler {
	return &Reconciler{
		store:      followerStore,
		followRepo: followRepo,
		cfg:        cfg,
		quit:       make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the reconciler in a background goroutine.
func (r *Reconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Stop signals the reconciler to stop and returns immediately.
// Call Done() to wait for it to exit.
func (r *Reconciler) Stop() {
	close(r.quit)
}

// Done returns a channel that is closed when the reconciler has fully
// stopped.
func (r *Reconciler) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneCh)

	interval := r.cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reconcile(ctx)
		}
	}
}

// Reconcile runs one reconciliation cycle: rewrite the cached counts of the
// hottest keys from the database, then reset the access scores.
func (r *Reconciler) Reconcile(ctx context.Context) {
	l := pkglog.L()

	topN := int64(r.cfg.TopN)
	if topN <= 0 {
		topN = 100
	}

	userIDs, err := r.store.GetTopHotKeys(ctx, topN)
	if err != nil {
		l.Error().Err(err).Msg("reconciler: failed to get top hot keys")
		return
	}

	if len(userIDs) == 0 {
		return
	}

	for _, userID := range userIDs {
		count, err := r.followRepo.CountActors(ctx, userID)
		if err != nil {
			l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("reconciler: failed to count followers in db")
			continue
		}
		if err := r.store.SetFollowerCount(ctx, userID, count); err != nil {
			l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("reconciler: failed to set follower count in redis")
		}
	}

	if err := r.store.ResetHotKeyScores(ctx); err != nil {
		l.Error().Err(err).Msg("reconciler: failed to reset hot key scores")
	}

	l.Info().Int("count", len(userIDs)).Msg("reconciler: hot-key reconciliation complete")
}
