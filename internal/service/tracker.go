package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"vex-tracker/internal/api"
	"vex-tracker/internal/config"
	"vex-tracker/internal/constants"
	"vex-tracker/internal/domain"
	"vex-tracker/internal/event"
	"vex-tracker/internal/metrics"
	"vex-tracker/internal/repository"
	"vex-tracker/internal/watch"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const resolveConcurrency = 4

// Tracker resolves the configured event SKUs, watches their child resources
// and persists snapshots plus a change log. It also answers the read queries
// the HTTP server exposes.
type Tracker struct {
	client  *api.Client
	events  *repository.EventRepository
	teams   *repository.TeamRepository
	changes *repository.ChangeLogRepository
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  zerolog.Logger

	mu      sync.Mutex
	watched []*watchedEvent
	wg      sync.WaitGroup
}

type watchedEvent struct {
	handle *event.Handle
	stops  []func()
}

func (we *watchedEvent) stopAll() {
	for _, stop := range we.stops {
		stop()
	}
}

func NewTracker(
	client *api.Client,
	events *repository.EventRepository,
	teams *repository.TeamRepository,
	changes *repository.ChangeLogRepository,
	m *metrics.Metrics,
	cfg *config.Config,
	logger zerolog.Logger,
) *Tracker {
	return &Tracker{
		client:  client,
		events:  events,
		teams:   teams,
		changes: changes,
		metrics: m,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start resolves every configured SKU and begins watching. A SKU that does
// not exist is logged and skipped; transport failures abort startup.
func (t *Tracker) Start(ctx context.Context) error {
	if len(t.cfg.TrackedSKUs) == 0 {
		t.logger.Warn().Msg("no tracked skus configured, tracker idle")
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for _, sku := range t.cfg.TrackedSKUs {
		g.Go(func() error {
			if err := t.track(gCtx, sku); err != nil {
				var notFound *event.NotFoundError
				if errors.As(err, &notFound) {
					t.logger.Warn().Str("sku", sku).Msg("event not found, skipping")
					return nil
				}
				return fmt.Errorf("failed to track %s: %w", sku, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (t *Tracker) track(ctx context.Context, sku string) error {
	handle, err := event.Resolve(ctx, t.client, sku)
	if err != nil {
		return err
	}

	rec := handle.Snapshot()
	t.logger.Info().
		Str("sku", rec.SKU).
		Int("id", rec.ID).
		Str("name", rec.Name).
		Int("divisions", len(rec.Divisions)).
		Msg("tracking event")

	if err := t.events.Upsert(ctx, rec); err != nil {
		return err
	}

	we := &watchedEvent{handle: handle}
	tracked := false
	// A later initial fetch can fail after earlier feeds started; stop them
	// rather than leaving orphaned pollers behind.
	defer func() {
		if !tracked {
			we.stopAll()
		}
	}()

	teamColl, err := watch.New(ctx, handle.Teams(domain.TeamFilter{}), t.watchOpts()...)
	if err != nil {
		return err
	}
	if err := t.teams.UpsertBatch(ctx, rec.ID, teamColl.Current()); err != nil {
		return err
	}
	startFeed(t, we, rec.SKU, "teams", teamColl, describeTeam, func(ctx context.Context, change watch.Change[domain.Team]) error {
		if change.Type == watch.Removed {
			return t.teams.Delete(ctx, rec.ID, change.Record.ID)
		}
		return t.teams.Upsert(ctx, rec.ID, change.Record)
	})

	skillColl, err := watch.New(ctx, handle.Skills(domain.SkillFilter{}), t.watchOpts()...)
	if err != nil {
		return err
	}
	startFeed(t, we, rec.SKU, "skills", skillColl, describeSkill, nil)

	awardColl, err := watch.New(ctx, handle.Awards(domain.AwardFilter{}), t.watchOpts()...)
	if err != nil {
		return err
	}
	startFeed(t, we, rec.SKU, "awards", awardColl, describeAward, nil)

	for _, div := range rec.Divisions {
		matchColl, err := watch.New(ctx, handle.Matches(div.ID, domain.MatchFilter{}), t.watchOpts()...)
		if err != nil {
			return err
		}
		startFeed(t, we, rec.SKU, "matches", matchColl, describeMatch, nil)

		rankColl, err := watch.New(ctx, handle.Rankings(div.ID, domain.RankingFilter{}), t.watchOpts()...)
		if err != nil {
			return err
		}
		startFeed(t, we, rec.SKU, "rankings", rankColl, describeRanking, nil)
	}

	tracked = true
	t.mu.Lock()
	t.watched = append(t.watched, we)
	t.mu.Unlock()
	return nil
}

func (t *Tracker) watchOpts() []watch.Option {
	return []watch.Option{
		watch.WithInterval(t.cfg.PollInterval),
		watch.WithPollTimeout(constants.ExternalAPITimeout),
		watch.WithLogger(t.logger),
	}
}

// Stop unwatches every collection and waits for the change consumers to
// drain, bounded by ctx.
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	for _, we := range t.watched {
		we.stopAll()
	}
	t.watched = nil
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("tracker shutdown: %w", ctx.Err())
	}
}

// startFeed subscribes to coll, starts its poller and spawns the consumer
// goroutine that records and persists observed changes. Free function because
// methods cannot introduce type parameters.
func startFeed[T watch.Record](
	t *Tracker,
	we *watchedEvent,
	sku, resource string,
	coll *watch.Collection[T],
	describe func(T) string,
	persist func(context.Context, watch.Change[T]) error,
) {
	subID, ch := coll.Subscribe()
	coll.Watch()
	we.stops = append(we.stops, coll.Unwatch, func() { coll.Unsubscribe(subID) })

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for change := range ch {
			consume(t, sku, resource, change, describe, persist)
		}
	}()
}

func consume[T watch.Record](
	t *Tracker,
	sku, resource string,
	change watch.Change[T],
	describe func(T) string,
	persist func(context.Context, watch.Change[T]) error,
) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	if change.Type == watch.PollFailed {
		t.metrics.PollFailures.WithLabelValues(sku, resource).Inc()
		t.logger.Warn().Err(change.Err).Str("sku", sku).Str("resource", resource).Msg("poll failed")
		return
	}

	t.metrics.Changes.WithLabelValues(sku, resource, change.Type.String()).Inc()
	t.logger.Info().
		Str("sku", sku).
		Str("resource", resource).
		Str("type", change.Type.String()).
		Int("record_id", change.Record.RecordID()).
		Msg("change observed")

	if persist != nil {
		if err := persist(ctx, change); err != nil {
			t.logger.Error().Err(err).Str("sku", sku).Str("resource", resource).Msg("failed to persist change")
		}
	}

	entry := domain.ChangeRecord{
		EventSKU:   sku,
		Resource:   resource,
		ChangeType: change.Type.String(),
		RecordID:   change.Record.RecordID(),
		Detail:     describe(change.Record),
		ObservedAt: change.At,
	}
	if entry.ObservedAt.IsZero() {
		entry.ObservedAt = time.Now()
	}
	if err := t.changes.Append(ctx, entry); err != nil {
		t.logger.Error().Err(err).Str("sku", sku).Str("resource", resource).Msg("failed to append change log")
	}
}

// Read-side queries used by the HTTP server.

func (t *Tracker) TrackedEvents(ctx context.Context) ([]repository.TrackedEvent, error) {
	return t.events.List(ctx)
}

func (t *Tracker) EventBySKU(ctx context.Context, sku string) (*repository.TrackedEvent, error) {
	return t.events.GetBySKU(ctx, sku)
}

func (t *Tracker) TeamsForEvent(ctx context.Context, sku string) ([]repository.EventTeam, error) {
	evt, err := t.events.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return t.teams.ListByEvent(ctx, evt.ID)
}

func (t *Tracker) ChangesForEvent(ctx context.Context, sku string, limit int) ([]domain.ChangeRecord, error) {
	return t.changes.ListBySKU(ctx, sku, limit)
}
