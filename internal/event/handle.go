// Package event wraps one fetched competition event and exposes its
// child-resource listings as watchable sources, plus a resolver that looks an
// event up by SKU or internal id.
package event

import (
	"context"
	"fmt"
	"sync"
	"vex-tracker/internal/api"
	"vex-tracker/internal/domain"
	"vex-tracker/internal/watch"
)

// Handle is a live wrapper around one event record. Its snapshot reflects
// either the record it was constructed with or the most recent successful
// Refresh; a failed refresh leaves the prior snapshot untouched.
type Handle struct {
	client *api.Client

	mu  sync.RWMutex
	rec domain.Event
}

// NewHandle wraps rec. The record's identity is immutable for the life of
// the handle.
func NewHandle(client *api.Client, rec domain.Event) *Handle {
	return &Handle{client: client, rec: rec}
}

// Snapshot returns the current record. Readers never observe a partially
// refreshed mix of old and new fields.
func (h *Handle) Snapshot() domain.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec
}

func (h *Handle) ID() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.ID
}

func (h *Handle) SKU() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.SKU
}

// Refresh re-fetches the event by id and replaces the snapshot wholesale.
// On any failure the error is returned and the snapshot is unchanged. No
// retries happen here.
func (h *Handle) Refresh(ctx context.Context) error {
	rec, err := h.client.Event(ctx, h.ID())
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.rec = *rec
	h.mu.Unlock()
	return nil
}

// Child accessors capture the resolved path and filter into a watch.Source.
// No I/O happens until the source is fetched, typically by watch.New.

func (h *Handle) Teams(filter domain.TeamFilter) watch.Source[domain.Team] {
	id := h.ID()
	return watch.NewSource(fmt.Sprintf("events/%d/teams", id), func(ctx context.Context) ([]domain.Team, error) {
		return h.client.EventTeams(ctx, id, filter)
	})
}

func (h *Handle) Skills(filter domain.SkillFilter) watch.Source[domain.Skill] {
	id := h.ID()
	return watch.NewSource(fmt.Sprintf("events/%d/skills", id), func(ctx context.Context) ([]domain.Skill, error) {
		return h.client.EventSkills(ctx, id, filter)
	})
}

func (h *Handle) Awards(filter domain.AwardFilter) watch.Source[domain.Award] {
	id := h.ID()
	return watch.NewSource(fmt.Sprintf("events/%d/awards", id), func(ctx context.Context) ([]domain.Award, error) {
		return h.client.EventAwards(ctx, id, filter)
	})
}

func (h *Handle) Matches(division int, filter domain.MatchFilter) watch.Source[domain.Match] {
	id := h.ID()
	return watch.NewSource(fmt.Sprintf("events/%d/divisions/%d/matches", id, division), func(ctx context.Context) ([]domain.Match, error) {
		return h.client.DivisionMatches(ctx, id, division, filter)
	})
}

func (h *Handle) Rankings(division int, filter domain.RankingFilter) watch.Source[domain.Ranking] {
	id := h.ID()
	return watch.NewSource(fmt.Sprintf("events/%d/divisions/%d/rankings", id, division), func(ctx context.Context) ([]domain.Ranking, error) {
		return h.client.DivisionRankings(ctx, id, division, filter)
	})
}

func (h *Handle) FinalistRankings(division int, filter domain.RankingFilter) watch.Source[domain.Ranking] {
	id := h.ID()
	return watch.NewSource(fmt.Sprintf("events/%d/divisions/%d/finalistRankings", id, division), func(ctx context.Context) ([]domain.Ranking, error) {
		return h.client.DivisionFinalistRankings(ctx, id, division, filter)
	})
}
