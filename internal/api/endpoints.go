package api

import (
	"context"
	"fmt"
	"net/url"
	"vex-tracker/internal/domain"
)

// Typed wrappers over the generic fetch helpers, one per endpoint family.

func (c *Client) Events(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	return fetchList[domain.Event](ctx, c, "events", filter.Encode(), 1)
}

func (c *Client) Event(ctx context.Context, id int) (*domain.Event, error) {
	return fetchOne[domain.Event](ctx, c, fmt.Sprintf("events/%d", id), url.Values{})
}

func (c *Client) EventTeams(ctx context.Context, eventID int, filter domain.TeamFilter) ([]domain.Team, error) {
	return fetchList[domain.Team](ctx, c, fmt.Sprintf("events/%d/teams", eventID), filter.Encode(), 1)
}

func (c *Client) EventSkills(ctx context.Context, eventID int, filter domain.SkillFilter) ([]domain.Skill, error) {
	return fetchList[domain.Skill](ctx, c, fmt.Sprintf("events/%d/skills", eventID), filter.Encode(), 1)
}

func (c *Client) EventAwards(ctx context.Context, eventID int, filter domain.AwardFilter) ([]domain.Award, error) {
	return fetchList[domain.Award](ctx, c, fmt.Sprintf("events/%d/awards", eventID), filter.Encode(), 1)
}

func (c *Client) DivisionMatches(ctx context.Context, eventID, division int, filter domain.MatchFilter) ([]domain.Match, error) {
	return fetchList[domain.Match](ctx, c, fmt.Sprintf("events/%d/divisions/%d/matches", eventID, division), filter.Encode(), 1)
}

func (c *Client) DivisionRankings(ctx context.Context, eventID, division int, filter domain.RankingFilter) ([]domain.Ranking, error) {
	return fetchList[domain.Ranking](ctx, c, fmt.Sprintf("events/%d/divisions/%d/rankings", eventID, division), filter.Encode(), 1)
}

func (c *Client) DivisionFinalistRankings(ctx context.Context, eventID, division int, filter domain.RankingFilter) ([]domain.Ranking, error) {
	return fetchList[domain.Ranking](ctx, c, fmt.Sprintf("events/%d/divisions/%d/finalistRankings", eventID, division), filter.Encode(), 1)
}
