package service

import (
	"fmt"
	"vex-tracker/internal/domain"
)

// Short human-readable summaries for change log entries.

func describeTeam(t domain.Team) string {
	return fmt.Sprintf("%s %s", t.Number, t.TeamName)
}

func describeSkill(s domain.Skill) string {
	return fmt.Sprintf("%s run by team %d: score %d", s.Type, s.Team.ID, s.Score)
}

func describeAward(a domain.Award) string {
	return a.Title
}

func describeMatch(m domain.Match) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("round %d match %d", m.Round, m.MatchNum)
}

func describeRanking(r domain.Ranking) string {
	return fmt.Sprintf("rank %d team %d (%d-%d-%d)", r.Rank, r.Team.ID, r.Wins, r.Losses, r.Ties)
}
