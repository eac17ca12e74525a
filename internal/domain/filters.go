package domain

import (
	"net/url"
	"strconv"
	"time"
)

// Filters narrow listing requests. Every field is optional; repeated fields
// encode as repeated query parameters ("id[]=1&id[]=2"). Filters are built by
// the caller per request and never retained by the client.

type EventFilter struct {
	ID     []int
	SKU    []string
	Season []int
	Level  []string
	Start  *time.Time
	End    *time.Time
	Region string
}

func (f EventFilter) Encode() url.Values {
	v := url.Values{}
	addInts(v, "id[]", f.ID)
	addStrings(v, "sku[]", f.SKU)
	addInts(v, "season[]", f.Season)
	addStrings(v, "level[]", f.Level)
	if f.Start != nil {
		v.Set("start", f.Start.UTC().Format(time.RFC3339))
	}
	if f.End != nil {
		v.Set("end", f.End.UTC().Format(time.RFC3339))
	}
	if f.Region != "" {
		v.Set("region", f.Region)
	}
	return v
}

type TeamFilter struct {
	ID         []int
	Number     []string
	Grade      []string
	Country    []string
	Registered *bool
}

func (f TeamFilter) Encode() url.Values {
	v := url.Values{}
	addInts(v, "id[]", f.ID)
	addStrings(v, "number[]", f.Number)
	addStrings(v, "grade[]", f.Grade)
	addStrings(v, "country[]", f.Country)
	if f.Registered != nil {
		v.Set("registered", strconv.FormatBool(*f.Registered))
	}
	return v
}

type SkillFilter struct {
	Team []int
	Type []string
}

func (f SkillFilter) Encode() url.Values {
	v := url.Values{}
	addInts(v, "team[]", f.Team)
	addStrings(v, "type[]", f.Type)
	return v
}

type AwardFilter struct {
	Team   []int
	Winner []string
}

func (f AwardFilter) Encode() url.Values {
	v := url.Values{}
	addInts(v, "team[]", f.Team)
	addStrings(v, "winner[]", f.Winner)
	return v
}

type MatchFilter struct {
	Team     []int
	Round    []int
	Instance []int
	MatchNum []int
}

func (f MatchFilter) Encode() url.Values {
	v := url.Values{}
	addInts(v, "team[]", f.Team)
	addInts(v, "round[]", f.Round)
	addInts(v, "instance[]", f.Instance)
	addInts(v, "matchnum[]", f.MatchNum)
	return v
}

type RankingFilter struct {
	Team []int
	Rank []int
}

func (f RankingFilter) Encode() url.Values {
	v := url.Values{}
	addInts(v, "team[]", f.Team)
	addInts(v, "rank[]", f.Rank)
	return v
}

func addInts(v url.Values, key string, vals []int) {
	for _, n := range vals {
		v.Add(key, strconv.Itoa(n))
	}
}

func addStrings(v url.Values, key string, vals []string) {
	for _, s := range vals {
		v.Add(key, s)
	}
}
