package domain

import (
	"time"
)

// IDInfo is the compact reference the API embeds for related entities.
type IDInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Location struct {
	Venue       string      `json:"venue"`
	Address1    string      `json:"address_1"`
	Address2    string      `json:"address_2"`
	City        string      `json:"city"`
	Region      string      `json:"region"`
	Postcode    string      `json:"postcode"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
}

type Division struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type Event struct {
	ID              int        `json:"id"`
	SKU             string     `json:"sku"`
	Name            string     `json:"name"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	Season          IDInfo     `json:"season"`
	Program         IDInfo     `json:"program"`
	Location        Location   `json:"location"`
	Divisions       []Division `json:"divisions"`
	Level           string     `json:"level"`
	Ongoing         bool       `json:"ongoing"`
	AwardsFinalized bool       `json:"awards_finalized"`
	EventType       string     `json:"event_type"`
}

func (e Event) RecordID() int { return e.ID }

type Team struct {
	ID           int      `json:"id"`
	Number       string   `json:"number"`
	TeamName     string   `json:"team_name"`
	RobotName    string   `json:"robot_name"`
	Organization string   `json:"organization"`
	Location     Location `json:"location"`
	Registered   bool     `json:"registered"`
	Program      IDInfo   `json:"program"`
	Grade        string   `json:"grade"`
}

func (t Team) RecordID() int { return t.ID }

type AllianceTeam struct {
	Team    IDInfo `json:"team"`
	Sitting bool   `json:"sitting"`
}

type Alliance struct {
	Color string         `json:"color"` // "red" or "blue"
	Score int            `json:"score"`
	Teams []AllianceTeam `json:"teams"`
}

type Match struct {
	ID        int        `json:"id"`
	Event     IDInfo     `json:"event"`
	Division  IDInfo     `json:"division"`
	Round     int        `json:"round"`
	Instance  int        `json:"instance"`
	MatchNum  int        `json:"matchnum"`
	Scheduled *time.Time `json:"scheduled"`
	Started   *time.Time `json:"started"`
	Field     string     `json:"field"`
	Scored    bool       `json:"scored"`
	Name      string     `json:"name"`
	Alliances []Alliance `json:"alliances"`
}

func (m Match) RecordID() int { return m.ID }

type Ranking struct {
	ID           int     `json:"id"`
	Event        IDInfo  `json:"event"`
	Division     IDInfo  `json:"division"`
	Rank         int     `json:"rank"`
	Team         IDInfo  `json:"team"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Ties         int     `json:"ties"`
	WP           int     `json:"wp"`
	AP           int     `json:"ap"`
	SP           int     `json:"sp"`
	HighScore    int     `json:"high_score"`
	AverageScore float64 `json:"average_points"`
	TotalPoints  int     `json:"total_points"`
}

func (r Ranking) RecordID() int { return r.ID }

type Skill struct {
	ID       int    `json:"id"`
	Event    IDInfo `json:"event"`
	Team     IDInfo `json:"team"`
	Type     string `json:"type"` // "driver" or "programming"
	Season   IDInfo `json:"season"`
	Division IDInfo `json:"division"`
	Rank     int    `json:"rank"`
	Score    int    `json:"score"`
	Attempts int    `json:"attempts"`
}

func (s Skill) RecordID() int { return s.ID }

type TeamAwardWinner struct {
	Division IDInfo `json:"division"`
	Team     IDInfo `json:"team"`
}

type Award struct {
	ID                int               `json:"id"`
	Event             IDInfo            `json:"event"`
	Order             int               `json:"order"`
	Title             string            `json:"title"`
	Qualifications    []string          `json:"qualifications"`
	Designation       string            `json:"designation"`
	Classification    string            `json:"classification"`
	TeamWinners       []TeamAwardWinner `json:"teamWinners"`
	IndividualWinners []string          `json:"individualWinners"`
}

func (a Award) RecordID() int { return a.ID }

// ChangeRecord is one observed add/remove on a watched event resource,
// as persisted to the change log.
type ChangeRecord struct {
	ID         string    `json:"id"` // nanoid
	EventSKU   string    `json:"event_sku"`
	Resource   string    `json:"resource"`    // "teams", "skills", "awards", "matches", "rankings"
	ChangeType string    `json:"change_type"` // "added" or "removed"
	RecordID   int       `json:"record_id"`
	Detail     string    `json:"detail"`
	ObservedAt time.Time `json:"observed_at"`
}
