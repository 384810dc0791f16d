package models

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Group      string `json:"group"`
	Best5000m  string `json:"best_5000m"`
	TargetTime string `json:"target_time"`
	Active     string `json:"active"` // "TRUE"/"FALSE" as stored in the sheet
	PhotoURL   string `json:"photo_url"`
}

// Record is one race or training result.
type Record struct {
	ID         string `json:"id"`
	Date       string `json:"date"` // YYYY/MM/DD or YYYY-MM-DD
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Event      string `json:"event"` // event label ("5000m") or relay section label
	Section    string `json:"section"`
	Time       string `json:"time"`     // mm:ss or hh:mm:ss
	Distance   string `json:"distance"` // "5.8km", "5800m", "5800" or empty
	Memo       string `json:"memo"`
	RaceName   string `json:"race_name"`
	RaceType   string `json:"race_type"`
	Rank       string `json:"rank"`
}

// Event is a calendar entry.
type Event struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
	Place string `json:"place"`
	Memo  string `json:"memo"`
}

type PracticeLog struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	PlayerID string `json:"player_id"`
	Menu     string `json:"menu"`
	Distance string `json:"distance"`
	Time     string `json:"time"`
	Memo     string `json:"memo"`
}

type Attendance struct {
	Date     string `json:"date"`
	PlayerID string `json:"player_id"`
	Status   string `json:"status"` // present/absent/late
	Memo     string `json:"memo"`
}

// Simulation is a saved relay order draft, usually section label -> player id.
// Values are kept as arbitrary JSON.
type Simulation struct {
	CreatedAt string         `json:"created_at"`
	Title     string         `json:"title"`
	OrderData map[string]any `json:"order_data"`
}

// LegacyCellRecord is one runner's section result decoded from a packed
// "name_year_alpha_affiliation_rank_time" cell of the historical relay sheet.
type LegacyCellRecord struct {
	Team         string `json:"team"`
	Edition      string `json:"edition"`
	Section      string `json:"section"`
	Name         string `json:"name"`
	YearOfBirth  string `json:"year_of_birth"`
	AlphabetName string `json:"alphabet_name"`
	Affiliation  string `json:"affiliation"`
	Rank         string `json:"rank"`
	Time         string `json:"time"`
}
