package costapi

import "time"

// Categories accepted by the cost manager. The client sends whatever it is
// given; config validation checks the configured category against Categories.
const (
	CategoryFood      = "food"
	CategoryHealth    = "health"
	CategoryHousing   = "housing"
	CategorySport     = "sport"
	CategoryEducation = "education"
)

var Categories = []string{CategoryFood, CategoryHealth, CategoryHousing, CategorySport, CategoryEducation}

// CostEntry is the body of POST /api/add.
type CostEntry struct {
	UserID      int        `json:"userId"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Sum         float64    `json:"sum"`
	Date        *time.Time `json:"date,omitempty"`
}

// SavedCost is what the service echoes back after a successful add.
type SavedCost struct {
	ID          string    `json:"_id"`
	UserID      int       `json:"userId"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Sum         float64   `json:"sum"`
	Date        time.Time `json:"date"`
}

// ReportQuery selects the monthly report of one user.
type ReportQuery struct {
	UserID int
	Year   int
	Month  int
}

type ReportCost struct {
	ID          string  `json:"_id,omitempty"`
	Category    string  `json:"category"`
	Sum         float64 `json:"sum"`
	Description string  `json:"description"`
	Day         int     `json:"day"`
}

type MonthlyReport struct {
	UserID int          `json:"userid"`
	Year   int          `json:"year"`
	Month  int          `json:"month"`
	Costs  []ReportCost `json:"costs"`
}

type Developer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserDetails struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ID        int     `json:"id"`
	Total     float64 `json:"total"`
}

// ErrorBody is the error shape the service uses for 4xx/5xx answers.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
