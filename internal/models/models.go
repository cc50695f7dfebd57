package models

// Default daily budgets applied when an account has no stored limit.
const (
	DefaultCalorieLimit = 2000
	DefaultWaterLimit   = 2000
)

// Account represents a tracked telegram user.
type Account struct {
	ID           int64  `db:"id"            json:"id"`
	Username     string `db:"username"      json:"username"`
	FirstName    string `db:"first_name"    json:"first_name"`
	LastName     string `db:"last_name"     json:"last_name"`
	CalorieLimit int    `db:"calorie_limit" json:"calorie_limit"`
	WaterLimit   int    `db:"water_limit"   json:"water_limit"`
	RemindersOn  bool   `db:"reminders_on"  json:"reminders_on"`
	CreatedAt    int64  `db:"created_at"    json:"created_at"`
}

// Metric names one of the daily trackers.
type Metric string

const (
	MetricCalories Metric = "calories"
	MetricWater    Metric = "water"
	MetricActivity Metric = "activity"
	MetricWeight   Metric = "weight"
)

// BudgetSnapshot is today's view of a limit-based metric (calories, water).
type BudgetSnapshot struct {
	Limit int `json:"limit"`
	Left  int `json:"left"`
}

// BudgetDay is one history row of a limit-based metric.
type BudgetDay struct {
	Day      string `json:"day"` // YYYY-MM-DD
	Limit    int    `json:"limit"`
	Consumed int    `json:"consumed"`
}

// ActivitySnapshot is today's steps & workout flag.
type ActivitySnapshot struct {
	Steps   int  `json:"steps"`
	Workout bool `json:"workout"`
}

// ActivityDay is one history row of the activity tracker.
type ActivityDay struct {
	Day     string `json:"day"`
	Steps   int    `json:"steps"`
	Workout bool   `json:"workout"`
}

// WeightDay is one history row of the weight tracker.
type WeightDay struct {
	Day   string   `json:"day"`
	Value *float64 `json:"value,omitempty"` // nil -> not recorded that day
}

// NoteKind distinguishes plans from free thoughts.
type NoteKind string

const (
	NotePlan    NoteKind = "plan"
	NoteThought NoteKind = "thought"
)

func (k NoteKind) Valid() bool {
	return k == NotePlan || k == NoteThought
}

// Note is an append-only journal entry.
type Note struct {
	ID        int64    `db:"id"         json:"id"`
	AccountID int64    `db:"account_id" json:"account_id"`
	Day       string   `db:"day"        json:"day"`
	Kind      NoteKind `db:"kind"       json:"kind"`
	Text      string   `db:"text"       json:"text"`
	CreatedAt int64    `db:"created_at" json:"created_at"`
}

// StatsDelta lists the statistics counters to merge into a (account, day) row.
// Nil fields are left untouched. With Overwrite the given values replace the
// stored ones, otherwise they are added.
type StatsDelta struct {
	AccountID         int64
	Day               string
	CaloriesConsumed  *int
	WaterConsumed     *int
	StepsTaken        *int
	WorkoutsCompleted *int
	Overwrite         bool
}

// DayStats is the aggregate side-table row.
type DayStats struct {
	Day               string `db:"day"                json:"day"`
	CaloriesConsumed  int    `db:"calories_consumed"  json:"calories_consumed"`
	WaterConsumed     int    `db:"water_consumed"     json:"water_consumed"`
	StepsTaken        int    `db:"steps_taken"        json:"steps_taken"`
	WorkoutsCompleted int    `db:"workouts_completed" json:"workouts_completed"`
}

// ContentKind classifies reference content rows.
type ContentKind string

const (
	ContentMotivation ContentKind = "motivation"
	ContentTip        ContentKind = "tip"
	ContentFAQ        ContentKind = "faq"
	ContentCoach      ContentKind = "coach"
)

// ReferenceContent is seeded read-only text: tips, motivation, FAQ and coach answers.
type ReferenceContent struct {
	ID       int64       `db:"id"       json:"id"       yaml:"-"`
	Kind     ContentKind `db:"kind"     json:"kind"     yaml:"kind"`
	Category string      `db:"category" json:"category" yaml:"category"`
	Question string      `db:"question" json:"question" yaml:"question,omitempty"`
	Text     string      `db:"text"     json:"text"     yaml:"text"`
}
