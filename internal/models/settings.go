package models

// TimeFilter selects the window of transactions shown in list and chart views.
type TimeFilter string

const (
	FilterDay     TimeFilter = "day"
	FilterWeek    TimeFilter = "week"
	FilterMonth   TimeFilter = "month"
	FilterMonthly TimeFilter = "monthly"
	FilterYear    TimeFilter = "year"
)

// Valid reports whether f is a known time filter.
func (f TimeFilter) Valid() bool {
	switch f {
	case FilterDay, FilterWeek, FilterMonth, FilterMonthly, FilterYear:
		return true
	}
	return false
}

// View is the active presentation of the ledger.
type View string

const (
	ViewList     View = "list"
	ViewChart    View = "chart"
	ViewCalendar View = "calendar"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewList, ViewChart, ViewCalendar:
		return true
	}
	return false
}

// DefaultBudget is the monthly budget given to new users.
const DefaultBudget = 100000

// Settings holds a user's preferences.
type Settings struct {
	Budget      float64    `json:"budget"`
	TimeFilter  TimeFilter `json:"timeFilter"`
	CurrentView View       `json:"currentView"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings() Settings {
	return Settings{
		Budget:      DefaultBudget,
		TimeFilter:  FilterMonth,
		CurrentView: ViewList,
	}
}
