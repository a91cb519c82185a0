package dto

type DashboardOverview struct {
	TotalReports    int64        `json:"total_reports"`
	AnsweredRate    int          `json:"answered_rate"`
	PendingReports  int64        `json:"pending_reports"`
	AvgResponseTime ResponseTime `json:"avg_response_time"`
}

type ResponseTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type MonthlyBucket struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

type MonthlyChart struct {
	Year   int             `json:"year"`
	Months []MonthlyBucket `json:"months"`
}

// Heatmap rows are weekdays starting on Sunday, columns are hours.
type Heatmap struct {
	Counts [7][24]int64 `json:"counts"`
	Levels [7][24]int   `json:"levels"`
	Max    int64        `json:"max"`
}
