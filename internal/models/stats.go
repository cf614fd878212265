package models

// StatsOverview is the dashboard KPI payload: today's call volume broken
// down by disposition, open jobs by status, and the pending follow-up count.
type StatsOverview struct {
	CallsToday       map[string]int `json:"calls_today"`
	OpenJobs         map[string]int `json:"open_jobs"`
	PendingFollowUps int            `json:"pending_followups"`
}
