package model

// Status represents the scheduler status response
type Status struct {
	IsRunning         bool    `json:"isRunning"`
	TargetURL         string  `json:"targetUrl"`
	CronSchedule      string  `json:"cronSchedule"`
	Message           string  `json:"message"`
	NextPingTime      string  `json:"nextPingTime"`
	LastPingTime      *string `json:"lastPingTime"` // null until the first ping completes
	NextPingInSeconds int64   `json:"nextPingInSeconds"`
}
