package packets

// QueuedResponse confirms a play request was recorded for pickup.
type QueuedResponse struct {
	Status string `json:"status"`
	Call   string `json:"call"`
}

// CallResponse is one schedule entry as exposed by GET /schedule.
type CallResponse struct {
	Name      string `json:"name"`
	Time      string `json:"time"`
	AudioFile string `json:"audio_file"`
}

// ScheduleResponse is today's active profile.
type ScheduleResponse struct {
	Profile string         `json:"profile"`
	Date    string         `json:"date"`
	Calls   []CallResponse `json:"calls"`
}
