package dto

import "github.com/joinboard/join-api/internal/services"

// SummaryDTO is the dashboard payload: task counters, the nearest due
// date, a time-of-day greeting and the one-shot flag telling the client
// whether the greeting was already shown this session.
type SummaryDTO struct {
	Total         int    `json:"total"`
	Todo          int    `json:"todo"`
	InProgress    int    `json:"inprogress"`
	AwaitFeedback int    `json:"awaitfeedback"`
	Done          int    `json:"done"`
	Urgent        int    `json:"urgent"`
	NextDeadline  string `json:"nextDeadline,omitempty"`
	Greeting      string `json:"greeting"`
	GreetingName  string `json:"greetingName"`
	GreetingShown bool   `json:"greetingShown"`
}

func ToSummaryDTO(summary *services.Summary, greeting, name string, shown bool) SummaryDTO {
	return SummaryDTO{
		Total:         summary.Total,
		Todo:          summary.Todo,
		InProgress:    summary.InProgress,
		AwaitFeedback: summary.AwaitFeedback,
		Done:          summary.Done,
		Urgent:        summary.Urgent,
		NextDeadline:  summary.NextDeadline,
		Greeting:      greeting,
		GreetingName:  name,
		GreetingShown: shown,
	}
}
