package application

import "github.com/bnema/class-schedule-cli/internal/domain"

// ListQuery narrows a listing. A zero Day lists every day.
type ListQuery struct {
	Day domain.Weekday
}
