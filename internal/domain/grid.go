package domain

import "fmt"

const (
	DefaultFirstHour = 8
	DefaultLastHour  = 17
)

// Placement is where one session lands on the grid. Offset and Height are
// fractions of one slot; the renderer scales them to a row height.
type Placement struct {
	Session         ClassSession `json:"session"`
	DayIndex        int          `json:"day_index"`
	SlotIndex       int          `json:"slot_index"`
	Offset          float64      `json:"offset"`
	Height          float64      `json:"height"`
	DurationMinutes int          `json:"duration_minutes"`
}

type Grid struct {
	Days       []Weekday      `json:"days"`
	Slots      []TimeOfDay    `json:"slots"`
	Placements []Placement    `json:"placements"`
	Unplaced   []ClassSession `json:"unplaced"`
}

// Cell returns the placements anchored at one day column and hour slot.
// Sessions sharing a cell are not laid out against each other.
func (g Grid) Cell(dayIndex, slotIndex int) []Placement {
	var cell []Placement
	for _, placement := range g.Placements {
		if placement.DayIndex == dayIndex && placement.SlotIndex == slotIndex {
			cell = append(cell, placement)
		}
	}
	return cell
}

// GridProjector maps sessions onto a fixed day × hour grid.
type GridProjector struct {
	days  []Weekday
	slots []TimeOfDay
}

// NewGridProjector builds one-hour slots starting at firstHour up to, but not
// including, lastHour.
func NewGridProjector(days []Weekday, firstHour, lastHour int) (*GridProjector, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("grid needs at least one day column")
	}
	if firstHour < 0 || lastHour > 24 || firstHour >= lastHour {
		return nil, fmt.Errorf("invalid grid hours %d-%d", firstHour, lastHour)
	}

	slots := make([]TimeOfDay, 0, lastHour-firstHour)
	for hour := firstHour; hour < lastHour; hour++ {
		slots = append(slots, TimeOfDay(hour*minutesPerHour))
	}

	columns := make([]Weekday, len(days))
	copy(columns, days)

	return &GridProjector{days: columns, slots: slots}, nil
}

func (p *GridProjector) Days() []Weekday { return p.days }

func (p *GridProjector) Slots() []TimeOfDay { return p.slots }

// Project places every session in the single slot containing its start time.
// Sessions are never split; long ones overflow downward via Height.
func (p *GridProjector) Project(sessions []ClassSession) Grid {
	grid := Grid{
		Days:       p.days,
		Slots:      p.slots,
		Placements: []Placement{},
		Unplaced:   []ClassSession{},
	}

	for _, session := range Sort(sessions) {
		placement, ok := p.place(session)
		if !ok {
			grid.Unplaced = append(grid.Unplaced, session)
			continue
		}
		grid.Placements = append(grid.Placements, placement)
	}

	return grid
}

func (p *GridProjector) place(session ClassSession) (Placement, bool) {
	dayIndex := p.dayIndex(session.Day)
	if dayIndex < 0 {
		return Placement{}, false
	}

	slotIndex := p.slotIndex(session.Start)
	if slotIndex < 0 {
		return Placement{}, false
	}

	duration := Duration(session.Start, session.End)

	return Placement{
		Session:         session,
		DayIndex:        dayIndex,
		SlotIndex:       slotIndex,
		Offset:          float64(session.Start.MinuteOfHour()) / minutesPerHour,
		Height:          float64(duration) / minutesPerHour,
		DurationMinutes: duration,
	}, true
}

func (p *GridProjector) dayIndex(day Weekday) int {
	for i, d := range p.days {
		if d == day {
			return i
		}
	}
	return -1
}

func (p *GridProjector) slotIndex(start TimeOfDay) int {
	for i, slotStart := range p.slots {
		if start >= slotStart && start < slotStart+minutesPerHour {
			return i
		}
	}
	return -1
}
