package entity

import (
	"fmt"
	"time"
)

// ChangeEvent is one detected plan change for a single date.
type ChangeEvent interface {
	// Day returns the plan date the change belongs to.
	Day() time.Time
	// Render returns the user-facing message line, without date header.
	Render() string
}

// NewPlan signals the first sighting of a plan for a date.
type NewPlan struct {
	Date  time.Time
	Count int
}

func (e NewPlan) Day() time.Time { return e.Date }

func (e NewPlan) Render() string {
	return fmt.Sprintf("neuer Plan (%d)", e.Count)
}

// Cancellation signals a newly cancelled period ("Ausfall").
type Cancellation struct {
	Date         time.Time
	PeriodNumber int
	Info         string
	CourseCode   string
}

func (e Cancellation) Day() time.Time { return e.Date }

func (e Cancellation) Render() string {
	detail := e.Info
	if detail == "" {
		detail = e.CourseCode
	}
	return fmt.Sprintf("Ausfall in Stunde %d – %s", e.PeriodNumber, detail)
}

// RoomChange signals a room switch for an otherwise unchanged period.
type RoomChange struct {
	Date         time.Time
	PeriodNumber int
	Key          string
	OldRoom      string
	NewRoom      string
}

func (e RoomChange) Day() time.Time { return e.Date }

func (e RoomChange) Render() string {
	oldRoom := e.OldRoom
	if oldRoom == "" {
		oldRoom = "---"
	}
	newRoom := e.NewRoom
	if newRoom == "" {
		newRoom = "---"
	}
	return fmt.Sprintf("Raumänderung: Stunde %d %s %s → %s", e.PeriodNumber, e.Key, oldRoom, newRoom)
}
