package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
	"github.com/planbot-dev/vertretungsplan-bot/internal/vplan"
)

// dayWords names the supported day offsets in channel messages.
var dayWords = []string{"heute", "morgen", "übermorgen", "überübermorgen"}

// MaxDayOffset is the furthest day the listing commands reach.
var MaxDayOffset = len(dayWords) - 1

// PlanService renders on-demand day listings for the chat commands.
type PlanService struct {
	fetcher   contract.PlanFetcher
	keep      contract.PeriodFilter
	classCode string
	clock     contract.Clock
}

func newPlanService(fetcher contract.PlanFetcher, keep contract.PeriodFilter, classCode string, clock contract.Clock) *PlanService {
	return &PlanService{
		fetcher:   fetcher,
		keep:      keep,
		classCode: classCode,
		clock:     clock,
	}
}

// DayListing fetches and renders the tracked student's plan for today
// plus offset days. Unpublished days and empty plans come back as
// friendly messages, not errors.
func (s *PlanService) DayListing(ctx context.Context, offset int) (string, error) {
	if offset < 0 || offset > MaxDayOffset {
		return "", fmt.Errorf("unsupported day offset %d", offset)
	}
	word := dayWords[offset]
	day := s.clock.Today().AddDate(0, 0, offset)

	raw, err := s.fetcher.Fetch(ctx, day)
	if errors.Is(err, vplan.ErrNotPublished) {
		return fmt.Sprintf("%s ist frei :)", capitalize(word)), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch plan for %s: %w", word, err)
	}

	periods, err := vplan.Parse(raw, s.classCode)
	if err != nil {
		return "", fmt.Errorf("failed to parse plan for %s: %w", word, err)
	}

	var mine []entity.Period
	for _, p := range periods {
		if s.keep(p) {
			mine = append(mine, p)
		}
	}
	if len(mine) == 0 {
		return "Keine Stunden für deine Kurse.", nil
	}

	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].PeriodNumber < mine[j].PeriodNumber
	})

	lines := []string{fmt.Sprintf("📅 *Plan %s – %s*", word, day.Format(domain.DisplayDateFormat))}
	for _, p := range mine {
		lines = append(lines, "• "+formatPeriod(p))
	}
	return strings.Join(lines, "\n"), nil
}

// formatPeriod renders one listing line: period number, times, subject
// (AUSFALL with the displaced course for cancellations), room, teacher.
func formatPeriod(p entity.Period) string {
	subject := p.Subject
	if p.IsCancelled() {
		subject = fmt.Sprintf("AUSFALL (%s)", p.CourseCode)
	}
	line := fmt.Sprintf("%d %s-%s %s %s %s",
		p.PeriodNumber, orDashes(p.Start), orDashes(p.End), subject, p.Room, p.Teacher)
	return strings.Join(strings.Fields(line), " ")
}

func orDashes(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
