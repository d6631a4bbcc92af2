// Package filter decides which plan periods belong to the tracked
// student. The rule set is built once from the configured course pairs;
// the resulting predicate is passed around explicitly so callers can
// substitute their own.
package filter

import (
	"strings"
	"unicode"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

// RuleSet holds the relevance rules derived from a course pair list.
type RuleSet struct {
	pairs        map[domain.CoursePair]bool
	courseCodes  map[string]bool // numbered elective codes, e.g. GEO1
	subjectCodes map[string]bool // plain class-wide codes, e.g. MAT
}

// New builds a rule set from (subject, teacher) pairs. Codes ending in
// a digit are elective course codes, the rest class-wide subject codes.
func New(pairs []domain.CoursePair) *RuleSet {
	rs := &RuleSet{
		pairs:        make(map[domain.CoursePair]bool, len(pairs)),
		courseCodes:  make(map[string]bool),
		subjectCodes: make(map[string]bool),
	}
	for _, pair := range pairs {
		code := strings.ToUpper(pair.Subject)
		rs.pairs[domain.CoursePair{Subject: code, Teacher: strings.ToUpper(pair.Teacher)}] = true
		if isCourseCode(code) {
			rs.courseCodes[code] = true
		} else {
			rs.subjectCodes[code] = true
		}
	}
	return rs
}

// Keep reports whether the period is relevant for the tracked student.
// It is a pure function of the period and the rule set.
func (rs *RuleSet) Keep(p entity.Period) bool {
	subject := strings.ToUpper(p.Subject)
	course := strings.ToUpper(p.CourseCode)
	teacher := strings.ToUpper(p.Teacher)

	if rs.pairs[domain.CoursePair{Subject: subject, Teacher: teacher}] {
		return true
	}
	if rs.courseCodes[course] {
		return true
	}

	if !p.IsCancelled() {
		return false
	}

	// Cancelled slots lose their teacher; fall back to the displaced
	// course code and the info text.
	if rs.subjectCodes[course] {
		return true
	}
	info := strings.ToUpper(p.Info)
	for code := range rs.courseCodes {
		if strings.Contains(info, code) {
			return true
		}
	}
	return false
}

func isCourseCode(code string) bool {
	if code == "" {
		return false
	}
	return unicode.IsDigit(rune(code[len(code)-1]))
}
