// Package vplan loads and parses the published substitution plan
// ("Vertretungsplan") documents.
package vplan

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

type planDocument struct {
	Classes []classBlock `xml:"Kl"`
}

type classBlock struct {
	Code    string      `xml:"Kurz"`
	Periods []periodRow `xml:"Pl>Std"`
}

type periodRow struct {
	Number  string `xml:"St"`
	Start   string `xml:"Beginn"`
	End     string `xml:"Ende"`
	Subject string `xml:"Fa"`
	Course  string `xml:"Ku2"`
	Teacher string `xml:"Le"`
	Room    string `xml:"Ra"`
	Info    string `xml:"If"`
}

// Parse extracts the period list of one class from a raw plan document.
// A document without a block for classCode yields an empty list and no
// error; that day simply has no data for the class.
func Parse(raw []byte, classCode string) ([]entity.Period, error) {
	var doc planDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse plan document: %w", err)
	}

	var class *classBlock
	for i := range doc.Classes {
		if strings.EqualFold(strings.TrimSpace(doc.Classes[i].Code), classCode) {
			class = &doc.Classes[i]
			break
		}
	}
	if class == nil {
		return nil, nil
	}

	periods := make([]entity.Period, 0, len(class.Periods))
	for _, row := range class.Periods {
		p := entity.Period{
			PeriodNumber: parsePeriodNumber(row.Number),
			Start:        clean(row.Start),
			End:          clean(row.End),
			Subject:      clean(row.Subject),
			CourseCode:   clean(row.Course),
			Teacher:      clean(row.Teacher),
			Room:         clean(row.Room),
			Info:         clean(row.Info),
		}
		periods = append(periods, reclassify(p))
	}

	return periods, nil
}

// reclassify marks implicit self-study periods as cancelled: an info
// text without a teacher, and either no room or an info starting with
// the self-study marker. The original subject moves into the course
// code unless the source already supplied one.
func reclassify(p entity.Period) entity.Period {
	if p.Info == "" || p.Teacher != "" {
		return p
	}
	selfStudy := len(p.Info) >= len(domain.SelfStudyMarker) &&
		strings.EqualFold(p.Info[:len(domain.SelfStudyMarker)], domain.SelfStudyMarker)
	if p.Room != "" && !selfStudy {
		return p
	}

	if p.CourseCode == "" {
		p.CourseCode = p.Subject
	}
	p.Subject = domain.CancelledSubject
	return p
}

func parsePeriodNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
