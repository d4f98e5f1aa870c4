// Package narrative turns a meeting record into an English description plus an aligned
// token/label sequence for sequence-tagging training.
//
// Generation is deterministic: it reads only the record and the fixed en-US tables in this
// package (weekday names, 12/24-hour clocks, zone display names).
package narrative

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/meeting"
)

// Semantic labels emitted alongside tokens.
const (
	LabelMeetingName = "meetingName"
	LabelMeetingType = "meetingType"
	LabelWeekday     = "weekday"
	LabelStartTime   = "startTime"
	LabelDuration    = "duration"
	LabelTimeZone    = "timeZone"
	LabelAddress     = "address"
	LabelFormat      = "format"
)

// Vocabulary lists every label in first-emission order.
var Vocabulary = []string{
	LabelMeetingName,
	LabelMeetingType,
	LabelWeekday,
	LabelStartTime,
	LabelDuration,
	LabelTimeZone,
	LabelAddress,
	LabelFormat,
}

// coordinatePlaces is the number of decimals kept for latitude/longitude.
const coordinatePlaces = 5

// Example is one training example: a narrative and its aligned tags.
// len(Tokens) == len(Labels) always holds; Labels[i] describes Tokens[i].
type Example struct {
	Description string   `json:"description"`
	Tokens      []string `json:"tokens"`
	Labels      []string `json:"labels"`
}

type builder struct {
	desc   strings.Builder
	tokens []string
	labels []string
}

// line starts a new clause on its own line.
func (b *builder) line(s string) {
	if b.desc.Len() > 0 {
		b.desc.WriteByte('\n')
	}
	b.desc.WriteString(s)
}

func (b *builder) tag(token, label string) {
	b.tokens = append(b.tokens, token)
	b.labels = append(b.labels, label)
}

// Generate builds the Example for a record.
// Records with an empty name, a weekday outside 1..7 or a non-positive duration are rejected
// with INVALID_RECORD.
func Generate(rec *meeting.Record) (Example, error) {
	if err := validate(rec); err != nil {
		return Example{}, err
	}

	b := &builder{}

	// Name, type and schedule form the first line.
	keyword := rec.Type.Keyword()
	weekday := WeekdayName(rec.Weekday)
	minutes := rec.Duration / 60
	fmt.Fprintf(&b.desc, "\"%s\" is a %s %s meeting, that meets every %s, at %s, and lasts for %d minutes.",
		rec.Name, keyword, organizationWord(rec.Organization), weekday, rec.StartTime.Format12(), minutes)

	b.tag(rec.Name, LabelMeetingName)
	b.tag(keyword, LabelMeetingType)
	b.tag(strings.ToLower(weekday), LabelWeekday)
	b.tag(rec.StartTime.Format12(), LabelStartTime)
	b.tag(rec.StartTime.Format24(), LabelStartTime)
	b.tag(strconv.FormatInt(minutes, 10), LabelDuration)

	b.tag(rec.TimeZone, LabelTimeZone)
	if name, ok := ZoneDisplayName(rec.TimeZone); ok {
		b.line("Its time zone is " + name + ".")
		b.tag(name, LabelTimeZone)
	}

	if address := strings.ReplaceAll(rec.Address(), "\n", ", "); address != "" {
		b.line("It meets at " + address + ".")
		b.tag(address, LabelAddress)
	}

	if rec.LocationInfo != "" {
		b.line(rec.LocationInfo)
	}

	if c := rec.Coords; c != nil && c.Valid() {
		b.line(fmt.Sprintf("Its latitude/longitude is %s, %s.", RoundCoordinate(c.Latitude), RoundCoordinate(c.Longitude)))
	}

	if rec.VirtualURL != "" {
		b.line("The virtual URL is " + rec.VirtualURL + " .")
	}
	if rec.VirtualPhoneNumber != "" {
		b.line("The virtual phone number is " + rec.VirtualPhoneNumber + " .")
	}
	if rec.VirtualInfo != "" {
		b.line(rec.VirtualInfo)
	}

	if rec.Comments != "" {
		b.line(rec.Comments)
	}

	for _, f := range rec.Formats {
		if f.Description != "" {
			b.line(f.Description)
			b.tag(f.Description, LabelFormat)
		}
		b.tag(f.Name, LabelFormat)
	}

	return Example{
		Description: b.desc.String(),
		Tokens:      b.tokens,
		Labels:      b.labels,
	}, nil
}

func validate(rec *meeting.Record) error {
	if rec == nil {
		return errors.NewInvalidRequest("record is required")
	}
	if strings.TrimSpace(rec.Name) == "" {
		return errors.NewInvalidRecord(rec.ID, "name is empty")
	}
	if rec.Weekday < 1 || rec.Weekday > 7 {
		return errors.NewInvalidRecord(rec.ID, fmt.Sprintf("weekday %d out of range 1..7", rec.Weekday))
	}
	if rec.Duration <= 0 {
		return errors.NewInvalidRecord(rec.ID, fmt.Sprintf("duration %d must be positive", rec.Duration))
	}
	return nil
}

// WeekdayName maps 1..7 (1 = Sunday) to an English weekday name.
// Callers must pass a value in range.
func WeekdayName(weekday int) string {
	return time.Weekday(weekday - 1).String()
}

// RoundCoordinate rounds a degree value to five decimals, ties to even, in decimal arithmetic,
// and renders it in shortest form. 12.345675 becomes "12.34568" and 12.345665 becomes "12.34566".
func RoundCoordinate(v float64) string {
	return decimal.NewFromFloat(v).RoundBank(coordinatePlaces).String()
}

// organizationWord is the enum keyword used in the type clause.
func organizationWord(o meeting.Organization) string {
	if o == meeting.OrganizationRecognized {
		return string(meeting.OrganizationRecognized)
	}
	return string(meeting.OrganizationUnknown)
}
