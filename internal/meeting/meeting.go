package meeting

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type is how a meeting is attended.
type Type string

const (
	TypeInPerson Type = "inPerson"
	TypeVirtual  Type = "virtual"
	TypeHybrid   Type = "hybrid"
)

// Keyword is the lowercase word used in narratives and tagged as meetingType.
func (t Type) Keyword() string {
	switch t {
	case TypeHybrid:
		return "hybrid"
	case TypeVirtual:
		return "virtual"
	default:
		return "local"
	}
}

// ParseType accepts the canonical names plus the directory's snake_case spelling.
// A blank value is not a type; callers derive one instead.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "hybrid":
		return TypeHybrid, nil
	case "virtual":
		return TypeVirtual, nil
	case "inperson":
		return TypeInPerson, nil
	default:
		return "", fmt.Errorf("unknown meeting type %q", s)
	}
}

// UnmarshalJSON decodes a type name. An empty string decodes to TypeInPerson.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*t = TypeInPerson
		return nil
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Organization identifies the fellowship that lists the meeting.
type Organization string

const (
	OrganizationRecognized Organization = "recognizedFellowship"
	OrganizationUnknown    Organization = "unknown"
)

// UnmarshalJSON maps the directory's "na" code to the recognized fellowship.
// Anything unrecognized becomes OrganizationUnknown rather than failing the batch.
func (o *Organization) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "na", "recognizedfellowship":
		*o = OrganizationRecognized
	default:
		*o = OrganizationUnknown
	}
	return nil
}

// TimeOfDay is a wall-clock start time with minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Seconds are checked, then discarded.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		if second, err := strconv.Atoi(parts[2]); err != nil || second < 0 || second > 59 {
			return TimeOfDay{}, fmt.Errorf("invalid second in %q", s)
		}
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Format12 renders the time as "7:30 PM".
func (t TimeOfDay) Format12() string {
	return t.clock().Format("3:04 PM")
}

// Format24 renders the time as "19:30".
func (t TimeOfDay) Format24() string {
	return t.clock().Format("15:04")
}

func (t TimeOfDay) clock() time.Time {
	return time.Date(2000, time.January, 1, t.Hour, t.Minute, 0, 0, time.UTC)
}

// MarshalJSON encodes the time as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format24())
}

// UnmarshalJSON decodes "HH:MM" or "HH:MM:SS".
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair lies within standard geographic bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Address is the physical location of an in-person or hybrid meeting.
type Address struct {
	Name         string `json:"name,omitempty"`
	Street       string `json:"street,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	Province     string `json:"province,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Nation       string `json:"nation,omitempty"`
}

// Format is one meeting format (e.g. "Open", "Speaker") with an optional long description.
type Format struct {
	Key         string `json:"key,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Record is one meeting entry from the directory service.
type Record struct {
	ID                 uint64       `json:"id"`
	ServerID           uint64       `json:"server_id,omitempty"`
	MeetingID          uint64       `json:"meeting_id,omitempty"`
	Name               string       `json:"name"`
	Type               Type         `json:"meeting_type"`
	Organization       Organization `json:"organization"`
	Weekday            int          `json:"weekday"`
	StartTime          TimeOfDay    `json:"start_time"`
	Duration           int64        `json:"duration"` // seconds
	TimeZone           string       `json:"time_zone"`
	PhysicalAddress    *Address     `json:"physical_address,omitempty"`
	LocationInfo       string       `json:"location_info,omitempty"`
	Coords             *Coordinates `json:"coords,omitempty"`
	VirtualURL         string       `json:"virtual_url,omitempty"`
	VirtualPhoneNumber string       `json:"virtual_phone_number,omitempty"`
	VirtualInfo        string       `json:"virtual_info,omitempty"`
	Comments           string       `json:"comments,omitempty"`
	Formats            []Format     `json:"formats"`
}

// CompoundID combines a directory server id and that server's local meeting id.
// The low 44 bits hold the meeting id.
func CompoundID(serverID, meetingID uint64) uint64 {
	return serverID<<44 | meetingID&(1<<44-1)
}

// HasVirtualAccess reports whether the record carries a URL or phone number.
func (r *Record) HasVirtualAccess() bool {
	return strings.TrimSpace(r.VirtualURL) != "" || strings.TrimSpace(r.VirtualPhoneNumber) != ""
}

// HasPhysicalAddress reports whether any address line is present.
func (r *Record) HasPhysicalAddress() bool {
	return formatAddress(r.PhysicalAddress) != ""
}

// DeriveType infers the attendance type from the address and virtual fields.
func (r *Record) DeriveType() Type {
	switch physical, virtual := r.HasPhysicalAddress(), r.HasVirtualAccess(); {
	case physical && virtual:
		return TypeHybrid
	case virtual:
		return TypeVirtual
	default:
		return TypeInPerson
	}
}

// Address returns the formatted in-person address, one line per component group.
// Virtual-only meetings return "".
func (r *Record) Address() string {
	if r.Type == TypeVirtual {
		return ""
	}
	return formatAddress(r.PhysicalAddress)
}

func formatAddress(a *Address) string {
	if a == nil {
		return ""
	}

	var lines []string
	if s := strings.TrimSpace(a.Street); s != "" {
		lines = append(lines, s)
	}

	var locality []string
	if s := strings.TrimSpace(a.City); s != "" {
		locality = append(locality, s)
	}
	if s := strings.TrimSpace(strings.TrimSpace(a.Province) + " " + strings.TrimSpace(a.PostalCode)); s != "" {
		locality = append(locality, s)
	}
	if len(locality) > 0 {
		lines = append(lines, strings.Join(locality, ", "))
	}

	if s := strings.TrimSpace(a.Nation); s != "" {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n")
}
