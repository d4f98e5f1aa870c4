package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/meeting"
)

func fridayNightGroup() *meeting.Record {
	return &meeting.Record{
		ID:              42,
		Name:            "Friday Night Group",
		Type:            meeting.TypeInPerson,
		Organization:    meeting.OrganizationRecognized,
		Weekday:         6,
		StartTime:       meeting.TimeOfDay{Hour: 19, Minute: 30},
		Duration:        3600,
		TimeZone:        "America/New_York",
		PhysicalAddress: &meeting.Address{Street: "123 Main St"},
	}
}

func TestGenerate_InPersonRecord(t *testing.T) {
	ex, err := Generate(fridayNightGroup())
	require.NoError(t, err)

	assert.Equal(t,
		"\"Friday Night Group\" is a local recognizedFellowship meeting, that meets every Friday, at 7:30 PM, and lasts for 60 minutes.\n"+
			"Its time zone is Eastern Time.\n"+
			"It meets at 123 Main St.",
		ex.Description)
	assert.Equal(t, []string{
		"Friday Night Group", "local", "friday", "7:30 PM", "19:30", "60",
		"America/New_York", "Eastern Time", "123 Main St",
	}, ex.Tokens)
	assert.Equal(t, []string{
		"meetingName", "meetingType", "weekday", "startTime", "startTime", "duration",
		"timeZone", "timeZone", "address",
	}, ex.Labels)
}

func TestGenerate_OptionalFieldsOmitted(t *testing.T) {
	rec := fridayNightGroup()
	rec.PhysicalAddress = nil
	rec.Type = meeting.TypeVirtual

	ex, err := Generate(rec)
	require.NoError(t, err)

	lines := strings.Split(ex.Description, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "\"Friday Night Group\" is a virtual "))
	assert.Equal(t, "Its time zone is Eastern Time.", lines[1])

	assert.Equal(t, []string{
		"Friday Night Group", "virtual", "friday", "7:30 PM", "19:30", "60", "America/New_York", "Eastern Time",
	}, ex.Tokens)
}

func TestGenerate_UnresolvableZone(t *testing.T) {
	rec := fridayNightGroup()
	rec.TimeZone = "Antarctica/Troll"

	ex, err := Generate(rec)
	require.NoError(t, err)

	assert.NotContains(t, ex.Description, "Its time zone is")
	assert.Equal(t, "Antarctica/Troll", ex.Tokens[6])
	assert.Equal(t, LabelTimeZone, ex.Labels[6])
	assert.Equal(t, LabelAddress, ex.Labels[7])
	assert.Len(t, ex.Tokens, 8)
}

func TestGenerate_AddressLineBreaksCollapsed(t *testing.T) {
	rec := fridayNightGroup()
	rec.PhysicalAddress = &meeting.Address{Street: "123 Main St", City: "Springfield", Province: "IL", PostalCode: "62701"}

	ex, err := Generate(rec)
	require.NoError(t, err)

	assert.Contains(t, ex.Description, "\nIt meets at 123 Main St, Springfield, IL 62701.")
	assert.Equal(t, "123 Main St, Springfield, IL 62701", ex.Tokens[len(ex.Tokens)-1])
}

func TestGenerate_AllClausesInOrder(t *testing.T) {
	rec := fridayNightGroup()
	rec.Type = meeting.TypeHybrid
	rec.Organization = meeting.OrganizationUnknown
	rec.LocationInfo = "Basement, side door"
	rec.Coords = &meeting.Coordinates{Latitude: 40.748817, Longitude: -73.985428}
	rec.VirtualURL = "https://zoom.us/j/123"
	rec.VirtualPhoneNumber = "+1 555 0100"
	rec.VirtualInfo = "Meeting ID 123"
	rec.Comments = "Newcomers welcome"
	rec.Formats = []meeting.Format{
		{Key: "O", Name: "Open", Description: "This meeting is open to everyone."},
		{Key: "BT", Name: "Basic Text"},
	}

	ex, err := Generate(rec)
	require.NoError(t, err)

	lines := strings.Split(ex.Description, "\n")
	assert.Equal(t, []string{
		"\"Friday Night Group\" is a hybrid unknown meeting, that meets every Friday, at 7:30 PM, and lasts for 60 minutes.",
		"Its time zone is Eastern Time.",
		"It meets at 123 Main St.",
		"Basement, side door",
		"Its latitude/longitude is 40.74882, -73.98543.",
		"The virtual URL is https://zoom.us/j/123 .",
		"The virtual phone number is +1 555 0100 .",
		"Meeting ID 123",
		"Newcomers welcome",
		"This meeting is open to everyone.",
	}, lines)

	assert.Equal(t, []string{
		"Friday Night Group", "hybrid", "friday", "7:30 PM", "19:30", "60",
		"America/New_York", "Eastern Time", "123 Main St",
		"This meeting is open to everyone.", "Open", "Basic Text",
	}, ex.Tokens)
	assert.Equal(t, []string{
		"meetingName", "meetingType", "weekday", "startTime", "startTime", "duration",
		"timeZone", "timeZone", "address",
		"format", "format", "format",
	}, ex.Labels)
}

func TestGenerate_FormatTagging(t *testing.T) {
	tests := []struct {
		name   string
		format meeting.Format
		want   []string
	}{
		{"with description", meeting.Format{Name: "Open", Description: "Open to all"}, []string{"Open to all", "Open"}},
		{"without description", meeting.Format{Name: "Closed"}, []string{"Closed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fridayNightGroup()
			base, err := Generate(rec)
			require.NoError(t, err)

			rec.Formats = []meeting.Format{tt.format}
			ex, err := Generate(rec)
			require.NoError(t, err)

			assert.Equal(t, tt.want, ex.Tokens[len(base.Tokens):])
			for _, l := range ex.Labels[len(base.Labels):] {
				assert.Equal(t, LabelFormat, l)
			}
		})
	}
}

func TestGenerate_InvalidCoordinatesSkipped(t *testing.T) {
	rec := fridayNightGroup()
	rec.Coords = &meeting.Coordinates{Latitude: 123, Longitude: 0}

	ex, err := Generate(rec)
	require.NoError(t, err)
	assert.NotContains(t, ex.Description, "latitude/longitude")
}

func TestGenerate_DurationFloorsToMinutes(t *testing.T) {
	rec := fridayNightGroup()
	rec.Duration = 5399

	ex, err := Generate(rec)
	require.NoError(t, err)
	assert.Contains(t, ex.Description, "lasts for 89 minutes.")
	assert.Equal(t, "89", ex.Tokens[5])
}

func TestGenerate_Deterministic(t *testing.T) {
	rec := fridayNightGroup()
	rec.Formats = []meeting.Format{{Name: "Open", Description: "Open to all"}}

	first, err := Generate(rec)
	require.NoError(t, err)
	second, err := Generate(rec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_AlignmentAcrossVariants(t *testing.T) {
	variants := []func(*meeting.Record){
		func(r *meeting.Record) {},
		func(r *meeting.Record) { r.PhysicalAddress = nil },
		func(r *meeting.Record) { r.TimeZone = "Nowhere/Land" },
		func(r *meeting.Record) { r.Formats = []meeting.Format{{Name: "A"}, {Name: "B", Description: "b"}} },
		func(r *meeting.Record) { r.Comments = "x"; r.VirtualURL = "https://example.org" },
	}
	for i, mutate := range variants {
		rec := fridayNightGroup()
		mutate(rec)
		ex, err := Generate(rec)
		require.NoError(t, err, "variant %d", i)
		assert.Len(t, ex.Labels, len(ex.Tokens), "variant %d", i)
	}
}

func TestGenerate_InvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*meeting.Record)
	}{
		{"weekday zero", func(r *meeting.Record) { r.Weekday = 0 }},
		{"weekday eight", func(r *meeting.Record) { r.Weekday = 8 }},
		{"empty name", func(r *meeting.Record) { r.Name = "  " }},
		{"zero duration", func(r *meeting.Record) { r.Duration = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fridayNightGroup()
			tt.mutate(rec)
			_, err := Generate(rec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidRecord))
		})
	}

	_, err := Generate(nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Sunday", WeekdayName(1))
	assert.Equal(t, "Friday", WeekdayName(6))
	assert.Equal(t, "Saturday", WeekdayName(7))
}

func TestRoundCoordinate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.345675, "12.34568"},
		{12.345665, "12.34566"},
		{-73.985428, "-73.98543"},
		{40.7, "40.7"},
		{0.000005, "0"},
		{0.000015, "0.00002"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundCoordinate(tt.in), "RoundCoordinate(%v)", tt.in)
	}
}

func TestZoneDisplayName(t *testing.T) {
	name, ok := ZoneDisplayName("America/New_York")
	assert.True(t, ok)
	assert.Equal(t, "Eastern Time", name)

	_, ok = ZoneDisplayName("Mars/Olympus_Mons")
	assert.False(t, ok)
}
