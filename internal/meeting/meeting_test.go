package meeting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "19:30", want: TimeOfDay{Hour: 19, Minute: 30}},
		{in: "07:05:59", want: TimeOfDay{Hour: 7, Minute: 5}},
		{in: " 0:00 ", want: TimeOfDay{}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "19:30:zz", wantErr: true},
		{in: "19:30:60", wantErr: true},
		{in: "19:30:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_Formats(t *testing.T) {
	tests := []struct {
		tod    TimeOfDay
		twelve string
		twenty string
	}{
		{TimeOfDay{Hour: 19, Minute: 30}, "7:30 PM", "19:30"},
		{TimeOfDay{Hour: 0, Minute: 0}, "12:00 AM", "00:00"},
		{TimeOfDay{Hour: 12, Minute: 5}, "12:05 PM", "12:05"},
		{TimeOfDay{Hour: 9, Minute: 45}, "9:45 AM", "09:45"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.twelve, tt.tod.Format12())
		assert.Equal(t, tt.twenty, tt.tod.Format24())
	}
}

func TestCoordinates_Valid(t *testing.T) {
	assert.True(t, Coordinates{Latitude: 40.7, Longitude: -74}.Valid())
	assert.True(t, Coordinates{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Coordinates{Latitude: 91, Longitude: 0}.Valid())
	assert.False(t, Coordinates{Latitude: 0, Longitude: -180.5}.Valid())
}

func TestCompoundID(t *testing.T) {
	assert.Equal(t, uint64(7), CompoundID(0, 7))
	assert.Equal(t, uint64(1)<<44|123, CompoundID(1, 123))
}

func TestRecord_Address(t *testing.T) {
	r := Record{
		Type: TypeInPerson,
		PhysicalAddress: &Address{
			Street:     "123 Main St",
			City:       "Springfield",
			Province:   "IL",
			PostalCode: "62701",
			Nation:     "USA",
		},
	}
	assert.Equal(t, "123 Main St\nSpringfield, IL 62701\nUSA", r.Address())

	r.PhysicalAddress = &Address{Street: "  123 Main St  "}
	assert.Equal(t, "123 Main St", r.Address())

	r.Type = TypeVirtual
	assert.Empty(t, r.Address())

	r = Record{}
	assert.Empty(t, r.Address())
}

func TestRecord_DeriveType(t *testing.T) {
	physical := &Address{Street: "1 Church Rd"}

	assert.Equal(t, TypeInPerson, (&Record{PhysicalAddress: physical}).DeriveType())
	assert.Equal(t, TypeVirtual, (&Record{VirtualURL: "https://zoom.us/j/1"}).DeriveType())
	assert.Equal(t, TypeHybrid, (&Record{PhysicalAddress: physical, VirtualPhoneNumber: "+1 555 0100"}).DeriveType())
	assert.Equal(t, TypeInPerson, (&Record{}).DeriveType())
}

func TestRecord_JSON(t *testing.T) {
	in := `{
		"id": 42,
		"name": "Friday Night Group",
		"meeting_type": "in_person",
		"organization": "na",
		"weekday": 6,
		"start_time": "19:30:00",
		"duration": 3600,
		"time_zone": "America/New_York",
		"physical_address": {"street": "123 Main St"},
		"formats": [{"key": "O", "name": "Open", "description": "Open to all"}]
	}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	assert.Equal(t, uint64(42), r.ID)
	assert.Equal(t, TypeInPerson, r.Type)
	assert.Equal(t, OrganizationRecognized, r.Organization)
	assert.Equal(t, TimeOfDay{Hour: 19, Minute: 30}, r.StartTime)
	require.Len(t, r.Formats, 1)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"start_time":"19:30"`)
	assert.Contains(t, string(out), `"organization":"recognizedFellowship"`)
	assert.Contains(t, string(out), `"meeting_type":"inPerson"`)
	assert.NotContains(t, string(out), "virtual_url")
}

func TestOrganization_UnknownValue(t *testing.T) {
	var o Organization
	require.NoError(t, json.Unmarshal([]byte(`"aa"`), &o))
	assert.Equal(t, OrganizationUnknown, o)
}

func TestType_UnknownValue(t *testing.T) {
	var ty Type
	require.Error(t, json.Unmarshal([]byte(`"telepathic"`), &ty))
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{
		"in_person": TypeInPerson,
		"inPerson":  TypeInPerson,
		"VIRTUAL":   TypeVirtual,
		" hybrid ":  TypeHybrid,
	} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "   ", "telepathic"} {
		_, err := ParseType(in)
		assert.Error(t, err, in)
	}
}

func TestType_Keyword(t *testing.T) {
	assert.Equal(t, "local", TypeInPerson.Keyword())
	assert.Equal(t, "virtual", TypeVirtual.Keyword())
	assert.Equal(t, "hybrid", TypeHybrid.Keyword())
}
