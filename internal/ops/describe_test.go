package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/fetch"
	"github.com/hpungsan/meetcorpus/internal/meeting"
)

const friday = `{
  "id": 42,
  "name": "Friday Night Group",
  "organization": "na",
  "weekday": 6,
  "start_time": "19:30",
  "duration": 3600,
  "time_zone": "America/New_York",
  "physical_address": {"street": "123 Main St"}
}`

func TestDecodeRecords_SingleObject(t *testing.T) {
	records, err := DecodeRecords(strings.NewReader(friday))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, meeting.TypeInPerson, records[0].Type)
	assert.Equal(t, meeting.OrganizationRecognized, records[0].Organization)
}

func TestDecodeRecords_ArrayDerivesType(t *testing.T) {
	in := `[` + friday + `, {"id": 1, "name": "Zoom", "weekday": 1, "start_time": "08:00", "duration": 60,
		"time_zone": "UTC", "virtual_url": "https://zoom.us/j/9", "physical_address": {"street": "1 Rd"}},
		{"id": 2, "name": "Explicit", "meeting_type": "virtual", "weekday": 1, "start_time": "08:00", "duration": 60,
		"time_zone": "UTC", "physical_address": {"street": "1 Rd"}}]`

	records, err := DecodeRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, meeting.TypeHybrid, records[1].Type)
	assert.Equal(t, meeting.OrganizationUnknown, records[1].Organization)
	assert.Equal(t, meeting.TypeVirtual, records[2].Type)
}

func TestDecodeRecords_DirectoryShape(t *testing.T) {
	in := `{"server_id": 1, "meeting_id": 5, "name": "  Friday Night Group ", "meeting_type": "",
		"weekday": 6, "start_time": "19:30:00", "duration": 3600, "time_zone": "UTC",
		"virtual_url": " https://zoom.us/j/5 "}`

	records, err := DecodeRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(17592186044421), records[0].ID)
	assert.Equal(t, meeting.CompoundID(1, 5), records[0].ID)
	assert.Equal(t, "Friday Night Group", records[0].Name)
	assert.Equal(t, "https://zoom.us/j/5", records[0].VirtualURL)
	assert.Equal(t, meeting.TypeVirtual, records[0].Type)

	fetched, err := fetch.DecodeMeetings([]byte("[" + in + "]"))
	require.NoError(t, err)
	assert.Equal(t, fetched, records)

	out, err := Describe(records)
	require.NoError(t, err)
	assert.Equal(t, uint64(17592186044421), out[0].ID)
}

func TestDecodeRecords_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "{", `[{"start_time": "later"}]`, `{"start_time": "19:30:zz"}`, `{"start_time": "08:00", "meeting_type": "telepathic"}`} {
		_, err := DecodeRecords(strings.NewReader(in))
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "input %q: %v", in, err)
	}
}

func TestDescribe(t *testing.T) {
	records, err := DecodeRecords(strings.NewReader(friday))
	require.NoError(t, err)

	out, err := Describe(records)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(42), out[0].ID)
	assert.Equal(t,
		"\"Friday Night Group\" is a local recognizedFellowship meeting, that meets every Friday, at 7:30 PM, and lasts for 60 minutes.\n"+
			"Its time zone is Eastern Time.\n"+
			"It meets at 123 Main St.",
		out[0].Description)
	assert.Len(t, out[0].Labels, len(out[0].Tokens))
}

func TestDescribe_Errors(t *testing.T) {
	_, err := Describe(nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	records := testRecords()
	records[1].Weekday = 0
	_, err = Describe(records)
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord))
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(path, []byte(friday), 0600))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = LoadRecords(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = LoadRecords("../records.json")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	link := filepath.Join(dir, "link.json")
	if err := os.Symlink(path, link); err == nil {
		_, err = LoadRecords(link)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	}
}
