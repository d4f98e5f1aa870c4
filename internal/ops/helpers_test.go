package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hpungsan/meetcorpus/internal/corpus"
	"github.com/hpungsan/meetcorpus/internal/db"
	"github.com/hpungsan/meetcorpus/internal/fetch"
	"github.com/hpungsan/meetcorpus/internal/meeting"
)

// stubSearcher answers every search with a fixed outcome.
type stubSearcher struct {
	records []meeting.Record
	err     error
	calls   int
}

func (s *stubSearcher) MeetingSearch(_ context.Context, _ fetch.SearchSpecification, completion fetch.Completion) {
	s.calls++
	if s.err != nil {
		go completion(nil, s.err)
		return
	}
	go completion(&fetch.SearchResults{Meetings: s.records}, nil)
}

func testRecords() []meeting.Record {
	return []meeting.Record{
		{
			ID:              42,
			Name:            "Friday Night Group",
			Type:            meeting.TypeInPerson,
			Organization:    meeting.OrganizationRecognized,
			Weekday:         6,
			StartTime:       meeting.TimeOfDay{Hour: 19, Minute: 30},
			Duration:        3600,
			TimeZone:        "America/New_York",
			PhysicalAddress: &meeting.Address{Street: "123 Main St"},
		},
		{
			ID:           7,
			Name:         "Online Noon, \"Daily\"",
			Type:         meeting.TypeVirtual,
			Organization: meeting.OrganizationUnknown,
			Weekday:      2,
			StartTime:    meeting.TimeOfDay{Hour: 12},
			Duration:     1800,
			TimeZone:     "UTC",
			VirtualURL:   "https://zoom.us/j/1",
			Formats:      []meeting.Format{{Key: "O", Name: "Open", Description: "Open to all"}},
		},
	}
}

func testDataset(t *testing.T) *corpus.Dataset {
	t.Helper()
	ds, err := corpus.Assemble(testRecords())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return ds
}

func openLedger(t *testing.T) (*sql.DB, string) {
	t.Helper()
	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database, baseDir
}
