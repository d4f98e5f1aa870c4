package ops

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/fetch"
	"github.com/hpungsan/meetcorpus/internal/meeting"
	"github.com/hpungsan/meetcorpus/internal/narrative"
)

// MaxRecordFileBytes caps how much JSON DecodeRecords will read.
const MaxRecordFileBytes = 16 << 20

// DescribeOutput is one record's generated example.
type DescribeOutput struct {
	ID uint64 `json:"id"`
	narrative.Example
}

// Describe generates the example for each record, in order.
// The first invalid record aborts with its INVALID_RECORD error.
func Describe(records []meeting.Record) ([]DescribeOutput, error) {
	if len(records) == 0 {
		return nil, errors.NewInvalidRequest("at least one record is required")
	}
	out := make([]DescribeOutput, 0, len(records))
	for i := range records {
		ex, err := narrative.Generate(&records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, DescribeOutput{ID: records[i].ID, Example: ex})
	}
	return out, nil
}

// DecodeRecords parses either a single record object or an array of records, in the
// directory's wire shape. Records are normalized the way a directory fetch normalizes them.
func DecodeRecords(r io.Reader) ([]meeting.Record, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxRecordFileBytes+1))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if len(data) > MaxRecordFileBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("record input exceeds %d bytes", MaxRecordFileBytes))
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.NewInvalidRequest("record input is empty")
	}
	if data[0] != '[' {
		data = append(append([]byte{'['}, data...), ']')
	}

	records, err := fetch.DecodeMeetings(data)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid record JSON: %v", err))
	}
	if records == nil {
		records = []meeting.Record{}
	}
	return records, nil
}

// LoadRecords reads records from a JSON file. The final path component must not be a symlink.
func LoadRecords(path string) ([]meeting.Record, error) {
	if path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return nil, errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	f, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := err.(*errors.CorpusError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open record file: %w", err))
	}
	defer f.Close()

	return DecodeRecords(f)
}
