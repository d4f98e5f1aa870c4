// Package corpus assembles generated training examples into the dataset views that get exported.
package corpus

import (
	"bytes"
	"encoding/json"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/meeting"
	"github.com/hpungsan/meetcorpus/internal/narrative"
)

// SimpleView is the id/description table.
type SimpleView struct {
	IDs          []uint64
	Descriptions []string
}

// TaggerView is the tokens/labels table. Row i holds record i's aligned sequences.
type TaggerView struct {
	Tokens [][]string
	Labels [][]string
}

// RawView mirrors the input records.
type RawView struct {
	// JSON is the records encoded as an indented array.
	JSON []byte
	// Rows is JSON decoded back into generic objects, numbers kept as json.Number.
	Rows []map[string]any
}

// Dataset holds every view of one batch. All views have one row per record, in input order.
type Dataset struct {
	Simple SimpleView
	Tagger TaggerView
	Raw    RawView
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.Simple.IDs)
}

// Assemble generates every record's example and builds the views.
// A generator error aborts assembly; no partial dataset is returned.
func Assemble(records []meeting.Record) (*Dataset, error) {
	ds := &Dataset{
		Simple: SimpleView{
			IDs:          make([]uint64, 0, len(records)),
			Descriptions: make([]string, 0, len(records)),
		},
		Tagger: TaggerView{
			Tokens: make([][]string, 0, len(records)),
			Labels: make([][]string, 0, len(records)),
		},
	}

	for i := range records {
		ex, err := narrative.Generate(&records[i])
		if err != nil {
			return nil, err
		}
		ds.Simple.IDs = append(ds.Simple.IDs, records[i].ID)
		ds.Simple.Descriptions = append(ds.Simple.Descriptions, ex.Description)
		ds.Tagger.Tokens = append(ds.Tagger.Tokens, ex.Tokens)
		ds.Tagger.Labels = append(ds.Tagger.Labels, ex.Labels)
	}

	if err := checkCardinality(len(records), ds); err != nil {
		return nil, err
	}

	raw, err := buildRaw(records)
	if err != nil {
		return nil, err
	}
	ds.Raw = raw

	return ds, nil
}

func checkCardinality(n int, ds *Dataset) error {
	ids, descs := len(ds.Simple.IDs), len(ds.Simple.Descriptions)
	if ids != n || descs != n || len(ds.Tagger.Tokens) != n || len(ds.Tagger.Labels) != n {
		return errors.NewCardinalityMismatch(n, ids, descs)
	}
	return nil
}

func buildRaw(records []meeting.Record) (RawView, error) {
	if records == nil {
		records = []meeting.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return RawView{}, errors.NewInternal(err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return RawView{}, errors.NewInternal(err)
	}

	return RawView{JSON: data, Rows: rows}, nil
}

// LabelCounts returns how many tokens carry each label across the whole dataset.
// Every vocabulary label is present, possibly with zero.
func LabelCounts(ds *Dataset) map[string]int {
	counts := make(map[string]int, len(narrative.Vocabulary))
	for _, l := range narrative.Vocabulary {
		counts[l] = 0
	}
	for _, row := range ds.Tagger.Labels {
		for _, l := range row {
			counts[l]++
		}
	}
	return counts
}

// TokenCount returns the total number of tokens in the tagger view.
func TokenCount(ds *Dataset) int {
	n := 0
	for _, row := range ds.Tagger.Tokens {
		n += len(row)
	}
	return n
}
