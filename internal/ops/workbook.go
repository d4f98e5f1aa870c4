package ops

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/hpungsan/meetcorpus/internal/corpus"
)

// Workbook sheet names.
const (
	SheetSimple  = "simple"
	SheetTagger  = "textTagger"
	SheetComplex = "complex"
)

// workbookWriter mirrors the simple, tagger and complex views into one spreadsheet.
// Rows reports the record count.
func workbookWriter(ds *corpus.Dataset) viewWriter {
	return func(w io.Writer) (int, error) {
		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName("Sheet1", SheetSimple); err != nil {
			return 0, err
		}
		simple := make([][]any, len(ds.Simple.IDs))
		for i, id := range ds.Simple.IDs {
			simple[i] = []any{strconv.FormatUint(id, 10), ds.Simple.Descriptions[i]}
		}
		if err := writeSheet(f, SheetSimple, []string{"id", "description"}, simple); err != nil {
			return 0, err
		}

		tagger := make([][]any, len(ds.Tagger.Tokens))
		for i := range ds.Tagger.Tokens {
			tokens, err := json.Marshal(ds.Tagger.Tokens[i])
			if err != nil {
				return 0, err
			}
			labels, err := json.Marshal(ds.Tagger.Labels[i])
			if err != nil {
				return 0, err
			}
			tagger[i] = []any{string(tokens), string(labels)}
		}
		if err := writeSheet(f, SheetTagger, []string{"tokens", "labels"}, tagger); err != nil {
			return 0, err
		}

		header, table := corpus.FlattenRows(ds.Raw.Rows)
		complexRows := make([][]any, len(table))
		for i, row := range table {
			cells := make([]any, len(row))
			for j, c := range row {
				cells[j] = c
			}
			complexRows[i] = cells
		}
		if err := writeSheet(f, SheetComplex, header, complexRows); err != nil {
			return 0, err
		}

		if _, err := f.WriteTo(w); err != nil {
			return 0, fmt.Errorf("failed to write workbook: %w", err)
		}
		return ds.Len(), nil
	}
}

// writeSheet creates the sheet if needed and writes a header row followed by the rows.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil {
		return err
	} else if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := setRow(f, sheet, 1, headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
