package ops

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/hpungsan/meetcorpus/internal/config"
	"github.com/hpungsan/meetcorpus/internal/corpus"
	"github.com/hpungsan/meetcorpus/internal/errors"
)

// View names, also used as ledger keys.
const (
	ViewSimple   = "simple"
	ViewTagger   = "textTagger"
	ViewRaw      = "json"
	ViewComplex  = "complex"
	ViewWorkbook = "workbook"
)

// ViewFileName returns the fixed file name of a view for a prefix.
func ViewFileName(prefix, name string) string {
	switch name {
	case ViewSimple:
		return prefix + ".simple.csv"
	case ViewTagger:
		return prefix + ".textTagger.csv"
	case ViewRaw:
		return prefix + ".json"
	case ViewComplex:
		return prefix + ".complex.csv"
	case ViewWorkbook:
		return prefix + ".xlsx"
	}
	return prefix + "." + name
}

// PersistInput contains parameters for the Persist operation.
type PersistInput struct {
	Dir      string // required, created 0700 if missing
	Prefix   string // optional, default: meetingData
	Workbook bool   // also write <prefix>.xlsx
}

// FileResult is the outcome of writing one view.
type FileResult struct {
	View  string `json:"view"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Bytes int64  `json:"bytes"`
	Error string `json:"error,omitempty"`
}

// PersistOutput lists every attempted view in write order.
type PersistOutput struct {
	Dir   string       `json:"dir"`
	Files []FileResult `json:"files"`
}

// Failed returns the names of views that could not be written.
func (o *PersistOutput) Failed() []string {
	var failed []string
	for _, f := range o.Files {
		if f.Error != "" {
			failed = append(failed, f.View)
		}
	}
	return failed
}

// Written returns the paths of views that were written successfully.
func (o *PersistOutput) Written() []string {
	var paths []string
	for _, f := range o.Files {
		if f.Error == "" {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

type viewWriter func(w io.Writer) (rows int, err error)

type view struct {
	name  string
	write viewWriter
}

// Persist writes every view of the dataset under input.Dir.
// Each view replaces any previous file of the same name. A view that fails is recorded in
// its FileResult and logged; the remaining views are still written. The returned error is
// reserved for an unusable directory or prefix, in which case nothing is written.
func Persist(ds *corpus.Dataset, input PersistInput, logger *zap.Logger) (*PersistOutput, error) {
	if ds == nil {
		return nil, errors.NewInvalidRequest("dataset is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	prefix := input.Prefix
	if prefix == "" {
		prefix = config.DefaultFilePrefix
	}
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	if err := ValidateOutputDir(input.Dir); err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Clean(input.Dir))
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid output directory: %v", err))
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	views := []view{
		{ViewSimple, simpleWriter(ds)},
		{ViewTagger, taggerWriter(ds)},
		{ViewRaw, rawWriter(ds)},
		{ViewComplex, complexWriter(ds)},
	}
	if input.Workbook {
		views = append(views, view{ViewWorkbook, workbookWriter(ds)})
	}

	out := &PersistOutput{Dir: dir}
	for _, v := range views {
		path := filepath.Join(dir, ViewFileName(prefix, v.name))
		res := writeView(path, v.write)
		res.View = v.name
		if res.Error != "" {
			logger.Error("failed to write view",
				zap.String("view", v.name),
				zap.String("path", path),
				zap.String("error", res.Error))
		} else {
			logger.Debug("wrote view",
				zap.String("view", v.name),
				zap.String("path", path),
				zap.Int("rows", res.Rows),
				zap.Int64("bytes", res.Bytes))
		}
		out.Files = append(out.Files, res)
	}

	return out, nil
}

// writeView removes any existing file at path and writes a fresh one.
func writeView(path string, write viewWriter) FileResult {
	res := FileResult{Path: path}

	if err := removeExisting(path); err != nil {
		res.Error = err.Error()
		return res
	}

	file, err := openFileNoFollow(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		res.Error = fmt.Sprintf("failed to create file: %v", err)
		return res
	}

	cw := &countingWriter{w: file}
	rows, werr := write(cw)
	cerr := file.Close()
	res.Rows = rows
	res.Bytes = cw.n

	switch {
	case werr != nil:
		res.Error = werr.Error()
	case cerr != nil:
		res.Error = fmt.Sprintf("failed to close file: %v", cerr)
	}
	return res
}

// removeExisting deletes a previous view file. Directories and symlinks at the view's
// name are refused rather than removed.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to replace symlink at %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to replace directory at %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove previous file: %w", err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func simpleWriter(ds *corpus.Dataset) viewWriter {
	return func(w io.Writer) (int, error) {
		table := make([][]string, len(ds.Simple.IDs))
		for i, id := range ds.Simple.IDs {
			table[i] = []string{strconv.FormatUint(id, 10), ds.Simple.Descriptions[i]}
		}
		return writeCSV(w, []string{"id", "description"}, table)
	}
}

func taggerWriter(ds *corpus.Dataset) viewWriter {
	return func(w io.Writer) (int, error) {
		table := make([][]string, len(ds.Tagger.Tokens))
		for i := range ds.Tagger.Tokens {
			tokens, err := json.Marshal(ds.Tagger.Tokens[i])
			if err != nil {
				return 0, err
			}
			labels, err := json.Marshal(ds.Tagger.Labels[i])
			if err != nil {
				return 0, err
			}
			table[i] = []string{string(tokens), string(labels)}
		}
		return writeCSV(w, []string{"tokens", "labels"}, table)
	}
}

func rawWriter(ds *corpus.Dataset) viewWriter {
	return func(w io.Writer) (int, error) {
		if _, err := w.Write(ds.Raw.JSON); err != nil {
			return 0, err
		}
		return len(ds.Raw.Rows), nil
	}
}

func complexWriter(ds *corpus.Dataset) viewWriter {
	return func(w io.Writer) (int, error) {
		header, table := corpus.FlattenRows(ds.Raw.Rows)
		return writeCSV(w, header, table)
	}
}

// writeCSV writes a header row and the table, returning the number of data rows.
func writeCSV(w io.Writer, header []string, table [][]string) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	if err := cw.WriteAll(table); err != nil {
		return 0, err
	}
	return len(table), nil
}
