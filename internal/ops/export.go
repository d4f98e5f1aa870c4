package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/meetcorpus/internal/config"
	"github.com/hpungsan/meetcorpus/internal/corpus"
	"github.com/hpungsan/meetcorpus/internal/db"
	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/fetch"
	"github.com/hpungsan/meetcorpus/internal/metrics"
	"github.com/hpungsan/meetcorpus/internal/upload"
)

// Env carries the collaborators of an export run.
type Env struct {
	Searcher  fetch.Searcher
	DB        *sql.DB
	Config    *config.Config
	BaseDir   string
	Publisher *upload.Publisher // nil disables object store publication
	Logger    *zap.Logger
}

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Dir    string // optional, default: config output_dir or <base>/exports
	Prefix string // optional, default: config file_prefix
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	RunID       string          `json:"run_id"`
	Status      db.RunStatus    `json:"status"`
	Dir         string          `json:"dir"`
	Records     int             `json:"records"`
	Tokens      int             `json:"tokens"`
	LabelCounts map[string]int  `json:"label_counts"`
	Files       []FileResult    `json:"files"`
	Uploads     []upload.Result `json:"uploads,omitempty"`
	MetricsFile string          `json:"metrics_file,omitempty"`
	StartedAt   int64           `json:"started_at"`
	FinishedAt  int64           `json:"finished_at"`
}

// Export runs fetch, assembly and persistence once and records the run in the ledger.
//
// Fetch and assembly failures, and cancellation during the fetch, end the run before any
// view file is touched. Such runs still get a ledger row and, when configured, a metrics
// textfile. When some views fail to write, the output is still returned, together with a
// PERSISTENCE_FAILURE error.
func Export(ctx context.Context, env *Env, input ExportInput) (*ExportOutput, error) {
	if env == nil || env.Searcher == nil || env.DB == nil {
		return nil, errors.NewInvalidRequest("export requires a searcher and a ledger")
	}
	cfg := env.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := env.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := input.Dir
	if dir == "" {
		dir = cfg.ResolveOutputDir(env.BaseDir)
	}
	prefix := input.Prefix
	if prefix == "" {
		prefix = cfg.FilePrefix
	}
	if prefix == "" {
		prefix = config.DefaultFilePrefix
	}
	if err := ValidateOutputDir(dir); err != nil {
		return nil, err
	}
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, errors.NewCancelled("export")
	}

	started := time.Now()
	runID := ulid.MustNew(ulid.Timestamp(started), ulid.Monotonic(rand.Reader, 0)).String()
	logger = logger.With(zap.String("run_id", runID))
	m := metrics.New()

	if err := db.InsertRun(ctx, env.DB, runID, dir, started.Unix()); err != nil {
		return nil, err
	}

	out := &ExportOutput{
		RunID:     runID,
		Dir:       dir,
		StartedAt: started.Unix(),
	}

	// finish records the terminal state. Ledger write failures are only logged.
	finish := func(status db.RunStatus, runErr error) {
		finished := time.Now()
		out.Status = status
		out.FinishedAt = finished.Unix()
		if err := db.FinishRun(context.WithoutCancel(ctx), env.DB, runID, status, out.Records, out.Tokens, runErr); err != nil {
			logger.Error("failed to finish ledger run", zap.Error(err))
		}
		m.ObserveRun(string(status), finished.Sub(started), finished)
		if cfg.MetricsTextfile != "" {
			path := config.ExpandTilde(cfg.MetricsTextfile)
			if err := m.WriteTextfile(path); err != nil {
				logger.Error("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
			} else {
				out.MetricsFile = path
			}
		}
		logger.Info("export run finished",
			zap.String("status", string(status)),
			zap.Int("records", out.Records),
			zap.Int("tokens", out.Tokens),
			zap.Duration("elapsed", finished.Sub(started)))
	}

	logger.Info("export run started", zap.String("dir", dir))

	records, err := fetch.Fetch(ctx, env.Searcher, logger)
	if err != nil {
		if errors.Is(err, errors.ErrCancelled) {
			finish(db.RunCancelled, err)
		} else {
			finish(db.RunUnavailable, err)
		}
		return nil, err
	}

	ds, err := corpus.Assemble(records)
	if err != nil {
		logger.Error("dataset assembly failed", zap.Error(err))
		finish(db.RunFailed, err)
		return nil, err
	}
	out.Records = ds.Len()
	out.Tokens = corpus.TokenCount(ds)
	out.LabelCounts = corpus.LabelCounts(ds)
	m.ObserveDataset(out.Records, out.LabelCounts)

	persisted, err := Persist(ds, PersistInput{Dir: dir, Prefix: prefix, Workbook: cfg.Workbook}, logger)
	if err != nil {
		finish(db.RunFailed, err)
		return nil, err
	}
	out.Dir = persisted.Dir
	out.Files = persisted.Files

	for _, f := range persisted.Files {
		row := db.FileRow{View: f.View, Path: f.Path, Rows: f.Rows, Bytes: f.Bytes}
		if f.Error != "" {
			row.Error = &f.Error
		}
		m.ObserveViewWrite(f.View, f.Error == "")
		if err := db.InsertFile(ctx, env.DB, runID, row); err != nil {
			logger.Error("failed to record file in ledger", zap.String("view", f.View), zap.Error(err))
		}
	}

	if env.Publisher != nil {
		out.Uploads = env.Publisher.Publish(ctx, runID, persisted.Written())
		for _, u := range out.Uploads {
			m.ObserveUpload(u.Error == "")
		}
	}

	if failed := persisted.Failed(); len(failed) > 0 {
		perr := errors.NewPersistenceFailure(failed)
		finish(db.RunPartial, perr)
		return out, perr
	}

	finish(db.RunCompleted, nil)
	return out, nil
}
