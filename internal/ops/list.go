package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/meetcorpus/internal/db"
	"github.com/hpungsan/meetcorpus/internal/errors"
)

// ListRunsInput contains parameters for the ListRuns operation.
type ListRunsInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListRunsOutput contains the result of the ListRuns operation.
type ListRunsOutput struct {
	Items      []db.Run   `json:"items"`
	Pagination Pagination `json:"pagination"`
	Sort       string     `json:"sort"`
}

// ListRuns retrieves ledger runs, newest first, with pagination.
func ListRuns(ctx context.Context, database *sql.DB, input ListRunsInput) (*ListRunsOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	runs, total, err := db.ListRuns(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListRunsOutput{
		Items: runs,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(runs) < total,
			Total:   total,
		},
		Sort: "started_at_desc",
	}, nil
}

// GetRun retrieves one run with its file results.
func GetRun(ctx context.Context, database *sql.DB, id string) (*db.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewInvalidRequest("run id is required")
	}
	return db.GetRun(ctx, database, id)
}
