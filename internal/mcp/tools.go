package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var describeToolDef = mcp.NewTool("meeting_describe",
	mcp.WithDescription("Generate the narrative description and token/label sequence for one or more meeting records. "+
		"Pass records inline or a path to a JSON file holding a record or an array of records."),
	mcp.WithArray("records",
		mcp.Description("Meeting records in the directory's JSON shape"),
		mcp.Items(map[string]any{"type": "object"}),
	),
	mcp.WithString("path",
		mcp.Description("Path to a JSON file with a record or an array of records (used when records is empty)"),
	),
	mcp.WithBoolean("html",
		mcp.Description("Also render the descriptions as an HTML fragment"),
	),
)

var exportToolDef = mcp.NewTool("corpus_export",
	mcp.WithDescription("Fetch every meeting from the directory, build the training corpus and write all views. "+
		"Returns the run id, counts and per-view file results."),
	mcp.WithString("dir",
		mcp.Description("Output directory (default: configured output_dir or ~/.meetcorpus/exports)"),
	),
	mcp.WithString("prefix",
		mcp.Description("File name stem (default: meetingData)"),
	),
)

var runsToolDef = mcp.NewTool("corpus_runs",
	mcp.WithDescription("List export runs from the ledger, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum runs to return (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of runs to skip"),
	),
)

var runToolDef = mcp.NewTool("corpus_run",
	mcp.WithDescription("Get one export run with its per-view file results."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Run id (ULID)"),
	),
)
