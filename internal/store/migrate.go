package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	runsTable        = "quiz_runs"
	answersTable     = "run_answers"
	sessionEvents    = "session_events"
	llmRequestEvents = "llm_request_events"
)

const textSize = 2147483647

var (
	quizRunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "run_id", Type: field.TypeString, Unique: true},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime},
		{Name: "total", Type: field.TypeInt},
		{Name: "score", Type: field.TypeInt},
		{Name: "mistakes", Type: field.TypeInt},
		{Name: "unanswered", Type: field.TypeInt},
		{Name: "duration_ms", Type: field.TypeInt64},
		{Name: "timer_seconds", Type: field.TypeInt},
		{Name: "shuffle_options", Type: field.TypeBool},
		{Name: "allow_revisit", Type: field.TypeBool},
		{Name: "track_elapsed", Type: field.TypeBool},
		{Name: "source", Type: field.TypeString, Default: ""},
	}
	quizRunsTable = &schema.Table{
		Name:       runsTable,
		Columns:    quizRunsColumns,
		PrimaryKey: []*schema.Column{quizRunsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizrun_finished_at", Columns: []*schema.Column{quizRunsColumns[3]}},
		},
	}

	runAnswersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "run_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "question", Type: field.TypeString, Size: textSize},
		{Name: "options", Type: field.TypeString, Size: textSize},
		{Name: "answer", Type: field.TypeString},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "selected", Type: field.TypeString, Default: ""},
		{Name: "timed_out", Type: field.TypeBool},
		{Name: "correct", Type: field.TypeBool},
		{Name: "elapsed_ms", Type: field.TypeInt64, Default: 0},
		{Name: "mistake_order", Type: field.TypeInt, Default: 0},
	}
	runAnswersTable = &schema.Table{
		Name:       answersTable,
		Columns:    runAnswersColumns,
		PrimaryKey: []*schema.Column{runAnswersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "run_answers_quiz_runs_answers",
				Columns:    []*schema.Column{runAnswersColumns[1]},
				RefColumns: []*schema.Column{quizRunsColumns[1]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "runanswer_run_id_position", Unique: true, Columns: []*schema.Column{runAnswersColumns[1], runAnswersColumns[2]}},
		},
	}

	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "run_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "mistakes", Type: field.TypeInt, Default: 0},
		{Name: "answered", Type: field.TypeInt, Default: 0},
	}
	sessionEventsTable = &schema.Table{
		Name:       sessionEvents,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_run_id", Columns: []*schema.Column{sessionEventsColumns[3]}},
			{Name: "sessionevent_timestamp", Columns: []*schema.Column{sessionEventsColumns[2]}},
		},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       llmRequestEvents,
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestEventsColumns[2]}},
		},
	}

	tables = []*schema.Table{
		quizRunsTable,
		runAnswersTable,
		sessionEventsTable,
		llmRequestEventsTable,
	}
)

func init() {
	runAnswersTable.ForeignKeys[0].RefTable = quizRunsTable
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
