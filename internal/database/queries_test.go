package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []interface{}
}

// fakeDB records ExecContext calls; the query methods are not used here.
type fakeDB struct {
	DBTX
	calls []execCall
	err   error
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	return nil, f.err
}

func TestUpdateSessionStatus(t *testing.T) {
	db := &fakeDB{}
	id := uuid.New()

	err := New(db).UpdateSessionStatus(context.Background(), UpdateSessionStatusParams{Status: "completed", ID: id})
	require.NoError(t, err)
	require.Len(t, db.calls, 1)
	assert.Equal(t, updateSessionStatus, db.calls[0].query)
	assert.Equal(t, []interface{}{"completed", id}, db.calls[0].args)
}

func TestCreateOrUpdateAnalysesResults(t *testing.T) {
	db := &fakeDB{}
	id := uuid.New()
	results := json.RawMessage(`[{"match_score":80}]`)

	err := New(db).CreateOrUpdateAnalysesResults(context.Background(), CreateOrUpdateAnalysesResultsParams{Results: results, SessionID: id})
	require.NoError(t, err)
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "ON CONFLICT (session_id)")
	assert.Equal(t, []interface{}{results, id}, db.calls[0].args)
}

func TestUpdateResumeStatusError(t *testing.T) {
	db := &fakeDB{err: errors.New("connection refused")}

	err := New(db).UpdateResumeStatus(context.Background(), UpdateResumeStatusParams{UploadStatus: "analyzed", ID: uuid.New()})
	assert.EqualError(t, err, "connection refused")
}
