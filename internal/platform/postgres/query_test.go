package postgres

import (
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestBuildTaskListQuery(t *testing.T) {
	t.Parallel()

	const base = "SELECT " + taskColumns + " FROM tasks"

	tests := []struct {
		name     string
		query    store.TaskQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "admin without filters",
			query:   store.TaskQuery{},
			wantSQL: base + " ORDER BY id DESC",
		},
		{
			name:     "member visibility",
			query:    store.TaskQuery{MemberID: 7},
			wantSQL:  base + " WHERE (creator_id = $1 OR assigned_to = $1) ORDER BY id DESC",
			wantArgs: []any{int64(7)},
		},
		{
			name:     "status only",
			query:    store.TaskQuery{Status: "completed"},
			wantSQL:  base + " WHERE status = $1 ORDER BY id DESC",
			wantArgs: []any{"completed"},
		},
		{
			name:  "member with status and search",
			query: store.TaskQuery{MemberID: 3, Status: "pending", Search: "report"},
			wantSQL: base + " WHERE (creator_id = $1 OR assigned_to = $1) AND status = $2" +
				` AND (title ILIKE $3 ESCAPE '\' OR description ILIKE $3 ESCAPE '\') ORDER BY id DESC`,
			wantArgs: []any{int64(3), "pending", "%report%"},
		},
		{
			name:  "search wildcards are literal",
			query: store.TaskQuery{Search: "100%_done"},
			wantSQL: base + ` WHERE (title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')` +
				" ORDER BY id DESC",
			wantArgs: []any{`%100\%\_done%`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := buildTaskListQuery(tc.query)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
