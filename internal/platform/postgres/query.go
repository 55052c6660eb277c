package postgres

import (
	"strconv"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/store"
)

const taskColumns = `id, title, description, due_date, status, creator_id, assigned_to, created_at, updated_at`

// buildTaskListQuery renders the listing query for q and its arguments.
// Conditions are joined with AND; the member condition matches creator or assignee.
func buildTaskListQuery(q store.TaskQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.MemberID != 0 {
		p := next(q.MemberID)
		conditions = append(conditions, "(creator_id = "+p+" OR assigned_to = "+p+")")
	}
	if q.Status != "" {
		conditions = append(conditions, "status = "+next(q.Status))
	}
	if q.Search != "" {
		p := next("%" + escapeLike(q.Search) + "%")
		conditions = append(conditions,
			"(title ILIKE "+p+` ESCAPE '\' OR description ILIKE `+p+` ESCAPE '\')`)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(taskColumns)
	b.WriteString(" FROM tasks")
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY id DESC")
	return b.String(), args
}

// escapeLike quotes the LIKE wildcards so s is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
