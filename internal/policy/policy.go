// Package policy decides whether a user may act on a task.
// The functions are pure: they read the user and task and perform no I/O.
package policy

import "github.com/phrazzld/tasktrack-api/internal/domain"

// CanAccess reports whether user may read or modify task.
// Admins may access every task; members only tasks they created or are assigned to.
func CanAccess(user *domain.User, task *domain.Task) bool {
	if user == nil || task == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return user.ID == task.CreatorID || task.IsAssignedTo(user.ID)
}

// CanDelete reports whether user may delete task.
// Only admins and the task's creator may delete it; an assignee may not.
func CanDelete(user *domain.User, task *domain.Task) bool {
	if user == nil || task == nil {
		return false
	}
	return user.IsAdmin() || user.ID == task.CreatorID
}
