package cache

import (
	"strconv"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

const (
	userKeyPrefix = "tasks_user_"
	adminKey      = "tasks_admin_all"
)

// TaskListKey derives the cache key for a task listing by user with filters.
//
// Members get tasks_user_<id>_filter_<status>_search_<search>. Admins get
// tasks_admin_all, with the same filter suffix appended when any filter is set.
// Filter values are used verbatim.
func TaskListKey(user *domain.User, filters domain.TaskFilters) string {
	suffix := "_filter_" + filters.Status + "_search_" + filters.Search
	if user.IsAdmin() {
		if filters.Status == "" && filters.Search == "" {
			return adminKey
		}
		return adminKey + suffix
	}
	return UserFamily(user.ID) + "filter_" + filters.Status + "_search_" + filters.Search
}

// UserFamily is the key prefix shared by every listing entry of a member.
// The trailing separator keeps user 1 from matching user 12.
func UserFamily(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10) + "_"
}

// AdminFamily is the key prefix shared by every admin listing entry.
func AdminFamily() string {
	return adminKey
}
