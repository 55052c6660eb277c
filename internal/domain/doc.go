// Package domain contains the core business entities of the task tracker:
// users with their roles, tasks with their status lifecycle, and the
// validation error type shared by the service and API layers. It has no
// knowledge of storage, caching or HTTP.
package domain
