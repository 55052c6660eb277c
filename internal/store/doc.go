// Package store defines the persistence interfaces for users and tasks.
// Implementations live under internal/platform; the service layer depends
// only on these interfaces and the sentinel errors declared here.
package store
