// Package events provides the audit events emitted when tasks change.
//
// Services emit a TaskEvent through an EventEmitter without knowing which
// handlers receive it. The InMemoryEventEmitter dispatches synchronously to
// registered handlers; AuditLogHandler records each event as one structured
// log line.
package events
