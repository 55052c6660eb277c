// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. TaskService:
//   - Lists, creates, reads, updates and deletes tasks on behalf of an actor
//   - Enforces access rules from internal/policy
//   - Memoizes listings through a cache.TaskListCache and invalidates the
//     affected user and admin families on every write
//   - Emits task audit events through an events.EventEmitter
//
// 2. UserService:
//   - Registers members, authenticates credentials and lists users for admins
//
// 3. Error Handling:
//   - Expected conditions are returned as sentinel errors (ErrTaskNotFound,
//     ErrUnauthorized, ErrEmailExists, ErrInvalidCredentials) or as a
//     *domain.ValidationError carrying per-field messages
//   - Unexpected failures are wrapped in *ServiceError
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
