// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the application,
// facilitating consistent and DRY testing across the codebase. Instead of defining
// inline mocks in individual test files, these standardized mock implementations
// can be reused.
//
// The store mocks are in-memory implementations that follow the same rules as
// the Postgres stores (visibility, filtering, ordering, unique emails), so
// service and handler tests can exercise real behavior. TestifyMockTaskStore
// is available when a test needs to script exact calls with testify/mock.
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/phrazzld/tasktrack-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    users := mocks.NewMockUserStore(&domain.User{ID: 1, Role: domain.RoleAdmin})
//	    tasks := mocks.NewMockTaskStore()
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
//  4. Update existing tests to use the centralized mock implementation
package mocks
