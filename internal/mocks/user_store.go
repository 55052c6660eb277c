package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Without function overrides it behaves like an in-memory store: IDs are
// assigned sequentially, emails are unique case-insensitively, and the
// "hashed" password is the plaintext prefixed with "hashed:".
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]*domain.User, error)

	// Errors returned by the default implementation when set
	CreateError  error
	GetByIDError error
	ListError    error

	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

// NewMockUserStore creates a new mock store seeded with users.
// Seeded users keep their IDs; users without one get the next free ID.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[int64]*domain.User)}
	for _, u := range users {
		m.put(u)
	}
	return m
}

// HashPrefix marks the fake hash produced by the default Create.
const HashPrefix = "hashed:"

func (m *MockUserStore) put(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = make(map[int64]*domain.User)
	}
	if u.ID == 0 {
		m.nextID++
		u.ID = m.nextID
	} else if u.ID > m.nextID {
		m.nextID = u.ID
	}
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	cp := *u
	m.users[u.ID] = &cp
}

// Create implements store.UserStore
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			m.mu.Unlock()
			return store.ErrEmailExists
		}
	}
	m.mu.Unlock()

	if user.Password != "" {
		user.HashedPassword = HashPrefix + user.Password
		user.Password = ""
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	m.put(user)
	return nil
}

// GetByID implements store.UserStore
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// GetByEmail implements store.UserStore
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		cp := *user
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

var _ store.UserStore = (*MockUserStore)(nil)
