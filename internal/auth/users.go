package auth

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Role controls what a user may do.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ValidRoles is the set of allowed roles.
var ValidRoles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

// IsValid checks if a role is recognized.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the role may manage visits and leads.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents a registered user.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore manages users in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, email, name, phone, role, created_at"

// Add creates a new user with the given role.
func (s *UserStore) Add(email, name, phone string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %q", role)
	}

	result, err := s.db.Exec(
		"INSERT INTO users (email, name, phone, role) VALUES (?, ?, ?, ?)",
		email, name, phone, string(role),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("user already exists: %s", email)
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user ID: %w", err)
	}

	return s.GetByID(id)
}

// GetByID returns a user by ID.
func (s *UserStore) GetByID(id int64) (*User, error) {
	row := s.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns), id,
	)
	return scanUser(row)
}

// GetByEmail returns a user by email, case-insensitively.
func (s *UserStore) GetByEmail(email string) (*User, error) {
	row := s.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM users WHERE LOWER(email) = ?", userColumns),
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

// List returns all users ordered by email.
func (s *UserStore) List() ([]*User, error) {
	rows, err := s.db.Query(
		fmt.Sprintf("SELECT %s FROM users ORDER BY email", userColumns),
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var users []*User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Role = Role(role)
		users = append(users, &u)
	}

	return users, rows.Err()
}

// SetRole changes a user's role.
func (s *UserStore) SetRole(id int64, role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %q", role)
	}

	result, err := s.db.Exec("UPDATE users SET role = ? WHERE id = ?", string(role), id)
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

// Delete removes a user by ID.
func (s *UserStore) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.Role = Role(role)
	return &u, nil
}
