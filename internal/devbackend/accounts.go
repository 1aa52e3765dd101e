// Package devbackend is a stand-in for the school-feeding REST backend. It
// serves the login, logout and notification endpoints the agent consumes,
// from in-memory fixtures.
package devbackend

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/pkg/id"
	"github.com/go-feeding-dashboard/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// Account is one backend user. Role holds the raw role string returned on
// login; spellings vary between accounts on purpose.
type Account struct {
	ID           string
	Names        string
	Email        string
	Phone        string
	Role         string
	DistrictID   string
	SchoolID     string
	PasswordHash string
}

// NewAccount is the input to Directory.Add.
type NewAccount struct {
	Names      string
	Email      string `validate:"required,email"`
	Phone      string
	Role       string `validate:"required"`
	DistrictID string
	SchoolID   string
	Password   string `validate:"required,min=8,max=72"`
}

// Directory is the in-memory account table, indexed by id and email.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]*Account
	cost    int
}

// NewDirectory returns an empty directory hashing passwords at cost.
// Zero selects bcrypt.DefaultCost.
func NewDirectory(cost int) *Directory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Directory{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]*Account),
		cost:    cost,
	}
}

func (d *Directory) Add(in NewAccount) (*Account, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), d.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &Account{
		ID:           id.New(),
		Names:        in.Names,
		Email:        strings.ToLower(in.Email),
		Phone:        in.Phone,
		Role:         in.Role,
		DistrictID:   in.DistrictID,
		SchoolID:     in.SchoolID,
		PasswordHash: string(hash),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byEmail[a.Email]; ok {
		return nil, fmt.Errorf("email %s already registered: %w", a.Email, domain.ErrBadRequest)
	}
	d.byID[a.ID] = a
	d.byEmail[a.Email] = a
	return a, nil
}

func (d *Directory) Get(accountID string) (*Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

// Authenticate checks email and password. Unknown emails and wrong
// passwords return the same error.
func (d *Directory) Authenticate(email, password string) (*Account, error) {
	d.mu.RLock()
	a, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return a, nil
}
