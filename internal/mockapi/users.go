package mockapi

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	Code  int64
	Email string
	Name  string
	hash  []byte
}

// users is the account registry. Codes are assigned sequentially from 1.
type users struct {
	mu      sync.RWMutex
	byEmail map[string]*User
	byCode  map[int64]*User
	next    int64
	cost    int
}

func newUsers(cost int) *users {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &users{byEmail: map[string]*User{}, byCode: map[int64]*User{}, next: 1, cost: cost}
}

func (u *users) register(email, password, name string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byEmail[email]; ok {
		return nil, ErrUserExists
	}
	usr := &User{Code: u.next, Email: email, Name: name, hash: hash}
	u.next++
	u.byEmail[email] = usr
	u.byCode[usr.Code] = usr
	return usr, nil
}

func (u *users) authenticate(email, password string) (*User, error) {
	u.mu.RLock()
	usr, ok := u.byEmail[strings.ToLower(strings.TrimSpace(email))]
	u.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(usr.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return usr, nil
}

func (u *users) get(code int64) (*User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	usr, ok := u.byCode[code]
	return usr, ok
}
