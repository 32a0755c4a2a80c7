// Package models defines the data shapes shared by the client's services,
// session and views.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidUser = errors.New("invalid user record")

// UserCode identifies a user. The backend sends it as a string, older
// records hold a JSON number; both decode to the same value.
type UserCode string

func (c *UserCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = UserCode(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("user code: %w", err)
	}
	*c = UserCode(n.String())
	return nil
}

// MarshalJSON always writes a string. Codes such as "007" are not valid
// JSON numbers.
func (c UserCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// User is the profile held alongside the bearer token.
type User struct {
	UserCode UserCode `json:"userCode"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
}

// UnmarshalJSON accepts "id" as an alias of "userCode".
func (u *User) UnmarshalJSON(b []byte) error {
	var aux struct {
		UserCode *UserCode `json:"userCode"`
		ID       *UserCode `json:"id"`
		Email    string    `json:"email"`
		Name     string    `json:"name"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	u.Email = aux.Email
	u.Name = aux.Name
	u.UserCode = ""
	switch {
	case aux.UserCode != nil && *aux.UserCode != "":
		u.UserCode = *aux.UserCode
	case aux.ID != nil:
		u.UserCode = *aux.ID
	}
	return nil
}

// Validate checks the fields a session cannot do without.
func (u User) Validate() error {
	if strings.TrimSpace(string(u.UserCode)) == "" {
		return fmt.Errorf("%w: missing user code", ErrInvalidUser)
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: bad email %q", ErrInvalidUser, u.Email)
	}
	return nil
}

// DecodeUser parses and validates a stored user record.
func DecodeUser(raw string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	return u, nil
}

// EncodeUser is the inverse of DecodeUser.
func EncodeUser(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
