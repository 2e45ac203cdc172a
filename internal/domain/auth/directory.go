package auth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Account struct {
	Username     string
	Role         string
	PasswordHash string
}

// Directory is the fixed set of accounts allowed to log in.
type Directory struct {
	accounts map[string]Account
}

type Credential struct {
	Username string
	Password string
	Role     string
}

// NewDirectory hashes each credential's password. Credentials with an empty
// username or password are skipped so a deployment can disable a role.
func NewDirectory(creds ...Credential) (*Directory, error) {
	d := &Directory{accounts: make(map[string]Account, len(creds))}
	for _, c := range creds {
		username := strings.TrimSpace(c.Username)
		if username == "" || c.Password == "" {
			continue
		}
		if !ValidRole(c.Role) {
			return nil, fmt.Errorf("unknown role %q for %s", c.Role, username)
		}
		if _, dup := d.accounts[username]; dup {
			return nil, fmt.Errorf("duplicate account %s", username)
		}
		hash, err := HashPassword(c.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", username, err)
		}
		d.accounts[username] = Account{Username: username, Role: c.Role, PasswordHash: hash}
	}
	return d, nil
}

func (d *Directory) Authenticate(username, password string) (Account, error) {
	account, ok := d.accounts[strings.TrimSpace(username)]
	if !ok {
		return Account{}, ErrInvalidCredentials
	}
	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (d *Directory) Len() int {
	return len(d.accounts)
}
