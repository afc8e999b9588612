package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when the portal login is not configured.
var ErrMissingCredentials = errors.New("missing portal credentials")

// Credentials is the portal login.
type Credentials struct {
	UserID   string
	Password string
}

// Validate reports which credential variables are unset.
func (c Credentials) Validate() error {
	var missing []string
	if c.UserID == "" {
		missing = append(missing, EnvUserID)
	}
	if c.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
