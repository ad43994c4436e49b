package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables the deployed page needs.
const (
	EnvAPIKey  = "AIRTABLE_API_KEY"
	EnvBaseID  = "AIRTABLE_BASE_ID"
	EnvTableID = "AIRTABLE_TABLE_ID"
)

// ErrMissingSecrets is returned when any required variable is unset.
var ErrMissingSecrets = errors.New("required environment variables are missing")

// Secrets are the Airtable credentials injected into js/config.js.
type Secrets struct {
	APIKey  string
	BaseID  string
	TableID string
}

// Missing returns the names of the unset variables in declaration order.
func (s Secrets) Missing() []string {
	var missing []string
	if s.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if s.BaseID == "" {
		missing = append(missing, EnvBaseID)
	}
	if s.TableID == "" {
		missing = append(missing, EnvTableID)
	}
	return missing
}

// LoadSecrets reads the credentials from the process environment, falling
// back to envFile when it exists. Variables already set in the environment
// win over the file. The error wraps ErrMissingSecrets and names every
// missing variable.
func LoadSecrets(envFile string) (Secrets, error) {
	file := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			file = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Secrets{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	lookup := func(name string) string {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
		return strings.TrimSpace(file[name])
	}

	s := Secrets{
		APIKey:  lookup(EnvAPIKey),
		BaseID:  lookup(EnvBaseID),
		TableID: lookup(EnvTableID),
	}
	if missing := s.Missing(); len(missing) > 0 {
		return s, fmt.Errorf("%w: %s", ErrMissingSecrets, strings.Join(missing, ", "))
	}
	return s, nil
}
