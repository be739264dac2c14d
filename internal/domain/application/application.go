package application

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidName       = errors.New("application name cannot be empty")
	ErrInvalidAPIKey     = errors.New("application api key cannot be empty")
	ErrDuplicateName     = errors.New("application name already exists")
	ErrApplicationAbsent = errors.New("application not found")
)

// Application groups license keys. Keys reference it by API key.
type Application struct {
	name      string
	apiKey    string
	createdBy string
	createdAt time.Time
}

func NewApplication(name, apiKey, createdBy string, now time.Time) (*Application, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	return &Application{
		name:      name,
		apiKey:    apiKey,
		createdBy: createdBy,
		createdAt: now,
	}, nil
}

func ReconstructApplication(name, apiKey, createdBy string, createdAt time.Time) (*Application, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	return &Application{
		name:      name,
		apiKey:    apiKey,
		createdBy: createdBy,
		createdAt: createdAt,
	}, nil
}

func (a *Application) Name() string         { return a.name }
func (a *Application) APIKey() string       { return a.apiKey }
func (a *Application) CreatedBy() string    { return a.createdBy }
func (a *Application) CreatedAt() time.Time { return a.createdAt }

// KeyRefs lists every value a license key may use to reference a.
func (a *Application) KeyRefs() []string {
	refs := []string{a.apiKey}
	if a.name != a.apiKey {
		refs = append(refs, a.name)
	}
	return refs
}
