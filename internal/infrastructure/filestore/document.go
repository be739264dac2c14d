package filestore

import (
	"maps"
	"slices"
)

// Document is the whole flat-file database. Field names match the JSON
// layout earlier releases wrote, so an existing database.json loads as is.
type Document struct {
	Admins       []string            `json:"admins"`
	Supports     []string            `json:"supports"`
	Applications []ApplicationRecord `json:"applications"`
	Keys         []KeyRecord         `json:"keys"`
	// Grants keeps who granted a role and when; the admins/supports arrays
	// only carry user ids.
	Grants map[string]GrantRecord `json:"grants,omitempty"`
}

type ApplicationRecord struct {
	Name      string `json:"name"`
	APIKey    string `json:"api_key"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

type KeyRecord struct {
	Key         string   `json:"key"`
	API         string   `json:"api"`
	Prefix      string   `json:"prefix"`
	CreatedAt   string   `json:"created_at"`
	ExpiresAt   string   `json:"expires_at"`
	DeviceLimit int      `json:"device_limit"`
	Hwids       []string `json:"hwids"`
	Hwid        *string  `json:"hwid"`
	SystemInfo  string   `json:"system_info"`
	Used        bool     `json:"used"`
	Banned      bool     `json:"banned"`
	LastLoginAt *string  `json:"last_login_at,omitempty"`
	Version     uint     `json:"version,omitempty"`
}

type GrantRecord struct {
	GrantedBy string `json:"granted_by"`
	GrantedAt string `json:"granted_at"`
}

func newDocument() *Document {
	return &Document{
		Admins:       []string{},
		Supports:     []string{},
		Applications: []ApplicationRecord{},
		Keys:         []KeyRecord{},
	}
}

// normalize fills nil collections left by older or hand-edited files.
func (d *Document) normalize() {
	if d.Admins == nil {
		d.Admins = []string{}
	}
	if d.Supports == nil {
		d.Supports = []string{}
	}
	if d.Applications == nil {
		d.Applications = []ApplicationRecord{}
	}
	if d.Keys == nil {
		d.Keys = []KeyRecord{}
	}
}

// clone copies every collection. Records are replaced, never edited in
// place, so element slices can be shared.
func (d *Document) clone() *Document {
	return &Document{
		Admins:       slices.Clone(d.Admins),
		Supports:     slices.Clone(d.Supports),
		Applications: slices.Clone(d.Applications),
		Keys:         slices.Clone(d.Keys),
		Grants:       maps.Clone(d.Grants),
	}
}

func (d *Document) keyIndex(key string) int {
	return slices.IndexFunc(d.Keys, func(r KeyRecord) bool { return r.Key == key })
}
