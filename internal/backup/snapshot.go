// Package backup dumps the content tables to a single JSON document and
// restores them.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"artist-portfolio/internal/domain/contacts"
	"artist-portfolio/internal/domain/site"
	"artist-portfolio/internal/domain/users"
	"artist-portfolio/internal/domain/works"
)

// Snapshot is the export document, keyed by table name.
type Snapshot struct {
	Works        []works.Work       `json:"works"`
	Users        []UserRecord       `json:"users"`
	Contacts     []contacts.Contact `json:"contacts"`
	ArtistInfo   []site.ArtistInfo  `json:"artist_info"`
	ContactInfo  []site.ContactInfo `json:"contact_info"`
	SiteSettings []site.Settings    `json:"site_settings"`
}

// UserRecord is a users row including its password hash, which the API
// model never serializes.
type UserRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Email        *string   `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

func (UserRecord) TableName() string {
	return users.User{}.TableName()
}

// Counts reports the number of rows per table.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"works":         len(s.Works),
		"users":         len(s.Users),
		"contacts":      len(s.Contacts),
		"artist_info":   len(s.ArtistInfo),
		"contact_info":  len(s.ContactInfo),
		"site_settings": len(s.SiteSettings),
	}
}

// Write encodes s as indented JSON.
func Write(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot. Unknown tables are ignored.
func Read(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
