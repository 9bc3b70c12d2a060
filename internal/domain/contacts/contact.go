package contacts

import (
	"time"

	"artist-portfolio/internal/domain/works"
)

// Contact is a message left through the public contact form, optionally
// about a specific work.
type Contact struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"type:varchar(255);not null" json:"name"`
	Email   string  `gorm:"type:varchar(255);not null" json:"email"`
	Subject *string `gorm:"type:varchar(255)" json:"subject"`
	Message string  `gorm:"type:text;not null" json:"message"`
	Read    bool    `gorm:"not null;default:false" json:"read"`

	WorkID *uint       `gorm:"index" json:"work_id"`
	Work   *works.Work `gorm:"constraint:OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Contact) TableName() string {
	return "contacts"
}
