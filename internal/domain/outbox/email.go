package outbox

import "time"

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

const (
	KindContactNotification = "contact_notification"
	KindContactConfirmation = "contact_confirmation"
)

// Email is a message committed together with the write that caused it and
// delivered later by the dispatcher.
type Email struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Kind      string `gorm:"type:varchar(50);not null" json:"kind"`
	Recipient string `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject   string `gorm:"type:varchar(500);not null" json:"subject"`
	TextBody  string `gorm:"type:text;not null" json:"text_body"`
	HTMLBody  string `gorm:"column:html_body;type:text;not null" json:"html_body"`

	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_email_outbox_due,priority:1" json:"status"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	LastError     *string    `gorm:"type:text" json:"last_error"`
	NextAttemptAt time.Time  `gorm:"not null;index:idx_email_outbox_due,priority:2" json:"next_attempt_at"`
	SentAt        *time.Time `json:"sent_at"`

	ContactID *uint `gorm:"index" json:"contact_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Email) TableName() string {
	return "email_outbox"
}
