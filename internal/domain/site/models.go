package site

import "time"

// SingletonID is the primary key of the only row of each settings table.
const SingletonID uint = 1

const (
	DefaultArtistPhoto = "/images/accueil.jpg"
	DefaultHeroImage   = "/images/peintures/2025-2-le-cours.jpg"
)

type ArtistInfo struct {
	ID         uint      `gorm:"primaryKey;autoIncrement:false;check:chk_artist_info_singleton,id = 1" json:"id"`
	Photo      string    `gorm:"type:varchar(500);not null;default:''" json:"photo"`
	Biographie string    `gorm:"type:text;not null;default:''" json:"biographie"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ArtistInfo) TableName() string { return "artist_info" }

func DefaultArtistInfo() ArtistInfo {
	return ArtistInfo{ID: SingletonID, Photo: DefaultArtistPhoto}
}

type ContactInfo struct {
	ID            uint      `gorm:"primaryKey;autoIncrement:false;check:chk_contact_info_singleton,id = 1" json:"id"`
	Email         string    `gorm:"type:varchar(255);not null;default:''" json:"email"`
	Phone         string    `gorm:"type:varchar(50);not null;default:''" json:"phone"`
	FacebookName  string    `gorm:"type:varchar(255);not null;default:''" json:"facebook_name"`
	FacebookURL   string    `gorm:"column:facebook_url;type:varchar(500);not null;default:''" json:"facebook_url"`
	InstagramName string    `gorm:"type:varchar(255);not null;default:''" json:"instagram_name"`
	InstagramURL  string    `gorm:"column:instagram_url;type:varchar(500);not null;default:''" json:"instagram_url"`
	WebsiteName   string    `gorm:"type:varchar(255);not null;default:''" json:"website_name"`
	WebsiteURL    string    `gorm:"column:website_url;type:varchar(500);not null;default:''" json:"website_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ContactInfo) TableName() string { return "contact_info" }

func DefaultContactInfo() ContactInfo {
	return ContactInfo{ID: SingletonID}
}

type Settings struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false;check:chk_site_settings_singleton,id = 1" json:"id"`
	HeroImage string    `gorm:"type:varchar(500);not null;default:''" json:"hero_image"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Settings) TableName() string { return "site_settings" }

func DefaultSettings() Settings {
	return Settings{ID: SingletonID, HeroImage: DefaultHeroImage}
}

func (a *ArtistInfo) stamp(now time.Time)  { a.ID, a.UpdatedAt = SingletonID, now }
func (c *ContactInfo) stamp(now time.Time) { c.ID, c.UpdatedAt = SingletonID, now }
func (s *Settings) stamp(now time.Time)    { s.ID, s.UpdatedAt = SingletonID, now }
