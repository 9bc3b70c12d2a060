package works

import (
	"slices"
	"time"
)

// Categories of works. The type of a work is fixed at creation.
const (
	TypePeintures  = "peintures"
	TypeCroquis    = "croquis"
	TypeEvenements = "evenements"
)

// Types lists the categories in presentation order.
var Types = []string{TypePeintures, TypeCroquis, TypeEvenements}

func ValidType(t string) bool {
	return slices.Contains(Types, t)
}

type Work struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"type:varchar(50);not null;index;check:chk_works_type,type IN ('peintures','croquis','evenements')" json:"type"`

	Titre       string  `gorm:"type:varchar(255);not null" json:"titre"`
	Description *string `gorm:"type:text" json:"description"`
	Prix        *string `gorm:"type:varchar(50)" json:"prix"`
	Image       *string `gorm:"type:varchar(500)" json:"image"`

	Date      *Date `gorm:"type:date" json:"date"`
	DateDebut *Date `gorm:"type:date" json:"date_debut"`
	DateFin   *Date `gorm:"type:date" json:"date_fin"`

	Lieu    *string `gorm:"type:varchar(255)" json:"lieu"`
	Adresse *string `gorm:"type:varchar(500)" json:"adresse"`

	IsSold       bool `gorm:"not null;default:false" json:"is_sold"`
	IsFeatured   bool `gorm:"not null;default:false;index" json:"is_featured"`
	DisplayOrder int  `gorm:"not null;default:0;index" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Work) TableName() string {
	return "works"
}
