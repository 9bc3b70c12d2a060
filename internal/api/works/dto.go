package worksapi

import (
	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/patch"
)

type CreateWorkRequest struct {
	Type        string                  `json:"type" binding:"required,oneof=peintures croquis evenements"`
	Titre       string                  `json:"titre" binding:"required,max=255"`
	Description *string                 `json:"description"`
	Prix        *string                 `json:"prix"`
	Image       *string                 `json:"image"`
	Date        patch.Field[works.Date] `json:"date"`
	DateDebut   patch.Field[works.Date] `json:"date_debut"`
	DateFin     patch.Field[works.Date] `json:"date_fin"`
	Lieu        *string                 `json:"lieu"`
	Adresse     *string                 `json:"adresse"`

	IsSold       bool `json:"is_sold"`
	IsFeatured   bool `json:"is_featured"`
	DisplayOrder int  `json:"display_order"`
}

func (r CreateWorkRequest) toWork() *works.Work {
	return &works.Work{
		Type:         r.Type,
		Titre:        r.Titre,
		Description:  blankToNil(r.Description),
		Prix:         blankToNil(r.Prix),
		Image:        blankToNil(r.Image),
		Date:         dateOrNil(r.Date),
		DateDebut:    dateOrNil(r.DateDebut),
		DateFin:      dateOrNil(r.DateFin),
		Lieu:         blankToNil(r.Lieu),
		Adresse:      blankToNil(r.Adresse),
		IsSold:       r.IsSold,
		IsFeatured:   r.IsFeatured,
		DisplayOrder: r.DisplayOrder,
	}
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// dateOrNil maps an absent, null or "" date to NULL.
func dateOrNil(f patch.Field[works.Date]) *works.Date {
	if !f.Present() {
		return nil
	}
	d := f.Value
	return &d
}
