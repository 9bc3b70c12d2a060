package works

import (
	"errors"
	"strings"

	"artist-portfolio/internal/patch"
)

var ErrEmptyTitle = errors.New("titre cannot be empty")

// Patch is a partial update of a work. The type of a work is not patchable.
type Patch struct {
	Titre       patch.Field[string] `json:"titre"`
	Description patch.Field[string] `json:"description"`
	Prix        patch.Field[string] `json:"prix"`
	Image       patch.Field[string] `json:"image"`
	Date        patch.Field[Date]   `json:"date"`
	DateDebut   patch.Field[Date]   `json:"date_debut"`
	DateFin     patch.Field[Date]   `json:"date_fin"`
	Lieu        patch.Field[string] `json:"lieu"`
	Adresse     patch.Field[string] `json:"adresse"`

	IsSold       patch.Field[bool] `json:"is_sold"`
	IsFeatured   patch.Field[bool] `json:"is_featured"`
	DisplayOrder patch.Field[int]  `json:"display_order"`
}

func (p Patch) Validate() error {
	if p.Titre.Set && (!p.Titre.Valid || strings.TrimSpace(p.Titre.Value) == "") {
		return ErrEmptyTitle
	}
	return nil
}

// Updates returns the column assignments for the supplied fields only.
func (p Patch) Updates() patch.Updates {
	u := patch.Updates{}
	patch.Value(u, "titre", p.Titre)
	patch.Text(u, "description", p.Description)
	patch.Text(u, "prix", p.Prix)
	patch.Text(u, "image", p.Image)
	patch.Nullable(u, "date", p.Date)
	patch.Nullable(u, "date_debut", p.DateDebut)
	patch.Nullable(u, "date_fin", p.DateFin)
	patch.Text(u, "lieu", p.Lieu)
	patch.Text(u, "adresse", p.Adresse)
	patch.Value(u, "is_sold", p.IsSold)
	patch.Value(u, "is_featured", p.IsFeatured)
	patch.Value(u, "display_order", p.DisplayOrder)
	return u
}
