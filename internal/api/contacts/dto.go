package contactsapi

import "artist-portfolio/internal/domain/contacts"

type CreateContactRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Email   string  `json:"email" binding:"required,email,max=255"`
	Subject *string `json:"subject" binding:"omitempty,max=255"`
	Message string  `json:"message" binding:"required"`
	WorkID  *uint   `json:"work_id"`
}

type ReplyRequest struct {
	To      string `json:"to" binding:"omitempty,email"`
	Subject string `json:"subject" binding:"omitempty,max=500"`
	Message string `json:"message" binding:"required"`
}

// ContactResponse is a contact with the fields of the work it refers to.
type ContactResponse struct {
	contacts.Contact
	WorkTitre *string `json:"work_titre,omitempty"`
	WorkType  *string `json:"work_type,omitempty"`
	WorkPrix  *string `json:"work_prix,omitempty"`
	IsSold    *bool   `json:"is_sold,omitempty"`
}

func toContactResponse(c contacts.Contact) ContactResponse {
	out := ContactResponse{Contact: c}
	if w := c.Work; w != nil {
		out.WorkTitre = &w.Titre
		out.WorkType = &w.Type
		out.WorkPrix = w.Prix
		out.IsSold = &w.IsSold
	}
	return out
}
