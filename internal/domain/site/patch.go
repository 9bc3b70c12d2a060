package site

import "artist-portfolio/internal/patch"

// Patches only overwrite the fields that carry a value; absent and null
// keys keep what is stored.

type ArtistPatch struct {
	Photo      patch.Field[string] `json:"photo"`
	Biographie patch.Field[string] `json:"biographie"`
}

func (p ArtistPatch) apply(a *ArtistInfo) {
	patch.Assign(&a.Photo, p.Photo)
	patch.Assign(&a.Biographie, p.Biographie)
}

type ContactInfoPatch struct {
	Email         patch.Field[string] `json:"email"`
	Phone         patch.Field[string] `json:"phone"`
	FacebookName  patch.Field[string] `json:"facebook_name"`
	FacebookURL   patch.Field[string] `json:"facebook_url"`
	InstagramName patch.Field[string] `json:"instagram_name"`
	InstagramURL  patch.Field[string] `json:"instagram_url"`
	WebsiteName   patch.Field[string] `json:"website_name"`
	WebsiteURL    patch.Field[string] `json:"website_url"`
}

func (p ContactInfoPatch) apply(c *ContactInfo) {
	patch.Assign(&c.Email, p.Email)
	patch.Assign(&c.Phone, p.Phone)
	patch.Assign(&c.FacebookName, p.FacebookName)
	patch.Assign(&c.FacebookURL, p.FacebookURL)
	patch.Assign(&c.InstagramName, p.InstagramName)
	patch.Assign(&c.InstagramURL, p.InstagramURL)
	patch.Assign(&c.WebsiteName, p.WebsiteName)
	patch.Assign(&c.WebsiteURL, p.WebsiteURL)
}

type SettingsPatch struct {
	HeroImage patch.Field[string] `json:"hero_image"`
}

func (p SettingsPatch) apply(s *Settings) {
	patch.Assign(&s.HeroImage, p.HeroImage)
}
