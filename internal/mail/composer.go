package mail

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"artist-portfolio/internal/domain/contacts"
	"artist-portfolio/internal/domain/works"
)

// Composer renders the site's emails. ArtistEmail receives notifications.
type Composer struct {
	ArtistName  string
	ArtistEmail string
}

type inquiryView struct {
	Artist  string
	Name    string
	Email   string
	Subject string
	Message string
	Work    *workView
}

type workView struct {
	Titre string
	Type  string
	Prix  string
}

type replyView struct {
	Artist          string
	Name            string
	Message         string
	OriginalSubject string
	OriginalMessage string
}

var typeLabels = map[string]string{
	works.TypePeintures:  "Peinture",
	works.TypeCroquis:    "Croquis",
	works.TypeEvenements: "Événement",
}

func (c Composer) inquiry(ct contacts.Contact, w *works.Work) inquiryView {
	v := inquiryView{
		Artist:  c.ArtistName,
		Name:    ct.Name,
		Email:   ct.Email,
		Message: ct.Message,
	}
	if w != nil {
		v.Work = &workView{Titre: w.Titre, Type: typeLabels[w.Type]}
		if w.Prix != nil {
			v.Work.Prix = *w.Prix
		}
	}
	switch {
	case ct.Subject != nil && *ct.Subject != "":
		v.Subject = *ct.Subject
	case w != nil:
		v.Subject = "Intérêt pour : " + w.Titre
	default:
		v.Subject = "Aucun sujet"
	}
	return v
}

// ContactNotification tells the artist about a new message. w is the work the
// visitor asked about, if any.
func (c Composer) ContactNotification(ct contacts.Contact, w *works.Work) (Message, error) {
	v := c.inquiry(ct, w)
	subject := "Nouveau contact : Sans sujet"
	switch {
	case w != nil:
		subject = "Nouvelle demande pour l'œuvre : " + w.Titre
	case ct.Subject != nil && *ct.Subject != "":
		subject = "Nouveau contact : " + *ct.Subject
	}
	return c.render(c.ArtistEmail, subject, notificationText, notificationHTML, v)
}

// ContactConfirmation acknowledges receipt to the visitor.
func (c Composer) ContactConfirmation(ct contacts.Contact, w *works.Work) (Message, error) {
	v := c.inquiry(ct, w)
	subject := "Message reçu - " + c.ArtistName
	if w != nil {
		subject = "Demande reçue pour " + w.Titre + " - " + c.ArtistName
	}
	return c.render(ct.Email, subject, confirmationText, confirmationHTML, v)
}

// Reply renders the artist's answer to a contact, quoting the original message.
func (c Composer) Reply(ct contacts.Contact, to, subject, body string) (Message, error) {
	orig := "Sans sujet"
	if ct.Subject != nil && *ct.Subject != "" {
		orig = *ct.Subject
	}
	if to == "" {
		to = ct.Email
	}
	if subject == "" {
		subject = "Re: " + orig
	}
	v := replyView{
		Artist:          c.ArtistName,
		Name:            ct.Name,
		Message:         body,
		OriginalSubject: orig,
		OriginalMessage: ct.Message,
	}
	return c.render(to, subject, replyText, replyHTML, v)
}

func (c Composer) render(to, subject string, text *texttemplate.Template, html *htmltemplate.Template, data any) (Message, error) {
	var tb, hb strings.Builder
	if err := text.Execute(&tb, data); err != nil {
		return Message{}, err
	}
	if err := html.Execute(&hb, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, Text: tb.String(), HTML: hb.String()}, nil
}

func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

var htmlFuncs = htmltemplate.FuncMap{"lines": lines}

var notificationText = texttemplate.Must(texttemplate.New("notification").Parse(
	`Nouveau message de contact
{{with .Work}}Œuvre concernée : {{.Titre}} ({{.Type}}{{if .Prix}}, {{.Prix}}€{{end}})
{{end}}Nom : {{.Name}}
Email : {{.Email}}
Sujet : {{.Subject}}

{{.Message}}
`))

var notificationHTML = htmltemplate.Must(htmltemplate.New("notification").Funcs(htmlFuncs).Parse(
	`<h2>Nouveau message de contact</h2>
{{with .Work}}<h3>Œuvre concernée</h3>
<p><strong>Titre :</strong> {{.Titre}}</p>
<p><strong>Type :</strong> {{.Type}}</p>
{{if .Prix}}<p><strong>Prix :</strong> {{.Prix}}€</p>
{{end}}{{end}}<p><strong>Nom :</strong> {{.Name}}</p>
<p><strong>Email :</strong> {{.Email}}</p>
<p><strong>Sujet :</strong> {{.Subject}}</p>
<p>{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
`))

var confirmationText = texttemplate.Must(texttemplate.New("confirmation").Parse(
	`Bonjour {{.Name}},

{{with .Work}}Votre demande concernant l'œuvre "{{.Titre}}" a bien été transmise à {{$.Artist}}.
{{end}}Votre message a bien été reçu. {{.Artist}} vous répondra dans les plus brefs délais.

Cordialement,
{{.Artist}}
`))

var confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation").Parse(
	`<h2>Merci pour votre message</h2>
<p>Bonjour {{.Name}},</p>
{{with .Work}}<p>Votre demande concernant l'œuvre « <strong>{{.Titre}}</strong> » a bien été transmise à {{$.Artist}}.</p>
{{end}}<p>Votre message a bien été reçu. {{.Artist}} vous répondra dans les plus brefs délais.</p>
<p>Cordialement,<br>{{.Artist}}</p>
`))

var replyText = texttemplate.Must(texttemplate.New("reply").Parse(
	`Bonjour {{.Name}},

{{.Message}}

---
Votre message original :
{{.OriginalSubject}}
{{.OriginalMessage}}

Cordialement,
{{.Artist}}
`))

var replyHTML = htmltemplate.Must(htmltemplate.New("reply").Funcs(htmlFuncs).Parse(
	`<h2>Réponse à votre message</h2>
<p>Bonjour {{.Name}},</p>
<p>{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
<hr style="margin: 2rem 0; border: none; border-top: 1px solid #e5e5e5;">
<p style="color: #666; font-size: 0.9rem;">
<strong>Votre message original :</strong><br>
<em>{{.OriginalSubject}}</em><br><br>
{{range $i, $l := lines .OriginalMessage}}{{if $i}}<br>{{end}}{{$l}}{{end}}
</p>
<p style="margin-top: 2rem;">Cordialement,<br><strong>{{.Artist}}</strong></p>
`))
