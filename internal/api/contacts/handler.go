package contactsapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"artist-portfolio/internal/api/respond"
	"artist-portfolio/internal/domain/contacts"
	"artist-portfolio/internal/domain/outbox"
	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/mail"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errUnknownWork = errors.New("work_id does not reference an existing work")

type Handler struct {
	db       *gorm.DB
	composer mail.Composer
	sender   mail.Sender
	log      *zap.Logger
}

func NewHandler(db *gorm.DB, composer mail.Composer, sender mail.Sender, log *zap.Logger) *Handler {
	return &Handler{db: db, composer: composer, sender: sender, log: log}
}

// POST /api/contacts
//
// The contact and its two emails are committed together; delivery happens
// later through the outbox.
func (h *Handler) Create(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	ct := &contacts.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: req.Subject,
		Message: req.Message,
		WorkID:  req.WorkID,
	}
	if ct.Subject != nil && strings.TrimSpace(*ct.Subject) == "" {
		ct.Subject = nil
	}

	ctx := c.Request.Context()
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var work *works.Work
		if ct.WorkID != nil {
			w, err := works.NewStore(tx).Get(ctx, *ct.WorkID)
			if errors.Is(err, works.ErrNotFound) {
				return errUnknownWork
			}
			if err != nil {
				return err
			}
			work = w
		}

		if err := contacts.NewStore(tx).Create(ctx, ct); err != nil {
			return err
		}
		return h.enqueueEmails(ctx, tx, *ct, work)
	})
	if errors.Is(err, errUnknownWork) {
		respond.Error(c, http.StatusBadRequest, errUnknownWork.Error())
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "create contact", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent",
		"contact": ct,
	})
}

func (h *Handler) enqueueEmails(ctx context.Context, tx *gorm.DB, ct contacts.Contact, work *works.Work) error {
	var emails []*outbox.Email

	if h.composer.ArtistEmail != "" {
		m, err := h.composer.ContactNotification(ct, work)
		if err != nil {
			return err
		}
		emails = append(emails, newEmail(outbox.KindContactNotification, m, ct.ID))
	} else {
		h.log.Warn("no artist email configured, contact notification skipped", zap.Uint("contact_id", ct.ID))
	}

	m, err := h.composer.ContactConfirmation(ct, work)
	if err != nil {
		return err
	}
	emails = append(emails, newEmail(outbox.KindContactConfirmation, m, ct.ID))

	return outbox.NewStore(tx).Enqueue(ctx, time.Now(), emails...)
}

func newEmail(kind string, m mail.Message, contactID uint) *outbox.Email {
	return &outbox.Email{
		Kind:      kind,
		Recipient: m.To,
		Subject:   m.Subject,
		TextBody:  m.Text,
		HTMLBody:  m.HTML,
		ContactID: &contactID,
	}
}

// GET /api/contacts
func (h *Handler) List(c *gin.Context) {
	list, err := contacts.NewStore(h.db).List(c.Request.Context())
	if err != nil {
		respond.Internal(c, h.log, "list contacts", err)
		return
	}

	out := make([]ContactResponse, 0, len(list))
	for _, ct := range list {
		out = append(out, toContactResponse(ct))
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/contacts/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := respond.ParseID(c)
	if !ok {
		return
	}

	ct, err := contacts.NewStore(h.db).MarkRead(c.Request.Context(), id)
	if errors.Is(err, contacts.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "mark contact read", err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(*ct))
}

// POST /api/contacts/:id/reply
//
// Sent synchronously: the admin needs to know whether the reply left.
func (h *Handler) Reply(c *gin.Context) {
	id, ok := respond.ParseID(c)
	if !ok {
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	store := contacts.NewStore(h.db)

	ct, err := store.Get(ctx, id)
	if errors.Is(err, contacts.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "load contact", err)
		return
	}

	msg, err := h.composer.Reply(*ct, req.To, req.Subject, req.Message)
	if err != nil {
		respond.Internal(c, h.log, "render reply", err)
		return
	}

	if err := h.sender.Send(ctx, msg); err != nil {
		h.log.Error("reply not sent", zap.Uint("contact_id", id), zap.Error(err))
		switch {
		case errors.Is(err, mail.ErrAuth):
			respond.Error(c, http.StatusInternalServerError,
				"Email authentication failed: check EMAIL_USER and EMAIL_PASSWORD (Gmail requires an app password)")
		case errors.Is(err, mail.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "Email sending is not configured")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to send the reply")
		}
		return
	}

	updated, err := store.MarkRead(ctx, id)
	if err != nil {
		respond.Internal(c, h.log, "mark replied contact read", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reply sent",
		"contact": toContactResponse(*updated),
	})
}

// DELETE /api/contacts/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.ParseID(c)
	if !ok {
		return
	}

	err := contacts.NewStore(h.db).Delete(c.Request.Context(), id)
	if errors.Is(err, contacts.ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		respond.Internal(c, h.log, "delete contact", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
