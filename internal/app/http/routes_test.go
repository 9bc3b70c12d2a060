package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artist-portfolio/database"
	"artist-portfolio/internal/domain/contacts"
	"artist-portfolio/internal/domain/outbox"
	"artist-portfolio/internal/domain/site"
	"artist-portfolio/internal/domain/users"
	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/mail"
	"artist-portfolio/internal/mail/mailtest"
	"artist-portfolio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const adminPassword = "correct horse"

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
	mail   *mailtest.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	db := testutil.OpenDB(t, database.Models()...)
	require.NoError(t, site.NewStore(db).EnsureDefaults(ctx))
	_, err := users.NewStore(db).EnsureAdmin(ctx, "admin", adminPassword, "", zap.NewNop())
	require.NoError(t, err)

	rec := &mailtest.Recorder{}
	r := NewRouter(Deps{
		DB:         db,
		Log:        zap.NewNop(),
		Sender:     rec,
		Composer:   mail.Composer{ArtistName: "Anne", ArtistEmail: "artist@example.com"},
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		CORSOrigin: "http://localhost:5173",
	})
	return &testServer{db: db, router: r, mail: rec}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	decode(t, w, &res)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res struct {
		Error string `json:"error"`
	}
	decode(t, w, &res)
	return res.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(t, http.MethodGet, "/api/test-db", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"connected"`)
}

func TestTestDBUnreachable(t *testing.T) {
	s := newTestServer(t)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := s.do(t, http.MethodGet, "/api/test-db", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ERROR"`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", errorOf(t, w))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "ghost", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password is required", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	var res struct {
		Token string     `json:"token"`
		User  users.User `json:"user"`
	}
	decode(t, w, &res)
	assert.Equal(t, "admin", res.User.Username)

	w = s.do(t, http.MethodGet, "/api/auth/verify", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/verify", nil, res.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"valid":true,"user":{"id":%d,"username":"admin"}}`, res.User.ID), w.Body.String())
}

func TestWorksCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	painting := gin.H{"type": "peintures", "titre": "Le cours", "prix": "1200 €", "description": "Huile", "date": "2025-02-01"}

	w := s.do(t, http.MethodPost, "/api/works", painting, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/works", gin.H{"type": "peintures"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "titre is required", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/works", gin.H{"type": "sculptures", "titre": "X"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type must be one of: peintures croquis evenements", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/works", `{"type":`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/works", painting, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created works.Work
	decode(t, w, &created)
	require.NotZero(t, created.ID)
	assert.Contains(t, w.Body.String(), `"date":"2025-02-01"`)

	w = s.do(t, http.MethodPost, "/api/works", gin.H{"type": "croquis", "titre": "Esquisse", "is_featured": true}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("list and filter", func(t *testing.T) {
		var list []works.Work
		decode(t, s.do(t, http.MethodGet, "/api/works", nil, ""), &list)
		assert.Len(t, list, 2)

		decode(t, s.do(t, http.MethodGet, "/api/works?type=peintures", nil, ""), &list)
		require.Len(t, list, 1)
		assert.Equal(t, "Le cours", list[0].Titre)

		decode(t, s.do(t, http.MethodGet, "/api/works?featured=true", nil, ""), &list)
		require.Len(t, list, 1)
		assert.Equal(t, "Esquisse", list[0].Titre)

		w := s.do(t, http.MethodGet, "/api/works?type=sculptures", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = s.do(t, http.MethodGet, "/api/works?featured=maybe", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := s.do(t, http.MethodGet, fmt.Sprintf("/api/works/%d", created.ID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodGet, "/api/works/9999", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Work not found", errorOf(t, w))

		w = s.do(t, http.MethodGet, "/api/works/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partial update", func(t *testing.T) {
		path := fmt.Sprintf("/api/works/%d", created.ID)
		w := s.do(t, http.MethodPut, path, `{"prix":"900 €","description":null,"is_sold":true,"type":"croquis"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got works.Work
		decode(t, w, &got)
		assert.Equal(t, "Le cours", got.Titre)
		assert.Equal(t, works.TypePeintures, got.Type)
		require.NotNil(t, got.Prix)
		assert.Equal(t, "900 €", *got.Prix)
		assert.Nil(t, got.Description)
		assert.True(t, got.IsSold)
		require.NotNil(t, got.Date)
		assert.Equal(t, "2025-02-01", got.Date.String())

		w = s.do(t, http.MethodPut, path, `{"date":""}`, token)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &got)
		assert.Nil(t, got.Date)

		w = s.do(t, http.MethodPut, path, `{"titre":""}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPut, "/api/works/9999", `{"titre":"X"}`, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/works/%d", created.ID)
		w := s.do(t, http.MethodDelete, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(t, http.MethodDelete, path, nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Work deleted"}`, w.Body.String())

		w = s.do(t, http.MethodDelete, path, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateWorkFromAdminForm(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	// Empty inputs of the admin form arrive as "".
	form := `{"type":"peintures","titre":"Nouvelle","description":"","prix":"","image":"",` +
		`"date":"","date_debut":"","date_fin":"","lieu":"","is_sold":false,"is_featured":false}`
	w := s.do(t, http.MethodPost, "/api/works", form, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got works.Work
	decode(t, w, &got)
	assert.Equal(t, "Nouvelle", got.Titre)
	assert.Nil(t, got.Date)
	assert.Nil(t, got.DateDebut)
	assert.Nil(t, got.DateFin)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Prix)

	event := `{"type":"evenements","titre":"Vernissage","date":"","date_debut":"2025-06-01","date_fin":null}`
	w = s.do(t, http.MethodPost, "/api/works", event, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ev works.Work
	decode(t, w, &ev)
	assert.Nil(t, ev.Date)
	require.NotNil(t, ev.DateDebut)
	assert.Equal(t, "2025-06-01", ev.DateDebut.String())
	assert.Nil(t, ev.DateFin)

	w = s.do(t, http.MethodPost, "/api/works", `{"type":"croquis","titre":"X","date":"demain"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactCreateEnqueuesEmails(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	w := &works.Work{Type: works.TypePeintures, Titre: "Le cours"}
	require.NoError(t, works.NewStore(s.db).Create(ctx, w))

	res := s.do(t, http.MethodPost, "/api/contacts", gin.H{
		"name": "Bob", "email": "not-an-email", "message": "Hello",
	}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "email must be a valid email address", errorOf(t, res))

	res = s.do(t, http.MethodPost, "/api/contacts", gin.H{
		"name": "Bob", "email": "bob@example.com", "message": "Hello", "work_id": 9999,
	}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	var count int64
	require.NoError(t, s.db.Model(&contacts.Contact{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, s.db.Model(&outbox.Email{}).Count(&count).Error)
	assert.Zero(t, count, "rejected contact must not enqueue mail")

	res = s.do(t, http.MethodPost, "/api/contacts", gin.H{
		"name":    "<b>Bob</b>",
		"email":   "bob@example.com",
		"subject": "Achat",
		"message": "Is it still available?",
		"work_id": w.ID,
	}, "")
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var body struct {
		Message string           `json:"message"`
		Contact contacts.Contact `json:"contact"`
	}
	decode(t, res, &body)
	assert.Equal(t, "Bob", body.Contact.Name)
	require.NotNil(t, body.Contact.WorkID)
	assert.Equal(t, w.ID, *body.Contact.WorkID)

	var emails []outbox.Email
	require.NoError(t, s.db.Order("id").Find(&emails).Error)
	require.Len(t, emails, 2)
	assert.Equal(t, outbox.KindContactNotification, emails[0].Kind)
	assert.Equal(t, "artist@example.com", emails[0].Recipient)
	assert.Contains(t, emails[0].Subject, "Le cours")
	assert.Equal(t, outbox.KindContactConfirmation, emails[1].Kind)
	assert.Equal(t, "bob@example.com", emails[1].Recipient)
	for _, e := range emails {
		assert.Equal(t, outbox.StatusPending, e.Status)
		require.NotNil(t, e.ContactID)
		assert.Equal(t, body.Contact.ID, *e.ContactID)
	}
	assert.Zero(t, s.mail.Len(), "contact creation never sends inline")
}

func TestContactAdmin(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	ctx := context.Background()

	w := &works.Work{Type: works.TypePeintures, Titre: "Le cours", Prix: strp("1200 €")}
	require.NoError(t, works.NewStore(s.db).Create(ctx, w))
	ct := &contacts.Contact{Name: "Bob", Email: "bob@example.com", Subject: strp("Achat"), Message: "Hello", WorkID: &w.ID}
	require.NoError(t, contacts.NewStore(s.db).Create(ctx, ct))
	path := fmt.Sprintf("/api/contacts/%d", ct.ID)

	t.Run("list", func(t *testing.T) {
		res := s.do(t, http.MethodGet, "/api/contacts", nil, "")
		assert.Equal(t, http.StatusUnauthorized, res.Code)

		res = s.do(t, http.MethodGet, "/api/contacts", nil, token)
		require.Equal(t, http.StatusOK, res.Code)
		var list []map[string]any
		decode(t, res, &list)
		require.Len(t, list, 1)
		assert.Equal(t, "Le cours", list[0]["work_titre"])
		assert.Equal(t, "1200 €", list[0]["work_prix"])
		assert.Equal(t, false, list[0]["is_sold"])
	})

	t.Run("reply with rejected credentials", func(t *testing.T) {
		s.mail.Fail = func(mail.Message) error { return fmt.Errorf("smtp: %w", mail.ErrAuth) }
		defer func() { s.mail.Fail = nil }()

		res := s.do(t, http.MethodPost, path+"/reply", gin.H{"message": "Yes"}, token)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Contains(t, errorOf(t, res), "Email authentication failed")

		got, err := contacts.NewStore(s.db).Get(ctx, ct.ID)
		require.NoError(t, err)
		assert.False(t, got.Read)
	})

	t.Run("reply with other failure", func(t *testing.T) {
		s.mail.Fail = func(mail.Message) error { return errors.New("connection reset") }
		defer func() { s.mail.Fail = nil }()

		res := s.do(t, http.MethodPost, path+"/reply", gin.H{"message": "Yes"}, token)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Equal(t, "Failed to send the reply", errorOf(t, res))
	})

	t.Run("reply", func(t *testing.T) {
		res := s.do(t, http.MethodPost, path+"/reply", gin.H{}, token)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		res = s.do(t, http.MethodPost, path+"/reply", gin.H{"message": "Yes, it is."}, token)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		sent := s.mail.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "bob@example.com", sent[0].To)
		assert.Equal(t, "Re: Achat", sent[0].Subject)
		assert.Contains(t, sent[0].Text, "Yes, it is.")

		got, err := contacts.NewStore(s.db).Get(ctx, ct.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)

		res = s.do(t, http.MethodPost, "/api/contacts/9999/reply", gin.H{"message": "x"}, token)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("mark read and delete", func(t *testing.T) {
		res := s.do(t, http.MethodPut, path+"/read", nil, token)
		assert.Equal(t, http.StatusOK, res.Code)
		res = s.do(t, http.MethodPut, "/api/contacts/9999/read", nil, token)
		assert.Equal(t, http.StatusNotFound, res.Code)

		res = s.do(t, http.MethodDelete, path, nil, token)
		assert.Equal(t, http.StatusOK, res.Code)
		res = s.do(t, http.MethodDelete, path, nil, token)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestSiteSingletons(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	var artist site.ArtistInfo
	decode(t, s.do(t, http.MethodGet, "/api/artist", nil, ""), &artist)
	assert.Equal(t, site.DefaultArtistPhoto, artist.Photo)

	res := s.do(t, http.MethodPut, "/api/artist", gin.H{"biographie": "Peintre"}, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(t, http.MethodPut, "/api/artist", gin.H{"biographie": "Peintre"}, token)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var updated struct {
		Message    string          `json:"message"`
		ArtistInfo site.ArtistInfo `json:"artistInfo"`
	}
	decode(t, res, &updated)
	assert.Equal(t, "Peintre", updated.ArtistInfo.Biographie)
	assert.Equal(t, site.DefaultArtistPhoto, updated.ArtistInfo.Photo, "absent keys keep their value")

	res = s.do(t, http.MethodPut, "/api/contact-info", gin.H{"phone": "06 00 00 00 00"}, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"contactInfo"`)
	var info site.ContactInfo
	decode(t, s.do(t, http.MethodGet, "/api/contact-info", nil, ""), &info)
	assert.Equal(t, "06 00 00 00 00", info.Phone)

	res = s.do(t, http.MethodPut, "/api/site-settings", gin.H{"hero_image": "/images/hero.jpg"}, token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"settings"`)
	var settings site.Settings
	decode(t, s.do(t, http.MethodGet, "/api/site-settings", nil, ""), &settings)
	assert.Equal(t, "/images/hero.jpg", settings.HeroImage)
	assert.Equal(t, site.SingletonID, settings.ID)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/works", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func strp(s string) *string { return &s }
