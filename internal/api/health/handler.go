package healthapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{db: db, log: log}
}

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "API running"})
}

// GET /api/test-db
func (h *Handler) TestDB(c *gin.Context) {
	var now string
	err := h.db.WithContext(c.Request.Context()).Raw("SELECT CURRENT_TIMESTAMP").Row().Scan(&now)
	if err != nil {
		h.log.Error("database check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "database": "connected", "time": now})
}
