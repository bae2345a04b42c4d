package api

import (
	"net/http"
	"strconv"

	"roundsmirror/internal/service"
	"roundsmirror/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type earningsRoutes struct {
	es service.EarningsServiceI
}

func NewEarningsRoutes(handler *gin.RouterGroup, es service.EarningsServiceI) {
	r := &earningsRoutes{es: es}
	h := handler.Group("/earnings")
	{
		h.GET("/:fid", r.GetUserEarnings)
	}
}

func (r *earningsRoutes) GetUserEarnings(c *gin.Context) {
	log := logger.Logger()

	fidParam := c.Param("fid")
	fid, err := strconv.ParseInt(fidParam, 10, 64)
	if err != nil {
		log.Error("failed to parse fid", zap.String("fid", fidParam), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fid"})
		return
	}

	user, err := r.es.Aggregate(c.Request.Context(), fid)
	if err != nil {
		log.Error("failed to aggregate earnings", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate earnings"})
		return
	}

	c.JSON(http.StatusOK, user)
}
