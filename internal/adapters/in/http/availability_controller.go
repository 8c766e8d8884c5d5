package http

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/out/report"
	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/in"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/services/availability_service"
	"github.com/medbooking/ehr-schedule-reconciler/internal/utils"
)

type AvailabilityController struct {
	useCase in.AvailabilityUseCase
	cfg     *config.Config
}

func NewAvailabilityController(useCase in.AvailabilityUseCase, cfg *config.Config) *AvailabilityController {
	return &AvailabilityController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *AvailabilityController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.POST("/availability/generate", c.generateAvailability)
		api.GET("/availability/report/:runId/csv", c.downloadReportCsv)
	}
}

type GenerateAvailabilityRequest struct {
	StartDate   string   `json:"startDate" binding:"required"`
	EndDate     string   `json:"endDate" binding:"required"`
	ProviderIDs []string `json:"providerIds"`
}

func (c *AvailabilityController) generateAvailability(ctx *gin.Context) {
	var req GenerateAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format"})
		return
	}

	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format"})
		return
	}

	runReport, err := c.useCase.GenerateAvailability(ctx.Request.Context(), startDate, endDate, req.ProviderIDs)
	if err != nil {
		// Ошибка диапазона - вина клиента, все остальное - наша
		if errors.Is(err, availability_service.ErrInvalidDateRange) ||
			errors.Is(err, availability_service.ErrDateRangeTooLong) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, runReport)
}

func (c *AvailabilityController) downloadReportCsv(ctx *gin.Context) {
	runID, err := uuid.Parse(ctx.Param("runId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID format"})
		return
	}

	runReport, exists := c.useCase.GetRunReport(runID)
	if !exists {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Run report not found"})
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="slots_%s.csv"`, runID))
	if err := report.WriteSlotRows(ctx.Writer, runReport); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (c *AvailabilityController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
