package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/json_types"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/in"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/availability-booking-engine/internal/core/services/availability_service"
)

var _ in.AvailabilityUseCase = (*availability_service.Store)(nil)

type AvailabilityController struct {
	useCase in.AvailabilityUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewAvailabilityController(useCase in.AvailabilityUseCase, cfg *config.Config, logger out.LoggerPort) *AvailabilityController {
	return &AvailabilityController{
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *AvailabilityController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/state", c.getState)
		api.GET("/metrics", c.getMetrics)

		slots := api.Group("/slots")
		slots.GET("/upcoming", c.listUpcoming)
		slots.GET("/past", c.listPast)
		slots.GET("/booked", c.listBooked)
		slots.GET("/available", c.listAvailable)
		slots.GET("/:id", c.getSlot)
		slots.POST("/load", c.loadSlots)
		slots.POST("/refresh", c.refreshSlots)
		slots.POST("/repartition", c.repartition)
		slots.POST("", c.createSlots)
		slots.POST("/from-selection", c.createFromSelection)
		slots.POST("/check-conflicts", c.checkConflicts)
		slots.PUT("/:id", c.updateSlot)
		slots.DELETE("/:id", c.deleteSlot)
		slots.POST("/:id/cancel", c.cancelSlot)

		bookings := api.Group("/bookings")
		bookings.POST("", c.bookSlot)
		bookings.POST("/:id/cancel", c.cancelBooking)

		calendar := api.Group("/calendar")
		calendar.GET("", c.getCalendar)
		calendar.POST("/refresh", c.refreshCalendar)
		calendar.POST("/selection/toggle", c.toggleSlot)
		calendar.DELETE("/selection", c.clearSelection)

		view := api.Group("/view")
		view.PUT("", c.setCurrentView)
		view.PUT("/selected-date", c.setSelectedDate)
		view.PUT("/calendar-month", c.setCalendarMonth)
		view.POST("/creating", c.startCreating)
		view.POST("/editing/:id", c.startEditing)
		view.DELETE("/editing", c.cancelEditing)
		view.PUT("/error", c.setError)
		view.DELETE("/error", c.clearError)
	}
}

// respondError переводит ошибку сервиса в HTTP-ответ
func (c *AvailabilityController) respondError(ctx *gin.Context, err error) {
	if validationErrors, ok := domain.AsValidationErrors(err); ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            "Validation failed",
			"validationErrors": validationErrors,
		})
		return
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Code
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		ctx.JSON(status, gin.H{"error": apiErr.Message})
		return
	}

	c.logger.Error("http.request.failed", out.LogFields{
		"path":  ctx.FullPath(),
		"error": err.Error(),
	})
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id format"})
		return 0, false
	}
	return id, true
}

func pageParams(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.Query("page"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	return page, limit
}

func (c *AvailabilityController) listPage(ctx *gin.Context, slots []domain.AvailabilitySlot) {
	page, limit := pageParams(ctx)
	data, pagination := availability_service.Paginate(slots, page, limit)
	ctx.JSON(http.StatusOK, gin.H{
		"data":       data,
		"pagination": pagination,
	})
}

func (c *AvailabilityController) getState(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) getMetrics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.useCase.Metrics())
}

func (c *AvailabilityController) listUpcoming(ctx *gin.Context) {
	c.listPage(ctx, c.useCase.UpcomingSlots())
}

func (c *AvailabilityController) listPast(ctx *gin.Context) {
	c.listPage(ctx, c.useCase.PastSlots())
}

func (c *AvailabilityController) listBooked(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"data": c.useCase.BookedSlots()})
}

func (c *AvailabilityController) listAvailable(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"data": c.useCase.AvailableSlots()})
}

func (c *AvailabilityController) getSlot(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	slot, found := c.useCase.SlotByID(id)
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Availability slot not found"})
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

// listParams читает фильтры загрузки из query: startDate, endDate, status, dateType, page, limit
func listParams(ctx *gin.Context) (domain.ListAvailabilityParams, error) {
	params := domain.ListAvailabilityParams{}

	if raw := ctx.Query("startDate"); raw != "" {
		date, err := json_types.ParseDate(raw)
		if err != nil {
			return params, domain.ValidationErrors{"startDate": "Invalid date format"}
		}
		params.StartDate = &date
	}
	if raw := ctx.Query("endDate"); raw != "" {
		date, err := json_types.ParseDate(raw)
		if err != nil {
			return params, domain.ValidationErrors{"endDate": "Invalid date format"}
		}
		params.EndDate = &date
	}
	for _, status := range ctx.QueryArray("status") {
		params.Status = append(params.Status, domain.AvailabilityStatus(status))
	}
	for _, dateType := range ctx.QueryArray("dateType") {
		params.DateType = append(params.DateType, domain.DateType(dateType))
	}
	params.Page, params.Limit = pageParams(ctx)

	return params, nil
}

func (c *AvailabilityController) loadSlots(ctx *gin.Context) {
	params, err := listParams(ctx)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	force := ctx.Query("force") == "true"
	if err := c.useCase.Load(ctx.Request.Context(), params, force); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) refreshSlots(ctx *gin.Context) {
	if err := c.useCase.RefreshBookingData(ctx.Request.Context()); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) repartition(ctx *gin.Context) {
	c.useCase.Repartition()
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

type createSlotsRequest struct {
	Slots []domain.CreateAvailabilityRequest `json:"slots"`
}

func (c *AvailabilityController) createSlots(ctx *gin.Context) {
	var req createSlotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.useCase.Create(ctx.Request.Context(), req.Slots)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

func (c *AvailabilityController) createFromSelection(ctx *gin.Context) {
	var opts domain.CreateOptions
	if err := ctx.ShouldBindJSON(&opts); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.useCase.CreateFromSelection(ctx.Request.Context(), opts)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

func (c *AvailabilityController) checkConflicts(ctx *gin.Context) {
	var req domain.ConflictCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.useCase.CheckConflicts(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (c *AvailabilityController) updateSlot(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var patch domain.UpdateAvailabilityRequest
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := c.useCase.Update(ctx.Request.Context(), id, patch)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

func (c *AvailabilityController) deleteSlot(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.useCase.Delete(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, domain.DeleteAvailabilityResponse{DeletedID: id})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// bindReason допускает пустое тело запроса
func bindReason(ctx *gin.Context) (string, bool) {
	var req reasonRequest
	if ctx.Request.ContentLength == 0 {
		return "", true
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return req.Reason, true
}

func (c *AvailabilityController) cancelSlot(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	reason, ok := bindReason(ctx)
	if !ok {
		return
	}

	slot, err := c.useCase.CancelSlot(ctx.Request.Context(), id, reason)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

func (c *AvailabilityController) bookSlot(ctx *gin.Context) {
	var req domain.BookSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := c.useCase.BookSlot(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, booking)
}

func (c *AvailabilityController) cancelBooking(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	reason, ok := bindReason(ctx)
	if !ok {
		return
	}

	cancelled, err := c.useCase.CancelBooking(ctx.Request.Context(), id, reason)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, domain.CancelResponse{Cancelled: cancelled})
}

func (c *AvailabilityController) getCalendar(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"days":          c.useCase.AvailableDays(),
		"selectedCount": c.useCase.SelectedCount(),
	})
}

func (c *AvailabilityController) refreshCalendar(ctx *gin.Context) {
	c.useCase.RefreshCalendar()
	ctx.JSON(http.StatusOK, gin.H{"days": c.useCase.AvailableDays()})
}

type toggleSlotRequest struct {
	Date      json_types.Date `json:"date"`
	StartTime json_types.Time `json:"startTime"`
}

func (c *AvailabilityController) toggleSlot(ctx *gin.Context) {
	var req toggleSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Выбрать можно только ячейку из шаблона текущего календарного окна
	for _, day := range c.useCase.AvailableDays() {
		if !day.Date.Equal(req.Date) {
			continue
		}
		for _, slot := range day.TimeSlots {
			if !slot.StartTime.Equal(req.StartTime) {
				continue
			}
			selected := c.useCase.ToggleSlot(day.Date, slot)
			ctx.JSON(http.StatusOK, gin.H{
				"selected":      selected,
				"selectedCount": c.useCase.SelectedCount(),
				"canAddMore":    c.useCase.CanAddMore(day.Date),
			})
			return
		}
	}

	ctx.JSON(http.StatusNotFound, gin.H{"error": "Time slot is not in the calendar window"})
}

func (c *AvailabilityController) clearSelection(ctx *gin.Context) {
	c.useCase.ClearSelection()
	ctx.Status(http.StatusNoContent)
}

type viewRequest struct {
	CurrentView domain.View `json:"currentView"`
}

func (c *AvailabilityController) setCurrentView(ctx *gin.Context) {
	var req viewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.useCase.SetCurrentView(ctx.Request.Context(), req.CurrentView); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

type selectedDateRequest struct {
	Date *json_types.Date `json:"date"`
}

func (c *AvailabilityController) setSelectedDate(ctx *gin.Context) {
	var req selectedDateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Date != nil && req.Date.IsZero() {
		req.Date = nil
	}
	c.useCase.SetSelectedDate(req.Date)
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

type calendarMonthRequest struct {
	CalendarMonth string `json:"calendarMonth"`
}

func (c *AvailabilityController) setCalendarMonth(ctx *gin.Context) {
	var req calendarMonthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.useCase.SetCalendarMonth(ctx.Request.Context(), req.CalendarMonth); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) startCreating(ctx *gin.Context) {
	if err := c.useCase.StartCreating(ctx.Request.Context()); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) startEditing(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.useCase.StartEditing(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) cancelEditing(ctx *gin.Context) {
	c.useCase.CancelEditing()
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

type errorRequest struct {
	Message string `json:"message"`
}

func (c *AvailabilityController) setError(ctx *gin.Context) {
	var req errorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.useCase.SetError(req.Message)
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) clearError(ctx *gin.Context) {
	c.useCase.ClearError()
	ctx.JSON(http.StatusOK, c.useCase.Snapshot())
}

func (c *AvailabilityController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth || !c.isKnownClient(username, password) {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}

func (c *AvailabilityController) isKnownClient(username, password string) bool {
	for _, client := range c.cfg.Auth.BasicClients {
		if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
			return true
		}
	}
	return false
}
