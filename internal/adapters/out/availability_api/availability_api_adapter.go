package availability_api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

const requestIDHeader = "X-Request-Id"

// envelope - обёртка ответов API: {success, message, data}
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type AvailabilityAPIAdapter struct {
	client  *http.Client
	baseURL string
	token   string
	logger  out.LoggerPort
}

func NewAvailabilityAPIAdapter(cfg *config.Config, logger out.LoggerPort) *AvailabilityAPIAdapter {
	return &AvailabilityAPIAdapter{
		client:  &http.Client{Timeout: cfg.APITimeout()},
		baseURL: strings.TrimRight(cfg.AvailabilityAPI.URL, "/"),
		token:   cfg.AvailabilityAPI.Token,
		logger:  logger,
	}
}

// errorMessage достаёт сообщение из тела ошибки: {message}, {error: {message}} или {error: "..."}
func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	if len(env.Error) == 0 {
		return ""
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var plain string
	if err := json.Unmarshal(env.Error, &plain); err == nil {
		return plain
	}
	return ""
}

// unwrap возвращает содержимое data, если ответ завёрнут в envelope (есть поле success), иначе тело целиком
func unwrap(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return body
}

// do выполняет запрос и декодирует ответ в result. Любая ошибка приводится к *domain.APIError.
func (a *AvailabilityAPIAdapter) do(ctx context.Context, event, method, path string, query nurl.Values, payload interface{}, result interface{}) error {
	url := a.baseURL + path
	if len(query) > 0 {
		url += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			a.logger.Error(event+".encode_failed", out.LogFields{
				"error": err.Error(),
			})
			return domain.NewAPIError(http.StatusInternalServerError, err.Error())
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		a.logger.Error(event+".request_failed", out.LogFields{
			"error": err.Error(),
		})
		return domain.NewAPIError(http.StatusInternalServerError, err.Error())
	}

	requestID := uuid.New().String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	a.logger.Debug(event+".started", out.LogFields{
		"method":    method,
		"path":      path,
		"requestId": requestID,
	})

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(event+".failed", out.LogFields{
			"requestId": requestID,
			"error":     err.Error(),
		})
		return domain.NewAPIError(http.StatusInternalServerError, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error(event+".read_failed", out.LogFields{
			"requestId": requestID,
			"error":     err.Error(),
		})
		return domain.NewAPIError(http.StatusInternalServerError, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := domain.NewAPIError(resp.StatusCode, errorMessage(body))
		a.logger.Error(event+".failed", out.LogFields{
			"requestId": requestID,
			"status":    resp.StatusCode,
			"error":     apiErr.Message,
		})
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(unwrap(body), result); err != nil {
			a.logger.Error(event+".decode_failed", out.LogFields{
				"requestId": requestID,
				"error":     err.Error(),
			})
			return domain.NewAPIError(http.StatusInternalServerError, fmt.Sprintf("failed to decode response: %v", err))
		}
	}

	a.logger.Debug(event+".success", out.LogFields{
		"requestId": requestID,
		"status":    resp.StatusCode,
	})
	return nil
}

func listQuery(params domain.ListAvailabilityParams) nurl.Values {
	query := nurl.Values{}
	if params.StartDate != nil && !params.StartDate.IsZero() {
		query.Set("startDate", params.StartDate.String())
	}
	if params.EndDate != nil && !params.EndDate.IsZero() {
		query.Set("endDate", params.EndDate.String())
	}
	for _, status := range params.Status {
		query.Add("status", string(status))
	}
	for _, dateType := range params.DateType {
		query.Add("dateType", string(dateType))
	}
	query.Set("includeBookings", strconv.FormatBool(params.IncludeBookings))
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	return query
}

func (a *AvailabilityAPIAdapter) ListSlots(ctx context.Context, params domain.ListAvailabilityParams) (*domain.ListAvailabilityResponse, error) {
	var raw json.RawMessage
	if err := a.do(ctx, "api.slots.list", http.MethodGet, "/availability", listQuery(params), nil, &raw); err != nil {
		return nil, err
	}

	result := &domain.ListAvailabilityResponse{Data: []domain.RawSlot{}}

	// Часть версий API отдаёт в data сразу массив слотов без пагинации
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &result.Data); err != nil {
			return nil, domain.NewAPIError(http.StatusInternalServerError, fmt.Sprintf("failed to decode slots: %v", err))
		}
		return result, nil
	}
	if err := json.Unmarshal(trimmed, result); err != nil {
		return nil, domain.NewAPIError(http.StatusInternalServerError, fmt.Sprintf("failed to decode slots: %v", err))
	}
	if result.Data == nil {
		result.Data = []domain.RawSlot{}
	}

	a.logger.Info("api.slots.list.fetched", out.LogFields{
		"count": len(result.Data),
		"total": result.Pagination.Total,
	})
	return result, nil
}

func (a *AvailabilityAPIAdapter) BulkCreate(ctx context.Context, req domain.BulkCreateAvailabilityRequest) (*domain.BulkCreateAvailabilityResponse, error) {
	var result domain.BulkCreateAvailabilityResponse
	if err := a.do(ctx, "api.slots.bulk_create", http.MethodPost, "/availability/bulk", nil, req, &result); err != nil {
		return nil, err
	}

	a.logger.Info("api.slots.bulk_create.done", out.LogFields{
		"requested": result.Summary.TotalRequested,
		"created":   result.Summary.SuccessfullyCreated,
		"skipped":   result.Summary.Skipped,
	})
	return &result, nil
}

func (a *AvailabilityAPIAdapter) UpdateSlot(ctx context.Context, id int64, patch domain.UpdateAvailabilityRequest) (*domain.RawSlot, error) {
	var result domain.RawSlot
	path := fmt.Sprintf("/availability/%d", id)
	if err := a.do(ctx, "api.slots.update", http.MethodPut, path, nil, patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AvailabilityAPIAdapter) DeleteSlot(ctx context.Context, id int64) (*domain.DeleteAvailabilityResponse, error) {
	var result domain.DeleteAvailabilityResponse
	path := fmt.Sprintf("/availability/slot/%d", id)
	if err := a.do(ctx, "api.slots.delete", http.MethodDelete, path, nil, nil, &result); err != nil {
		return nil, err
	}
	if result.DeletedID == 0 {
		result.DeletedID = id
	}
	return &result, nil
}

func (a *AvailabilityAPIAdapter) CancelSlot(ctx context.Context, id int64, reason string) (*domain.RawSlot, error) {
	var result domain.RawSlot
	path := fmt.Sprintf("/availability/%d/cancel", id)
	if err := a.do(ctx, "api.slots.cancel", http.MethodPost, path, nil, domain.CancelRequest{Reason: reason}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AvailabilityAPIAdapter) CheckConflicts(ctx context.Context, req domain.ConflictCheckRequest) (*domain.ConflictCheckResponse, error) {
	var result domain.ConflictCheckResponse
	if err := a.do(ctx, "api.slots.check_conflicts", http.MethodPost, "/availability/check-conflicts", nil, req, &result); err != nil {
		return nil, err
	}
	if result.Conflicts == nil {
		result.Conflicts = []domain.Conflict{}
	}
	result.HasConflicts = result.HasConflicts || len(result.Conflicts) > 0
	return &result, nil
}

func (a *AvailabilityAPIAdapter) BookSlot(ctx context.Context, req domain.BookSlotRequest) (*domain.RawBooking, error) {
	var result domain.RawBooking
	if err := a.do(ctx, "api.bookings.create", http.MethodPost, "/availability/book", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *AvailabilityAPIAdapter) CancelBooking(ctx context.Context, bookingID int64, reason string) (*domain.CancelResponse, error) {
	var result domain.CancelResponse
	path := fmt.Sprintf("/availability/bookings/%d/cancel", bookingID)
	if err := a.do(ctx, "api.bookings.cancel", http.MethodPost, path, nil, domain.CancelRequest{Reason: reason}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
