package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/nback-api/internal/domain/entity"
	"github.com/yourusername/nback-api/internal/handler/dto"
	"github.com/yourusername/nback-api/internal/handler/helper"
	"github.com/yourusername/nback-api/internal/middleware"
	"github.com/yourusername/nback-api/internal/service"
)

// RecentLimitKey - ключ контекста с лимитом для /nback/recent
const RecentLimitKey = "recent_limit"

// ResultHandler обрабатывает запросы /nback
type ResultHandler struct {
	resultService *service.ResultService
	logger        *zap.Logger
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService, logger *zap.Logger) *ResultHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultHandler{resultService: resultService, logger: logger.Named("ResultHandler")}
}

// bindResult разбирает тело запроса. При ошибке ответ уже отправлен.
func (h *ResultHandler) bindResult(c *gin.Context) (userID string, req dto.ResultRequest, ok bool) {
	userID = c.GetString(middleware.UserIDKey)
	if userID == "" {
		errorResponse(c, http.StatusUnauthorized, "Unauthorized", "unauthorized")
		return "", req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request data: "+err.Error(), "invalid_request")
		return "", req, false
	}
	return userID, req, true
}

// Create сохраняет первый результат дня
func (h *ResultHandler) Create(c *gin.Context) {
	userID, req, ok := h.bindResult(c)
	if !ok {
		return
	}

	result, err := h.resultService.Submit(c.Request.Context(), userID, *req.Score, *req.Level, *req.SubmittedAt)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Update применяет попытку к результату того же дня. Неулучшающая попытка
// возвращает существующую запись с кодом 200.
func (h *ResultHandler) Update(c *gin.Context) {
	userID, req, ok := h.bindResult(c)
	if !ok {
		return
	}

	result, err := h.resultService.Update(c.Request.Context(), userID, *req.Score, *req.Level, *req.SubmittedAt)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List возвращает результаты текущего пользователя
func (h *ResultHandler) List(c *gin.Context) {
	results, err := h.resultService.ListForUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListAll возвращает результаты всех пользователей
func (h *ResultHandler) ListAll(c *gin.Context) {
	results, err := h.resultService.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Recent возвращает последние результаты текущего пользователя.
// Лимит кладет в контекст middleware.ExtractIntQuery; без него берется значение сервиса.
func (h *ResultHandler) Recent(c *gin.Context) {
	results, err := h.resultService.ListRecent(c.Request.Context(), c.GetString(middleware.UserIDKey), c.GetInt(RecentLimitKey))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Export выгружает результаты текущего пользователя в CSV или Excel
// GET /nback/export?format=csv|xlsx
func (h *ResultHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		errorResponse(c, http.StatusBadRequest, "format must be csv or xlsx", "validation_error")
		return
	}

	results, err := h.resultService.ListForUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("nback_results_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует результаты в CSV
func (h *ResultHandler) exportCSV(c *gin.Context, results []entity.Result, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	// BOM для корректного отображения UTF-8 в Excel
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.logger.Warn("csv export write failed", zap.Error(err))
		return
	}

	// Статус уже отправлен, поэтому при ошибке записи остается только прервать выгрузку
	writer := csv.NewWriter(c.Writer)
	if err := writeCSV(writer, results); err != nil {
		h.logger.Warn("csv export write failed", zap.Error(err))
	}
}

// writeCSV пишет заголовок и строки результатов, останавливаясь на первой ошибке
func writeCSV(writer *csv.Writer, results []entity.Result) error {
	if err := writer.Write(helper.ExportHeaders); err != nil {
		return err
	}
	for _, r := range results {
		if err := writer.Write(helper.ResultToRecord(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// exportXLSX экспортирует результаты в Excel через StreamWriter
func (h *ResultHandler) exportXLSX(c *gin.Context, results []entity.Result, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		h.logger.Error("failed to create stream writer", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to create Excel file", "internal_server_error")
		return
	}

	headers := make([]interface{}, len(helper.ExportHeaders))
	for i, v := range helper.ExportHeaders {
		headers[i] = v
	}
	if err := sw.SetRow("A1", headers); err != nil {
		h.logger.Warn("failed to write xlsx headers", zap.Error(err))
	}

	for i, r := range results {
		rowNum := i + 2 // 1 - заголовки
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), helper.ResultToRow(r)); err != nil {
			h.logger.Warn("failed to write xlsx row", zap.Int("row", rowNum), zap.Error(err))
		}
	}

	if err := sw.Flush(); err != nil {
		h.logger.Error("failed to flush xlsx", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Failed to create Excel file", "internal_server_error")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Warn("failed to write xlsx response", zap.Error(err))
	}
}
