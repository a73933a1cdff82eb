package handlers

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"alliance-srp/internal/adapters/export"
	"alliance-srp/internal/core/services"
	"alliance-srp/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// dateRange reads from/to (YYYY-MM-DD, UTC). Defaults to today; to is inclusive.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, to := today, today

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q", v)
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q", v)
		}
		to = t
	}
	return from, to.Add(24 * time.Hour), nil
}

// Dashboard summarizes claims by derived status
// @Summary Dashboard
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} response.Response{data=services.DashboardSummary}
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	summary, err := h.reportService.Dashboard(c.UserContext(), from, to)
	if err != nil {
		return fail(c, err, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", summary)
}

// PaymentQueue lists approved claims grouped by payee
// @Summary Payment queue
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.PaymentQueue}
// @Router /reports/payment-queue [get]
func (h *ReportHandler) PaymentQueue(c *fiber.Ctx) error {
	queue, err := h.reportService.PaymentQueue(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to build payment queue")
	}
	return response.Success(c, "Payment queue retrieved successfully", queue)
}

// ExportPaymentQueue downloads the payment queue as xlsx
// @Summary Export payment queue
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /reports/payment-queue/export [get]
func (h *ReportHandler) ExportPaymentQueue(c *fiber.Ctx) error {
	queue, err := h.reportService.PaymentQueue(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to build payment queue")
	}

	var buf bytes.Buffer
	if err := export.WritePaymentQueue(&buf, queue); err != nil {
		return fail(c, err, "Failed to export payment queue")
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", export.Filename(queue.GeneratedAt)))
	return c.Send(buf.Bytes())
}

// PayPayee pays every approved claim of a payee (Admin)
// @Summary Pay payee
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payee path string true "Payee name"
// @Param body body services.PayInput false "Note"
// @Success 200 {object} response.Response{data=services.PayPayeeResult}
// @Failure 404 {object} response.Response
// @Router /reports/payment-queue/{payee}/pay [post]
func (h *ReportHandler) PayPayee(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	payee, err := url.PathUnescape(param(c, "payee"))
	if err != nil || payee == "" {
		return response.BadRequest(c, "Invalid payee")
	}

	var req services.PayInput
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &req); !ok {
			return err
		}
	}

	result, err := h.reportService.PayPayee(c.UserContext(), a, payee, &req)
	if err != nil {
		return fail(c, err, "Failed to pay payee")
	}
	return response.Success(c, "Payee paid", result)
}

// Reviewers counts review actions per reviewer
// @Summary Reviewer statistics
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /reports/reviewers [get]
func (h *ReportHandler) Reviewers(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	stats, err := h.reportService.ReviewerStats(c.UserContext(), from, to)
	if err != nil {
		return fail(c, err, "Failed to build reviewer statistics")
	}
	return response.Success(c, "Reviewer statistics retrieved successfully", stats)
}
