package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"guevara/models"
)

// reportFlagCookie remembers the last month a report was generated for, so
// the UI can prompt for the monthly export once per month.
const reportFlagCookie = "lastReportMonth"

// HandleReportStatus tells the UI whether to prompt for this month's export.
// GET /api/v1/reports/monthly
func (h *Handlers) HandleReportStatus(c *fiber.Ctx) error {
	current := time.Now().Format("2006-01")
	last := c.Cookies(reportFlagCookie)
	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"currentMonth":  current,
			"lastGenerated": last,
			"shouldPrompt":  last != current,
		},
	})
}

// HandleGenerateReport aggregates one calendar month of closed orders
// (?month=YYYY-MM, default: current) and stamps the prompt flag. When an AI
// key is configured the report carries a generated summary; summary failures
// only log.
// POST /api/v1/reports/monthly
func (h *Handlers) HandleGenerateReport(c *fiber.Ctx) error {
	monthStr := c.Query("month", time.Now().Format("2006-01"))
	month, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid month format, expected YYYY-MM"})
	}

	orders, err := h.Store.Orders(c.Context(), h.token(c))
	if err != nil && (orders == nil || !canServeStale(err)) {
		return err
	}

	report := buildMonthlyReport(monthStr, month, orders)

	if h.AI != nil {
		summary, err := h.AI.SummarizeReport(c.Context(), report)
		if err != nil {
			log.Printf("report %s: AI summary failed: %v", monthStr, err)
		} else {
			report.AiSummary = summary
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:    reportFlagCookie,
		Value:   monthStr,
		Path:    "/",
		Expires: time.Now().AddDate(1, 0, 0),
	})

	h.Audit.Record(c.Context(), "report.generate", "report", monthStr, models.JSONB{"orders": len(report.Orders)})
	return c.JSON(fiber.Map{"status": "success", "data": report})
}

func buildMonthlyReport(monthStr string, month time.Time, orders []models.Order) models.MonthlyReport {
	next := month.AddDate(0, 1, 0)
	report := models.MonthlyReport{
		Month:       monthStr,
		GeneratedAt: time.Now(),
		Counts:      make(map[models.OrderStatus]int),
	}

	for _, order := range orders {
		if order.CreatedAt.Before(month) || !order.CreatedAt.Before(next) {
			continue
		}
		report.Counts[order.Status]++
		if order.Status == models.StatusDelivered {
			report.Revenue += order.FinalPrice
		}
		if order.Status.IsHistory() {
			report.Orders = append(report.Orders, order)
		}
	}
	return report
}
