// Package export renders reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"alliance-srp/internal/core/services"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	claimsSheet  = "Claims"

	// ContentType is the MIME type of the workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	summaryHeaders = []string{"Payee", "Claims", "Total (ISK)"}
	claimsHeaders  = []string{"Payee", "Claim ID", "Character", "Killmail", "Ship Group", "Context", "Payout (ISK)", "Approved By", "Approved At"}
)

// Filename returns the download name for a queue generated at t
func Filename(t time.Time) string {
	return fmt.Sprintf("srp-payment-queue-%s.xlsx", t.UTC().Format("20060102-1504"))
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func headerRow(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

// PaymentQueueWorkbook builds a workbook with one summary row per payee and
// one detail row per claim.
func PaymentQueueWorkbook(queue *services.PaymentQueue) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(claimsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	isk, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, err
	}

	if err := setRow(f, summarySheet, 1, headerRow(summaryHeaders)); err != nil {
		return nil, err
	}
	if err := setRow(f, claimsSheet, 1, headerRow(claimsHeaders)); err != nil {
		return nil, err
	}

	summaryRow, claimRow := 2, 2
	for _, p := range queue.Payees {
		if err := setRow(f, summarySheet, summaryRow, []interface{}{
			p.PayeeName, p.ClaimCount, p.Total.InexactFloat64(),
		}); err != nil {
			return nil, err
		}
		summaryRow++

		for _, c := range p.Claims {
			amount := c.EstimatedPayout
			if c.PayoutAmount != nil {
				amount = *c.PayoutAmount
			}
			approvedAt := ""
			if c.ReviewedAt != nil {
				approvedAt = c.ReviewedAt.UTC().Format("2006-01-02 15:04")
			}
			if err := setRow(f, claimsSheet, claimRow, []interface{}{
				p.PayeeName, c.ID, c.CharacterName, c.KillmailID, c.ShipGroup,
				c.OperationContext, amount.InexactFloat64(), c.ReviewerName, approvedAt,
			}); err != nil {
				return nil, err
			}
			claimRow++
		}
	}

	if err := setRow(f, summarySheet, summaryRow, []interface{}{
		"Total", queue.ClaimCount, queue.GrandTotal.InexactFloat64(),
	}); err != nil {
		return nil, err
	}

	for _, s := range []struct {
		sheet   string
		lastCol string
		iskCol  string
		lastRow int
	}{
		{summarySheet, "C", "C", summaryRow},
		{claimsSheet, "I", "G", claimRow - 1},
	} {
		if err := f.SetCellStyle(s.sheet, "A1", s.lastCol+"1", bold); err != nil {
			return nil, err
		}
		if s.lastRow >= 2 {
			if err := f.SetCellStyle(s.sheet, s.iskCol+"2", fmt.Sprintf("%s%d", s.iskCol, s.lastRow), isk); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(s.sheet, "A", s.lastCol, 18); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow), bold); err != nil {
		return nil, err
	}

	return f, nil
}

// WritePaymentQueue writes the queue workbook to w
func WritePaymentQueue(w io.Writer, queue *services.PaymentQueue) error {
	f, err := PaymentQueueWorkbook(queue)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func strPtr(s string) *string {
	return &s
}
