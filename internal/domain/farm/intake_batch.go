package farm

import (
	"strings"
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeIntakeBatch is the aggregate type name for intake batches
const AggregateTypeIntakeBatch = "IntakeBatch"

// IntakeBatch is the invoice header of a fish arrival (entrada de peixes).
// Every lot created or merged by the arrival references it.
type IntakeBatch struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	Supplier      string
	Date          time.Time
	TotalValue    decimal.Decimal
	Notes         string
}

// NewIntakeBatch validates the header and creates the batch
func NewIntakeBatch(tenantID uuid.UUID, invoiceNumber, supplier string, date time.Time, totalValue decimal.Decimal, notes string) (*IntakeBatch, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	supplier = strings.TrimSpace(supplier)
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE", "Invoice number is required")
	}
	if supplier == "" {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "Supplier is required")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "Intake date is required")
	}
	if totalValue.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TOTAL_VALUE", "Total value cannot be negative")
	}
	return &IntakeBatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		Supplier:            supplier,
		Date:                date,
		TotalValue:          totalValue,
		Notes:               strings.TrimSpace(notes),
	}, nil
}
