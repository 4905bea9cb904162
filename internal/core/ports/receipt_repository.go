package ports

import (
	"context"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// ReceiptRepository persists receipts of confirmed bookings.
type ReceiptRepository interface {
	Save(ctx context.Context, receipt domain.BookingReceipt) error
	ListByUser(ctx context.Context, userID string) ([]domain.BookingReceipt, error)
}

// ReceiptJournal accepts receipts without blocking the submission path.
type ReceiptJournal interface {
	Record(receipt domain.BookingReceipt)
}
