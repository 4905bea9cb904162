package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

func TestReceiptRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Save", func(mt *mtest.T) {
		repo := NewReceiptRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := repo.Save(context.Background(), domain.BookingReceipt{
			BookingID:        42,
			ConfirmationCode: "ABC123",
			UserID:           "u1",
			RecordedAt:       time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	})

	mt.Run("SaveError", func(mt *mtest.T) {
		repo := NewReceiptRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		if err := repo.Save(context.Background(), domain.BookingReceipt{BookingID: 1}); err == nil {
			t.Fatal("expected write error")
		}
	})

	mt.Run("ListByUser", func(mt *mtest.T) {
		repo := NewReceiptRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionReceipts
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{
				{Key: "booking_id", Value: int64(2)},
				{Key: "user_id", Value: "u1"},
				{Key: "nights", Value: 3},
				{Key: "total_amount", Value: 150.0},
			},
			bson.D{
				{Key: "booking_id", Value: int64(1)},
				{Key: "user_id", Value: "u1"},
				{Key: "nights", Value: 2},
			},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		got, err := repo.ListByUser(context.Background(), "u1")
		if err != nil {
			t.Fatalf("ListByUser: %v", err)
		}
		if len(got) != 2 || got[0].BookingID != 2 || got[0].Nights != 3 || got[0].TotalAmount != 150 {
			t.Fatalf("unexpected receipts: %+v", got)
		}
	})

	mt.Run("ListByUserEmpty", func(mt *mtest.T) {
		repo := NewReceiptRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionReceipts
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.ListByUser(context.Background(), "nobody")
		if err != nil {
			t.Fatalf("ListByUser: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})
}
