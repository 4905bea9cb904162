package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

const (
	collectionReceipts = "booking_receipts"
	maxReceiptsPerUser = 200
)

// ReceiptRepository implements ports.ReceiptRepository using MongoDB.
type ReceiptRepository struct {
	col *mongo.Collection
}

var _ ports.ReceiptRepository = (*ReceiptRepository)(nil)

func NewReceiptRepository(db *mongo.Database) *ReceiptRepository {
	return &ReceiptRepository{col: db.Collection(collectionReceipts)}
}

// Save upserts by booking id, so a replayed receipt does not duplicate.
func (r *ReceiptRepository) Save(ctx context.Context, receipt domain.BookingReceipt) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx,
		bson.M{"booking_id": receipt.BookingID},
		receipt,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save receipt %d: %w", receipt.BookingID, err)
	}
	return nil
}

// ListByUser returns the user's receipts, newest first.
func (r *ReceiptRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookingReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(maxReceiptsPerUser)

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer cursor.Close(ctx)

	receipts := make([]domain.BookingReceipt, 0)
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, fmt.Errorf("decode receipts: %w", err)
	}
	return receipts, nil
}

// EnsureIndexes creates necessary indexes on the receipts collection.
func (r *ReceiptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "recorded_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
