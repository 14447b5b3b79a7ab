package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AriadnaNaya/BDD2/internal/domain"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) InvoiceRepository {
	return &mongoRepository{
		collection: db.Collection("invoices"),
	}
}

// EnsureIndexes creates the unique order_id index that makes invoice
// creation idempotent per order. Call once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := db.Collection("invoices").Indexes().CreateOne(ctx, index)
	if err != nil {
		return fmt.Errorf("failed to create invoice indexes: %w", err)
	}

	return nil
}

func (m *mongoRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var invoice domain.Invoice

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return &invoice, nil
}

func (m *mongoRepository) List(ctx context.Context) ([]*domain.Invoice, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []*domain.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}

	return invoices, nil
}

func (m *mongoRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	if invoice.Status == "" {
		invoice.Status = domain.InvoiceStatusPending
	}
	if invoice.IssuedAt.IsZero() {
		invoice.IssuedAt = time.Now()
	}

	_, err := m.collection.InsertOne(ctx, invoice)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateInvoice
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

func (m *mongoRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	filter := bson.M{"_id": invoice.ID}
	update := bson.M{"$set": bson.M{
		"amount": invoice.Amount,
		"status": invoice.Status,
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

func (m *mongoRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// RegisterPayment appends the payment and flips the invoice to paid.
func (m *mongoRepository) RegisterPayment(ctx context.Context, id string, payment domain.Payment) error {
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	filter := bson.M{"_id": id}
	update := bson.M{
		"$push": bson.M{"payments": payment},
		"$set":  bson.M{"status": domain.InvoiceStatusPaid},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to register payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}
