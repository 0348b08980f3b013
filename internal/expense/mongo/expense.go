package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/expense"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "expenses"

type expenseDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Title     string               `bson:"title"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Category  string               `bson:"category"`
	Type      string               `bson:"type"`
	Date      time.Time            `bson:"date"`
	UserEmail string               `bson:"userEmail"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// ExpenseRepository stores expenses as documents, amounts as Decimal128.
type ExpenseRepository struct {
	collection *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) expense.RepositoryAPI {
	return &ExpenseRepository{collection: db.Collection(CollectionName)}
}

// EnsureIndexes creates the owner/date index used by FindByOwner.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "date", Value: -1}},
	})
	return err
}

func (r *ExpenseRepository) Insert(ctx context.Context, exp *expense.Expense) error {
	doc, err := toDocument(exp)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	exp.ID = doc.ID.Hex()
	return nil
}

func (r *ExpenseRepository) FindByOwner(ctx context.Context, owner string) ([]*expense.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userEmail": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []expenseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]*expense.Expense, 0, len(docs))
	for i := range docs {
		exp, err := fromDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		result = append(result, exp)
	}
	return result, nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*expense.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, expense.ErrExpenseNotFound
	}

	var doc expenseDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return fromDocument(&doc)
}

func (r *ExpenseRepository) UpdateByID(ctx context.Context, id string, c expense.Changes) (*expense.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, expense.ErrExpenseNotFound
	}
	amount, err := primitive.ParseDecimal128(c.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"title":     c.Title,
		"amount":    amount,
		"category":  string(c.Category),
		"type":      string(c.Type),
		"date":      c.Date,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc expenseDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return fromDocument(&doc)
}

func (r *ExpenseRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return expense.ErrExpenseNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

func toDocument(exp *expense.Expense) (*expenseDocument, error) {
	amount, err := primitive.ParseDecimal128(exp.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	return &expenseDocument{
		Title:     exp.Title,
		Amount:    amount,
		Category:  string(exp.Category),
		Type:      string(exp.Type),
		Date:      exp.Date,
		UserEmail: exp.UserEmail,
		CreatedAt: exp.CreatedAt.UTC(),
		UpdatedAt: exp.UpdatedAt.UTC(),
	}, nil
}

func fromDocument(doc *expenseDocument) (*expense.Expense, error) {
	amount, err := decimal.NewFromString(doc.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decode amount %q: %w", doc.Amount.String(), err)
	}
	return &expense.Expense{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Amount:    amount,
		Category:  expense.Category(doc.Category),
		Type:      expense.Type(doc.Type),
		Date:      doc.Date.UTC(),
		UserEmail: doc.UserEmail,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
