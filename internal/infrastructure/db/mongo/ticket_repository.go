package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

const collectionTickets = "tickets"

type TicketRepository struct {
	col *mongo.Collection
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

type mongoTicket struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Customer    string    `bson:"customer"`
	Status      string    `bson:"status"`
	Priority    string    `bson:"priority"`
	Category    string    `bson:"category"`
	AssignedTo  string    `bson:"assigned_to"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// Recent returns up to limit tickets ordered by created_at descending.
func (r *TicketRepository) Recent(ctx context.Context, limit int) ([]*domain.Ticket, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)))
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTicket
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, ticketDoc(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidTicket, t.ID)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := ticketDoc(t)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": bson.M{
		"title":       doc.Title,
		"customer":    doc.Customer,
		"status":      doc.Status,
		"priority":    doc.Priority,
		"category":    doc.Category,
		"assigned_to": doc.AssignedTo,
		"description": doc.Description,
		"updated_at":  doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the tickets collection.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *TicketRepository) find(ctx context.Context, opts *options.FindOptions) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	var docs []mongoTicket
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	out := make([]*domain.Ticket, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func ticketDoc(t *domain.Ticket) mongoTicket {
	return mongoTicket{
		ID:          t.ID,
		Title:       t.Title,
		Customer:    t.Customer,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Category:    t.Category,
		AssignedTo:  t.AssignedTo,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (d *mongoTicket) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID:          d.ID,
		Title:       d.Title,
		Customer:    d.Customer,
		Status:      domain.TicketStatus(d.Status),
		Priority:    domain.TicketPriority(d.Priority),
		Category:    d.Category,
		AssignedTo:  d.AssignedTo,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
