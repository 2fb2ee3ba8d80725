package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

// Timestamps are owned by the service layer.
type ticketRecord struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Customer    string `gorm:"not null"`
	Status      string `gorm:"index;not null"`
	Priority    string `gorm:"not null"`
	Category    string
	AssignedTo  string
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (ticketRecord) TableName() string { return "tickets" }

type TicketRepository struct {
	db *gorm.DB
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	return r.find(r.db.WithContext(ctx).Order("created_at desc"))
}

func (r *TicketRepository) Recent(ctx context.Context, limit int) ([]*domain.Ticket, error) {
	return r.find(r.db.WithContext(ctx).Order("created_at desc").Limit(limit))
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var rec ticketRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err, domain.ErrTicketNotFound, "find ticket")
	}
	return rec.toDomain(), nil
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticketFromDomain(t)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidTicket, t.ID)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	rec := ticketFromDomain(t)
	res := r.db.WithContext(ctx).Model(&ticketRecord{}).Where("id = ?", t.ID).Updates(map[string]any{
		"title":       rec.Title,
		"customer":    rec.Customer,
		"status":      rec.Status,
		"priority":    rec.Priority,
		"category":    rec.Category,
		"assigned_to": rec.AssignedTo,
		"description": rec.Description,
		"updated_at":  rec.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ticketRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) find(q *gorm.DB) ([]*domain.Ticket, error) {
	var recs []ticketRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	out := make([]*domain.Ticket, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func ticketFromDomain(t *domain.Ticket) *ticketRecord {
	return &ticketRecord{
		ID:          t.ID,
		Title:       t.Title,
		Customer:    t.Customer,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Category:    t.Category,
		AssignedTo:  t.AssignedTo,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (rec *ticketRecord) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID:          rec.ID,
		Title:       rec.Title,
		Customer:    rec.Customer,
		Status:      domain.TicketStatus(rec.Status),
		Priority:    domain.TicketPriority(rec.Priority),
		Category:    rec.Category,
		AssignedTo:  rec.AssignedTo,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
}
