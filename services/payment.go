package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jpk1234556/machacoshostels/authz"
	"github.com/jpk1234556/machacoshostels/db"
)

// PaymentService records money received against leases. Payments are
// insert-only; corrections are new records with notes.
type PaymentService struct {
	PG         *sql.DB
	Authorizer authz.Authorizer
}

func NewPaymentService(pg *sql.DB, az authz.Authorizer) *PaymentService {
	return &PaymentService{PG: pg, Authorizer: az}
}

const paymentSelect = `
	SELECT pay.id, pay.lease_id, pay.amount, pay.payment_date, pay.payment_method,
	       COALESCE(pay.reference, ''), pay.period_month, pay.period_year,
	       COALESCE(pay.notes, ''), pay.created_at,
	       t.full_name, u.unit_number, p.name
	FROM payments pay
	JOIN leases l ON pay.lease_id = l.id
	JOIN units u ON l.unit_id = u.id
	JOIN properties p ON u.property_id = p.id
	JOIN tenants t ON l.tenant_id = t.id`

func scanPayment(rows *sql.Rows) (db.Payment, error) {
	var pay db.Payment
	err := rows.Scan(&pay.ID, &pay.LeaseID, &pay.Amount, &pay.PaymentDate, &pay.PaymentMethod,
		&pay.Reference, &pay.PeriodMonth, &pay.PeriodYear,
		&pay.Notes, &pay.CreatedAt,
		&pay.TenantName, &pay.UnitNumber, &pay.PropertyName)
	return pay, err
}

// List returns the caller's payments, optionally filtered to one lease.
func (s *PaymentService) List(ctx context.Context, callerID, leaseID string) ([]db.Payment, error) {
	query := paymentSelect
	args := []interface{}{}
	where := ""

	if !s.Authorizer.IsSuperAdmin(ctx, callerID) {
		args = append(args, callerID)
		where = fmt.Sprintf(" WHERE p.owner_id = $%d", len(args))
	}
	if leaseID != "" {
		args = append(args, leaseID)
		if where == "" {
			where = fmt.Sprintf(" WHERE pay.lease_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND pay.lease_id = $%d", len(args))
		}
	}
	query += where + ` ORDER BY pay.payment_date DESC, pay.created_at DESC`

	rows, err := s.PG.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []db.Payment{}
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, pay)
	}
	return payments, rows.Err()
}

// Get returns one payment with the joined receipt fields.
func (s *PaymentService) Get(ctx context.Context, callerID, id string) (db.Payment, error) {
	if !s.Authorizer.CanRead(ctx, callerID, authz.ResourcePayment, id) {
		return db.Payment{}, authz.ErrNotFound
	}

	rows, err := s.PG.QueryContext(ctx, paymentSelect+` WHERE pay.id = $1`, id)
	if err != nil {
		return db.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return db.Payment{}, authz.ErrNotFound
	}
	return scanPayment(rows)
}

// Create records a payment against a lease the caller owns.
func (s *PaymentService) Create(ctx context.Context, callerID string, req db.CreatePaymentRequest) (db.Payment, error) {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourceLease, req.LeaseID) {
		return db.Payment{}, authz.ErrPermissionDenied
	}

	pay := db.Payment{
		ID:            uuid.New().String(),
		LeaseID:       req.LeaseID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		PeriodMonth:   req.PeriodMonth,
		PeriodYear:    req.PeriodYear,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
	}

	_, err := s.PG.ExecContext(ctx, `
		INSERT INTO payments (id, lease_id, amount, payment_date, payment_method, reference, period_month, period_year, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, pay.ID, pay.LeaseID, pay.Amount, pay.PaymentDate, pay.PaymentMethod, pay.Reference,
		pay.PeriodMonth, pay.PeriodYear, pay.Notes, pay.CreatedAt)
	if err != nil {
		return pay, fmt.Errorf("failed to create payment: %w", err)
	}
	return pay, nil
}

// Delete removes a payment record.
func (s *PaymentService) Delete(ctx context.Context, callerID, id string) error {
	if !s.Authorizer.CanWrite(ctx, callerID, authz.ResourcePayment, id) {
		return authz.ErrPermissionDenied
	}

	_, err := s.PG.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}
