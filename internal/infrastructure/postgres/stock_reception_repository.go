package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.StockReceptionRepository = (*StockReceptionRepo)(nil)

// StockReceptionRepo tabla stock_receptions; los ítems viven en una columna JSONB.
type StockReceptionRepo struct {
	q Querier
}

// NewStockReceptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockReceptionRepository(q Querier) *StockReceptionRepo {
	return &StockReceptionRepo{q: q}
}

type receptionItemRow struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	ExpectedQuantity int    `json:"expected_quantity"`
	ReceivedQuantity int    `json:"received_quantity"`
}

func toReceptionRows(items []entity.StockReceptionItem) []receptionItemRow {
	out := make([]receptionItemRow, len(items))
	for i, it := range items {
		out[i] = receptionItemRow(it)
	}
	return out
}

func fromReceptionRows(rows []receptionItemRow) []entity.StockReceptionItem {
	out := make([]entity.StockReceptionItem, len(rows))
	for i, it := range rows {
		out[i] = entity.StockReceptionItem(it)
	}
	return out
}

const receptionColumns = `id, supplier_id, supplier_name, reference_number, items, status,
	created_at, expected_date, received_date, received_by`

func scanReception(row pgx.Row) (*entity.StockReception, error) {
	var (
		r     entity.StockReception
		items []receptionItemRow
	)
	err := row.Scan(&r.ID, &r.SupplierID, &r.SupplierName, &r.ReferenceNumber, &items, &r.Status,
		&r.CreatedAt, &r.ExpectedDate, &r.ReceivedDate, &r.ReceivedBy)
	if err != nil {
		return nil, err
	}
	r.Items = fromReceptionRows(items)
	return &r, nil
}

// Create inserta una recepción.
func (r *StockReceptionRepo) Create(ctx context.Context, rec *entity.StockReception) error {
	query := `
		INSERT INTO stock_receptions (` + receptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.SupplierID, rec.SupplierName, rec.ReferenceNumber, toReceptionRows(rec.Items), string(rec.Status),
		rec.CreatedAt, rec.ExpectedDate, rec.ReceivedDate, rec.ReceivedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("recepción %s: %w", rec.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert stock reception: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *StockReceptionRepo) GetByID(ctx context.Context, id string) (*entity.StockReception, error) {
	rec, err := scanReception(r.q.QueryRow(ctx, `SELECT `+receptionColumns+` FROM stock_receptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock reception: %w", err)
	}
	return rec, nil
}

// openReceptionStatuses estados en los que una recepción admite escrituras.
var openReceptionStatuses = []string{string(entity.ReceptionPending), string(entity.ReceptionInProgress)}

// Update reemplaza la recepción completa. Solo escribe si la fila sigue abierta.
func (r *StockReceptionRepo) Update(ctx context.Context, rec *entity.StockReception) error {
	query := `
		UPDATE stock_receptions SET
			supplier_id = $2, supplier_name = $3, reference_number = $4, items = $5, status = $6,
			expected_date = $7, received_date = $8, received_by = $9
		WHERE id = $1 AND status = ANY($10::text[])`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.SupplierID, rec.SupplierName, rec.ReferenceNumber, toReceptionRows(rec.Items), string(rec.Status),
		rec.ExpectedDate, rec.ReceivedDate, rec.ReceivedBy, openReceptionStatuses,
	)
	if err != nil {
		return fmt.Errorf("update stock reception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.rejected(ctx, rec.ID)
	}
	return nil
}

// ClaimCompletion UPDATE condicional sobre el estado: de dos llamadas concurrentes solo una recibe la fila.
func (r *StockReceptionRepo) ClaimCompletion(ctx context.Context, id, receivedBy string, at time.Time) (*entity.StockReception, error) {
	query := `
		UPDATE stock_receptions SET status = $2, received_by = $3, received_date = $4
		WHERE id = $1 AND status = ANY($5::text[])
		RETURNING ` + receptionColumns
	rec, err := scanReception(r.q.QueryRow(ctx, query,
		id, string(entity.ReceptionCompleted), receivedBy, at, openReceptionStatuses,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim stock reception completion: %w", err)
	}
	return rec, nil
}

// Delete elimina la recepción salvo que esté completed.
func (r *StockReceptionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_receptions WHERE id = $1 AND status <> $2`,
		id, string(entity.ReceptionCompleted))
	if err != nil {
		return fmt.Errorf("delete stock reception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.rejected(ctx, id)
	}
	return nil
}

// rejected explica por qué una escritura condicional no afectó filas.
func (r *StockReceptionRepo) rejected(ctx context.Context, id string) error {
	var status string
	err := r.q.QueryRow(ctx, `SELECT status FROM stock_receptions WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("recepción %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("get stock reception status: %w", err)
	}
	return fmt.Errorf("recepción %s en estado %s: %w", id, status, domain.ErrNotEditable)
}

// List aplica el filtro y ordena por created_at.
func (r *StockReceptionRepo) List(ctx context.Context, f repository.ReceptionFilter) ([]*entity.StockReception, error) {
	query := `
		SELECT ` + receptionColumns + `
		FROM stock_receptions
		WHERE (cardinality($1::text[]) = 0 OR status = ANY($1::text[]))
		  AND ($2 = '' OR supplier_id = $2)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, textArray(f.Statuses), f.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("list stock receptions: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockReception, error) {
		return scanReception(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan stock reception: %w", err)
	}
	return out, nil
}
