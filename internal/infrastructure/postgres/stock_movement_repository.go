package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/repuestos-api/internal/domain/entity"
	"github.com/tu-usuario/repuestos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, inventory_item_id, type, quantity, previous_quantity,
		resulting_quantity, reference_type, reference_number, notes, location,
		reason_code, reversal_of_id, user_id, user_name, created_at`

// StockMovementRepo implementación del puerto sobre PostgreSQL (usable con pool o tx).
// La tabla es insert-only: no existe UPDATE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.InventoryItemID, m.Type, m.Quantity, m.PreviousQuantity,
		m.ResultingQuantity, nullable(m.ReferenceType), nullable(m.ReferenceNumber),
		nullable(m.Notes), nullable(m.Location), nullable(m.ReasonCode),
		nullable(m.ReversalOfID), nullable(m.UserID), nullable(m.UserName), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	m, err := scanMovementRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByItem lista los movimientos de un item con filtros de fecha y tipo,
// ordenados por fecha o por magnitud del delta, con empates resueltos por id
// ascendente para que el orden sea determinista. Devuelve también el total.
func (r *StockMovementRepo) ListByItem(itemID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := " WHERE inventory_item_id = $1"
	args := []any{itemID}
	pos := 2

	if f.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM stock_movements" + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	orderCol := "created_at"
	if f.SortBy == repository.MovementSortQuantity {
		orderCol = "ABS(quantity)"
	}
	dir := "DESC"
	if f.SortDir == "asc" {
		dir = "ASC"
	}

	query := "SELECT " + movementColumns + " FROM stock_movements" + where +
		fmt.Sprintf(" ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d", orderCol, dir, pos, pos+1)
	args = append(args, f.PerPage, (f.Page-1)*f.PerPage)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovementRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// DeleteByItem borra el historial completo de un item (cascada del delete del item).
func (r *StockMovementRepo) DeleteByItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE inventory_item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

func scanMovementRow(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var refType, refNumber, notes, location, reason, reversalOf, userID, userName *string
	err := row.Scan(
		&m.ID, &m.InventoryItemID, &m.Type, &m.Quantity, &m.PreviousQuantity,
		&m.ResultingQuantity, &refType, &refNumber, &notes, &location,
		&reason, &reversalOf, &userID, &userName, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ReferenceType = deref(refType)
	m.ReferenceNumber = deref(refNumber)
	m.Notes = deref(notes)
	m.Location = deref(location)
	m.ReasonCode = deref(reason)
	m.ReversalOfID = deref(reversalOf)
	m.UserID = deref(userID)
	m.UserName = deref(userName)
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
