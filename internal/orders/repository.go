package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, user_name, user_mobile, address, amount, status,
	razorpay_order_id, razorpay_payment_id, razorpay_signature,
	gateway_status, payment_method, currency, metadata,
	created_at, updated_at
`

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()

	metadata, err := json.Marshal(order.Metadata)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_name, user_mobile, address, amount, status, razorpay_order_id, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, order.ID, order.UserName, order.UserMobile, order.Address, order.Amount, order.Status, order.RazorpayOrderID, metadata, order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Books {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_books (id, order_id, book_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), order.ID, item.BookID, item.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadBooks(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, razorpayOrderID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE razorpay_order_id = $1
	`, razorpayOrderID)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadBooks(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ApplyVerification atomically stores the gateway-confirmed payment state on
// the order matched by razorpay_order_id. The guard only lets a PENDING
// order settle, or an already settled order replay the same payment id, so
// racing verifications with different payment ids cannot clobber a terminal
// status. Returns nil when no row matched.
func (r *OrderRepository) ApplyVerification(ctx context.Context, v Verification) (*domain.Order, error) {
	metadata, err := json.Marshal(v.Metadata)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET razorpay_payment_id = $2,
		    razorpay_signature = $3,
		    amount = $4,
		    status = $5,
		    gateway_status = $6,
		    payment_method = $7,
		    currency = $8,
		    metadata = $9,
		    updated_at = NOW()
		WHERE razorpay_order_id = $1
		  AND (status = 'PENDING' OR razorpay_payment_id = $2)
	`, v.RazorpayOrderID, v.RazorpayPaymentID, v.RazorpaySignature, v.Amount, v.Status,
		v.GatewayStatus, v.PaymentMethod, v.Currency, metadata)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByGatewayOrderID(ctx, v.RazorpayOrderID)
}

func (r *OrderRepository) List(ctx context.Context, page, limit int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		order.Books = []domain.OrderBook{}
		orderMap[order.ID] = order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, total, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT ob.order_id, ob.book_id, ob.quantity,
		       COALESCE(b.book_name, ''), COALESCE(b.author_name, ''),
		       COALESCE(b.mrp, 0), COALESCE(b.image_url, '')
		FROM order_books ob
		LEFT JOIN books b ON b.id = ob.book_id
		WHERE ob.order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderBook
		if err := itemRows.Scan(&orderID, &item.BookID, &item.Quantity,
			&item.BookName, &item.AuthorName, &item.MRP, &item.ImageURL); err != nil {
			return nil, 0, err
		}
		order := orderMap[orderID]
		order.Books = append(order.Books, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, 0, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, total, nil
}

// SalesBetween aggregates PAID orders created in [from, to): order count,
// total line-item quantity, and revenue.
func (r *OrderRepository) SalesBetween(ctx context.Context, from, to time.Time) (SalesReport, error) {
	var report SalesReport
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*)
			 FROM orders o
			 WHERE o.status = 'PAID' AND o.created_at >= $1 AND o.created_at < $2),
			COALESCE((SELECT SUM(ob.quantity)
			 FROM order_books ob
			 JOIN orders o ON o.id = ob.order_id
			 WHERE o.status = 'PAID' AND o.created_at >= $1 AND o.created_at < $2), 0),
			COALESCE((SELECT SUM(o.amount)
			 FROM orders o
			 WHERE o.status = 'PAID' AND o.created_at >= $1 AND o.created_at < $2), 0)
	`, from, to).Scan(&report.TotalOrders, &report.TotalBooksSold, &report.TotalRevenue)
	if err != nil {
		return SalesReport{}, err
	}
	return report, nil
}

func (r *OrderRepository) loadBooks(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ob.book_id, ob.quantity,
		       COALESCE(b.book_name, ''), COALESCE(b.author_name, ''),
		       COALESCE(b.mrp, 0), COALESCE(b.image_url, '')
		FROM order_books ob
		LEFT JOIN books b ON b.id = ob.book_id
		WHERE ob.order_id = $1
	`, order.ID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderBook
		if err := rows.Scan(&item.BookID, &item.Quantity,
			&item.BookName, &item.AuthorName, &item.MRP, &item.ImageURL); err != nil {
			return err
		}
		order.Books = append(order.Books, item)
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		paymentID sql.NullString
		signature sql.NullString
		gwStatus  sql.NullString
		method    sql.NullString
		currency  sql.NullString
		metadata  []byte
	)

	err := row.Scan(
		&order.ID, &order.UserName, &order.UserMobile, &order.Address,
		&order.Amount, &order.Status,
		&order.RazorpayOrderID, &paymentID, &signature,
		&gwStatus, &method, &currency, &metadata,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.RazorpayPaymentID = paymentID.String
	order.RazorpaySignature = signature.String
	order.GatewayStatus = gwStatus.String
	order.PaymentMethod = method.String
	order.Currency = currency.String

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &order.Metadata); err != nil {
			return nil, err
		}
	}

	return &order, nil
}
