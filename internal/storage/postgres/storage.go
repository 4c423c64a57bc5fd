package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool used by the storage layer. Declared as an
// interface so tests can substitute a mock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

// newPgxPool is swapped out in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (DB, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            sku TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price DOUBLE PRECISION NOT NULL,
            stock INTEGER NOT NULL DEFAULT 0,
            categories TEXT[] NOT NULL DEFAULT '{}',
            low_stock_threshold INTEGER NOT NULL DEFAULT 5,
            in_stock BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            user_id BIGINT NOT NULL REFERENCES users(id),
            product_id TEXT NOT NULL REFERENCES products(id),
            quantity INTEGER NOT NULL,
            added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL,
            items JSONB NOT NULL,
            shipping_address JSONB NOT NULL,
            billing_address JSONB NOT NULL,
            payment_method TEXT NOT NULL DEFAULT '',
            shipping_method TEXT NOT NULL DEFAULT '',
            tracking_number TEXT NOT NULL DEFAULT '',
            timeline JSONB NOT NULL,
            subtotal DOUBLE PRECISION NOT NULL,
            shipping DOUBLE PRECISION NOT NULL,
            tax DOUBLE PRECISION NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_products_reconcile ON products(updated_at) WHERE in_stock <> (stock > 0)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, is_admin, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, is_admin, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	const query = `SELECT id, login, password_hash, is_admin, created_at FROM users ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ProductRepository implementation ---

const productColumns = `id, sku, name, description, price, stock, categories, low_stock_threshold, in_stock, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	const query = `INSERT INTO products (id, sku, name, description, price, stock, categories, low_stock_threshold, in_stock)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $6 > 0)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.Stock, p.Categories, p.LowStockThreshold,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	p.InStock = model.StockAvailable(p.Stock)
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	const query = `UPDATE products
                   SET sku=$2, name=$3, description=$4, price=$5, stock=$6, categories=$7,
                       low_stock_threshold=$8, in_stock=($6 > 0), updated_at=NOW()
                   WHERE id=$1
                   RETURNING updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.Stock, p.Categories, p.LowStockThreshold,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	p.InStock = model.StockAvailable(p.Stock)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Categories,
		&p.LowStockThreshold, &p.InStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if filter.Category != "" {
		query += ` WHERE $1 = ANY(categories)`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) SetStock(ctx context.Context, id string, stock int) error {
	const query = `UPDATE products SET stock=$2, in_stock=($2 > 0), updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) SetInStock(ctx context.Context, id string, inStock bool) error {
	const query = `UPDATE products SET in_stock=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, inStock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) SelectBatchForReconcile(ctx context.Context, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
              WHERE in_stock <> (stock > 0) OR (stock > 0 AND stock <= low_stock_threshold)
              ORDER BY updated_at
              LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Categories,
			&p.LowStockThreshold, &p.InStock, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Get(ctx context.Context, userID int64) (model.Cart, error) {
	const query = `SELECT product_id, quantity, added_at FROM cart_items WHERE user_id=$1 ORDER BY added_at`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return model.Cart{}, err
	}
	defer rows.Close()

	var cart model.Cart
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.AddedAt); err != nil {
			return model.Cart{}, err
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, userID int64, productID string, quantity int, addedAt time.Time) error {
	const query = `INSERT INTO cart_items (user_id, product_id, quantity, added_at)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (user_id, product_id) DO UPDATE
                   SET quantity = cart_items.quantity + EXCLUDED.quantity`
	_, err := r.storage.pool.Exec(ctx, query, userID, productID, quantity, addedAt)
	return err
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID int64, productID string) error {
	const query = `DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	const query = `DELETE FROM cart_items WHERE user_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, userID)
	return err
}

func (r *cartRepository) Replace(ctx context.Context, userID int64, cart model.Cart) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
			return err
		}
		const insert = `INSERT INTO cart_items (user_id, product_id, quantity, added_at) VALUES ($1, $2, $3, $4)`
		for _, it := range cart.Items {
			if _, err := tx.Exec(ctx, insert, userID, it.ProductID, it.Quantity, it.AddedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- OrderRepository implementation ---

const orderColumns = `id, number, user_id, status, items, shipping_address, billing_address,
       payment_method, shipping_method, tracking_number, timeline,
       subtotal, shipping, tax, total, created_at, updated_at`

func (r *orderRepository) Place(ctx context.Context, order *model.Order) error {
	items, shippingAddr, billingAddr, timeline, err := marshalOrderDocs(order)
	if err != nil {
		return err
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT stock FROM products WHERE id=$1 FOR UPDATE`
		const decrement = `UPDATE products SET stock = stock - $2, in_stock = (stock - $2 > 0), updated_at=NOW() WHERE id=$1`

		for _, it := range order.Items {
			var stock int
			if err := tx.QueryRow(ctx, lockQuery, it.ProductID).Scan(&stock); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				return err
			}
			if stock < it.Quantity {
				return domainErrors.ErrOutOfStock
			}
			if _, err := tx.Exec(ctx, decrement, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		const insert = `INSERT INTO orders
            (number, user_id, status, items, shipping_address, billing_address,
             payment_method, shipping_method, tracking_number, timeline,
             subtotal, shipping, tax, total)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insert,
			order.Number, order.UserID, order.Status, items, shippingAddr, billingAddr,
			order.PaymentMethod, order.ShippingMethod, order.TrackingNumber, timeline,
			order.Subtotal, order.Shipping, order.Tax, order.Total,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, order.UserID); err != nil {
			return err
		}
		return nil
	})
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=$1`
	order, err := scanOrderRow(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status=$1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus, trackingNumber string, timeline []model.TimelineEvent) (*model.Order, error) {
	timelineDoc, err := json.Marshal(timeline)
	if err != nil {
		return nil, err
	}

	query := `UPDATE orders
              SET status=$3,
                  tracking_number = CASE WHEN $4 <> '' THEN $4 ELSE tracking_number END,
                  timeline=$5,
                  updated_at=NOW()
              WHERE number=$1 AND status=$2
              RETURNING ` + orderColumns
	order, err := scanOrderRow(r.storage.pool.QueryRow(ctx, query, number, from, to, trackingNumber, timelineDoc))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the order does not exist or its status moved concurrently.
			if _, getErr := r.GetByNumber(ctx, number); getErr != nil {
				return nil, getErr
			}
			return nil, domainErrors.ErrIllegalTransition
		}
		return nil, err
	}
	return order, nil
}

func marshalOrderDocs(order *model.Order) (items, shippingAddr, billingAddr, timeline []byte, err error) {
	if items, err = json.Marshal(order.Items); err != nil {
		return nil, nil, nil, nil, err
	}
	if shippingAddr, err = json.Marshal(order.ShippingAddress); err != nil {
		return nil, nil, nil, nil, err
	}
	if billingAddr, err = json.Marshal(order.BillingAddress); err != nil {
		return nil, nil, nil, nil, err
	}
	if timeline, err = json.Marshal(order.Timeline); err != nil {
		return nil, nil, nil, nil, err
	}
	return items, shippingAddr, billingAddr, timeline, nil
}

func scanOrderRow(row pgx.Row) (*model.Order, error) {
	var (
		o            model.Order
		items        []byte
		shippingAddr []byte
		billingAddr  []byte
		timeline     []byte
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.Status, &items, &shippingAddr, &billingAddr,
		&o.PaymentMethod, &o.ShippingMethod, &o.TrackingNumber, &timeline,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalOrderDocs(&o, items, shippingAddr, billingAddr, timeline); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		var (
			o            model.Order
			items        []byte
			shippingAddr []byte
			billingAddr  []byte
			timeline     []byte
		)
		if err := rows.Scan(
			&o.ID, &o.Number, &o.UserID, &o.Status, &items, &shippingAddr, &billingAddr,
			&o.PaymentMethod, &o.ShippingMethod, &o.TrackingNumber, &timeline,
			&o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalOrderDocs(&o, items, shippingAddr, billingAddr, timeline); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func unmarshalOrderDocs(o *model.Order, items, shippingAddr, billingAddr, timeline []byte) error {
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(shippingAddr, &o.ShippingAddress); err != nil {
		return fmt.Errorf("decode shipping address: %w", err)
	}
	if err := json.Unmarshal(billingAddr, &o.BillingAddress); err != nil {
		return fmt.Errorf("decode billing address: %w", err)
	}
	if err := json.Unmarshal(timeline, &o.Timeline); err != nil {
		return fmt.Errorf("decode timeline: %w", err)
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
