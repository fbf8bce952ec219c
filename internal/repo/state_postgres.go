package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const queryTimeout = 5 * time.Second

// PostgresStateRepository stores products and transactions in two tables.
// Save rewrites both tables inside one database transaction.
type PostgresStateRepository struct {
	db *sql.DB
}

func NewPostgresStateRepository(db *sql.DB) *PostgresStateRepository {
	return &PostgresStateRepository{db: db}
}

func (r *PostgresStateRepository) Load(ctx context.Context) (ledger.State, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc ledger.Document
	var err error
	if doc.Products, err = r.loadProducts(ctx); err != nil {
		return ledger.State{}, err
	}
	if doc.Transactions, err = r.loadTransactions(ctx); err != nil {
		return ledger.State{}, err
	}
	return ledger.FromDocument(doc)
}

func (r *PostgresStateRepository) loadProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT sku, name, pack_size, stock, initial_stock FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var initial sql.NullInt64
		if err := rows.Scan(&p.SKU, &p.Name, &p.PackSize, &p.Stock, &initial); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if initial.Valid {
			p.InitialStock = models.IntPtr(int(initial.Int64))
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// loadTransactions returns the ledger most recent first.
func (r *PostgresStateRepository) loadTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, sku, name, qty, date_iso FROM transactions ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.SKU, &tx.Name, &tx.Qty, &tx.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *PostgresStateRepository) Save(ctx context.Context, s ledger.State) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	doc := s.Document()
	for i, p := range doc.Products {
		var initial sql.NullInt64
		if p.InitialStock != nil {
			initial = sql.NullInt64{Int64: int64(*p.InitialStock), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (sku, name, pack_size, stock, initial_stock, position) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.SKU, p.Name, p.PackSize, p.Stock, initial, i)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.SKU, err)
		}
	}

	// Document lists transactions newest first; seq keeps append order.
	for i := len(doc.Transactions) - 1; i >= 0; i-- {
		t := doc.Transactions[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, type, sku, name, qty, date_iso, seq) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, string(t.Type), t.SKU, t.Name, t.Qty, t.Date, len(doc.Transactions)-1-i)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}
