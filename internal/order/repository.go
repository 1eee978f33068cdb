package order

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// PlaceOrderTx reserves stock for every cart item and inserts the order
	// record inside a single transaction. Any failure rolls back the whole
	// reservation: either all items commit or none do.
	PlaceOrderTx(ctx context.Context, o *Order) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PlaceOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrderTx"),
		zap.String("order_id", o.ID.String()),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Items run strictly in submission order. Row locks serialize
	// concurrent placements on the same (product, size), and a second item
	// for the same product inside this order observes the first item's
	// decrement because both run in this transaction.
	for i, item := range o.Items {
		if err := r.reserveStock(ctx, tx, item); err != nil {
			log.Warn("stock reservation failed",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.String("size", item.Size),
				zap.Error(err),
			)
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, phone, address, note,
			delivery_charge, total_price, order_date, order_time,
			status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		o.ID,
		o.Customer.Name,
		o.Customer.Phone,
		o.Customer.Address,
		o.Customer.Note,
		o.DeliveryCharge,
		o.TotalPrice,
		o.OrderDate,
		o.OrderTime,
		o.Status,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, size, quantity, position
			) VALUES ($1,$2,$3,$4,$5)
		`,
			o.ID,
			item.ProductID,
			item.Size,
			item.Quantity,
			i,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order transaction committed")
	return nil
}

// reserveStock locks the size row, checks availability, and applies a
// conditional decrement. stock >= 0 can never be violated: the lock pins
// the value read by the check until the decrement commits.
func (r *repository) reserveStock(ctx context.Context, tx *sql.Tx, item CartItem) error {
	var stock int
	err := tx.QueryRowContext(ctx, `
		SELECT stock FROM product_sizes
		WHERE product_id = $1 AND size = $2
		FOR UPDATE
	`, item.ProductID, item.Size).Scan(&stock)

	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`,
			item.ProductID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return errProductNotFound()
		}
		return errSizeNotFound(item.Size)
	}
	if err != nil {
		return err
	}

	if stock < item.Quantity {
		return errInsufficientStock(item.Size, stock)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE product_sizes
		SET stock = stock - $1
		WHERE product_id = $2 AND size = $3 AND stock >= $1
	`, item.Quantity, item.ProductID, item.Size)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		// Unreachable while the row lock is held; guards the invariant if
		// the isolation level ever changes.
		return errInsufficientStock(item.Size, stock)
	}

	return nil
}
