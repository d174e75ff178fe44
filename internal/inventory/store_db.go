package inventory

import (
	"context"

	"InventoryAPI/internal/storage"
)

type SQLStore struct {
	db *storage.DB
}

func NewSQLStore(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *SQLStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := storage.WithTimeout(ctx, storage.QueryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, price, quantity, created_at
			FROM products
			ORDER BY seq ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt); err != nil {
				return err
			}
			p.CreatedAt = p.CreatedAt.UTC()
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Create(ctx context.Context, p Product) error {
	return storage.WithTimeout(ctx, storage.QueryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.db.Rebind(`
			INSERT INTO products (id, name, description, price, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`), p.ID, p.Name, p.Description, p.Price, p.Quantity, p.CreatedAt)

		if err != nil && s.db.IsUniqueViolation(err) {
			return ErrDuplicateID
		}
		return err
	})
}
