package sqlite

import (
	"context"
)

type snapshotsRepo struct {
	q querier
}

func (r *snapshotsRepo) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := r.q.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE name = ?`, name,
	).Scan(&data)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return data, nil
}

func (r *snapshotsRepo) Put(ctx context.Context, name string, data []byte) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO snapshots (name, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		name, data,
	)
	return err
}

func (r *snapshotsRepo) Delete(ctx context.Context, name string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	return err
}
