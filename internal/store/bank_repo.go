package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pixengine/internal/bank"
)

type bankRepo struct {
	drv *entsql.Driver
}

func (r *bankRepo) SaveBank(ctx context.Context, name string, b *bank.Bank) error {
	doc, err := b.Encode()
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(banksTable).
		Columns("name", "version", "document", "imported_at").
		Values(name, b.Version(), string(doc), time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWithNewValues()).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save bank %q: %w", name, err)
	}
	return nil
}

func (r *bankRepo) LoadBank(ctx context.Context, name string) (*bank.Bank, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("document").
		From(entsql.Table(banksTable)).
		Where(entsql.EQ("name", name)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query bank %q: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query bank %q: %w", name, err)
		}
		return nil, fmt.Errorf("bank %q: %w", name, ErrNotFound)
	}
	var doc string
	if err := rows.Scan(&doc); err != nil {
		return nil, fmt.Errorf("scan bank %q: %w", name, err)
	}

	b, err := bank.Parse([]byte(doc), bank.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("stored bank %q: %w", name, err)
	}
	return b, nil
}

func (r *bankRepo) ListBanks(ctx context.Context) ([]BankInfo, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("name", "version", "imported_at").
		From(entsql.Table(banksTable)).
		OrderBy("name").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var out []BankInfo
	for rows.Next() {
		var info BankInfo
		if err := rows.Scan(&info.Name, &info.Version, &info.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
