// Package sqlexport copies a registry snapshot into a SQLite database so it
// can be explored with SQL. The JSON snapshot stays the source of truth; the
// database is rebuilt from scratch on every export.
package sqlexport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// Counts reports how many rows of each entity were exported.
type Counts struct {
	Users     int `json:"users"`
	ItemTypes int `json:"item_types"`
	Items     int `json:"items"`
}

// Export writes snap to a new SQLite database at dbPath, replacing any file
// already there. All rows are inserted in one transaction; on error the file
// is left behind with whatever schema was created but no rows.
func Export(ctx context.Context, snap types.Snapshot, dbPath string) (Counts, error) {
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Counts{}, fmt.Errorf("removing old export: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return Counts{}, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer db.Close()

	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return Counts{}, fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertUsers(ctx, tx, snap.Users); err != nil {
		return Counts{}, err
	}
	if err := insertItemTypes(ctx, tx, snap.ItemTypes); err != nil {
		return Counts{}, err
	}
	if err := insertItems(ctx, tx, snap.Items); err != nil {
		return Counts{}, err
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("committing export transaction: %w", err)
	}
	return Counts{
		Users:     len(snap.Users),
		ItemTypes: len(snap.ItemTypes),
		Items:     len(snap.Items),
	}, nil
}

func insertUsers(ctx context.Context, tx *sql.Tx, users []types.User) error {
	stmt, err := prepareInsert(ctx, tx, "users",
		"username", "password", "name", "address", "phone", "email", "is_admin", "is_approved", "position")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range users {
		if _, err := stmt.ExecContext(ctx,
			u.Username, u.Password, u.Name, u.Address, u.Phone, u.Email, u.IsAdmin, u.IsApproved, i,
		); err != nil {
			return fmt.Errorf("inserting user %q: %w", u.Username, err)
		}
	}
	return nil
}

func insertItemTypes(ctx context.Context, tx *sql.Tx, itemTypes []types.ItemType) error {
	typeStmt, err := prepareInsert(ctx, tx, "item_types", "name", "position")
	if err != nil {
		return err
	}
	defer typeStmt.Close()
	attrStmt, err := prepareInsert(ctx, tx, "item_type_attributes", "item_type", "ordinal", "name")
	if err != nil {
		return err
	}
	defer attrStmt.Close()

	for i, t := range itemTypes {
		if _, err := typeStmt.ExecContext(ctx, t.Name, i); err != nil {
			return fmt.Errorf("inserting item type %q: %w", t.Name, err)
		}
		for ord, attr := range t.Attributes {
			if _, err := attrStmt.ExecContext(ctx, t.Name, ord, attr); err != nil {
				return fmt.Errorf("inserting attribute %q of %q: %w", attr, t.Name, err)
			}
		}
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, items []types.Item) error {
	itemStmt, err := prepareInsert(ctx, tx, "items",
		"id", "name", "description", "address", "contact_phone", "contact_email", "item_type", "user", "position")
	if err != nil {
		return err
	}
	defer itemStmt.Close()
	attrStmt, err := prepareInsert(ctx, tx, "item_extra_attributes", "item_id", "name", "value")
	if err != nil {
		return err
	}
	defer attrStmt.Close()

	for i, it := range items {
		if _, err := itemStmt.ExecContext(ctx,
			it.ID, it.Name, it.Description, it.Address, it.ContactPhone, it.ContactEmail, it.ItemType, it.User, i,
		); err != nil {
			return fmt.Errorf("inserting item %q: %w", it.ID, err)
		}
		// Sorted for a deterministic row order.
		names := make([]string, 0, len(it.ExtraAttributes))
		for name := range it.ExtraAttributes {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if _, err := attrStmt.ExecContext(ctx, it.ID, name, it.ExtraAttributes[name]); err != nil {
				return fmt.Errorf("inserting attribute %q of item %q: %w", name, it.ID, err)
			}
		}
	}
	return nil
}

// prepareInsert prepares an INSERT of the given columns into table.
func prepareInsert(ctx context.Context, tx *sql.Tx, table string, columns ...string) (*sql.Stmt, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	return stmt, nil
}
