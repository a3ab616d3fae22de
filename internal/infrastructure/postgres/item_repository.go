package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/linkeditem"
	"github.com/LifeFlow1-0/FinAgentAI/internal/infrastructure/crypto"
)

// uniqueViolation is the postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

// ItemRepository persists linked items and their accounts. The aggregator
// access token is encrypted before it touches the database and decrypted
// on the way out, so the domain entity always carries plaintext.
type ItemRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

var _ linkeditem.Repository = (*ItemRepository)(nil)

func NewItemRepository(db *DB, encryptor *crypto.Encryptor) *ItemRepository {
	return &ItemRepository{db: db, encryptor: encryptor}
}

// CreateWithAccounts writes the item and every account in one database
// transaction. The unique constraint on institution_id is the final
// authority for the duplicate-institution rule; a violation surfaces as
// linkeditem.ErrDuplicateInstitution even when two exchanges race past the
// application-level pre-check.
func (r *ItemRepository) CreateWithAccounts(ctx context.Context, params linkeditem.CreateItemParams) (*linkeditem.LinkedItem, error) {
	encryptedToken, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	itemQuery := `
		INSERT INTO linked_items (item_ref, access_token, institution_id, institution_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, item_ref, institution_id, institution_name, created_at, updated_at
	`

	var item linkeditem.LinkedItem
	err = tx.QueryRowContext(ctx, itemQuery,
		params.ItemRef, encryptedToken, params.InstitutionID, params.InstitutionName,
	).Scan(
		&item.ID, &item.ItemRef, &item.InstitutionID, &item.InstitutionName,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", linkeditem.ErrDuplicateInstitution, params.InstitutionName)
		}
		return nil, fmt.Errorf("failed to create linked item: %w", err)
	}
	item.AccessToken = params.AccessToken

	accountQuery := `
		INSERT INTO linked_accounts (linked_item_id, account_ref, name, official_name, type, subtype, mask)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, a := range params.Accounts {
		if _, err := tx.ExecContext(ctx, accountQuery,
			item.ID, a.AccountRef, a.Name, a.OfficialName, a.Type, a.Subtype, a.Mask,
		); err != nil {
			return nil, fmt.Errorf("failed to create linked account %s: %w", a.AccountRef, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit linked item: %w", err)
	}

	return &item, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*linkeditem.LinkedItem, error) {
	return r.getItem(ctx, "id = $1", id)
}

func (r *ItemRepository) GetByItemRef(ctx context.Context, itemRef string) (*linkeditem.LinkedItem, error) {
	return r.getItem(ctx, "item_ref = $1", itemRef)
}

func (r *ItemRepository) GetByInstitutionID(ctx context.Context, institutionID string) (*linkeditem.LinkedItem, error) {
	return r.getItem(ctx, "institution_id = $1", institutionID)
}

func (r *ItemRepository) getItem(ctx context.Context, where string, arg any) (*linkeditem.LinkedItem, error) {
	query := `
		SELECT id, item_ref, access_token, institution_id, institution_name, created_at, updated_at
		FROM linked_items
		WHERE ` + where

	var item linkeditem.LinkedItem
	var encryptedToken string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&item.ID, &item.ItemRef, &encryptedToken, &item.InstitutionID,
		&item.InstitutionName, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get linked item: %w", err)
	}

	token, err := r.encryptor.Decrypt(encryptedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	item.AccessToken = token

	return &item, nil
}

func (r *ItemRepository) GetAccountByID(ctx context.Context, id int64) (*linkeditem.LinkedAccount, error) {
	query := `
		SELECT id, linked_item_id, account_ref, name, official_name, type, subtype, mask, created_at, updated_at
		FROM linked_accounts
		WHERE id = $1
	`

	var a linkeditem.LinkedAccount
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.LinkedItemID, &a.AccountRef, &a.Name, &a.OfficialName,
		&a.Type, &a.Subtype, &a.Mask, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get linked account: %w", err)
	}

	return &a, nil
}

func (r *ItemRepository) ListAccounts(ctx context.Context, itemID int64) ([]*linkeditem.LinkedAccount, error) {
	query := `
		SELECT id, linked_item_id, account_ref, name, official_name, type, subtype, mask, created_at, updated_at
		FROM linked_accounts
		WHERE linked_item_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*linkeditem.LinkedAccount
	for rows.Next() {
		var a linkeditem.LinkedAccount
		if err := rows.Scan(
			&a.ID, &a.LinkedItemID, &a.AccountRef, &a.Name, &a.OfficialName,
			&a.Type, &a.Subtype, &a.Mask, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan linked account: %w", err)
		}
		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linked accounts: %w", err)
	}

	return accounts, nil
}
