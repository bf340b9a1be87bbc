package sqldb

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core/auth"
)

type accountRow struct {
	Email        string     `db:"email"`
	PasswordHash []byte     `db:"password_hash"`
	StudentID    null.Int64 `db:"student_id"`
}

func (r accountRow) toAccount() auth.Account {
	return auth.Account{
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		StudentID:    r.StudentID,
	}
}

type identityRow struct {
	OneRow    bool       `db:"onerow"`
	ID        int64      `db:"id"`
	Email     string     `db:"email"`
	Role      string     `db:"role"`
	Token     string     `db:"token"`
	StudentID null.Int64 `db:"student_id"`
}

type authRepository struct {
	db *sqlx.DB
}

var _ auth.Repository = (*authRepository)(nil)

func NewAuthRepository(db *sqlx.DB) auth.Repository {
	return &authRepository{db: db}
}

func (repo *authRepository) LoadIdentity() *auth.Identity {
	var row identityRow
	if err := repo.db.Get(&row, `SELECT * FROM identity_snapshot`); err != nil {
		return nil
	}

	role := auth.Role(row.Role)
	if row.Email == "" || !role.Valid() {
		return nil
	}
	return &auth.Identity{
		ID:        row.ID,
		Email:     row.Email,
		Role:      role,
		Token:     row.Token,
		StudentID: row.StudentID,
	}
}

func (repo *authRepository) SaveIdentity(ident auth.Identity) error {
	_, err := repo.db.Exec(
		`INSERT INTO identity_snapshot (onerow, id, email, role, token, student_id)
		 VALUES (true, $1, $2, $3, $4, $5)
		 ON CONFLICT (onerow) DO UPDATE
		 SET id = EXCLUDED.id, email = EXCLUDED.email, role = EXCLUDED.role,
		     token = EXCLUDED.token, student_id = EXCLUDED.student_id`,
		ident.ID, ident.Email, string(ident.Role), ident.Token, ident.StudentID,
	)
	return err
}

func (repo *authRepository) ClearIdentity() error {
	_, err := repo.db.Exec(`DELETE FROM identity_snapshot`)
	return err
}

func (repo *authRepository) QueryAllAccounts() ([]auth.Account, error) {
	var rows []accountRow
	if err := repo.db.Select(&rows, `SELECT * FROM accounts`); err != nil {
		return nil, err
	}
	accounts := make([]auth.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, r.toAccount())
	}
	return accounts, nil
}

func (repo *authRepository) GetAccountByEmail(email string) (auth.Account, error) {
	var row accountRow
	if err := repo.db.Get(&row, `SELECT * FROM accounts WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return auth.Account{}, auth.ErrNoAccount
		}
		return auth.Account{}, err
	}
	return row.toAccount(), nil
}

func (repo *authRepository) CreateAccount(acct auth.Account) (auth.Account, error) {
	_, err := repo.db.Exec(
		`INSERT INTO accounts (email, password_hash, student_id) VALUES ($1, $2, $3)`,
		acct.Email, acct.PasswordHash, acct.StudentID,
	)
	if err != nil {
		return auth.Account{}, err
	}
	return acct, nil
}

func (repo *authRepository) UpdateAccount(acct auth.Account) (auth.Account, error) {
	res, err := repo.db.Exec(
		`UPDATE accounts SET password_hash = $1, student_id = $2 WHERE email = $3`,
		acct.PasswordHash, acct.StudentID, acct.Email,
	)
	if err != nil {
		return auth.Account{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auth.Account{}, auth.ErrNoAccount
	}
	return acct, nil
}
