package localdb

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
)

type authRepository struct {
	mu       sync.RWMutex
	db       *DB
	accounts []auth.Account
}

var _ auth.Repository = (*authRepository)(nil)

func NewAuthRepository(db *DB) auth.Repository {
	repo := &authRepository{db: db}

	// registered accounts have no seed; missing or corrupt degrades to empty
	if raw, ok := db.kv.Get(accountsKey); ok {
		if err := json.Unmarshal([]byte(raw), &repo.accounts); err != nil {
			repo.accounts = nil
		}
	}
	return repo
}

func (repo *authRepository) save() error {
	data, err := json.Marshal(repo.accounts)
	if err != nil {
		return err
	}
	if err = repo.db.kv.Set(accountsKey, string(data)); err != nil {
		return core.NewShutdownError("persisting accounts: " + err.Error())
	}
	return nil
}

// LoadIdentity re-validates the persisted snapshot rather than trusting it
// blindly; malformed data degrades to nil, forcing re-login.
func (repo *authRepository) LoadIdentity() *auth.Identity {
	raw, ok := repo.db.kv.Get(identityKey)
	if !ok {
		return nil
	}

	var ident auth.Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return nil
	}
	if ident.Email == "" || !ident.Role.Valid() {
		return nil
	}
	if ident.ID == 0 {
		ident.ID = time.Now().UnixNano() / int64(time.Millisecond)
	}
	return &ident
}

func (repo *authRepository) SaveIdentity(ident auth.Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	return repo.db.kv.Set(identityKey, string(data))
}

func (repo *authRepository) ClearIdentity() error {
	return repo.db.kv.Delete(identityKey)
}

func (repo *authRepository) QueryAllAccounts() ([]auth.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accounts := make([]auth.Account, len(repo.accounts))
	copy(accounts, repo.accounts)
	return accounts, nil
}

func (repo *authRepository) GetAccountByEmail(email string) (auth.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, acct := range repo.accounts {
		if acct.Email == email {
			return acct, nil
		}
	}
	return auth.Account{}, auth.ErrNoAccount
}

func (repo *authRepository) CreateAccount(acct auth.Account) (auth.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, a := range repo.accounts {
		if a.Email == acct.Email {
			return auth.Account{}, auth.ErrEmailExists
		}
	}
	repo.accounts = append(repo.accounts, acct)
	if err := repo.save(); err != nil {
		return auth.Account{}, err
	}
	return acct, nil
}

func (repo *authRepository) UpdateAccount(acct auth.Account) (auth.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.accounts {
		if repo.accounts[i].Email == acct.Email {
			repo.accounts[i] = acct
			if err := repo.save(); err != nil {
				return auth.Account{}, err
			}
			return acct, nil
		}
	}
	return auth.Account{}, auth.ErrNoAccount
}
