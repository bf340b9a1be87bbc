package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAccount          = errors.New("account not found")
	ErrEmailReserved      = errors.New("this email is reserved for a demo account")
	ErrEmailExists        = errors.New("an account with this email already exists")
)

type (
	Repository interface {
		// LoadIdentity returns the persisted identity snapshot, re-validated;
		// nil when missing or malformed (forcing re-login).
		LoadIdentity() *Identity
		SaveIdentity(ident Identity) error
		ClearIdentity() error

		QueryAllAccounts() ([]Account, error)
		GetAccountByEmail(email string) (Account, error)
		CreateAccount(acct Account) (Account, error)
		UpdateAccount(acct Account) (Account, error)
	}

	demoAccount struct {
		password  string
		role      Role
		studentID null.Int64
	}

	// Service holds the current authenticated identity and resolves
	// login/registration against the fixed demo accounts and the dynamically
	// registered ones.
	Service struct {
		repo     Repository
		students *student.Service
		mailSvc  core.EmailService
		delay    core.Delayer
		ops      *core.OpCounter

		demo map[string]demoAccount

		mu  sync.RWMutex
		cur *Identity
	}
)

func NewService(repo Repository, students *student.Service, mailSvc core.EmailService, delay core.Delayer, ops *core.OpCounter) *Service {
	svc := &Service{
		repo:     repo,
		students: students,
		mailSvc:  mailSvc,
		delay:    delay,
		ops:      ops,
		demo:     demoAccounts(),
	}
	svc.cur = repo.LoadIdentity() // restore session across restarts
	return svc
}

// demoAccounts is the fixed credential/role table bypassing registration.
func demoAccounts() map[string]demoAccount {
	pwd := core.Conf.DemoPassword
	return map[string]demoAccount{
		"admin@test.com": {password: pwd, role: RoleAdmin},
		"user@test.com":  {password: pwd, role: RoleStudent, studentID: null.Int64From(1)},
		"alice@test.com": {password: pwd, role: RoleStudent, studentID: null.Int64From(2)},
		"bob@test.com":   {password: pwd, role: RoleStudent, studentID: null.Int64From(3)},
	}
}

// Login authenticates against the demo account table first, then the
// registered accounts. Any failure surfaces as ErrInvalidCredentials.
func (svc *Service) Login(ctx context.Context, email, password string) (Identity, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Identity{}, err
	}

	emailKey := core.CleanString(email, true /* lower */)
	if len(password) < pwdMinLen {
		return Identity{}, ErrInvalidCredentials
	}

	if demo, ok := svc.demo[emailKey]; ok {
		if password != demo.password {
			return Identity{}, ErrInvalidCredentials
		}

		sid := demo.studentID
		if demo.role == RoleStudent && !sid.Valid {
			id, err := svc.students.EnsureByEmail(ctx, emailKey)
			if err != nil {
				return Identity{}, err
			}
			sid = null.Int64From(id)
		}
		return svc.setIdentity(emailKey, demo.role, sid)
	}

	acct, err := svc.repo.GetAccountByEmail(emailKey)
	if err != nil {
		if err == ErrNoAccount {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}
	if err = acct.CheckPassword(password); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	// late-bind the student record for accounts registered before linking existed
	if !acct.StudentID.Valid {
		id, err := svc.students.EnsureByEmail(ctx, acct.Email)
		if err != nil {
			return Identity{}, err
		}
		acct.StudentID = null.Int64From(id)
		if acct, err = svc.repo.UpdateAccount(acct); err != nil {
			return Identity{}, err
		}
	}
	return svc.setIdentity(acct.Email, RoleStudent, acct.StudentID)
}

// Register creates a linked student record, appends a new registered account
// and auto-logs-in the new identity.
func (svc *Service) Register(ctx context.Context, data RegisterAccount) (Identity, error) {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return Identity{}, err
	}

	if err := data.Validate(); err != nil {
		return Identity{}, err
	}

	if _, ok := svc.demo[data.Email]; ok {
		return Identity{}, core.NewValidationError(ErrEmailReserved, core.FieldError{Field: "email", Error: ErrEmailReserved.Error()})
	}
	if _, err := svc.repo.GetAccountByEmail(data.Email); err == nil {
		return Identity{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNoAccount {
		return Identity{}, err
	}

	sid, err := svc.students.EnsureByEmail(ctx, data.Email)
	if err != nil {
		return Identity{}, err
	}

	acct := Account{Email: data.Email, StudentID: null.Int64From(sid)}
	if err = acct.SetPassword(data.Password); err != nil {
		return Identity{}, err
	}
	if acct, err = svc.repo.CreateAccount(acct); err != nil {
		return Identity{}, err
	}
	svc.sendWelcomeMail(acct)

	return svc.setIdentity(acct.Email, RoleStudent, acct.StudentID)
}

// Logout clears the in-memory identity and its persisted snapshot.
func (svc *Service) Logout() error {
	svc.mu.Lock()
	svc.cur = nil
	svc.mu.Unlock()
	return svc.repo.ClearIdentity()
}

// Identity returns a copy of the current identity, or nil when signed out.
func (svc *Service) Identity() *Identity {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.cur == nil {
		return nil
	}
	ident := *svc.cur
	return &ident
}

func (svc *Service) Authenticated() bool {
	return svc.Identity() != nil
}

func (svc *Service) CurrentRole() (Role, bool) {
	if ident := svc.Identity(); ident != nil {
		return ident.Role, true
	}
	return "", false
}

func (svc *Service) Token() string {
	if ident := svc.Identity(); ident != nil {
		return ident.Token
	}
	return ""
}

func (svc *Service) Email() string {
	if ident := svc.Identity(); ident != nil {
		return ident.Email
	}
	return ""
}

// RequestPasswordReset emails a reset token to a registered account.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return err
	}

	acct, err := svc.repo.GetAccountByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	svc.sendPasswordResetMail(acct)
	return nil
}

// ResetPassword sets a new password on the account identified by the reset
// token. The token invalidates once used (it is bound to the password hash).
func (svc *Service) ResetPassword(ctx context.Context, data ResetAccountPassword) error {
	svc.ops.Start()
	defer svc.ops.Stop()
	if err := svc.delay.Delay(ctx); err != nil {
		return err
	}

	if err := data.Validate(); err != nil {
		return err
	}

	email, err := decodeUID(data.UID)
	if err != nil {
		return errInvalidToken
	}
	acct, err := svc.repo.GetAccountByEmail(email)
	if err != nil {
		return err
	}
	if err = verifyToken(acct, data.Token); err != nil {
		return err
	}
	if err = acct.SetPassword(data.Password); err != nil {
		return err
	}
	_, err = svc.repo.UpdateAccount(acct)
	return err
}

func (svc *Service) setIdentity(email string, role Role, sid null.Int64) (Identity, error) {
	ident := Identity{
		ID:        nowFunc().UnixNano() / int64(time.Millisecond),
		Email:     email,
		Role:      role,
		Token:     makeSessionToken(),
		StudentID: sid,
	}

	svc.mu.Lock()
	svc.cur = &ident
	svc.mu.Unlock()

	if err := svc.repo.SaveIdentity(ident); err != nil {
		return Identity{}, err
	}
	return ident, nil
}
