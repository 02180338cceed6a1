package pass_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kaleaditya28897-linux/gatepass/internal/directory"
	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka"
	"github.com/kaleaditya28897-linux/gatepass/internal/pass"
	passerrors "github.com/kaleaditya28897-linux/gatepass/internal/pass/errors"
)

type fakePassRepository struct {
	withTxFn              func(tx *sql.Tx) pass.Repository
	createFn              func(ctx context.Context, p *pass.VisitorPass) error
	findByIDFn            func(ctx context.Context, id string) (*pass.VisitorPass, error)
	findByIDForUpdateFn   func(ctx context.Context, id string) (*pass.VisitorPass, error)
	findByCodeFn          func(ctx context.Context, code string) (*pass.VisitorPass, error)
	findByCodeForUpdateFn func(ctx context.Context, code string) (*pass.VisitorPass, error)
	updateFn              func(ctx context.Context, p *pass.VisitorPass) error
	findAllFn             func(ctx context.Context, scope pass.PassScope, filter pass.ListPassFilter) ([]pass.VisitorPass, error)
	expireOverdueFn       func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakePassRepository) WithTx(tx *sql.Tx) pass.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePassRepository) Create(ctx context.Context, p *pass.VisitorPass) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePassRepository) FindByID(ctx context.Context, id string) (*pass.VisitorPass, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePassRepository) FindByIDForUpdate(ctx context.Context, id string) (*pass.VisitorPass, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePassRepository) FindByCode(ctx context.Context, code string) (*pass.VisitorPass, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePassRepository) FindByCodeForUpdate(ctx context.Context, code string) (*pass.VisitorPass, error) {
	if f.findByCodeForUpdateFn != nil {
		return f.findByCodeForUpdateFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePassRepository) Update(ctx context.Context, p *pass.VisitorPass) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePassRepository) FindAll(ctx context.Context, scope pass.PassScope, filter pass.ListPassFilter) ([]pass.VisitorPass, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, scope, filter)
	}
	return nil, nil
}

func (f *fakePassRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	if f.expireOverdueFn != nil {
		return f.expireOverdueFn(ctx, now)
	}
	return 0, nil
}

type fakeDirectoryRepository struct {
	findCompanyByIDFn          func(ctx context.Context, id string) (*directory.Company, error)
	findEmployeeByIDFn         func(ctx context.Context, id string) (*directory.Employee, error)
	employeeBelongsToCompanyFn func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeDirectoryRepository) FindCompanyByID(ctx context.Context, id string) (*directory.Company, error) {
	if f.findCompanyByIDFn != nil {
		return f.findCompanyByIDFn(ctx, id)
	}
	return &directory.Company{ID: uuid.New(), Name: "Acme Corp", IsActive: true}, nil
}

func (f *fakeDirectoryRepository) FindEmployeeByID(ctx context.Context, id string) (*directory.Employee, error) {
	if f.findEmployeeByIDFn != nil {
		return f.findEmployeeByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectoryRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsToCompanyFn != nil {
		return f.employeeBelongsToCompanyFn(ctx, companyID, employeeID)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeQRGenerator struct {
	generateFn func(passCode string) (string, error)
}

func (f *fakeQRGenerator) Generate(passCode string) (string, error) {
	if f.generateFn != nil {
		return f.generateFn(passCode)
	}
	return "media/qr_codes/qr_" + passCode + ".png", nil
}

type passServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   pass.Service
	repo      *fakePassRepository
	directory *fakeDirectoryRepository
	outbox    *fakeOutboxRepository
	qr        *fakeQRGenerator
}

func setupPassServiceTest(t *testing.T) *passServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePassRepository{}
	dir := &fakeDirectoryRepository{}
	outbox := &fakeOutboxRepository{}
	qr := &fakeQRGenerator{}
	svc := pass.NewService(db, repo, dir, outbox, qr)

	return &passServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		directory: dir,
		outbox:    outbox,
		qr:        qr,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func adminActor() identity.Identity {
	return identity.Identity{UserID: uuid.New().String(), Role: identity.RoleAdmin}
}

func pendingPass(hostCompanyID uuid.UUID) *pass.VisitorPass {
	return &pass.VisitorPass{
		ID:            uuid.New(),
		VisitorName:   "Jordan Reyes",
		VisitorPhone:  "+6281234500001",
		VisitorEmail:  "jordan@example.com",
		HostCompanyID: hostCompanyID,
		HostCompany:   &pass.CompanyRef{ID: hostCompanyID, Name: "Acme Corp"},
		PassCode:      uuid.New().String(),
		PassType:      pass.TypePreApproved,
		Status:        pass.StatusPending,
		ValidFrom:     time.Now().UTC(),
		ValidUntil:    time.Now().UTC().Add(8 * time.Hour),
	}
}

func TestPassService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid window format", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, adminActor(), pass.CreatePassRequest{
			VisitorName:   "Jordan Reyes",
			VisitorPhone:  "+6281234500001",
			HostCompanyID: uuid.New().String(),
			ValidFrom:     "tomorrow",
			ValidUntil:    "2026-09-02T17:00:00Z",
		})
		assert.ErrorIs(t, err, passerrors.ErrInvalidValidityFormat)
	})

	t.Run("window must be ordered", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, adminActor(), pass.CreatePassRequest{
			VisitorName:   "Jordan Reyes",
			VisitorPhone:  "+6281234500001",
			HostCompanyID: uuid.New().String(),
			ValidFrom:     "2026-09-02T17:00:00Z",
			ValidUntil:    "2026-09-02T09:00:00Z",
		})
		assert.ErrorIs(t, err, passerrors.ErrInvalidValidityWindow)
	})

	t.Run("success creates pending pass", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		hostCompanyID := uuid.New()
		var created *pass.VisitorPass
		deps.repo.createFn = func(ctx context.Context, p *pass.VisitorPass) error {
			created = p
			return nil
		}
		deps.directory.findCompanyByIDFn = func(ctx context.Context, id string) (*directory.Company, error) {
			assert.Equal(t, hostCompanyID.String(), id)
			return &directory.Company{ID: hostCompanyID, Name: "Acme Corp"}, nil
		}

		resp, err := deps.service.Create(ctx, adminActor(), pass.CreatePassRequest{
			VisitorName:   "Jordan Reyes",
			VisitorPhone:  "+6281234500001",
			HostCompanyID: hostCompanyID.String(),
			ValidFrom:     "2026-09-02T09:00:00Z",
			ValidUntil:    "2026-09-02T17:00:00Z",
		})
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, pass.StatusPending, resp.Status)
		assert.NotEmpty(t, resp.PassCode)
		assert.Nil(t, resp.QRCodePath)
	})

	t.Run("employee host fields come from own profile", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		companyID := uuid.New()
		employeeID := uuid.New()
		actor := identity.Identity{
			UserID:     uuid.New().String(),
			Role:       identity.RoleEmployee,
			CompanyID:  companyID.String(),
			EmployeeID: employeeID.String(),
		}

		deps.directory.findEmployeeByIDFn = func(ctx context.Context, id string) (*directory.Employee, error) {
			assert.Equal(t, employeeID.String(), id)
			return &directory.Employee{ID: employeeID, CompanyID: companyID, FullName: "Dewi Santoso"}, nil
		}

		var created *pass.VisitorPass
		deps.repo.createFn = func(ctx context.Context, p *pass.VisitorPass) error {
			created = p
			return nil
		}

		// Supplied host fields must be ignored for employees.
		_, err := deps.service.Create(ctx, actor, pass.CreatePassRequest{
			VisitorName:   "Jordan Reyes",
			VisitorPhone:  "+6281234500001",
			HostCompanyID: uuid.New().String(),
			ValidFrom:     "2026-09-02T09:00:00Z",
			ValidUntil:    "2026-09-02T17:00:00Z",
		})
		assert.NoError(t, err)
		assert.Equal(t, companyID, created.HostCompanyID)
		assert.NotNil(t, created.HostEmployeeID)
		assert.Equal(t, employeeID, *created.HostEmployeeID)
	})
}

func TestPassService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("success transitions pending to approved", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			assert.Equal(t, p.ID.String(), id)
			return p, nil
		}
		var updated *pass.VisitorPass
		deps.repo.updateFn = func(ctx context.Context, p *pass.VisitorPass) error {
			updated = p
			return nil
		}

		resp, err := deps.service.Approve(ctx, adminActor(), p.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, pass.StatusApproved, resp.Status)
		assert.NotNil(t, updated.ApprovedBy)
		assert.NotNil(t, updated.ApprovedAt)
		assert.NotNil(t, updated.QRCodePath)
		// One notification event plus one audit event.
		assert.Len(t, deps.outbox.created, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non-pending pass is rejected", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		p.Status = pass.StatusApproved
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return p, nil
		}

		_, err := deps.service.Approve(ctx, adminActor(), p.ID.String())
		assert.ErrorIs(t, err, passerrors.ErrNotPending)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("qr failure does not block approval", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return p, nil
		}
		deps.qr.generateFn = func(passCode string) (string, error) {
			return "", errors.New("disk full")
		}

		resp, err := deps.service.Approve(ctx, adminActor(), p.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, pass.StatusApproved, resp.Status)
		assert.Nil(t, resp.QRCodePath)
	})

	t.Run("company admin cannot approve another company's pass", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return p, nil
		}

		actor := identity.Identity{
			UserID:    uuid.New().String(),
			Role:      identity.RoleCompanyAdmin,
			CompanyID: uuid.New().String(),
		}
		_, err := deps.service.Approve(ctx, actor, p.ID.String())
		assert.ErrorIs(t, err, passerrors.ErrPassNotFound)
	})

	t.Run("missing pass", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, adminActor(), uuid.New().String())
		assert.ErrorIs(t, err, passerrors.ErrPassNotFound)
	})
}

func TestPassService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success records reason", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return p, nil
		}

		resp, err := deps.service.Reject(ctx, adminActor(), p.ID.String(), "visit cancelled by host")
		assert.NoError(t, err)
		assert.Equal(t, pass.StatusRejected, resp.Status)
		assert.Equal(t, "visit cancelled by host", resp.RejectedReason)
	})

	t.Run("already approved cannot be rejected", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		p.Status = pass.StatusApproved
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return p, nil
		}

		_, err := deps.service.Reject(ctx, adminActor(), p.ID.String(), "")
		assert.ErrorIs(t, err, passerrors.ErrNotPending)
	})
}

func TestPassService_WalkIn(t *testing.T) {
	ctx := context.Background()

	t.Run("issued approved with artifact in one call", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		hostCompanyID := uuid.New()
		expectTx(t, deps.sqlMock, true)

		deps.directory.findCompanyByIDFn = func(ctx context.Context, id string) (*directory.Company, error) {
			return &directory.Company{ID: hostCompanyID, Name: "Acme Corp"}, nil
		}
		var created *pass.VisitorPass
		deps.repo.createFn = func(ctx context.Context, p *pass.VisitorPass) error {
			created = p
			return nil
		}

		guard := identity.Identity{UserID: uuid.New().String(), Role: identity.RoleGuard}
		resp, err := deps.service.WalkIn(ctx, guard, pass.WalkInPassRequest{
			VisitorName:   "Maya Putri",
			VisitorPhone:  "+6281234500002",
			HostCompanyID: hostCompanyID.String(),
			ValidFrom:     "2026-09-02T09:00:00Z",
			ValidUntil:    "2026-09-02T17:00:00Z",
		})
		assert.NoError(t, err)
		assert.Equal(t, pass.StatusApproved, resp.Status)
		assert.Equal(t, pass.TypeWalkIn, resp.PassType)
		assert.NotNil(t, resp.QRCodePath)
		assert.NotNil(t, created.ApprovedBy)
		assert.Len(t, deps.outbox.created, 1)
	})
}

func TestPassService_VerifyByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.VerifyByCode(ctx, uuid.New().String())
		assert.ErrorIs(t, err, passerrors.ErrPassNotFound)
	})

	t.Run("public projection has no ids", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		p := pendingPass(uuid.New())
		deps.repo.findByCodeFn = func(ctx context.Context, code string) (*pass.VisitorPass, error) {
			assert.Equal(t, p.PassCode, code)
			return p, nil
		}

		resp, err := deps.service.VerifyByCode(ctx, p.PassCode)
		assert.NoError(t, err)
		assert.Equal(t, p.PassCode, resp.PassCode)
		assert.Equal(t, "Acme Corp", resp.HostCompanyName)
	})
}

func TestPassService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("company admin is scoped to own company", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		companyID := uuid.New().String()
		deps.repo.findAllFn = func(ctx context.Context, scope pass.PassScope, filter pass.ListPassFilter) ([]pass.VisitorPass, error) {
			assert.Equal(t, companyID, scope.HostCompanyID)
			return nil, nil
		}

		actor := identity.Identity{UserID: uuid.New().String(), Role: identity.RoleCompanyAdmin, CompanyID: companyID}
		_, err := deps.service.GetAll(ctx, actor, pass.ListPassFilter{})
		assert.NoError(t, err)
	})

	t.Run("guard has no list scope", func(t *testing.T) {
		deps := setupPassServiceTest(t)
		defer deps.db.Close()

		actor := identity.Identity{UserID: uuid.New().String(), Role: identity.RoleGuard}
		_, err := deps.service.GetAll(ctx, actor, pass.ListPassFilter{})
		assert.Error(t, err)
	})
}
