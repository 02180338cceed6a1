package entry_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kaleaditya28897-linux/gatepass/internal/delivery"
	deliveryerrors "github.com/kaleaditya28897-linux/gatepass/internal/delivery/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/directory"
	"github.com/kaleaditya28897-linux/gatepass/internal/entry"
	entryerrors "github.com/kaleaditya28897-linux/gatepass/internal/entry/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/gate"
	gateerrors "github.com/kaleaditya28897-linux/gatepass/internal/gate/errors"
	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka"
	"github.com/kaleaditya28897-linux/gatepass/internal/pass"
	passerrors "github.com/kaleaditya28897-linux/gatepass/internal/pass/errors"
)

type fakeEntryRepository struct {
	withTxFn             func(tx *sql.Tx) entry.Repository
	createFn             func(ctx context.Context, e *entry.EntryLog) error
	findByIDForUpdateFn  func(ctx context.Context, id string) (*entry.EntryLog, error)
	hasOpenForPassFn     func(ctx context.Context, passID string) (bool, error)
	hasOpenForDeliveryFn func(ctx context.Context, deliveryID string) (bool, error)
	updateFn             func(ctx context.Context, e *entry.EntryLog) error
	findActiveFn         func(ctx context.Context, companyName string) ([]entry.EntryLog, error)
	findAllFn            func(ctx context.Context, companyName string, filter entry.ListEntryFilter) ([]entry.EntryLog, error)
}

func (f *fakeEntryRepository) WithTx(tx *sql.Tx) entry.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEntryRepository) Create(ctx context.Context, e *entry.EntryLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEntryRepository) FindByIDForUpdate(ctx context.Context, id string) (*entry.EntryLog, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEntryRepository) HasOpenForPass(ctx context.Context, passID string) (bool, error) {
	if f.hasOpenForPassFn != nil {
		return f.hasOpenForPassFn(ctx, passID)
	}
	return false, nil
}

func (f *fakeEntryRepository) HasOpenForDelivery(ctx context.Context, deliveryID string) (bool, error) {
	if f.hasOpenForDeliveryFn != nil {
		return f.hasOpenForDeliveryFn(ctx, deliveryID)
	}
	return false, nil
}

func (f *fakeEntryRepository) Update(ctx context.Context, e *entry.EntryLog) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEntryRepository) FindActive(ctx context.Context, companyName string) ([]entry.EntryLog, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, companyName)
	}
	return nil, nil
}

func (f *fakeEntryRepository) FindAll(ctx context.Context, companyName string, filter entry.ListEntryFilter) ([]entry.EntryLog, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyName, filter)
	}
	return nil, nil
}

type fakePassRepository struct {
	findByCodeForUpdateFn func(ctx context.Context, code string) (*pass.VisitorPass, error)
	findByIDForUpdateFn   func(ctx context.Context, id string) (*pass.VisitorPass, error)
	updateFn              func(ctx context.Context, p *pass.VisitorPass) error
}

func (f *fakePassRepository) WithTx(tx *sql.Tx) pass.Repository { return f }

func (f *fakePassRepository) Create(ctx context.Context, p *pass.VisitorPass) error { return nil }

func (f *fakePassRepository) FindByID(ctx context.Context, id string) (*pass.VisitorPass, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePassRepository) FindByIDForUpdate(ctx context.Context, id string) (*pass.VisitorPass, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePassRepository) FindByCode(ctx context.Context, code string) (*pass.VisitorPass, error) {
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
	return nil, nil
}

func (f *fakePassRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeDeliveryRepository struct {
	findByIDForUpdateFn func(ctx context.Context, id string) (*delivery.Delivery, error)
	updateFn            func(ctx context.Context, d *delivery.Delivery) error
}

func (f *fakeDeliveryRepository) WithTx(tx *sql.Tx) delivery.Repository { return f }

func (f *fakeDeliveryRepository) Create(ctx context.Context, d *delivery.Delivery) error {
	return nil
}

func (f *fakeDeliveryRepository) FindByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeliveryRepository) FindByIDForUpdate(ctx context.Context, id string) (*delivery.Delivery, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, d)
	}
	return nil
}

func (f *fakeDeliveryRepository) FindAll(ctx context.Context, scope delivery.DeliveryScope, filter delivery.ListDeliveryFilter) ([]delivery.Delivery, error) {
	return nil, nil
}

func (f *fakeDeliveryRepository) FindPendingGate(ctx context.Context) ([]delivery.Delivery, error) {
	return nil, nil
}

type fakeGateRepository struct {
	findByIDFn func(ctx context.Context, id string) (*gate.Gate, error)
}

func (f *fakeGateRepository) Create(ctx context.Context, g *gate.Gate) error { return nil }

func (f *fakeGateRepository) FindByID(ctx context.Context, id string) (*gate.Gate, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGateRepository) FindAll(ctx context.Context) ([]gate.Gate, error) { return nil, nil }

func (f *fakeGateRepository) Update(ctx context.Context, g *gate.Gate) error { return nil }

func (f *fakeGateRepository) FindShiftsByGate(ctx context.Context, gateID string) ([]gate.GuardShift, error) {
	return nil, nil
}

type fakeDirectoryRepository struct {
	findCompanyByIDFn func(ctx context.Context, id string) (*directory.Company, error)
}

func (f *fakeDirectoryRepository) FindCompanyByID(ctx context.Context, id string) (*directory.Company, error) {
	if f.findCompanyByIDFn != nil {
		return f.findCompanyByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectoryRepository) FindEmployeeByID(ctx context.Context, id string) (*directory.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectoryRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
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

type entryServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    entry.Service
	repo       *fakeEntryRepository
	passes     *fakePassRepository
	deliveries *fakeDeliveryRepository
	gates      *fakeGateRepository
	directory  *fakeDirectoryRepository
	outbox     *fakeOutboxRepository
}

func setupEntryServiceTest(t *testing.T) *entryServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEntryRepository{}
	passes := &fakePassRepository{}
	deliveries := &fakeDeliveryRepository{}
	gates := &fakeGateRepository{}
	dir := &fakeDirectoryRepository{}
	outbox := &fakeOutboxRepository{}
	svc := entry.NewService(db, repo, passes, deliveries, gates, dir, outbox)

	return &entryServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		passes:     passes,
		deliveries: deliveries,
		gates:      gates,
		directory:  dir,
		outbox:     outbox,
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

func guardActor() identity.Identity {
	return identity.Identity{UserID: uuid.New().String(), Role: identity.RoleGuard}
}

func activeGate() *gate.Gate {
	return &gate.Gate{
		ID:       uuid.New(),
		Name:     "Main Gate",
		Code:     "GATE-A",
		GateType: gate.TypePedestrian,
		IsActive: true,
	}
}

func approvedPass() *pass.VisitorPass {
	companyID := uuid.New()
	return &pass.VisitorPass{
		ID:            uuid.New(),
		VisitorName:   "Jordan Reyes",
		VisitorPhone:  "+6281234500001",
		HostCompanyID: companyID,
		HostCompany:   &pass.CompanyRef{ID: companyID, Name: "Acme Corp"},
		PassCode:      uuid.New().String(),
		PassType:      pass.TypePreApproved,
		Status:        pass.StatusApproved,
		ValidFrom:     time.Now().UTC().Add(-time.Hour),
		ValidUntil:    time.Now().UTC().Add(8 * time.Hour),
	}
}

func TestEntryService_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("requires exactly one subject", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()

		_, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID: g.ID.String(),
		})
		assert.ErrorIs(t, err, entryerrors.ErrExactlyOneSubject)

		_, err = deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:     g.ID.String(),
			PassCode:   uuid.New().String(),
			DeliveryID: uuid.New().String(),
		})
		assert.ErrorIs(t, err, entryerrors.ErrExactlyOneSubject)
	})

	t.Run("inactive gate is rejected", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		g.IsActive = false
		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}

		_, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:   g.ID.String(),
			PassCode: uuid.New().String(),
		})
		assert.ErrorIs(t, err, gateerrors.ErrGateInactive)
	})

	t.Run("visitor check-in snapshots identity and closes over pass", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		p := approvedPass()
		expectTx(t, deps.sqlMock, true)

		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}
		deps.passes.findByCodeForUpdateFn = func(ctx context.Context, code string) (*pass.VisitorPass, error) {
			assert.Equal(t, p.PassCode, code)
			return p, nil
		}
		var created *entry.EntryLog
		deps.repo.createFn = func(ctx context.Context, e *entry.EntryLog) error {
			created = e
			return nil
		}

		resp, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:   g.ID.String(),
			PassCode: p.PassCode,
		})
		assert.NoError(t, err)
		assert.Equal(t, entry.TypeVisitor, resp.EntryType)
		assert.Equal(t, "Jordan Reyes", resp.VisitorName)
		assert.Equal(t, "Acme Corp", resp.CompanyName)
		assert.Equal(t, pass.StatusCheckedIn, p.Status)
		assert.NotNil(t, created.VisitorPassID)
		assert.Equal(t, p.ID, *created.VisitorPassID)
		// Host notification plus audit trail entry.
		assert.Len(t, deps.outbox.created, 2)
	})

	t.Run("already checked-in pass can re-enter after check-out only", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		p := approvedPass()
		p.Status = pass.StatusCheckedIn
		expectTx(t, deps.sqlMock, false)

		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}
		deps.passes.findByCodeForUpdateFn = func(ctx context.Context, code string) (*pass.VisitorPass, error) {
			return p, nil
		}
		deps.repo.hasOpenForPassFn = func(ctx context.Context, passID string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:   g.ID.String(),
			PassCode: p.PassCode,
		})
		assert.ErrorIs(t, err, entryerrors.ErrAlreadyInside)
	})

	t.Run("expired pass is rejected whatever its status", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		p := approvedPass()
		p.Status = pass.StatusPending
		p.ValidUntil = time.Now().UTC().Add(-time.Minute)
		expectTx(t, deps.sqlMock, false)

		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}
		deps.passes.findByCodeForUpdateFn = func(ctx context.Context, code string) (*pass.VisitorPass, error) {
			return p, nil
		}

		_, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:   g.ID.String(),
			PassCode: p.PassCode,
		})
		assert.ErrorIs(t, err, passerrors.ErrPassExpired)
	})

	t.Run("pending pass cannot check in", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		p := approvedPass()
		p.Status = pass.StatusPending
		expectTx(t, deps.sqlMock, false)

		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}
		deps.passes.findByCodeForUpdateFn = func(ctx context.Context, code string) (*pass.VisitorPass, error) {
			return p, nil
		}

		_, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:   g.ID.String(),
			PassCode: p.PassCode,
		})
		assert.ErrorIs(t, err, passerrors.ErrNotCheckable)
	})

	t.Run("delivery check-in advances expected to arrived", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		companyID := uuid.New()
		d := &delivery.Delivery{
			ID:                  uuid.New(),
			CompanyID:           companyID,
			EmployeeID:          uuid.New(),
			DeliveryType:        delivery.TypeCourier,
			Status:              delivery.StatusExpected,
			DeliveryPersonName:  "Rudi Hartanto",
			DeliveryPersonPhone: "+6281234500003",
			OTPCode:             "482913",
			Company:             &delivery.CompanyRef{ID: companyID, Name: "Acme Corp"},
		}
		expectTx(t, deps.sqlMock, true)

		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}
		deps.deliveries.findByIDForUpdateFn = func(ctx context.Context, id string) (*delivery.Delivery, error) {
			return d, nil
		}

		resp, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:     g.ID.String(),
			DeliveryID: d.ID.String(),
		})
		assert.NoError(t, err)
		assert.Equal(t, entry.TypeDelivery, resp.EntryType)
		assert.Equal(t, "Rudi Hartanto", resp.VisitorName)
		assert.Equal(t, delivery.StatusArrived, d.Status)
		// Arrival notification plus audit trail entry.
		assert.Len(t, deps.outbox.created, 2)
	})

	t.Run("delivered delivery cannot check in", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		g := activeGate()
		d := &delivery.Delivery{
			ID:         uuid.New(),
			CompanyID:  uuid.New(),
			EmployeeID: uuid.New(),
			Status:     delivery.StatusDelivered,
			OTPCode:    "482913",
		}
		expectTx(t, deps.sqlMock, false)

		deps.gates.findByIDFn = func(ctx context.Context, id string) (*gate.Gate, error) {
			return g, nil
		}
		deps.deliveries.findByIDForUpdateFn = func(ctx context.Context, id string) (*delivery.Delivery, error) {
			return d, nil
		}

		_, err := deps.service.CheckIn(ctx, guardActor(), entry.CheckInRequest{
			GateID:     g.ID.String(),
			DeliveryID: d.ID.String(),
		})
		assert.ErrorIs(t, err, deliveryerrors.ErrNotCheckable)
	})
}

func TestEntryService_CheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("closes entry and cascades to pass", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		p := approvedPass()
		p.Status = pass.StatusCheckedIn
		passID := p.ID
		e := &entry.EntryLog{
			ID:            uuid.New(),
			EntryType:     entry.TypeVisitor,
			VisitorPassID: &passID,
			VisitorName:   "Jordan Reyes",
			CheckInTime:   time.Now().UTC().Add(-time.Hour),
		}
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*entry.EntryLog, error) {
			return e, nil
		}
		deps.passes.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			assert.Equal(t, passID.String(), id)
			return p, nil
		}

		resp, err := deps.service.CheckOut(ctx, guardActor(), e.ID.String())
		assert.NoError(t, err)
		assert.NotNil(t, resp.CheckOutTime)
		assert.Equal(t, pass.StatusCheckedOut, p.Status)
	})

	t.Run("second check-out reads as not found", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		now := time.Now().UTC()
		e := &entry.EntryLog{
			ID:           uuid.New(),
			EntryType:    entry.TypeVisitor,
			CheckInTime:  now.Add(-time.Hour),
			CheckOutTime: &now,
		}
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*entry.EntryLog, error) {
			return e, nil
		}

		_, err := deps.service.CheckOut(ctx, guardActor(), e.ID.String())
		assert.ErrorIs(t, err, entryerrors.ErrEntryNotFound)
	})

	t.Run("deleted linked pass does not block check-out", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		passID := uuid.New()
		e := &entry.EntryLog{
			ID:            uuid.New(),
			EntryType:     entry.TypeVisitor,
			VisitorPassID: &passID,
			CheckInTime:   time.Now().UTC().Add(-time.Hour),
		}
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*entry.EntryLog, error) {
			return e, nil
		}
		deps.passes.findByIDForUpdateFn = func(ctx context.Context, id string) (*pass.VisitorPass, error) {
			return nil, gorm.ErrRecordNotFound
		}

		resp, err := deps.service.CheckOut(ctx, guardActor(), e.ID.String())
		assert.NoError(t, err)
		assert.NotNil(t, resp.CheckOutTime)
	})
}

func TestEntryService_Active(t *testing.T) {
	ctx := context.Background()

	t.Run("company admin is scoped by company name", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		companyID := uuid.New()
		deps.directory.findCompanyByIDFn = func(ctx context.Context, id string) (*directory.Company, error) {
			assert.Equal(t, companyID.String(), id)
			return &directory.Company{ID: companyID, Name: "Acme Corp"}, nil
		}
		deps.repo.findActiveFn = func(ctx context.Context, companyName string) ([]entry.EntryLog, error) {
			assert.Equal(t, "Acme Corp", companyName)
			return nil, nil
		}

		actor := identity.Identity{
			UserID:    uuid.New().String(),
			Role:      identity.RoleCompanyAdmin,
			CompanyID: companyID.String(),
		}
		_, err := deps.service.Active(ctx, actor)
		assert.NoError(t, err)
	})

	t.Run("guard sees every open entry", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		deps.repo.findActiveFn = func(ctx context.Context, companyName string) ([]entry.EntryLog, error) {
			assert.Empty(t, companyName)
			return []entry.EntryLog{{ID: uuid.New(), EntryType: entry.TypeVisitor, CheckInTime: time.Now().UTC()}}, nil
		}

		rows, err := deps.service.Active(ctx, guardActor())
		assert.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("employee has no ledger access", func(t *testing.T) {
		deps := setupEntryServiceTest(t)
		defer deps.db.Close()

		actor := identity.Identity{UserID: uuid.New().String(), Role: identity.RoleEmployee}
		_, err := deps.service.Active(ctx, actor)
		assert.Error(t, err)
	})
}
