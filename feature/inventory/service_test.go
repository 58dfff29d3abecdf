package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inventory-tracker/core/database"
	"inventory-tracker/core/docstore"
	"inventory-tracker/core/notify"
	"inventory-tracker/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Subscribe(ctx context.Context, owner string, fn docstore.SnapshotFunc) (func(), error) {
	args := m.Called(ctx, owner, fn)
	if cancel, ok := args.Get(0).(func()); ok {
		return cancel, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Load(ctx context.Context, owner string) ([]reconcile.Record, error) {
	args := m.Called(ctx, owner)
	records, _ := args.Get(0).([]reconcile.Record)
	return records, args.Error(1)
}

func (m *mockStore) BatchUpdate(ctx context.Context, owner string, updates []reconcile.Update) error {
	return m.Called(ctx, owner, updates).Error(0)
}

func (m *mockStore) Insert(ctx context.Context, owner string, record reconcile.Record) (string, error) {
	args := m.Called(ctx, owner, record)
	return args.String(0), args.Error(1)
}

func (m *mockStore) FindBy(ctx context.Context, owner, field, value string) ([]reconcile.Record, error) {
	args := m.Called(ctx, owner, field, value)
	records, _ := args.Get(0).([]reconcile.Record)
	return records, args.Error(1)
}

func (m *mockStore) Owners(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	owners, _ := args.Get(0).([]string)
	return owners, args.Error(1)
}

// subscribeWith makes the mock deliver records as the initial snapshot.
func (m *mockStore) subscribeWith(owner string, records []reconcile.Record) {
	m.On("Subscribe", mock.Anything, owner, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(2).(docstore.SnapshotFunc)(records)
	}).Return(func() {}, nil)
}

func setupService(t *testing.T) (*Service, *docstore.Store, *recorder) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	store := docstore.New(db, zap.NewNop())
	require.NoError(t, store.Migrate())

	rec := &recorder{}
	svc, err := NewService(store, rec, Config{}, zap.NewNop())
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }
	t.Cleanup(svc.Close)

	return svc, store, rec
}

func newMockService(t *testing.T, store Store) *Service {
	t.Helper()
	svc, err := NewService(store, &recorder{}, Config{}, zap.NewNop())
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestService_LegacyRecordExpiresAndPersists(t *testing.T) {
	svc, store, rec := setupService(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, "user-1", reconcile.Record{"productname": "Milk", "expairy_date": "2024-01-01", "quantity": 2})
	require.NoError(t, err)

	products, err := svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.Equal(t, "Milk", products[0].ProductName)
	assert.Equal(t, reconcile.StatusExpired, products[0].Status)

	require.NoError(t, svc.Wait(ctx, "user-1"))

	records, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusExpired, records[0]["status"])
	assert.Equal(t, 1, rec.count(notify.KindAutoExpired))
}

func TestService_TransitionFailureKeepsMemory(t *testing.T) {
	store := new(mockStore)
	store.subscribeWith("user-1", []reconcile.Record{{"id": "a", "productName": "Milk", "expiryDate": "2024-01-01"}})
	store.On("BatchUpdate", mock.Anything, "user-1", []reconcile.Update{{ID: "a", Fields: map[string]any{"status": "expired"}}}).
		Return(errors.New("write failed"))

	svc := newMockService(t, store)
	ctx := context.Background()

	products, err := svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusExpired, products[0].Status)

	assert.EqualError(t, svc.Wait(ctx, "user-1"), "write failed")

	products, err = svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusExpired, products[0].Status)
}

func TestService_ExpiringAlertOnce(t *testing.T) {
	svc, store, rec := setupService(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, "user-1", reconcile.Record{"productName": "Yogurt", "expiryDate": "2024-02-02", "status": "in use"})
	require.NoError(t, err)

	soon, err := svc.ExpiringSoon(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, "Yogurt", soon[0].ProductName)
	assert.Equal(t, 1, rec.count(notify.KindExpiringSoon))

	// A new snapshot with the same product does not alert again
	_, err = store.Insert(ctx, "user-1", reconcile.Record{"productName": "Rice", "expiryDate": "2025-01-01"})
	require.NoError(t, err)
	store.Flush()

	products, err := svc.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, rec.count(notify.KindExpiringSoon))
}

func TestService_ScanInsertThenUpdate(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	payload := `{"qrId":"abc","productName":"Juice","expiryDate":"2030-01-01"}`

	d, err := svc.Scan(ctx, "user-1", payload, 3)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OpInsert, d.Op)
	assert.NotEmpty(t, d.Product.ID)
	assert.Equal(t, 3, d.Product.Quantity)

	d2, err := svc.Scan(ctx, "user-1", payload, 1)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OpUpdate, d2.Op)
	assert.Equal(t, d.Product.ID, d2.Product.ID)
	assert.Equal(t, 4, d2.Product.Quantity)
	assert.Equal(t, reconcile.StatusInUse, d2.Product.Status)

	records, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, float64(4), records[0]["quantity"])
	assert.Equal(t, "Juice", records[0]["productName"])
}

func TestService_ScanRevivesExpired(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, "user-1", reconcile.Record{"qrId": "abc", "productName": "Old", "expiryDate": "2029-01-01", "quantity": 0, "status": "used"})
	require.NoError(t, err)

	d, err := svc.Scan(ctx, "user-1", `{"qrId":"abc","productName":"New name"}`, 2)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OpUpdate, d.Op)
	assert.Equal(t, 2, d.Product.Quantity)
	assert.Equal(t, reconcile.StatusInUse, d.Product.Status)
	assert.Equal(t, "Old", d.Product.ProductName)
}

func TestService_ScanDuplicateRaceBecomesUpdate(t *testing.T) {
	store := new(mockStore)
	store.On("FindBy", mock.Anything, "user-1", "qrId", "abc").Return([]reconcile.Record(nil), nil).Once()
	store.On("Insert", mock.Anything, "user-1", mock.Anything).Return("", docstore.ErrDuplicate).Once()
	store.On("FindBy", mock.Anything, "user-1", "qrId", "abc").
		Return([]reconcile.Record{{"id": "doc-1", "qrId": "abc", "quantity": 2, "userId": "user-1"}}, nil).Once()
	store.On("BatchUpdate", mock.Anything, "user-1", []reconcile.Update{{ID: "doc-1", Fields: map[string]any{"quantity": 3, "status": "in use"}}}).
		Return(nil).Once()

	svc := newMockService(t, store)

	d, err := svc.Scan(context.Background(), "user-1", `{"qrId":"abc"}`, 1)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OpUpdate, d.Op)
	assert.Equal(t, 3, d.Product.Quantity)
	store.AssertExpectations(t)
}

func TestService_ScanErrors(t *testing.T) {
	store := new(mockStore)
	svc := newMockService(t, store)
	ctx := context.Background()

	_, err := svc.Scan(ctx, "user-1", "not json", 1)
	assert.ErrorIs(t, err, reconcile.ErrInvalidPayload)

	_, err = svc.Scan(ctx, "", `{"qrId":"abc"}`, 1)
	assert.ErrorIs(t, err, reconcile.ErrMissingOwner)

	store.On("FindBy", mock.Anything, "user-1", "qrId", "abc").Return([]reconcile.Record(nil), nil)
	_, err = svc.Scan(ctx, "user-1", `{"qrId":"abc"}`, 0)
	assert.ErrorIs(t, err, reconcile.ErrInvalidQuantity)

	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_StatusEditsAndSave(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, "user-1", reconcile.Record{"productName": "Tea", "expiryDate": "2026-01-01", "status": "in use"})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, "user-1", id, "used"))
	pending, err := svc.Pending(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	// Unsaved edits survive a fresh snapshot
	_, err = store.Insert(ctx, "user-1", reconcile.Record{"productName": "Coffee", "expiryDate": "2026-01-01"})
	require.NoError(t, err)
	store.Flush()

	rows, err := svc.View(ctx, "user-1", reconcile.Query{Search: "tea"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, reconcile.StatusUsed, rows[0].Status)

	records, err := store.FindBy(ctx, "user-1", reconcile.FieldProductName, "Tea")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusInUse, records[0]["status"])

	task, n, err := svc.SaveChanges(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, task.Wait(ctx))

	pending, err = svc.Pending(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, pending)

	records, err = store.FindBy(ctx, "user-1", reconcile.FieldProductName, "Tea")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusUsed, records[0]["status"])

	// Nothing left to save
	task, n, err = svc.SaveChanges(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, task.Wait(ctx))
}

func TestService_SaveFailureKeepsPending(t *testing.T) {
	store := new(mockStore)
	store.subscribeWith("user-1", []reconcile.Record{{"id": "a", "productName": "Tea", "expiryDate": "2026-01-01"}})
	store.On("BatchUpdate", mock.Anything, "user-1", mock.Anything).Return(errors.New("offline"))

	svc := newMockService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, "user-1", "a", "used"))
	task, _, err := svc.SaveChanges(ctx, "user-1")
	require.NoError(t, err)
	assert.EqualError(t, task.Wait(ctx), "offline")

	pending, err := svc.Pending(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestService_SetStatusErrors(t *testing.T) {
	store := new(mockStore)
	store.subscribeWith("user-1", []reconcile.Record{{"id": "a", "productName": "Tea"}})
	svc := newMockService(t, store)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetStatus(ctx, "user-1", "missing", "used"), ErrProductNotFound)
	assert.ErrorIs(t, svc.SetStatus(ctx, "user-1", "a", "  "), ErrInvalidStatus)
	assert.ErrorIs(t, svc.SetStatus(ctx, "", "a", "used"), reconcile.ErrMissingOwner)
}

func TestService_AddManual(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	p, err := svc.AddManual(ctx, "user-1", reconcile.ManualEntry{ProductName: "Rice", Quantity: 2, ExpiryDate: "2025-01-31"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Nil(t, p.QRID)

	records, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0]["qrId"])
	assert.Equal(t, "Rice", records[0]["productName"])

	_, err = svc.AddManual(ctx, "user-1", reconcile.ManualEntry{ProductName: "R", Quantity: 2, ExpiryDate: "2025-01-31"})
	assert.ErrorIs(t, err, reconcile.ErrInvalidName)

	records, err = store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestService_ViewAndExport(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	for _, r := range []reconcile.Record{
		{"productName": "Oat Milk", "expiryDate": "2024-03-15", "quantity": 1},
		{"productName": "Whole Milk", "expiryDate": "2024-02-03", "quantity": 1},
		{"productName": "Bread", "expiryDate": "garbage", "quantity": 1},
	} {
		_, err := store.Insert(ctx, "user-1", r)
		require.NoError(t, err)
	}

	rows, err := svc.View(ctx, "user-1", reconcile.Query{Status: reconcile.StatusAll})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bread", rows[0].ProductName)
	assert.Nil(t, rows[0].Badge)
	assert.Equal(t, "Whole Milk", rows[1].ProductName)
	assert.Equal(t, &reconcile.Badge{Level: reconcile.BadgeCritical, Days: 2}, rows[1].Badge)
	assert.Equal(t, "Oat Milk", rows[2].ProductName)
	assert.Equal(t, reconcile.BadgeOK, rows[2].Badge.Level)

	rows, err = svc.View(ctx, "user-1", reconcile.Query{Search: "MILK"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	data, err := svc.Export(ctx, "user-1", reconcile.Query{Search: "whole"})
	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, "id,qr_id,product_name,expiry_date,manufacture_date,ingredient,note,quantity,status,badge,days_left")
	assert.Contains(t, csv, "Whole Milk,2024-02-03,,,,1,in use,critical,2")
	assert.NotContains(t, csv, "Oat Milk")
}

func TestService_Sweep(t *testing.T) {
	svc, store, rec := setupService(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, "user-1", reconcile.Record{"productName": "Milk", "expiryDate": "2024-01-01", "status": "in use"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, "user-2", reconcile.Record{"productName": "Eggs", "expiryDate": "2024-01-15", "status": "in use"})
	require.NoError(t, err)

	res, err := svc.Sweep(ctx, "user-1", reconcile.Options{DryRun: true, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 1, res.Plan.Summary.ToExpire)

	records, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusInUse, records[0]["status"])

	results, err := svc.SweepAll(ctx, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, results["user-1"].Written)
	assert.Equal(t, 1, results["user-2"].Written)
	assert.Equal(t, 2, rec.count(notify.KindAutoExpired))

	records, err = store.Load(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusExpired, records[0]["status"])
}

func TestService_SweepAllJoinsErrors(t *testing.T) {
	store := new(mockStore)
	store.On("Owners", mock.Anything).Return([]string{"a", "b"}, nil)
	store.On("Load", mock.Anything, "a").Return(nil, errors.New("timeout"))
	store.On("Load", mock.Anything, "b").Return([]reconcile.Record{}, nil)

	svc := newMockService(t, store)

	results, err := svc.SweepAll(context.Background(), reconcile.Options{Confirmed: true})
	assert.EqualError(t, err, "timeout")
	assert.Contains(t, results, "b")
	assert.NotContains(t, results, "a")
}

func TestConfig_Location(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = Config{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)

	_, err = NewService(nil, nil, Config{Timezone: "Mars/Olympus"}, zap.NewNop())
	assert.Error(t, err)
}
