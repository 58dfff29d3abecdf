package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"inventory-tracker/core/docstore"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/notify"
	"inventory-tracker/core/reconcile"

	"go.uber.org/zap"
)

var (
	// ErrProductNotFound is returned for edits of a product the owner does not have.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidStatus is returned for blank status edits.
	ErrInvalidStatus = errors.New("status is required")
)

// Store is the document store the inventory is kept in sync with.
type Store interface {
	Subscribe(ctx context.Context, owner string, fn docstore.SnapshotFunc) (func(), error)
	Load(ctx context.Context, owner string) ([]reconcile.Record, error)
	BatchUpdate(ctx context.Context, owner string, updates []reconcile.Update) error
	Insert(ctx context.Context, owner string, record reconcile.Record) (string, error)
	FindBy(ctx context.Context, owner, field, value string) ([]reconcile.Record, error)
	Owners(ctx context.Context) ([]string, error)
}

// Row is a product as shown in the inventory table.
type Row struct {
	reconcile.Product
	Badge *reconcile.Badge `json:"badge,omitempty"`
}

// SweepResult is the outcome of a sweep for one owner.
type SweepResult struct {
	Plan    *reconcile.SweepPlan `json:"plan"`
	Written int                  `json:"written"`
}

// state is the in-memory inventory of one owner.
type state struct {
	mu       sync.RWMutex
	products []reconcile.Product
	// pending holds manual status edits not yet saved, by product id
	pending map[string]string
	// alerted remembers products already announced as expiring soon
	alerted map[string]bool
	// writes is the latest background write
	writes *reconcile.Task
	cancel func()
}

// Service keeps one live inventory per owner, fed by store snapshots.
type Service struct {
	store    Store
	notifier notify.Notifier
	logger   *zap.Logger
	loc      *time.Location
	cfg      Config
	now      func() time.Time

	mu     sync.Mutex
	owners map[string]*state
}

// NewService creates a new inventory service.
func NewService(store Store, notifier notify.Notifier, cfg Config, logger *zap.Logger) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
		cfg:      cfg,
		now:      time.Now,
		owners:   make(map[string]*state),
	}, nil
}

// Location returns the time zone used for expiry computations.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

// open returns the owner's inventory, subscribing on first use. The first
// snapshot has been applied when open returns.
func (s *Service) open(ctx context.Context, owner string) (*state, error) {
	if owner == "" {
		return nil, reconcile.ErrMissingOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.owners[owner]; ok {
		return st, nil
	}

	st := &state{
		pending: make(map[string]string),
		alerted: make(map[string]bool),
		writes:  reconcile.Completed(nil),
	}
	cancel, err := s.store.Subscribe(ctx, owner, func(records []reconcile.Record) {
		s.applySnapshot(owner, st, records)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	st.cancel = cancel
	s.owners[owner] = st
	return st, nil
}

// applySnapshot replaces the owner's products with a fresh store snapshot,
// re-applies unsaved status edits and runs the lifecycle rules.
func (s *Service) applySnapshot(owner string, st *state, records []reconcile.Record) {
	today := s.today()
	products := reconcile.NormalizeAll(records, today)

	st.mu.Lock()
	for i := range products {
		if status, ok := st.pending[products[i].ID]; ok {
			products[i].Status = status
		}
	}
	ev := reconcile.Evaluate(products, today)
	st.products = ev.Products

	var fresh []reconcile.Product
	for _, p := range ev.ExpiringSoon {
		key := alertKey(p)
		if !st.alerted[key] {
			st.alerted[key] = true
			fresh = append(fresh, p)
		}
	}

	if len(ev.Updates) > 0 {
		st.writes = s.persistTransitions(owner, ev)
	}
	st.mu.Unlock()

	l := logger.WithOwner(s.logger, owner)
	if ev.InvalidDates > 0 {
		l.Debug("Products with unparsable expiry dates", zap.Int("count", ev.InvalidDates))
	}
	if len(fresh) > 0 {
		s.publish(owner, notify.KindExpiringSoon, fresh)
	}
}

// persistTransitions writes an automatic expiry batch in the background.
// Memory is never rolled back on failure; the next snapshot retries.
func (s *Service) persistTransitions(owner string, ev reconcile.Evaluation) *reconcile.Task {
	updates := ev.Updates
	transitioned := ev.Transitioned
	return reconcile.Go(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout())
		defer cancel()

		l := logger.WithOwner(s.logger, owner)
		if err := s.store.BatchUpdate(ctx, owner, updates); err != nil {
			l.Error("Failed to persist expired products", zap.Int("count", len(updates)), zap.Error(err))
			return err
		}
		l.Info("Marked products as expired", zap.Int("count", len(updates)))
		s.publish(owner, notify.KindAutoExpired, transitioned)
		return nil
	})
}

func (s *Service) publish(owner, kind string, products []reconcile.Product) {
	items := make([]notify.Item, 0, len(products))
	for _, p := range products {
		items = append(items, notify.Item{ID: p.ID, ProductName: p.ProductName, ExpiryDate: p.ExpiryDate})
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout())
	defer cancel()

	err := s.notifier.Publish(ctx, notify.Event{Kind: kind, Owner: owner, Items: items, Occurred: s.now().UTC()})
	if err != nil {
		logger.WithOwner(s.logger, owner).Warn("Failed to publish alert", zap.String("kind", kind), zap.Error(err))
	}
}

func alertKey(p reconcile.Product) string {
	if p.ID != "" {
		return p.ID
	}
	return p.ProductName + "|" + p.ExpiryDate
}

// Snapshot returns a copy of the owner's current products.
func (s *Service) Snapshot(ctx context.Context, owner string) ([]reconcile.Product, error) {
	st, err := s.open(ctx, owner)
	if err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]reconcile.Product, len(st.products))
	for i, p := range st.products {
		out[i] = p.Clone()
	}
	return out, nil
}

// View returns the filtered, expiry-ordered products with their badges.
func (s *Service) View(ctx context.Context, owner string, q reconcile.Query) ([]Row, error) {
	st, err := s.open(ctx, owner)
	if err != nil {
		return nil, err
	}

	st.mu.RLock()
	projected := reconcile.Project(st.products, q, s.loc)
	st.mu.RUnlock()

	today := s.today()
	rows := make([]Row, len(projected))
	for i, p := range projected {
		rows[i] = Row{Product: p}
		if b, ok := reconcile.ExpiryBadge(p, today); ok {
			rows[i].Badge = &b
		}
	}
	return rows, nil
}

// ExpiringSoon returns the products expiring within the alert window, as of now.
func (s *Service) ExpiringSoon(ctx context.Context, owner string) ([]reconcile.Product, error) {
	st, err := s.open(ctx, owner)
	if err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()

	return reconcile.Evaluate(st.products, s.today()).ExpiringSoon, nil
}

// SetStatus changes a product's status in memory. The edit is kept until
// SaveChanges persists it. Any status may be set by hand.
func (s *Service) SetStatus(ctx context.Context, owner, id, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return ErrInvalidStatus
	}
	st, err := s.open(ctx, owner)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	for i := range st.products {
		if st.products[i].ID == id && id != "" {
			st.products[i].Status = status
			// id may alias a request buffer; key by the stored id
			st.pending[st.products[i].ID] = status
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Pending returns the number of unsaved status edits.
func (s *Service) Pending(ctx context.Context, owner string) (int, error) {
	st, err := s.open(ctx, owner)
	if err != nil {
		return 0, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.pending), nil
}

// SaveChanges persists all unsaved status edits as one batch. Edits are
// cleared only when the batch commits, and only if they were not changed again
// in the meantime.
func (s *Service) SaveChanges(ctx context.Context, owner string) (*reconcile.Task, int, error) {
	st, err := s.open(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	st.mu.Lock()
	saved := make(map[string]string, len(st.pending))
	updates := make([]reconcile.Update, 0, len(st.pending))
	for id, status := range st.pending {
		saved[id] = status
		updates = append(updates, reconcile.Update{ID: id, Fields: map[string]any{reconcile.FieldStatus: status}})
	}
	if len(updates) == 0 {
		st.mu.Unlock()
		return reconcile.Completed(nil), 0, nil
	}

	task := reconcile.Go(func() error {
		wctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout())
		defer cancel()

		if err := s.store.BatchUpdate(wctx, owner, updates); err != nil {
			logger.WithOwner(s.logger, owner).Error("Failed to save status changes", zap.Int("count", len(updates)), zap.Error(err))
			return err
		}

		st.mu.Lock()
		for id, status := range saved {
			if st.pending[id] == status {
				delete(st.pending, id)
			}
		}
		st.mu.Unlock()
		return nil
	})
	st.writes = task
	st.mu.Unlock()

	return task, len(updates), nil
}

// Scan merges a QR payload into the owner's inventory. A lost insert race
// against the same qrId is retried once, which turns it into an update.
func (s *Service) Scan(ctx context.Context, owner, payload string, quantity int) (reconcile.Decision, error) {
	if owner == "" {
		return reconcile.Decision{}, reconcile.ErrMissingOwner
	}
	parsed, err := reconcile.ParseScanPayload(payload)
	if err != nil {
		return reconcile.Decision{}, err
	}
	l := logger.WithOwner(s.logger, owner)

	for attempt := 0; ; attempt++ {
		now := s.now()

		var matches []reconcile.Product
		if parsed.QRID != nil {
			records, err := s.store.FindBy(ctx, owner, reconcile.FieldQRID, *parsed.QRID)
			if err != nil {
				return reconcile.Decision{}, err
			}
			matches = reconcile.NormalizeAll(records, now)
		}

		d, err := reconcile.Resolve(parsed, quantity, matches, owner, now)
		if err != nil {
			return reconcile.Decision{}, err
		}
		if d.Anomaly {
			l.Warn("Several products share a qrId; updating the first",
				zap.String("qr_id", *parsed.QRID),
				zap.Int("matches", d.Matches),
				zap.String("id", d.Update.ID),
			)
		}

		switch d.Op {
		case reconcile.OpUpdate:
			if err := s.store.BatchUpdate(ctx, owner, []reconcile.Update{d.Update}); err != nil {
				return reconcile.Decision{}, err
			}
		case reconcile.OpInsert:
			id, err := s.store.Insert(ctx, owner, d.Record)
			if errors.Is(err, docstore.ErrDuplicate) && attempt == 0 {
				l.Info("Concurrent insert for the same qrId; retrying as update", zap.String("qr_id", d.Product.QRValue()))
				continue
			}
			if err != nil {
				return reconcile.Decision{}, err
			}
			d.Product.ID = id
		}

		s.applyLocal(owner, d.Product)
		l.Info("Scan merged", zap.String("op", string(d.Op)), zap.String("id", d.Product.ID), zap.Int("quantity", d.Product.Quantity))
		return d, nil
	}
}

// AddManual validates and inserts a hand-typed product.
func (s *Service) AddManual(ctx context.Context, owner string, entry reconcile.ManualEntry) (reconcile.Product, error) {
	p, err := reconcile.BuildManual(entry, owner, s.loc)
	if err != nil {
		return reconcile.Product{}, err
	}
	id, err := s.store.Insert(ctx, owner, p.Record())
	if err != nil {
		return reconcile.Product{}, err
	}
	p.ID = id

	s.applyLocal(owner, p)
	return p, nil
}

// applyLocal reflects a write in an already open inventory ahead of the
// snapshot that will confirm it.
func (s *Service) applyLocal(owner string, p reconcile.Product) {
	s.mu.Lock()
	st, ok := s.owners[owner]
	s.mu.Unlock()
	if !ok || p.ID == "" {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.products {
		if st.products[i].ID == p.ID {
			st.products[i].Quantity = p.Quantity
			st.products[i].Status = p.Status
			return
		}
	}
	st.products = append(st.products, p.Clone())
}

// Wait blocks until the owner's latest background write finishes.
func (s *Service) Wait(ctx context.Context, owner string) error {
	s.mu.Lock()
	st, ok := s.owners[owner]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	st.mu.RLock()
	task := st.writes
	st.mu.RUnlock()
	return task.Wait(ctx)
}

// Sweep plans the expiry sweep for owner straight from the store and applies
// it according to opts.
func (s *Service) Sweep(ctx context.Context, owner string, opts reconcile.Options) (SweepResult, error) {
	records, err := s.store.Load(ctx, owner)
	if err != nil {
		return SweepResult{}, err
	}
	plan := reconcile.BuildPlan(owner, records, s.today())

	n, err := reconcile.ApplyPlan(ctx, s.store, plan, opts)
	if err != nil {
		return SweepResult{Plan: plan}, err
	}
	if n > 0 {
		s.publish(owner, notify.KindAutoExpired, plan.Evaluation.Transitioned)
	}
	return SweepResult{Plan: plan, Written: n}, nil
}

// SweepAll sweeps every owner in the store. Failures of one owner do not stop
// the others; they are joined into the returned error.
func (s *Service) SweepAll(ctx context.Context, opts reconcile.Options) (map[string]SweepResult, error) {
	owners, err := s.store.Owners(ctx)
	if err != nil {
		return nil, err
	}

	results := make(map[string]SweepResult, len(owners))
	var errs []error
	for _, owner := range owners {
		res, err := s.Sweep(ctx, owner, opts)
		if err != nil {
			logger.WithOwner(s.logger, owner).Error("Expiry sweep failed", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		results[owner] = res
	}
	return results, errors.Join(errs...)
}

// Close cancels every subscription.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, st := range s.owners {
		if st.cancel != nil {
			st.cancel()
		}
		delete(s.owners, owner)
	}
}
