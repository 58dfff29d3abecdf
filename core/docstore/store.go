package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"inventory-tracker/core/reconcile"
	"inventory-tracker/core/utils"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrNotFound is returned when an update targets a document the owner does not have.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert collides with an existing (owner, qrId) pair.
	ErrDuplicate = errors.New("duplicate qrId for owner")
)

// deliverTimeout bounds the snapshot reload that follows a committed write.
const deliverTimeout = 10 * time.Second

// SnapshotFunc receives the full set of an owner's records.
type SnapshotFunc func(records []reconcile.Record)

type ownerSubs struct {
	handler func(owner string)
	fns     map[uint64]SnapshotFunc

	// delivering orders every load-and-call for the owner, including the
	// initial snapshot of a new subscriber.
	delivering sync.Mutex
}

// Store is a document store for products backed by gorm.
// Every committed write publishes a change event for its owner; subscribers
// receive a fresh snapshot, serialized per owner.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	bus    EventBus.Bus

	mu     sync.Mutex
	subs   map[string]*ownerSubs
	nextID uint64
}

// New creates a store on an open database connection.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		bus:    EventBus.New(),
		subs:   make(map[string]*ownerSubs),
	}
}

// Migrate creates or updates the products table and its indexes.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Document{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// DB exposes the underlying connection for inspection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Load returns all records of an owner in creation order. Each record carries
// its document id under "id".
func (s *Store) Load(ctx context.Context, owner string) ([]reconcile.Record, error) {
	var docs []Document
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at").Order("id").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return s.toRecords(docs), nil
}

// FindBy returns the owner's records whose field equals value. qrId lookups use
// the indexed column; other fields are compared on the decoded documents.
func (s *Store) FindBy(ctx context.Context, owner, field, value string) ([]reconcile.Record, error) {
	if field == reconcile.FieldQRID {
		var docs []Document
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND qr_id = ?", owner, value).
			Order("id").
			Find(&docs).Error; err != nil {
			return nil, fmt.Errorf("failed to query products by %s: %w", field, err)
		}
		return s.toRecords(docs), nil
	}

	all, err := s.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	var out []reconcile.Record
	for _, r := range all {
		if v, ok := utils.ToString(r[field]); ok && v == value {
			out = append(out, r)
		}
	}
	return out, nil
}

// Insert stores a new document for owner and returns its id.
func (s *Store) Insert(ctx context.Context, owner string, record reconcile.Record) (string, error) {
	if owner == "" {
		return "", reconcile.ErrMissingOwner
	}

	body := make(map[string]any, len(record)+1)
	for k, v := range record {
		if k == reconcile.FieldID {
			continue
		}
		body[k] = v
	}
	body[reconcile.FieldUserID] = owner

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode product: %w", err)
	}

	doc := Document{
		ID:     uuid.NewString(),
		UserID: owner,
		QRID:   qrColumn(body[reconcile.FieldQRID]),
		Data:   string(data),
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		if isDuplicate(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("failed to insert product: %w", err)
	}

	s.publish(owner)
	return doc.ID, nil
}

// BatchUpdate merges partial fields into the owner's documents in a single
// transaction. If any target is missing the whole batch is rolled back.
func (s *Store) BatchUpdate(ctx context.Context, owner string, updates []reconcile.Update) error {
	if len(updates) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			var doc Document
			if err := tx.Where("id = ? AND user_id = ?", u.ID, owner).First(&doc).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrNotFound, u.ID)
				}
				return err
			}

			body, _ := decodeBody(doc.Data)
			for k, v := range u.Fields {
				if k == reconcile.FieldID || k == reconcile.FieldUserID {
					continue
				}
				body[k] = v
			}

			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to encode product %s: %w", u.ID, err)
			}

			cols := map[string]any{"data": string(data), "updated_at": time.Now().UTC()}
			if _, ok := u.Fields[reconcile.FieldQRID]; ok {
				cols["qr_id"] = qrColumn(body[reconcile.FieldQRID])
			}
			if err := tx.Model(&Document{}).Where("id = ?", doc.ID).Updates(cols).Error; err != nil {
				if isDuplicate(err) {
					return ErrDuplicate
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch update failed: %w", err)
	}

	s.publish(owner)
	return nil
}

// Owners lists every owner with at least one document.
func (s *Store) Owners(ctx context.Context) ([]string, error) {
	var owners []string
	if err := s.db.WithContext(ctx).Model(&Document{}).Distinct("user_id").Order("user_id").Pluck("user_id", &owners).Error; err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

// Subscribe registers fn for the owner's snapshots. The current snapshot is
// delivered before Subscribe returns; later ones follow every committed write
// and are never older than the one before.
// The returned function cancels the subscription.
func (s *Store) Subscribe(ctx context.Context, owner string, fn SnapshotFunc) (func(), error) {
	s.mu.Lock()
	group, ok := s.subs[owner]
	if !ok {
		group = &ownerSubs{fns: make(map[uint64]SnapshotFunc)}
		group.handler = func(o string) { s.deliver(o) }
		if err := s.bus.SubscribeAsync(topic(owner), group.handler, true); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
		s.subs[owner] = group
	}
	s.nextID++
	id := s.nextID
	group.fns[id] = fn
	s.mu.Unlock()

	cancel := func() { s.unsubscribe(owner, id) }

	group.delivering.Lock()
	defer group.delivering.Unlock()

	records, err := s.Load(ctx, owner)
	if err != nil {
		cancel()
		return nil, err
	}
	fn(records)

	return cancel, nil
}

// Flush waits until every pending snapshot delivery has run.
func (s *Store) Flush() {
	s.bus.WaitAsync()
}

func (s *Store) unsubscribe(owner string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.subs[owner]
	if !ok {
		return
	}
	delete(group.fns, id)
	if len(group.fns) == 0 {
		_ = s.bus.Unsubscribe(topic(owner), group.handler)
		delete(s.subs, owner)
	}
}

func (s *Store) publish(owner string) {
	s.bus.Publish(topic(owner), owner)
}

func (s *Store) deliver(owner string) {
	s.mu.Lock()
	group, ok := s.subs[owner]
	s.mu.Unlock()
	if !ok {
		return
	}

	group.delivering.Lock()
	defer group.delivering.Unlock()

	s.mu.Lock()
	fns := make([]SnapshotFunc, 0, len(group.fns))
	for _, fn := range group.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	if len(fns) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	records, err := s.Load(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to reload snapshot", zap.String("user_id", owner), zap.Error(err))
		return
	}
	for _, fn := range fns {
		fn(records)
	}
}

func (s *Store) toRecords(docs []Document) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(docs))
	for _, d := range docs {
		body, ok := decodeBody(d.Data)
		if !ok {
			s.logger.Warn("Stored product is not a JSON object", zap.String("id", d.ID))
		}
		body[reconcile.FieldID] = d.ID
		if _, ok := body[reconcile.FieldUserID]; !ok {
			body[reconcile.FieldUserID] = d.UserID
		}
		out = append(out, body)
	}
	return out
}

func decodeBody(data string) (map[string]any, bool) {
	var body map[string]any
	if err := json.Unmarshal([]byte(data), &body); err != nil || body == nil {
		return make(map[string]any), false
	}
	return body, true
}

func qrColumn(v any) *string {
	s, ok := utils.ToString(v)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint failed")
}

func topic(owner string) string {
	return "products:" + owner
}
