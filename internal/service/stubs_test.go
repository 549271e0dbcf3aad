package service

// In-memory repository stubs shared by the service tests. One store backs
// all three repositories so the cross-entity transactions (QR assignment,
// soft-delete unlink) behave like the real transactional repo methods; the
// thin wrapper types adapt it to the individual interfaces.

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/pathtree"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memStore struct {
	locations map[uuid.UUID]*model.Location
	boxes     map[uuid.UUID]*model.Box
	qrCodes   map[uuid.UUID]*model.QrCode
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		locations: make(map[uuid.UUID]*model.Location),
		boxes:     make(map[uuid.UUID]*model.Box),
		qrCodes:   make(map[uuid.UUID]*model.QrCode),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so created_at ordering is
// deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) assignQr(workspaceID, qrID, boxID uuid.UUID) error {
	c, ok := s.qrCodes[qrID]
	if !ok || c.WorkspaceID != workspaceID {
		return repository.ErrQrCodeTaken
	}
	if c.Status == model.QrStatusAssigned && (c.BoxID == nil || *c.BoxID != boxID) {
		return repository.ErrQrCodeTaken
	}
	c.Status = model.QrStatusAssigned
	c.BoxID = &boxID
	return nil
}

func (s *memStore) releaseQr(workspaceID, qrID uuid.UUID) {
	if c, ok := s.qrCodes[qrID]; ok && c.WorkspaceID == workspaceID {
		c.Status = model.QrStatusAvailable
		c.BoxID = nil
	}
}

// ── LocationRepository stub ──────────────────────────────────────────────────

type stubLocationRepo struct{ s *memStore }

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = r.s.tick()
	cp := *l
	r.s.locations[l.ID] = &cp
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, workspaceID, id uuid.UUID) (*model.Location, error) {
	l, ok := r.s.locations[id]
	if !ok || l.WorkspaceID != workspaceID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubLocationRepo) List(_ context.Context, workspaceID uuid.UUID) ([]model.Location, error) {
	var list []model.Location
	for _, l := range r.s.locations {
		if l.WorkspaceID == workspaceID && !l.Deleted {
			list = append(list, *l)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
	return list, nil
}

func (r *stubLocationRepo) SegmentTaken(_ context.Context, workspaceID uuid.UUID, parentID *uuid.UUID, segment string, excludeID uuid.UUID) (bool, error) {
	for _, l := range r.s.locations {
		if l.WorkspaceID != workspaceID || l.Deleted || l.Segment != segment || l.ID == excludeID {
			continue
		}
		if (parentID == nil) != (l.ParentID == nil) {
			continue
		}
		if parentID == nil || *parentID == *l.ParentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLocationRepo) RenameCascade(_ context.Context, l *model.Location, oldPath string) error {
	cp := *l
	r.s.locations[l.ID] = &cp
	for _, other := range r.s.locations {
		if other.ID != l.ID && other.WorkspaceID == l.WorkspaceID &&
			strings.HasPrefix(other.Path, oldPath+pathtree.Separator) {
			other.Path = pathtree.Rewrite(other.Path, oldPath, l.Path)
		}
	}
	return nil
}

func (r *stubLocationRepo) SoftDeleteAndUnlink(_ context.Context, workspaceID, id uuid.UUID) (int64, error) {
	l, ok := r.s.locations[id]
	if !ok || l.WorkspaceID != workspaceID {
		return 0, gorm.ErrRecordNotFound
	}
	l.Deleted = true
	var unlinked int64
	for _, b := range r.s.boxes {
		if b.WorkspaceID == workspaceID && b.LocationID != nil && *b.LocationID == id {
			b.LocationID = nil
			unlinked++
		}
	}
	return unlinked, nil
}

// ── BoxRepository stub ───────────────────────────────────────────────────────

type stubBoxRepo struct{ s *memStore }

func (r *stubBoxRepo) CreateWithQr(_ context.Context, b *model.Box) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = r.s.tick()
	b.UpdatedAt = b.CreatedAt
	if b.QrCodeID != nil {
		if err := r.s.assignQr(b.WorkspaceID, *b.QrCodeID, b.ID); err != nil {
			return err
		}
	}
	cp := *b
	r.s.boxes[b.ID] = &cp
	return nil
}

func (r *stubBoxRepo) FindByID(_ context.Context, workspaceID, id uuid.UUID) (*model.Box, error) {
	b, ok := r.s.boxes[id]
	if !ok || b.WorkspaceID != workspaceID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBoxRepo) UpdateWithQr(_ context.Context, b *model.Box, prevQrID *uuid.UUID) error {
	sameQr := prevQrID != nil && b.QrCodeID != nil && *prevQrID == *b.QrCodeID
	if prevQrID != nil && !sameQr {
		r.s.releaseQr(b.WorkspaceID, *prevQrID)
	}
	if b.QrCodeID != nil && !sameQr {
		if err := r.s.assignQr(b.WorkspaceID, *b.QrCodeID, b.ID); err != nil {
			return err
		}
	}
	b.UpdatedAt = r.s.tick()
	cp := *b
	r.s.boxes[b.ID] = &cp
	return nil
}

func (r *stubBoxRepo) DeleteWithQrRelease(_ context.Context, b *model.Box) error {
	if b.QrCodeID != nil {
		r.s.releaseQr(b.WorkspaceID, *b.QrCodeID)
	}
	delete(r.s.boxes, b.ID)
	return nil
}

func (r *stubBoxRepo) Search(_ context.Context, workspaceID uuid.UUID, query string, locationID *uuid.UUID, limit, offset int) ([]model.Box, int64, error) {
	terms := strings.Fields(strings.ToLower(query))
	var matches []model.Box
	for _, b := range r.s.boxes {
		if b.WorkspaceID != workspaceID {
			continue
		}
		if locationID != nil && (b.LocationID == nil || *b.LocationID != *locationID) {
			continue
		}
		ok := true
		for _, t := range terms {
			if !strings.Contains(b.SearchText, t) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, *b)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	total := int64(len(matches))
	if offset >= len(matches) {
		return nil, total, nil
	}
	matches = matches[offset:]
	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, total, nil
}

func (r *stubBoxRepo) CountByName(_ context.Context, workspaceID uuid.UUID, name string, excludeID *uuid.UUID) (int64, error) {
	var count int64
	for _, b := range r.s.boxes {
		if b.WorkspaceID == workspaceID && b.Name == name && (excludeID == nil || b.ID != *excludeID) {
			count++
		}
	}
	return count, nil
}

func (r *stubBoxRepo) ShortIDExists(_ context.Context, workspaceID uuid.UUID, shortID string) (bool, error) {
	for _, b := range r.s.boxes {
		if b.WorkspaceID == workspaceID && b.ShortID == shortID {
			return true, nil
		}
	}
	return false, nil
}

// ── QrCodeRepository stub ────────────────────────────────────────────────────

type stubQrRepo struct{ s *memStore }

func (r *stubQrRepo) CreateBatch(_ context.Context, batch []*model.QrCode) error {
	for _, c := range batch {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.CreatedAt = r.s.tick()
		cp := *c
		r.s.qrCodes[c.ID] = &cp
	}
	return nil
}

func (r *stubQrRepo) FindByID(_ context.Context, workspaceID, id uuid.UUID) (*model.QrCode, error) {
	c, ok := r.s.qrCodes[id]
	if !ok || c.WorkspaceID != workspaceID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubQrRepo) FindByToken(_ context.Context, workspaceID uuid.UUID, token string) (*model.QrCode, error) {
	for _, c := range r.s.qrCodes {
		if c.WorkspaceID == workspaceID && c.Token == token {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubQrRepo) List(_ context.Context, workspaceID uuid.UUID, status string) ([]model.QrCode, error) {
	var list []model.QrCode
	for _, c := range r.s.qrCodes {
		if c.WorkspaceID == workspaceID && (status == "" || c.Status == status) {
			list = append(list, *c)
		}
	}
	return list, nil
}

func (r *stubQrRepo) TokenExists(_ context.Context, workspaceID uuid.UUID, token string) (bool, error) {
	for _, c := range r.s.qrCodes {
		if c.WorkspaceID == workspaceID && c.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubQrRepo) Assign(_ context.Context, workspaceID, qrID, boxID uuid.UUID) error {
	b, ok := r.s.boxes[boxID]
	if !ok || b.WorkspaceID != workspaceID {
		return gorm.ErrRecordNotFound
	}
	if b.QrCodeID != nil && *b.QrCodeID != qrID {
		r.s.releaseQr(workspaceID, *b.QrCodeID)
	}
	if err := r.s.assignQr(workspaceID, qrID, boxID); err != nil {
		return err
	}
	qrID2 := qrID
	b.QrCodeID = &qrID2
	return nil
}

func (r *stubQrRepo) Release(_ context.Context, workspaceID, qrID uuid.UUID) error {
	for _, b := range r.s.boxes {
		if b.WorkspaceID == workspaceID && b.QrCodeID != nil && *b.QrCodeID == qrID {
			b.QrCodeID = nil
		}
	}
	r.s.releaseQr(workspaceID, qrID)
	return nil
}
