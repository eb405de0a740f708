// Package memstore is an in-process store.Store used by tests and local runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/google/uuid"
)

type dataset struct {
	plans       map[uuid.UUID]models.Plan
	members     map[uuid.UUID]models.Member
	memberships map[uuid.UUID]models.Membership
	invoices    map[uuid.UUID]models.Invoice
	enquiries   map[uuid.UUID]models.Enquiry
}

func newDataset() *dataset {
	return &dataset{
		plans:       make(map[uuid.UUID]models.Plan),
		members:     make(map[uuid.UUID]models.Member),
		memberships: make(map[uuid.UUID]models.Membership),
		invoices:    make(map[uuid.UUID]models.Invoice),
		enquiries:   make(map[uuid.UUID]models.Enquiry),
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.plans {
		c.plans[k] = v
	}
	for k, v := range d.members {
		c.members[k] = cloneMember(v)
	}
	for k, v := range d.memberships {
		c.memberships[k] = v.Clone()
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	for k, v := range d.enquiries {
		c.enquiries[k] = v
	}
	return c
}

// Store keeps all records in maps guarded by one RWMutex. A transaction holds
// the write lock for its whole duration and works on a cloned dataset that
// replaces the live one on commit.
type Store struct {
	mu   *sync.RWMutex
	data *dataset
	inTx bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.RWMutex{}, data: newDataset()}
}

func (s *Store) read(fn func(d *dataset) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	*s.data = *tx.data
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Plans() store.PlanRepository             { return planRepo{s} }
func (s *Store) Members() store.MemberRepository         { return memberRepo{s} }
func (s *Store) Memberships() store.MembershipRepository { return membershipRepo{s} }
func (s *Store) Invoices() store.InvoiceRepository       { return invoiceRepo{s} }
func (s *Store) Enquiries() store.EnquiryRepository      { return enquiryRepo{s} }

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func cloneMember(m models.Member) models.Member {
	if m.Address != nil {
		a := *m.Address
		m.Address = &a
	}
	if m.MembershipID != nil {
		id := *m.MembershipID
		m.MembershipID = &id
	}
	return m
}

type planRepo struct{ s *Store }

func (r planRepo) Create(_ context.Context, plan *models.Plan) error {
	return r.s.write(func(d *dataset) error {
		for _, p := range d.plans {
			if p.Name == plan.Name {
				return store.ErrDuplicate
			}
		}
		assignID(&plan.ID)
		stamp(&plan.CreatedAt, &plan.UpdatedAt)
		d.plans[plan.ID] = *plan
		return nil
	})
}

func (r planRepo) Get(_ context.Context, id uuid.UUID) (*models.Plan, error) {
	var out models.Plan
	err := r.s.read(func(d *dataset) error {
		p, ok := d.plans[id]
		if !ok {
			return store.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r planRepo) GetByName(_ context.Context, name string) (*models.Plan, error) {
	var out *models.Plan
	err := r.s.read(func(d *dataset) error {
		for _, p := range d.plans {
			if p.Name == name {
				p := p
				out = &p
				return nil
			}
		}
		return store.ErrNotFound
	})
	return out, err
}

func (r planRepo) List(_ context.Context) ([]models.Plan, error) {
	var out []models.Plan
	err := r.s.read(func(d *dataset) error {
		out = make([]models.Plan, 0, len(d.plans))
		for _, p := range d.plans {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r planRepo) Update(_ context.Context, plan *models.Plan) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.plans[plan.ID]
		if !ok {
			return store.ErrNotFound
		}
		for id, p := range d.plans {
			if id != plan.ID && p.Name == plan.Name {
				return store.ErrDuplicate
			}
		}
		plan.CreatedAt = existing.CreatedAt
		stamp(nil, &plan.UpdatedAt)
		d.plans[plan.ID] = *plan
		return nil
	})
}

func (r planRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.plans[id]; !ok {
			return store.ErrNotFound
		}
		delete(d.plans, id)
		return nil
	})
}

type memberRepo struct{ s *Store }

func memberClash(d *dataset, self uuid.UUID, email, mobile string) bool {
	for id, m := range d.members {
		if id == self {
			continue
		}
		if m.Email == email || m.Mobile == mobile {
			return true
		}
	}
	return false
}

func (r memberRepo) Create(_ context.Context, member *models.Member) error {
	return r.s.write(func(d *dataset) error {
		if memberClash(d, uuid.Nil, member.Email, member.Mobile) {
			return store.ErrDuplicate
		}
		assignID(&member.ID)
		stamp(&member.CreatedAt, &member.UpdatedAt)
		d.members[member.ID] = cloneMember(*member)
		return nil
	})
}

func (r memberRepo) Get(_ context.Context, id uuid.UUID) (*models.Member, error) {
	var out models.Member
	err := r.s.read(func(d *dataset) error {
		m, ok := d.members[id]
		if !ok {
			return store.ErrNotFound
		}
		out = cloneMember(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memberRepo) FindByEmailOrMobile(_ context.Context, email, mobile string) (*models.Member, error) {
	var out *models.Member
	err := r.s.read(func(d *dataset) error {
		for _, m := range d.members {
			if m.Email == email || m.Mobile == mobile {
				c := cloneMember(m)
				out = &c
				return nil
			}
		}
		return store.ErrNotFound
	})
	return out, err
}

func (r memberRepo) ListByMembershipStatus(_ context.Context, status models.MembershipStatus) ([]models.Member, error) {
	out := []models.Member{}
	err := r.s.read(func(d *dataset) error {
		for _, m := range d.members {
			if m.MembershipID == nil {
				continue
			}
			ms, ok := d.memberships[*m.MembershipID]
			if ok && ms.Status == status {
				out = append(out, cloneMember(m))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r memberRepo) Update(_ context.Context, member *models.Member) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.members[member.ID]
		if !ok {
			return store.ErrNotFound
		}
		if memberClash(d, member.ID, member.Email, member.Mobile) {
			return store.ErrDuplicate
		}
		member.CreatedAt = existing.CreatedAt
		stamp(nil, &member.UpdatedAt)
		d.members[member.ID] = cloneMember(*member)
		return nil
	})
}

func (r memberRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.members[id]; !ok {
			return store.ErrNotFound
		}
		delete(d.members, id)
		return nil
	})
}

type membershipRepo struct{ s *Store }

func (r membershipRepo) Create(_ context.Context, membership *models.Membership) error {
	return r.s.write(func(d *dataset) error {
		assignID(&membership.ID)
		if _, exists := d.memberships[membership.ID]; exists {
			return store.ErrDuplicate
		}
		if membership.Version == 0 {
			membership.Version = 1
		}
		stamp(&membership.CreatedAt, &membership.UpdatedAt)
		d.memberships[membership.ID] = membership.Clone()
		return nil
	})
}

func (r membershipRepo) Get(_ context.Context, id uuid.UUID) (*models.Membership, error) {
	var out models.Membership
	err := r.s.read(func(d *dataset) error {
		m, ok := d.memberships[id]
		if !ok {
			return store.ErrNotFound
		}
		out = m.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r membershipRepo) Update(_ context.Context, membership *models.Membership) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.memberships[membership.ID]
		if !ok {
			return store.ErrNotFound
		}
		if existing.Version != membership.Version {
			return store.ErrVersionConflict
		}
		membership.Version++
		membership.CreatedAt = existing.CreatedAt
		stamp(nil, &membership.UpdatedAt)
		d.memberships[membership.ID] = membership.Clone()
		return nil
	})
}

func (r membershipRepo) ListByMember(_ context.Context, memberID uuid.UUID) ([]models.Membership, error) {
	out := []models.Membership{}
	err := r.s.read(func(d *dataset) error {
		for _, m := range d.memberships {
			if m.MemberID == memberID {
				out = append(out, m.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, err
}

func (r membershipRepo) ListEndingBetween(_ context.Context, status models.MembershipStatus, from, to time.Time) ([]models.Membership, error) {
	out := []models.Membership{}
	err := r.s.read(func(d *dataset) error {
		for _, m := range d.memberships {
			if m.Status == status && !m.EndDate.Before(from) && m.EndDate.Before(to) {
				out = append(out, m.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, err
}

func (r membershipRepo) DeleteByMember(_ context.Context, memberID uuid.UUID) error {
	return r.s.write(func(d *dataset) error {
		for id, m := range d.memberships {
			if m.MemberID == memberID {
				delete(d.memberships, id)
			}
		}
		return nil
	})
}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(_ context.Context, invoice *models.Invoice) error {
	return r.s.write(func(d *dataset) error {
		for _, inv := range d.invoices {
			if inv.InvoiceID == invoice.InvoiceID {
				return store.ErrDuplicate
			}
		}
		assignID(&invoice.ID)
		stamp(&invoice.CreatedAt, nil)
		d.invoices[invoice.ID] = *invoice
		return nil
	})
}

func (r invoiceRepo) GetByInvoiceID(_ context.Context, invoiceID string) (*models.Invoice, error) {
	var out *models.Invoice
	err := r.s.read(func(d *dataset) error {
		for _, inv := range d.invoices {
			if inv.InvoiceID == invoiceID {
				inv := inv
				out = &inv
				return nil
			}
		}
		return store.ErrNotFound
	})
	return out, err
}

func (r invoiceRepo) ListByMember(_ context.Context, memberID uuid.UUID) ([]models.Invoice, error) {
	out := []models.Invoice{}
	err := r.s.read(func(d *dataset) error {
		for _, inv := range d.invoices {
			if inv.MemberID == memberID {
				out = append(out, inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

type enquiryRepo struct{ s *Store }

func (r enquiryRepo) Create(_ context.Context, enquiry *models.Enquiry) error {
	return r.s.write(func(d *dataset) error {
		assignID(&enquiry.ID)
		stamp(&enquiry.CreatedAt, nil)
		d.enquiries[enquiry.ID] = *enquiry
		return nil
	})
}

func (r enquiryRepo) Get(_ context.Context, id uuid.UUID) (*models.Enquiry, error) {
	var out models.Enquiry
	err := r.s.read(func(d *dataset) error {
		e, ok := d.enquiries[id]
		if !ok {
			return store.ErrNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r enquiryRepo) List(_ context.Context) ([]models.Enquiry, error) {
	out := []models.Enquiry{}
	err := r.s.read(func(d *dataset) error {
		for _, e := range d.enquiries {
			out = append(out, e)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
