package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/buyer"
	"storefront/internal/domain/money"
	"storefront/internal/domain/order"
	"storefront/internal/domain/product"
	"storefront/internal/domain/staff"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
)

// memStore is an in-memory backing store shared by the fake repositories.
// Order transactions hold the lock for their whole duration and only apply
// their writes on success.
type memStore struct {
	mu sync.Mutex

	nextID   int64
	buyers   map[int64]*buyer.Buyer
	staff    map[int64]*staff.Member
	products map[int64]*product.Product
	orders   map[int64]*order.Order
	items    map[int64][]*order.LineItem
	// referenced product ids block product deletion
	referenced map[int64]bool

	failLineItem int
	failAddImage bool
}

func newMemStore() *memStore {
	return &memStore{
		buyers:     map[int64]*buyer.Buyer{},
		staff:      map[int64]*staff.Member{},
		products:   map[int64]*product.Product{},
		orders:     map[int64]*order.Order{},
		items:      map[int64][]*order.LineItem{},
		referenced: map[int64]bool{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) addProduct(name string, price int64, available bool) *product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &product.Product{ID: s.id(), Name: name, Price: money.Cents(price), Available: available}
	s.products[p.ID] = p
	return p
}

type buyerRepo struct{ s *memStore }

func (r buyerRepo) Create(_ context.Context, in buyer.CreateBuyerInput) (*buyer.Buyer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.buyers {
		if b.Email == in.Email {
			return nil, apperrors.Conflict("buyer with this email already exists")
		}
	}
	b := &buyer.Buyer{ID: r.s.id(), Name: in.Name, Email: in.Email, PasswordHash: in.PasswordHash, CreatedAt: time.Now()}
	r.s.buyers[b.ID] = b
	return b, nil
}

func (r buyerRepo) GetByID(_ context.Context, id int64) (*buyer.Buyer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.buyers[id]; ok {
		return b, nil
	}
	return nil, apperrors.NotFound("buyer not found")
}

func (r buyerRepo) GetByEmail(_ context.Context, email string) (*buyer.Buyer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.buyers {
		if b.Email == email {
			return b, nil
		}
	}
	return nil, apperrors.NotFound("buyer not found")
}

type staffRepo struct{ s *memStore }

func (r staffRepo) Create(_ context.Context, in staff.CreateMemberInput) (*staff.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.staff {
		if m.Email == in.Email {
			return nil, apperrors.Conflict("staff member with this email already exists")
		}
	}
	m := &staff.Member{ID: r.s.id(), Name: in.Name, Email: in.Email, PasswordHash: in.PasswordHash, Role: in.Role, CreatedAt: time.Now()}
	r.s.staff[m.ID] = m
	return m, nil
}

func (r staffRepo) GetByID(_ context.Context, id int64) (*staff.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.staff[id]; ok {
		return m, nil
	}
	return nil, apperrors.NotFound("staff member not found")
}

func (r staffRepo) GetByEmail(_ context.Context, email string) (*staff.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.staff {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, apperrors.NotFound("staff member not found")
}

func (r staffRepo) List(context.Context) ([]*staff.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*staff.Member, 0, len(r.s.staff))
	for _, m := range r.s.staff {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r staffRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.staff)), nil
}

func (r staffRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[id]; !ok {
		return apperrors.NotFound("staff member not found")
	}
	delete(r.s.staff, id)
	return nil
}

type productRepo struct{ s *memStore }

func (r productRepo) Create(_ context.Context, in product.CreateProductInput) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := &product.Product{ID: r.s.id(), Name: in.Name, Description: in.Description, Price: in.Price, Available: in.Available}
	r.s.products[p.ID] = p
	return p, nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperrors.NotFound("product not found")
}

func (r productRepo) List(_ context.Context, filter product.ListFilter) ([]*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*product.Product
	for _, p := range r.s.products {
		if filter.AvailableOnly && !p.Available {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r productRepo) Update(_ context.Context, id int64, in product.UpdateProductInput) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) Delete(_ context.Context, id int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	if r.s.referenced[id] {
		return nil, apperrors.Conflict("product is referenced by existing orders")
	}
	var keys []string
	for _, img := range p.Images {
		keys = append(keys, img.ObjectKey)
	}
	delete(r.s.products, id)
	return keys, nil
}

func (r productRepo) AddImages(_ context.Context, inputs []product.CreateImageInput) ([]*product.Image, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failAddImage {
		return nil, errors.New("insert failed")
	}
	var out []*product.Image
	for _, in := range inputs {
		p, ok := r.s.products[in.ProductID]
		if !ok {
			return nil, apperrors.NotFound("product not found")
		}
		img := &product.Image{ID: r.s.id(), ProductID: in.ProductID, ObjectKey: in.ObjectKey, URL: in.URL}
		p.Images = append(p.Images, img)
		out = append(out, img)
	}
	return out, nil
}

type orderRepo struct{ s *memStore }

func (r orderRepo) List(_ context.Context, filter order.ListOrdersFilter) ([]*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*order.Order
	for _, o := range r.s.orders {
		if filter.BuyerID != nil && o.BuyerID != *filter.BuyerID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r orderRepo) GetDetail(_ context.Context, id int64) (*order.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order not found")
	}
	return &order.Detail{Order: *o, Items: r.s.items[id]}, nil
}

func (r orderRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return apperrors.NotFound("order not found")
	}
	delete(r.s.orders, id)
	delete(r.s.items, id)
	return nil
}

type orderUoW struct{ s *memStore }

func (u orderUoW) InTx(_ context.Context, fn func(tx repository.OrderTx) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	tx := &memTx{s: u.s, orders: map[int64]*order.Order{}, items: map[int64][]*order.LineItem{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, o := range tx.orders {
		u.s.orders[id] = o
	}
	for id, items := range tx.items {
		u.s.items[id] = append(u.s.items[id], items...)
		for _, it := range items {
			u.s.referenced[it.ProductID] = true
		}
	}
	return nil
}

type memTx struct {
	s         *memStore
	orders    map[int64]*order.Order
	items     map[int64][]*order.LineItem
	lineItems int
}

func (t *memTx) GetProduct(_ context.Context, id int64) (*product.Product, error) {
	p, ok := t.s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) InsertOrder(_ context.Context, in order.CreateOrderInput) (*order.Order, error) {
	now := time.Now()
	o := &order.Order{ID: t.s.id(), BuyerID: in.BuyerID, Total: in.Total, Address: in.Address, Status: in.Status, CreatedAt: now, UpdatedAt: now}
	t.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (t *memTx) InsertLineItem(_ context.Context, in order.CreateLineItemInput) (*order.LineItem, error) {
	t.lineItems++
	if t.s.failLineItem > 0 && t.lineItems >= t.s.failLineItem {
		return nil, errors.New("insert line item failed")
	}
	li := &order.LineItem{ID: t.s.id(), OrderID: in.OrderID, ProductID: in.ProductID, Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	t.items[in.OrderID] = append(t.items[in.OrderID], li)
	return li, nil
}

func (t *memTx) lookup(id int64) (*order.Order, bool) {
	if o, ok := t.orders[id]; ok {
		return o, true
	}
	o, ok := t.s.orders[id]
	return o, ok
}

func (t *memTx) GetOrderForUpdate(_ context.Context, id int64) (*order.Order, error) {
	o, ok := t.lookup(id)
	if !ok {
		return nil, apperrors.NotFound("order not found")
	}
	cp := *o
	return &cp, nil
}

func (t *memTx) UpdateStatus(_ context.Context, id int64, status order.Status) (*order.Order, error) {
	o, ok := t.lookup(id)
	if !ok {
		return nil, apperrors.NotFound("order not found")
	}
	cp := *o
	cp.Status = status
	cp.UpdatedAt = time.Now()
	t.orders[id] = &cp
	out := cp
	return &out, nil
}

type fakeTokens struct{}

func (fakeTokens) IssueBuyer(b *buyer.Buyer) (string, error) {
	return fmt.Sprintf("buyer-%d", b.ID), nil
}

func (fakeTokens) IssueStaff(m *staff.Member) (string, error) {
	return fmt.Sprintf("staff-%d-%s", m.ID, m.Role), nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[int64]time.Time
	err     error
}

func (f *fakeRevoker) RevokePrincipal(_ context.Context, id int64, cutoff time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[int64]time.Time{}
	}
	f.revoked[id] = cutoff
	return nil
}

// countingHasher records how often the dummy comparison runs.
type countingHasher struct {
	PasswordHasher
	mu      sync.Mutex
	dummies int
}

func (h *countingHasher) VerifyDummy(secret string) {
	h.mu.Lock()
	h.dummies++
	h.mu.Unlock()
	h.PasswordHasher.VerifyDummy(secret)
}

type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
	deleted []string
	failPut string
	seq     int
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}}
}

func (f *fakeImages) PutObject(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != "" && strings.Contains(key, f.failPut) {
		return errors.New("put failed")
	}
	f.objects[key] = data
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeImages) DeleteObjects(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.objects, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeImages) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeImages) NewObjectKey(productID int64, filename string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("products/%d/%d-%s", productID, f.seq, filename)
}

type seekCloser struct{ *bytes.Reader }

func (seekCloser) Close() error { return nil }

func imageUpload(name string, data []byte) ImageUpload {
	return ImageUpload{
		Filename: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadSeekCloser, error) {
			return seekCloser{bytes.NewReader(data)}, nil
		},
	}
}
