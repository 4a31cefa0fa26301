package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// dataset хранит все таблицы in-memory магазина. Заказы и позиции лежат
// отдельно и гидрируются при чтении, как это делает SQL-реализация.
type dataset struct {
	categories map[string]domain.Category
	products   map[string]domain.Product
	customers  map[string]domain.Customer
	orders     map[string]domain.Order
	lines      map[string]domain.OrderLine
	outbox     map[string]outboxRecord
	seq        int64
}

func newDataset() *dataset {
	return &dataset{
		categories: make(map[string]domain.Category),
		products:   make(map[string]domain.Product),
		customers:  make(map[string]domain.Customer),
		orders:     make(map[string]domain.Order),
		lines:      make(map[string]domain.OrderLine),
		outbox:     make(map[string]outboxRecord),
	}
}

// clone делает глубокую копию набора данных для отката транзакции.
func (d *dataset) clone() *dataset {
	c := &dataset{
		categories: make(map[string]domain.Category, len(d.categories)),
		products:   make(map[string]domain.Product, len(d.products)),
		customers:  make(map[string]domain.Customer, len(d.customers)),
		orders:     make(map[string]domain.Order, len(d.orders)),
		lines:      make(map[string]domain.OrderLine, len(d.lines)),
		outbox:     make(map[string]outboxRecord, len(d.outbox)),
		seq:        d.seq,
	}
	for id, v := range d.categories {
		c.categories[id] = v
	}
	for id, v := range d.products {
		if v.CategoryID != nil {
			categoryID := *v.CategoryID
			v.CategoryID = &categoryID
		}
		v.Category = nil
		c.products[id] = v
	}
	for id, v := range d.customers {
		c.customers[id] = v
	}
	for id, v := range d.orders {
		v.Customer = nil
		v.Lines = nil
		c.orders[id] = v
	}
	for id, v := range d.lines {
		v.Product = nil
		c.lines[id] = v
	}
	for id, v := range d.outbox {
		payload := make([]byte, len(v.msg.Payload))
		copy(payload, v.msg.Payload)
		v.msg.Payload = payload
		c.outbox[id] = v
	}
	return c
}

func (d *dataset) nextSeq() int64 {
	d.seq++
	return d.seq
}

// session абстрагирует доступ репозиториев к dataset: корневой Store
// блокирует mutex на каждую операцию, транзакционный — уже держит его.
type session interface {
	view(fn func(d *dataset) error) error
	mutate(fn func(d *dataset) error) error
}

// Store — in-memory реализация domain.Store для тестов и локальной разработки.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

// NewStore возвращает пустой in-memory store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) view(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) mutate(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) Categories() domain.CategoryRepository { return &categoryRepository{s: s} }
func (s *Store) Products() domain.ProductRepository    { return &productRepository{s: s} }
func (s *Store) Customers() domain.CustomerRepository  { return &customerRepository{s: s} }
func (s *Store) Orders() domain.OrderRepository        { return &orderRepository{s: s} }
func (s *Store) Outbox() domain.OutboxRepository       { return &outboxRepository{s: s} }

// RunAtomic выполняет fn над копией данных и публикует её только при успехе,
// держа mutex на всё время транзакции. Ошибка из fn откатывает всё целиком.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx domain.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&txStore{data: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// txStore — транзакционная проекция Store: работает с рабочей копией данных
// без дополнительных блокировок.
type txStore struct {
	data *dataset
}

func (t *txStore) view(fn func(d *dataset) error) error   { return fn(t.data) }
func (t *txStore) mutate(fn func(d *dataset) error) error { return fn(t.data) }

func (t *txStore) Categories() domain.CategoryRepository { return &categoryRepository{s: t} }
func (t *txStore) Products() domain.ProductRepository    { return &productRepository{s: t} }
func (t *txStore) Customers() domain.CustomerRepository  { return &customerRepository{s: t} }
func (t *txStore) Orders() domain.OrderRepository        { return &orderRepository{s: t} }
func (t *txStore) Outbox() domain.OutboxRepository       { return &outboxRepository{s: t} }

// RunAtomic внутри транзакции присоединяется к уже открытой.
func (t *txStore) RunAtomic(ctx context.Context, fn func(tx domain.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t)
}

var (
	_ domain.Store = (*Store)(nil)
	_ domain.Store = (*txStore)(nil)
)
