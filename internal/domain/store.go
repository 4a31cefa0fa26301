package domain

import "context"

// Store объединяет репозитории сущностей и транзакционную границу.
// Каждая операция workflow заказов выполняется внутри одного RunAtomic.
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	Outbox() OutboxRepository

	// RunAtomic выполняет fn в рамках одной атомарной транзакции: репозитории
	// tx работают поверх неё, и любая ошибка из fn откатывает все изменения.
	// Вложенный RunAtomic присоединяется к уже открытой транзакции.
	RunAtomic(ctx context.Context, fn func(tx Store) error) error
}

// CategoryRepository описывает требования к хранилищу категорий.
type CategoryRepository interface {
	// Create сохраняет категорию; ErrCategoryNameTaken при дубликате имени.
	Create(ctx context.Context, category Category) error
	// Get возвращает категорию или ErrCategoryNotFound.
	Get(ctx context.Context, id string) (Category, error)
	// List возвращает все категории, отсортированные по имени.
	List(ctx context.Context) ([]Category, error)
	// Update перезаписывает атрибуты категории.
	Update(ctx context.Context, category Category) error
	// Delete удаляет категорию по идентификатору.
	Delete(ctx context.Context, id string) error
}

// ProductFilter задаёт опциональные фильтры выборки товаров.
type ProductFilter struct {
	CategoryID *string
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	// Get возвращает товар (с гидрированной категорией) или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock применяет знаковую дельту к остатку одним условным
	// обновлением: остаток никогда не уходит ниже нуля. При нехватке
	// возвращает *InsufficientStockError, при отсутствии товара —
	// ErrProductNotFound.
	AdjustStock(ctx context.Context, id string, delta int32) (Product, error)
	// CountByCategory возвращает число товаров, ссылающихся на категорию.
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	// Create сохраняет покупателя; ErrEmailTaken/ErrTaxIDTaken при дубликатах.
	Create(ctx context.Context, customer Customer) error
	Get(ctx context.Context, id string) (Customer, error)
	// GetByEmail возвращает покупателя по email или ErrCustomerNotFound.
	GetByEmail(ctx context.Context, email string) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, customer Customer) error
	Delete(ctx context.Context, id string) error
}

// OrderFilter задаёт опциональные equality-фильтры выборки заказов.
type OrderFilter struct {
	CustomerID *string
	Status     *OrderStatus
}

// OrderRepository описывает требования к хранилищу заказов и их позиций.
// Позиции не имеют самостоятельного репозитория: они живут только как
// дочерние записи заказа.
type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями.
	Create(ctx context.Context, order Order) error
	// Get возвращает полностью гидрированный заказ (покупатель, позиции,
	// товары, категории) или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// List возвращает гидрированные заказы по фильтру, свежие первыми.
	List(ctx context.Context, filter OrderFilter) ([]Order, error)
	// Save применяет статус, сумму и updated_at к существующему заказу.
	Save(ctx context.Context, order Order) error
	InsertLine(ctx context.Context, line OrderLine) error
	UpdateLineQty(ctx context.Context, lineID string, qty int32) error
	DeleteLine(ctx context.Context, lineID string) error
	// DeleteLines удаляет все позиции заказа.
	DeleteLines(ctx context.Context, orderID string) error
	Delete(ctx context.Context, id string) error
	// CountByCustomer возвращает число заказов покупателя.
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	// CountLinesByProduct возвращает число позиций, ссылающихся на товар.
	CountLinesByProduct(ctx context.Context, productID string) (int, error)
}

// CredentialHasher — непрозрачная способность хеширования учётных данных.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}
