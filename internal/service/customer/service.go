package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// CreateInput — входной контракт регистрации покупателя.
type CreateInput struct {
	Name     string
	Email    string
	TaxID    string
	Phone    string
	Password string
}

// UpdateInput — входной контракт полного обновления покупателя.
// Пустой Password сохраняет текущие учётные данные.
type UpdateInput struct {
	Name     string
	Email    string
	TaxID    string
	Phone    string
	Password string
}

// Service управляет покупателями: CRUD и проверка учётных данных.
// Во внешних ответах покупатель всегда без хеша пароля.
type Service struct {
	store  domain.Store
	hasher domain.CredentialHasher
	logger *log.Entry
}

// NewService создаёт сервис покупателей.
func NewService(store domain.Store, hasher domain.CredentialHasher, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customer")
	}
	if hasher == nil {
		hasher = NewBcryptHasher()
	}
	return &Service{store: store, hasher: hasher, logger: logger}
}

// Create регистрирует покупателя. Email и налоговый идентификатор уникальны.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Customer, error) {
	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		TaxID:     input.TaxID,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateCustomer(&customer, input.Password, true); err != nil {
		return domain.Customer{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.PasswordHash = hash

	if err := s.store.Customers().Create(ctx, customer); err != nil {
		return domain.Customer{}, err
	}
	s.logger.WithFields(log.Fields{
		"customer_id": customer.ID,
		"email":       customer.Email,
	}).Info("customer created")
	return customer.Sanitized(), nil
}

// Get возвращает покупателя без учётных данных.
func (s *Service) Get(ctx context.Context, id string) (domain.Customer, error) {
	customer, err := s.store.Customers().Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	return customer.Sanitized(), nil
}

// List возвращает покупателей без учётных данных, отсортированных по имени.
func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.store.Customers().List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		customers[i] = customers[i].Sanitized()
	}
	return customers, nil
}

// Update полностью перезаписывает атрибуты покупателя. Пустой пароль
// оставляет текущий хеш без изменений.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (domain.Customer, error) {
	customer, err := s.store.Customers().Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.TaxID = input.TaxID
	customer.Phone = input.Phone
	customer.UpdatedAt = time.Now().UTC()
	if err := validateCustomer(&customer, input.Password, false); err != nil {
		return domain.Customer{}, err
	}

	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.PasswordHash = hash
	}

	if err := s.store.Customers().Update(ctx, customer); err != nil {
		return domain.Customer{}, err
	}
	return customer.Sanitized(), nil
}

// Delete удаляет покупателя. Пока у покупателя есть хотя бы один заказ,
// удаление отклоняется.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Customers().Get(ctx, id); err != nil {
			return err
		}
		count, err := tx.Orders().CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrCustomerHasOrders
		}
		return tx.Customers().Delete(ctx, id)
	})
}

// Authenticate проверяет учётные данные по email и паролю. Несуществующий
// email и неверный пароль неразличимы для вызывающего.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.Customer, error) {
	customer, err := s.store.Customers().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Customer{}, domain.ErrInvalidCredentials
		}
		return domain.Customer{}, err
	}
	if !s.hasher.Verify(password, customer.PasswordHash) {
		s.logger.WithField("customer_id", customer.ID).Warn("authentication failed")
		return domain.Customer{}, domain.ErrInvalidCredentials
	}
	return customer.Sanitized(), nil
}

func validateCustomer(customer *domain.Customer, password string, passwordRequired bool) error {
	var violations []domain.FieldViolation
	for _, err := range customer.ValidateInvariants() {
		field := "name"
		switch err {
		case domain.ErrEmailRequired:
			field = "email"
		case domain.ErrTaxIDRequired:
			field = "tax_id"
		}
		violations = append(violations, domain.FieldViolation{
			Field:   field,
			Message: err.Error(),
		})
	}
	if passwordRequired && password == "" {
		violations = append(violations, domain.FieldViolation{
			Field:   "password",
			Message: domain.ErrPasswordRequired.Error(),
		})
	}
	if len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}
