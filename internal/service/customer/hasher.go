package customer

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// defaultBcryptCost — стоимость bcrypt; 12 даёт разумный баланс между
// стойкостью и временем хеширования.
const defaultBcryptCost = 12

// bcryptHasher реализует domain.CredentialHasher поверх bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт хешер учётных данных со стоимостью по умолчанию.
func NewBcryptHasher() domain.CredentialHasher {
	return &bcryptHasher{cost: defaultBcryptCost}
}

func (h *bcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *bcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

var _ domain.CredentialHasher = (*bcryptHasher)(nil)
