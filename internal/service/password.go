package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrCorruptCredential indica un hash almacenado con formato inválido.
var ErrCorruptCredential = errors.New("corrupt credential")

// PasswordHasher encapsula el hashing bcrypt de contraseñas locales.
// bcrypt incluye la sal en el digest y compara en tiempo constante.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify devuelve true solo si plain corresponde al digest. Un digest vacío o
// malformado cuenta como fallo de verificación, nunca como pánico.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	if digest == "" || plain == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	return err == nil
}
