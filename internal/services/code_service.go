package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/you/portalauth/domain"
)

// Login codes exclude 0/O/1/I so users can retype them from a phone screen
// without guessing. Access codes use the full alphabet plus digits in a
// XXXX-NNNN shape so the two are never visually confused.
const (
	loginCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	accessCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	accessCodeDigits  = "0123456789"
)

const defaultLoginCodeLength = 6

// CodeServiceImpl implements domain.CodeService
type CodeServiceImpl struct {
	loginCodeLength int
}

// NewCodeService creates a new code generator. A non-positive length falls
// back to the default
func NewCodeService(loginCodeLength int) domain.CodeService {
	if loginCodeLength <= 0 {
		loginCodeLength = defaultLoginCodeLength
	}
	return &CodeServiceImpl{loginCodeLength: loginCodeLength}
}

// GenerateLoginCode implements domain.CodeService. The code only needs to
// be unguessable within its five-minute window
func (s *CodeServiceImpl) GenerateLoginCode() (string, error) {
	return randomString(loginCodeAlphabet, s.loginCodeLength)
}

// GenerateAccessCode implements domain.CodeService. Uniqueness among
// existing clients is the provisioner's responsibility (retry on collision)
func (s *CodeServiceImpl) GenerateAccessCode() (string, error) {
	letters, err := randomString(accessCodeLetters, 4)
	if err != nil {
		return "", err
	}
	digits, err := randomString(accessCodeDigits, 4)
	if err != nil {
		return "", err
	}
	return letters + "-" + digits, nil
}

// randomString draws length characters from alphabet using crypto/rand
func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	chars := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		chars[i] = alphabet[num.Int64()]
	}
	return string(chars), nil
}
