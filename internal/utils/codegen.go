// Package utils holds small shared helpers with no domain knowledge.
package utils

import (
	"crypto/rand"
	"math/big"
)

// codeAlphabet deliberately sticks to uppercase letters and digits so codes
// survive being read aloud, printed and typed.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	adCodePrefix = "AM-"
	adCodeLength = 6
	qrCodeLength = 8
)

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewAdCode generates a candidate public ad code like "AM-3F7K2Q". Uniqueness
// is the caller's problem; collisions are detected against the database.
func NewAdCode() (string, error) {
	suffix, err := randomCode(adCodeLength)
	if err != nil {
		return "", err
	}
	return adCodePrefix + suffix, nil
}

// NewStickerCode generates a candidate QR sticker code for batch printing.
func NewStickerCode() (string, error) {
	return randomCode(qrCodeLength)
}
