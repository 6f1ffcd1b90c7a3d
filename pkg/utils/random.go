package utils

import (
	"crypto/rand"
	"math/big"
)

const DefaultTempAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const DefaultTempLength = 12

// TempPasswordGenerator draws Length characters uniformly from Alphabet using crypto/rand.
type TempPasswordGenerator struct {
	Alphabet string
	Length   int
}

func (g TempPasswordGenerator) Generate() (string, error) {
	alphabet := []rune(g.Alphabet)
	if g.Alphabet == "" {
		alphabet = []rune(DefaultTempAlphabet)
	}
	n := g.Length
	if n <= 0 {
		n = DefaultTempLength
	}
	limit := big.NewInt(int64(len(alphabet)))
	out := make([]rune, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
