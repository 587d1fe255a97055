package family

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet leaves out 0/O, 1/I and other glyphs that are easy to
// mistranscribe when a code is read aloud or typed from paper.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeAttempts = 10

func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(codeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
