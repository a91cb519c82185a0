package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	protocolPrefix   = "DEN"
	protocolAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	base36Alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateProtocol builds a tracking code such as DENK7QX4Z9A2B: the prefix,
// three unambiguous letters or digits, the last three base-36 digits of the
// millisecond clock and four random base-36 digits.
func GenerateProtocol(now time.Time) (string, error) {
	head, err := randomString(protocolAlphabet, 3)
	if err != nil {
		return "", err
	}
	tail, err := randomString(base36Alphabet, 4)
	if err != nil {
		return "", err
	}

	clock := strconv.FormatInt(now.UnixMilli(), 36)
	if len(clock) > 3 {
		clock = clock[len(clock)-3:]
	}
	return strings.ToUpper(protocolPrefix + head + clock + tail), nil
}

func randomString(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// NormalizeProtocol upper-cases and trims a protocol typed by a reporter.
func NormalizeProtocol(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
