package dashboard

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	confirmationTokenLength   = 6
	confirmationTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// PendingDeletion hanya ada selama modal konfirmasi terbuka.
type PendingDeletion struct {
	RecordID  string
	Label     string
	Permanent bool
	Phrase    string
	Entered   string
}

// Confirmed reports whether the entered text equals the phrase exactly.
func (p PendingDeletion) Confirmed() bool {
	return p.Phrase != "" && p.Entered == p.Phrase
}

// Gate generates one-time confirmation phrases for destructive actions.
type Gate struct {
	random io.Reader
}

type GateOption func(*Gate)

// WithRandomSource replaces crypto/rand, used by tests.
func WithRandomSource(r io.Reader) GateOption {
	return func(g *Gate) { g.random = r }
}

func NewGate(opts ...GateOption) *Gate {
	g := &Gate{random: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Phrase returns "Delete <name or email> <token>" for the record.
func (g *Gate) Phrase(r EmployeeRecord) (string, error) {
	token, err := g.token()
	if err != nil {
		return "", fmt.Errorf("generate confirmation token: %w", err)
	}
	return "Delete " + r.Label() + " " + token, nil
}

func (g *Gate) token() (string, error) {
	max := big.NewInt(int64(len(confirmationTokenAlphabet)))
	buf := make([]byte, confirmationTokenLength)
	for i := range buf {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return "", err
		}
		buf[i] = confirmationTokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
