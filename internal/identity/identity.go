package identity

import (
	"fmt"
	"math/rand"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultCodeLength is the room code length shown to users.
	DefaultCodeLength = 6

	// DefaultCodeAlphabet omits lowercase so codes read well when spoken
	// or typed; lookups are case-insensitive anyway.
	DefaultCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	adjectives = []string{"Quick", "Smart", "Cool", "Epic", "Swift", "Bright"}
	nouns      = []string{"Coder", "Dev", "Hacker", "Builder", "Maker", "Ninja"}
)

// Generator produces room codes and default display names. Codes are random
// and short; uniqueness against live rooms is the registry's responsibility.
type Generator struct {
	codeLength int
	alphabet   string
}

// New creates a Generator. size must be at least 4 and alphabet must have at
// least 2 characters.
func New(codeLength int, alphabet string) (*Generator, error) {
	if codeLength < 4 {
		return nil, fmt.Errorf("room code length must be at least 4, got %d", codeLength)
	}
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("room code alphabet must have at least 2 characters, got %d", len(alphabet))
	}
	return &Generator{
		codeLength: codeLength,
		alphabet:   alphabet,
	}, nil
}

// Default returns a Generator with the stock code length and alphabet.
func Default() *Generator {
	g, err := New(DefaultCodeLength, DefaultCodeAlphabet)
	if err != nil {
		panic(err) // stock parameters are valid
	}
	return g
}

// RoomCode generates a fresh room code.
func (g *Generator) RoomCode() (string, error) {
	code, err := gonanoid.Generate(g.alphabet, g.codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}
	return code, nil
}

// DisplayName returns a cosmetic default name like "SwiftCoder42" for viewers
// who joined without choosing one. No uniqueness guarantee.
func (g *Generator) DisplayName() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, rand.Intn(99)+1)
}
