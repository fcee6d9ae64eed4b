package app

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// codeLength is the fixed length of session join codes.
const codeLength = 6

// codeAlphabet deliberately drops 0/O and 1/I so codes stay unambiguous
// when read off a projector or typed from a phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeGenerator mints candidate session codes. It is stateless with
// respect to uniqueness: the registry checks candidates against its live
// set and asks again on collision.
type CodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCodeGenerator seeds a generator. Codes are join tokens, not secrets,
// so a math/rand source is sufficient.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Generate returns one candidate code.
func (g *CodeGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[g.rnd.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// NormalizeCode folds a user-entered code to its canonical uppercase form
// so lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
