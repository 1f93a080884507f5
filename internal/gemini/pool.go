package gemini

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// ErrNoCredentials is returned when generation is attempted with an empty
// credential pool. This is a configuration failure, not an invocation one:
// no network call is made.
var ErrNoCredentials = errors.New("no Gemini API keys configured")

// Pool holds the interchangeable API keys used to call Gemini. It is built
// once at startup and read-only afterwards, so concurrent Pick calls need
// no locking. Any key may serve any request.
type Pool struct {
	keys []string
	pick func(n int) int
}

// NewPool filters out empty keys. pick selects an index in [0,n); nil
// means uniform random, tests inject a fixed choice.
func NewPool(keys []string, pick func(n int) int) *Pool {
	clean := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			clean = append(clean, k)
		}
	}
	if pick == nil {
		pick = rand.Intn
	}
	return &Pool{keys: clean, pick: pick}
}

// KeysFromEnv collects keys from GOOGLE_API_KEY (comma separated) and the
// numbered GOOGLE_API_KEY1..GOOGLE_API_KEY9 variables.
func KeysFromEnv() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv("GOOGLE_API_KEY"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	for i := 1; i <= 9; i++ {
		if k := strings.TrimSpace(os.Getenv(fmt.Sprintf("GOOGLE_API_KEY%d", i))); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (p *Pool) Size() int { return len(p.keys) }

// Pick returns one key drawn from the pool.
func (p *Pool) Pick() (string, error) {
	if len(p.keys) == 0 {
		return "", ErrNoCredentials
	}
	return p.keys[p.pick(len(p.keys))], nil
}
