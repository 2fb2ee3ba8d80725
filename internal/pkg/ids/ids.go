package ids

import (
	"fmt"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// User returns a sortable user identifier, "U" followed by a ULID.
func User() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "U" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Ticket returns "T" followed by the first eight hex digits of a random UUID,
// upper-cased.
func Ticket() string {
	return fmt.Sprintf("T%s", strings.ToUpper(uuid.NewString()[:8]))
}
