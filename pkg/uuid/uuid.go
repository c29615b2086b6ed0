// Package uuid provides UUID v7 generation.
// UUID v7 is sortable by timestamp (better for database indexes than v4).
package uuid

import (
	"fmt"
	"math/rand"
	"time"
)

// UUID represents a UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a new UUID v7.
// Layout (draft-ietf-uuidrev-rfc4122bis):
//   - 48 bits: UNIX timestamp in milliseconds
//   - 4 bits version (0111) + 12 bits random
//   - 2 bits variant (10) + 62 bits random
func NewV7() UUID {
	now := time.Now().UnixMilli()

	var u UUID
	u[0] = byte(now >> 40)
	u[1] = byte(now >> 32)
	u[2] = byte(now >> 24)
	u[3] = byte(now >> 16)
	u[4] = byte(now >> 8)
	u[5] = byte(now)

	hi := rand.Uint64()
	lo := rand.Uint64()

	u[6] = 0x70 | byte(hi>>60)&0x0f
	u[7] = byte(hi >> 52)
	u[8] = 0x80 | byte(hi>>44)&0x3f
	u[9] = byte(hi >> 36)
	u[10] = byte(lo >> 40)
	u[11] = byte(lo >> 32)
	u[12] = byte(lo >> 24)
	u[13] = byte(lo >> 16)
	u[14] = byte(lo >> 8)
	u[15] = byte(lo)

	return u
}

// String returns the UUID in standard form: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}
