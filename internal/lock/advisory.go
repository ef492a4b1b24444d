package lock

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"gorm.io/gorm"
)

// Key derives a stable 64-bit advisory lock key from a namespace and ids.
func Key(namespace string, ids ...int64) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))
	var buf [8]byte
	for _, id := range ids {
		binary.BigEndian.PutUint64(buf[:], uint64(id))
		_, _ = h.Write(buf[:])
	}
	return int64(h.Sum64())
}

// AdvisoryXact takes pg_advisory_xact_lock(key) on tx. The lock is released
// when tx commits or rolls back. Dialects without advisory locks are a no-op;
// callers rely on the in-process KeyedMutex there.
func AdvisoryXact(ctx context.Context, tx *gorm.DB, key int64) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", key).Error
}
