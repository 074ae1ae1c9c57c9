package model

import (
	"fmt"
	"time"
)

type Image struct {
	UID        int64     `db:"uid"` // monotonically assigned
	OwnerID    string    `db:"owner_id"`
	Filename   string    `db:"filename"`  // sanitized original filename
	PoolName   string    `db:"pool_name"` // exact file name in the image pool
	UploadedAt time.Time `db:"uploaded_at"`
}

// PoolNameFor returns the pool file name for a uid and sanitized filename.
// Every pool file is named "<uid>-<filename>" so the uid prefix is
// recoverable by splitting on the first dash.
func PoolNameFor(uid int64, filename string) string {
	return fmt.Sprintf("%d-%s", uid, filename)
}
