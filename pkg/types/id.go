package types

import (
	"math/rand"
	"strconv"
	"time"
)

// itemIDLayout is the timestamp part of an item id (second resolution).
const itemIDLayout = "20060102150405"

// NewItemID joins the timestamp of now with a numeric suffix.
func NewItemID(now time.Time, suffix int) string {
	return now.Format(itemIDLayout) + strconv.Itoa(suffix)
}

// GenerateItemID returns an id for a new item: the current time plus a
// three-digit random suffix.
func GenerateItemID() string {
	return NewItemID(time.Now(), 100+rand.Intn(900))
}

// RegenerateItemID returns a replacement id after a collision: the current
// time plus a four-digit random suffix, so it cannot equal any id produced by
// GenerateItemID.
func RegenerateItemID() string {
	return NewItemID(time.Now(), 1000+rand.Intn(9000))
}
