package services

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const orderIDSuffixLen = 4

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewOrderID returns a short timestamp-derived token with a random suffix,
// e.g. "ORD-LX2K9QD8-7F3A". Uniqueness is probabilistic, not guaranteed;
// two retried submissions intentionally get two different ids.
func NewOrderID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	var b strings.Builder
	for i := 0; i < orderIDSuffixLen; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return strings.ToUpper("ORD-" + ts + "-" + b.String())
}
