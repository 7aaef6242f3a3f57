package bucketing

import (
	"crypto/md5"
	"math/big"
	"strings"
)

// divisor maps the hash space into [0, 100). Using 9999/9998 keeps the
// bucket values bit-compatible with the server-side SDK implementations,
// which cache and diff evaluation results across processes.
const (
	hashModulo  = 9999
	hashDivisor = 9998
)

// Percentage deterministically maps an ordered list of identifiers to a
// float in [0, 100). The same identifiers always produce the same value in
// any process at any time, which is what makes percentage-split rollouts
// and multivariate bucket assignment stable.
//
// Identifier order matters: Percentage("a", "b") != Percentage("b", "a").
func Percentage(ids ...string) float64 {
	return percentage(ids, 1)
}

func percentage(ids []string, iterations int) float64 {
	joined := strings.Join(ids, ",")
	toHash := strings.Repeat(joined, iterations)

	sum := md5.Sum([]byte(toHash))
	n := new(big.Int).SetBytes(sum[:])

	mod := new(big.Int).Mod(n, big.NewInt(hashModulo))
	value := float64(mod.Int64()) / hashDivisor * 100

	// The modulo scheme can land exactly on 100; re-hash with the input
	// repeated so the contract of a half-open [0, 100) interval holds.
	if value == 100 {
		return percentage(ids, iterations+1)
	}

	return value
}
