package layer

import "github.com/petermattis/goid"

// cacheLineBits collapses addresses that fall within one cache line onto one
// bucket, decorrelating slot distribution from small-object alignment.
const cacheLineBits = 6

func simpleKey(h Handle) uint64 { return uint64(h) >> cacheLineBits }

// simpleKey2 has the batch key shape; the bias is accepted and ignored so a
// symmetric batch yields one slot per target.
func simpleKey2(h Handle, bias uint64) uint64 { return simpleKey(h) }

// biasedKey spreads readers of one handle across p slots by goroutine
// identity. Reads from a given goroutine always land on the same slot.
func biasedKey(h Handle, p uint64) uint64 {
	return simpleKey(h) + (mix64(uint64(goid.Get())) & (p - 1))
}

// biasedKey2 produces the bias'th slot of a handle; writers call it for every
// bias in [0, p) to cover all slots a reader could occupy.
func biasedKey2(h Handle, bias, p uint64) uint64 {
	return simpleKey(h) + (bias & (p - 1))
}

// mix64 is the splitmix64 finalizer, a stable full-avalanche mixer for
// goroutine ids.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
