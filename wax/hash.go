package wax

import "reflect"

// fnv1aBytes computes the 64-bit FNV-1a hash of data, the default
// recommendation in spec.md's Design Notes for keys of unknown
// distribution.
func fnv1aBytes(data []byte) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, b := range data {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

// mix64 is the 64-bit MurmurHash3 finalizer (three xor-shifts and two
// multiplies), suitable for small dense integer keys such as a TypeId where
// identity hashing alone would cluster badly against the capacity mask.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// DefaultHasher builds a Hasher for the built-in comparable kinds HashMap
// is commonly instantiated with (strings and integers). Callers with a
// domain-specific key type (e.g. a TypeId or Entity newtype) should
// construct the map with NewHashMapWithHasher and a hasher tailored to
// that type instead of relying on the reflect-based fallback here.
func DefaultHasher[K comparable]() Hasher[K] {
	var zero K
	kind := reflect.TypeOf(&zero).Elem().Kind()
	switch kind {
	case reflect.String:
		return func(k K) uint64 {
			return fnv1aBytes([]byte(reflect.ValueOf(k).String()))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(k K) uint64 {
			return mix64(uint64(reflect.ValueOf(k).Int()))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(k K) uint64 {
			return mix64(reflect.ValueOf(k).Uint())
		}
	default:
		return func(k K) uint64 {
			v := reflect.ValueOf(k)
			return fnv1aBytes([]byte(v.String()))
		}
	}
}
