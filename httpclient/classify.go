package httpclient

import "slices"

// errorThreshold is the highest status code treated as success.
const errorThreshold = 299

// IsError reports whether status is an error for the pipeline: above 299 and
// not accepted by ignore. A nil ignore predicate ignores nothing.
func IsError(status int, ignore StatusPredicate) bool {
	if status <= errorThreshold {
		return false
	}
	return ignore == nil || !ignore(status)
}

// IgnoreNone treats every status above 299 as an error.
func IgnoreNone(int) bool { return false }

// IgnoreCodes returns a predicate that accepts the listed status codes.
func IgnoreCodes(codes ...int) StatusPredicate {
	codes = slices.Clone(codes)
	return func(status int) bool {
		return slices.Contains(codes, status)
	}
}

// IgnoreRange returns a predicate that accepts status codes in [lo, hi].
func IgnoreRange(lo, hi int) StatusPredicate {
	return func(status int) bool {
		return status >= lo && status <= hi
	}
}

// Config wraps the predicate into a configuration layer.
func (p StatusPredicate) Config() *Config {
	return &Config{IgnoreStatus: Set(p)}
}
