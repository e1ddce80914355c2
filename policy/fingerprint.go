package policy

import "encoding/json"

// Fingerprint derives a cache key from raw call arguments. The arguments are
// decoded and re-encoded so that key order and insignificant whitespace do
// not matter: structurally equal arguments always produce the same
// fingerprint (encoding/json emits object keys in sorted order).
//
// Distinct arguments that serialize identically collide; this is a known
// limitation of serialization-based keys.
func Fingerprint(args json.RawMessage) string {
	if len(args) == 0 {
		return "null"
	}
	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return string(args)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return string(args)
	}
	return string(b)
}
