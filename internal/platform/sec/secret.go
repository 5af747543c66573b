// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "log/slog"

// Secret wraps sensitive string material (the JWT signing key, the issuer)
// so that it cannot leak through logs or debug output.
//
// # Access Policy
//
// The only way to read the wrapped value is an explicit [Secret.Expose] call.
// fmt verbs, slog attributes, and %#v all render "[REDACTED]".
type Secret struct {
	value string
}

// NewSecret wraps raw secret material.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Expose returns the wrapped value. Call sites are intentionally greppable.
func (s Secret) Expose() string {
	return s.value
}

// IsZero reports whether the secret is empty (unset configuration).
func (s Secret) IsZero() bool {
	return s.value == ""
}

// String implements [fmt.Stringer] and always redacts.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements [fmt.GoStringer] so %#v does not leak the value.
func (s Secret) GoString() string { return "sec.Secret{value:\"[REDACTED]\"}" }

// LogValue implements [slog.LogValuer] so structured logs never carry the value.
func (s Secret) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }
