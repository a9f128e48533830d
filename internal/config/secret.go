package config

import "log/slog"

const redacted = "*****"

// Secret is a credential read from configuration. It renders redacted through
// fmt, slog, and text marshalling; call Reveal to obtain the value.
type Secret string

// Reveal returns the underlying credential.
func (s Secret) Reveal() string { return string(s) }

// IsSet reports whether a credential is present.
func (s Secret) IsSet() bool { return s != "" }

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString keeps %#v from printing the value.
func (s Secret) GoString() string { return `config.Secret("` + s.String() + `")` }

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Secret) UnmarshalText(text []byte) error {
	*s = Secret(text)
	return nil
}
