package decode

// Mode selects how keys not declared by the schema are treated.
// There is no default; every decode names its mode.
type Mode int

const (
	// Strict rejects undeclared keys with an UnknownFieldError.
	Strict Mode = iota + 1

	// Lax ignores undeclared keys.
	Lax
)

// ModeOf returns Strict when strict is true and Lax otherwise.
func ModeOf(strict bool) Mode {
	if strict {
		return Strict
	}
	return Lax
}

// String returns "strict" or "lax".
func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lax:
		return "lax"
	default:
		return "invalid"
	}
}

// Valid reports whether m is Strict or Lax.
func (m Mode) Valid() bool {
	return m == Strict || m == Lax
}
