package domain

// ReferencePolicy validates payment reference codes for one channel:
// uppercase alphanumeric, length within [MinLen, MaxLen].
type ReferencePolicy struct {
	MinLen int
	MaxLen int
}

// DefaultReferencePolicy matches bank UTR numbers.
var DefaultReferencePolicy = ReferencePolicy{MinLen: 12, MaxLen: 22}

// Valid reports whether code satisfies the policy.
func (p ReferencePolicy) Valid(code string) bool {
	if len(code) < p.MinLen || len(code) > p.MaxLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Settings is the storefront configuration snapshot the settlement engine
// receives at call time. It is loaded fresh per request, never held as
// package state.
type Settings struct {
	SiteName        string
	WalletEnabled   bool
	ExternalEnabled bool
	PayeeName       string
	PayeeID         string
	ReferencePolicy ReferencePolicy
}

// DefaultSettings is used when no settings row exists yet.
var DefaultSettings = Settings{
	SiteName:        "Storefront",
	WalletEnabled:   true,
	ExternalEnabled: true,
	ReferencePolicy: DefaultReferencePolicy,
}
