package shamir

import "errors"

var (
	// ErrInvalidParameters is returned when n or k is outside the
	// allowed range 2 <= k <= n <= 256.
	ErrInvalidParameters = errors.New("shamir: parameters must satisfy 2 <= k <= n <= 256")

	// ErrInvalidSecret is returned when a text secret contains bytes
	// outside the supported ASCII alphabet.
	ErrInvalidSecret = errors.New("shamir: secret must be ASCII text")

	// ErrMalformedShare is returned when an encoded share cannot be
	// parsed.
	ErrMalformedShare = errors.New("shamir: malformed share")

	// ErrInsufficientShares is returned when fewer than 2 shares are
	// supplied for recovery.
	ErrInsufficientShares = errors.New("shamir: at least 2 shares are required")

	// ErrInconsistentShares is returned when the supplied shares have
	// mismatched payload lengths or duplicate indices.
	ErrInconsistentShares = errors.New("shamir: inconsistent shares")

	// ErrReconstruction is returned when an interpolated value has no
	// byte representation. This means the share set was invalid,
	// mismatched, or incomplete.
	ErrReconstruction = errors.New("shamir: reconstructed value is not a byte")
)
