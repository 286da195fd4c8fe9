// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity normalisation and token utilities.

# Voting Tokens

Voting tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateVoterToken()

Tokens are URL-safe base64 encoded. The raw token leaves the service exactly
once, in the verification mail. Only its digest is stored:

	hash := auth.HashToken(token)

# User Identifiers

Users are identified by an HMAC-SHA256 of their normalized email address:

	email, err := auth.NormalizeEmail(raw, "s.birklehof.de")
	userID := auth.HashUserID(email, salt)

NormalizeEmail lower-cases the address and rejects anything outside the
configured domain or without a first.last local part.

# Admin Keys

Team administration is guarded by a single configured key compared in
constant time:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)
*/
package auth
