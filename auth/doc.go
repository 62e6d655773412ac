// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session token utilities.

# Passwords

Passwords are stored only as bcrypt hashes:

	hash, err := auth.HashPassword("pw1")
	err = auth.CheckPassword(hash, "pw1") // nil, or ErrWrongPassword

# Session Tokens

A session token is an HS256 JWT whose subject is the user name:

	token, err := auth.IssueSession("alice", secret, 24*time.Hour)
	name, err := auth.ParseSession(token, secret)

ParseSession rejects tokens that are expired, lack an expiry, were issued by
anyone but expert-qa, or are signed with another algorithm or key. Every
rejection wraps ErrInvalidToken.

# Client Fingerprints

Failed logins are logged with a salted HMAC of the client address instead
of the address itself:

	fp := auth.Fingerprint(ip, secret)
*/
package auth
