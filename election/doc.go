// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election issues one-time voting tokens and counts votes at most once
per user.

# Lifecycle

	registry, err := teams.Load(ctx, st)
	svc, err := election.New(election.Config{
		Store:        st,
		Teams:        registry,
		PromRegistry: reg,
	})
	defer svc.Close()

New starts the vote worker and the cache janitors; Close drains pending votes
and stops them.

# Operations

IssueToken returns a raw token exactly once per user id. Later calls report
AlreadyIssued. Only the SHA-256 of the token is stored.

ValidateToken is a read-only check returning TokenValid, TokenAlreadyUsed or
TokenInvalid. It is not serialized and can lag a concurrent vote briefly.

RecordVote runs through a single-worker queue so that the sequence

	resolve token -> check voted -> resolve team -> mark voted + increment

never interleaves with another vote. The store's conditional update on the
voted flag rejects a second vote even if the cache is stale.

# Caches

Three expire-after-access caches sit in front of the store:

  - user id -> token hash (token cache lifetime, default 30m)
  - token hash -> user id (reverse index, same lifetime)
  - user id -> voted (vote cache lifetime, default 15m)

Misses read through to the store; mutations write the store first and then
the cache.

# Errors

Every operation returns a discrete outcome. Store failures produce the
IssueFailed, TokenCheckFailed or VoteFailed outcome together with the wrapped
error for logging.
*/
package election
