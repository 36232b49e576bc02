package cache

import "strconv"

// DenylistKey is the cache key for a revoked session token. The TTL on the
// entry matches the remaining lifetime of the token.
func DenylistKey(token string) string {
	return "bl_" + token
}

// EmailChangeKey is the cache key for a pending email change challenge.
func EmailChangeKey(userID int64) string {
	return "email_change_" + strconv.FormatInt(userID, 10)
}
