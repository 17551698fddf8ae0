// Package auth implements the salted-digest authentication check for
// method envelopes.
package auth

import (
	"crypto/sha512"
	"encoding/hex"
	"time"

	"github.com/scorebridge/scoring-api/internal/app/domain/request"
)

// adminHourLayout renders the wall-clock hour as YYYYMMDDHH. An admin
// digest is therefore valid for the whole current hour; the low-resolution
// window is deliberate.
const adminHourLayout = "2006010215"

// Salts holds the process-wide salts, loaded once at startup.
type Salts struct {
	Shared string
	Admin  string
}

// Check reports whether the envelope's token matches the expected digest.
// Admin callers are checked against sha512(currentHour + adminSalt),
// everyone else against sha512(account + login + sharedSalt). Pure function
// of the envelope, salts and the supplied clock value.
func Check(env request.MethodRequest, salts Salts, now time.Time) bool {
	var message string
	if env.IsAdmin() {
		message = now.Format(adminHourLayout) + salts.Admin
	} else {
		message = env.Account + env.Login + salts.Shared
	}
	return Digest(message) == env.Token
}

// Digest returns the lowercase hex SHA-512 of the message.
func Digest(message string) string {
	sum := sha512.Sum512([]byte(message))
	return hex.EncodeToString(sum[:])
}
