package reporunner

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// warnIfKeyExpired inspects the configured API key without verifying it.
// Opaque keys are ignored; a key that parses as a JWT with an exp claim in
// the past gets a warning, since every request made with it will fail.
func (c *Client) warnIfKeyExpired() {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.apiKey, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if time.Now().After(exp.Time) {
		c.log.Warn().
			Time("expired_at", exp.Time).
			Msg("API key token is expired")
	}
}
