package auth

import (
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/cryptox"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/timex"
)

// CodeDigits is the width of generated one-time codes.
const CodeDigits = 6

// OTPIssuer attaches and checks one-time codes on accounts. It never
// persists; the caller saves the account.
type OTPIssuer struct {
	ttl      time.Duration
	clock    timex.Clock
	generate func(digits int) (string, error)
}

func NewOTPIssuer(ttl time.Duration, clock timex.Clock) *OTPIssuer {
	return &OTPIssuer{ttl: ttl, clock: clock, generate: cryptox.NumericCode}
}

// Issue generates a code, attaches it with its expiry and returns it.
func (o *OTPIssuer) Issue(a *models.Account) (string, error) {
	code, err := o.generate(CodeDigits)
	if err != nil {
		return "", err
	}
	a.SetOTP(code, o.clock.Now().Add(o.ttl))
	return code, nil
}

// Verify checks code against a's pending OTP. Checks run in order:
// already verified, code mismatch, expired (now >= expiry). On success the
// account is marked verified and its OTP cleared.
func (o *OTPIssuer) Verify(a *models.Account, code string) error {
	if a.Verified {
		return common.ErrAlreadyVerified
	}
	if a.OTPCode == nil || a.OTPExpiresAt == nil || *a.OTPCode != code {
		return common.ErrInvalidCode
	}
	if !o.clock.Now().Before(*a.OTPExpiresAt) {
		return common.ErrCodeExpired
	}

	a.Verified = true
	a.ClearOTP()
	return nil
}
