package attendance

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	salt    = []byte("tiba.core.attendance.session_code")
	NowFunc = time.Now // mockable

	// errors
	errInvalidCode = errors.New("invalid session code")
)

// Session codes are derived, not stored: the QR payload for a session is an
// HMAC over (sessionID, window) where window advances every rotation period.
// Rotation is therefore just recomputation, and validation recomputes the
// current and the immediately previous window to absorb clock skew.

func window(t time.Time, period time.Duration) int64 {
	return t.Unix() / int64(period/time.Second)
}

// MakeCode returns the session code valid at time t.
func MakeCode(sessionID string, t time.Time, period time.Duration, secret string) (string, error) {
	return makeCodeWithWindow(sessionID, window(t, period), secret)
}

// VerifyCode checks a scanned code against the current and previous windows.
func VerifyCode(sessionID, code string, t time.Time, period time.Duration, secret string) error {
	if code == "" {
		return errInvalidCode
	}
	win := window(t, period)
	for _, w := range []int64{win, win - 1} {
		expected, err := makeCodeWithWindow(sessionID, w, secret)
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return nil
		}
	}
	return errInvalidCode
}

// SecondsRemaining reports how long the code valid at t has left.
func SecondsRemaining(t time.Time, period time.Duration) int {
	p := int64(period / time.Second)
	return int(p - t.Unix()%p)
}

func makeCodeWithWindow(sessionID string, win int64, secret string) (string, error) {
	winB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.FormatInt(win, 10)))
	sig, err := sign(sessionID, win, secret)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", winB32, sig), nil
}

func sign(sessionID string, win int64, secret string) (string, error) {
	key := sha256.Sum256(append(salt, secret...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write([]byte(strings.Join([]string{sessionID, strconv.FormatInt(win, 10)}, "|"))); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}
