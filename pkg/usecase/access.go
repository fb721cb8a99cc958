package usecase

import (
	"crypto/rand"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/domain/types"
)

// Default unlock codes
const (
	DefaultUserCode  = "2024-05-25"
	DefaultAdminCode = "2006-10-09"
)

const (
	// DefaultSessionTTL is how long an unlocked session stays valid
	DefaultSessionTTL = 12 * time.Hour

	sessionIssuer     = "memoryjar"
	sessionLevelClaim = "level"
)

// AccessGate maps unlock codes to access levels and keeps the result in a
// signed session token. The codes are a convenience gate, not a credential.
type AccessGate struct {
	userCode  string
	adminCode string
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

type AccessGateOption func(*AccessGate)

// WithCodes replaces the unlock codes. Empty values keep the defaults.
func WithCodes(userCode, adminCode string) AccessGateOption {
	return func(g *AccessGate) {
		if userCode != "" {
			g.userCode = userCode
		}
		if adminCode != "" {
			g.adminCode = adminCode
		}
	}
}

// WithSessionSecret sets the HMAC key for session tokens. Without it a
// random key is generated, so sessions end with the process.
func WithSessionSecret(secret []byte) AccessGateOption {
	return func(g *AccessGate) {
		if len(secret) > 0 {
			g.secret = secret
		}
	}
}

func WithSessionTTL(ttl time.Duration) AccessGateOption {
	return func(g *AccessGate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

func WithGateClock(now func() time.Time) AccessGateOption {
	return func(g *AccessGate) {
		g.now = now
	}
}

func NewAccessGate(opts ...AccessGateOption) *AccessGate {
	g := &AccessGate{
		userCode:  DefaultUserCode,
		adminCode: DefaultAdminCode,
		ttl:       DefaultSessionTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if len(g.secret) == 0 {
		g.secret = make([]byte, 32)
		if _, err := rand.Read(g.secret); err != nil {
			panic("failed to generate session secret: " + err.Error())
		}
	}
	return g
}

// Resolve checks code against the configured codes by exact match. A
// mismatch is LOCKED together with the retry message.
func (g *AccessGate) Resolve(code string) (types.AccessLevel, string) {
	switch code {
	case g.userCode:
		return types.AccessLevelUser, ""
	case g.adminCode:
		return types.AccessLevelAdmin, ""
	default:
		return types.AccessLevelLocked, model.MsgRetry
	}
}

// IssueSession returns a signed token carrying level and its expiry
func (g *AccessGate) IssueSession(level types.AccessLevel) (string, time.Time, error) {
	if level != types.AccessLevelUser && level != types.AccessLevelAdmin {
		return "", time.Time{}, goerr.New("session requires an unlocked level", goerr.V(AccessLevelKey, level))
	}

	now := g.now()
	expiresAt := now.Add(g.ttl)
	token, err := jwt.NewBuilder().
		Issuer(sessionIssuer).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(sessionLevelClaim, level.String()).
		Build()
	if err != nil {
		return "", time.Time{}, goerr.Wrap(err, "failed to build session token")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, g.secret))
	if err != nil {
		return "", time.Time{}, goerr.Wrap(err, "failed to sign session token")
	}
	return string(signed), expiresAt, nil
}

// VerifySession returns the level carried by a valid token
func (g *AccessGate) VerifySession(raw string) (types.AccessLevel, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, g.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithClock(jwt.ClockFunc(g.now)),
	)
	if err != nil {
		return types.AccessLevelLocked, goerr.Wrap(ErrInvalidSession, "failed to verify session token", goerr.V("error", err.Error()))
	}

	v, ok := token.Get(sessionLevelClaim)
	if !ok {
		return types.AccessLevelLocked, goerr.Wrap(ErrInvalidSession, "session token has no level")
	}
	s, ok := v.(string)
	if !ok {
		return types.AccessLevelLocked, goerr.Wrap(ErrInvalidSession, "session level is not a string")
	}
	level, err := types.ParseAccessLevel(s)
	if err != nil {
		return types.AccessLevelLocked, goerr.Wrap(ErrInvalidSession, "session level is unknown", goerr.V(AccessLevelKey, s))
	}
	return level, nil
}
