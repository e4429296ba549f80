package identity

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT is an HMAC-signed implementation of Verifier and Session.
type JWT struct {
	secret []byte
	ttl    time.Duration

	mu        sync.Mutex
	current   *Identity
	cached    string
	cachedExp time.Time
	subs      map[int]func(*Identity)
	nextSub   int
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWT{
		secret: []byte(secret),
		ttl:    ttl,
		subs:   map[int]func(*Identity){},
	}
}

func (j *JWT) Verify(ctx context.Context, token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{SubjectID: sub, Email: email}, nil
}

// SetIdentity records a sign-in (non-nil) or sign-out (nil) and notifies
// subscribers. Minted tokens for the previous identity are discarded.
func (j *JWT) SetIdentity(id *Identity) {
	j.mu.Lock()
	j.current = id
	j.cached = ""
	j.cachedExp = time.Time{}
	fns := make([]func(*Identity), 0, len(j.subs))
	for _, fn := range j.subs {
		fns = append(fns, fn)
	}
	j.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

func (j *JWT) Current() *Identity {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil {
		return nil
	}
	id := *j.current
	return &id
}

func (j *JWT) OnChange(fn func(*Identity)) (cancel func()) {
	j.mu.Lock()
	key := j.nextSub
	j.nextSub++
	j.subs[key] = fn
	current := j.current
	j.mu.Unlock()

	fn(current)

	return func() {
		j.mu.Lock()
		delete(j.subs, key)
		j.mu.Unlock()
	}
}

func (j *JWT) FreshToken(ctx context.Context, forceRefresh bool) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil {
		return "", ErrUnauthenticated
	}
	if !forceRefresh && j.cached != "" && time.Until(j.cachedExp) > 30*time.Second {
		return j.cached, nil
	}

	now := time.Now().UTC()
	exp := now.Add(j.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   j.current.SubjectID,
		"email": j.current.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", err
	}
	j.cached = signed
	j.cachedExp = exp
	return signed, nil
}
