package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scheme - ожидаемая схема заголовка Authorization (с учётом регистра).
const Scheme = "Bearer"

// claimID - ключ claim с идентификатором владельца.
const claimID = "id"

// ErrUnauthorized - единственная ошибка, которую видит клиент при любой проблеме с токеном.
var ErrUnauthorized = errors.New("unauthorized")

// Внутренние причины отказа: различимы в логах, но наружу все сводятся к ErrUnauthorized.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrMalformedScheme   = errors.New("malformed scheme")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaim      = errors.New("invalid identity claim")
)

// Identity - проверенный пользователь, от имени которого выполняется операция.
type Identity struct {
	UserID uuid.UUID
}

// Gate проверяет bearer-токены. Ключ подписи задаётся один раз при создании.
type Gate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGate создаёт проверяющий. ttl <= 0 означает токены без срока действия.
func NewGate(secret string, ttl time.Duration) *Gate {
	return &Gate{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue подписывает токен для пользователя (HS256, claim "id").
func (g *Gate) Issue(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{claimID: userID.String()}
	if g.ttl > 0 {
		now := g.now()
		claims["iat"] = jwt.NewNumericDate(now)
		claims["exp"] = jwt.NewNumericDate(now.Add(g.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate разбирает значение заголовка Authorization вида "Bearer <token>"
// и возвращает владельца. Все ошибки оборачивают ErrUnauthorized.
func (g *Gate) Authenticate(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, deny(ErrMissingCredential)
	}
	scheme, token, ok := strings.Cut(raw, " ")
	if !ok || scheme != Scheme || token == "" || strings.ContainsAny(token, " \t") {
		return Identity{}, deny(ErrMalformedScheme)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, deny(fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, deny(ErrInvalidClaim)
	}
	rawID, ok := claims[claimID].(string)
	if !ok {
		return Identity{}, deny(ErrInvalidClaim)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil || userID == uuid.Nil {
		return Identity{}, deny(ErrInvalidClaim)
	}
	return Identity{UserID: userID}, nil
}

// Reason возвращает внутреннюю причину отказа для логов или "", если err не от Gate.
func Reason(err error) string {
	for _, reason := range []error{ErrMissingCredential, ErrMalformedScheme, ErrInvalidToken, ErrInvalidClaim} {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return ""
}

func deny(reason error) error {
	return fmt.Errorf("%w: %w", ErrUnauthorized, reason)
}
