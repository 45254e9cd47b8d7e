package middleware

import (
	"PassVault/internal/auth"
	"context"
	"net/http"
)

type ctxKey int

const identityKey ctxKey = iota

// Authenticator проверяет значение заголовка Authorization.
type Authenticator interface {
	Authenticate(raw string) (auth.Identity, error)
}

// WithAuth кладёт auth.Identity в контекст, если заголовок Authorization валиден.
// Анонимные запросы пропускаются дальше: решение об отказе принимает обработчик.
func WithAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := a.Authenticate(raw)
			if err != nil {
				// причина видна только в логе, клиент получит обычный 401
				sugar.Debugw("credential rejected", "uri", r.RequestURI, "reason", auth.Reason(err))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity возвращает контекст с личностью пользователя.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentityFromContext достаёт личность, установленную WithAuth.
func GetIdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
