package middlewarex

import (
	"net/http"

	"students-erp/pkg/contextx"
)

const headerNameUserID = "X-User-Id"

// UserID кладёт идентификатор пользователя из заголовка в контекст.
// Проверка подлинности - забота внешнего шлюза, здесь только проброс.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(headerNameUserID)

		ctx := r.Context()
		if userID != "" {
			ctx = contextx.WithUserID(ctx, contextx.UserID(userID))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
