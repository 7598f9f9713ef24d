package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

// TenantHeader заголовок с идентификатором тенанта
const TenantHeader = "X-Tenant-ID"

const msgMissingTenantID = "отсутствует или некорректен заголовок X-Tenant-ID"

type contextKey string

const tenantIDKey contextKey = "tenant_id"

// Tenant требует положительный X-Tenant-ID и кладёт его в контекст
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := strconv.ParseInt(r.Header.Get(TenantHeader), 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondBadRequest(w, msgMissingTenantID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), tenantID)))
	})
}

// WithTenantID кладёт тенант в контекст
func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantID достаёт тенант из контекста
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}
