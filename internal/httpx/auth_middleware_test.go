package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booklibrary/internal/platform/crypto"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	var gotUser, gotRole string
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFrom(r)
		gotRole = RoleFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	valid, _, err := crypto.GenerateToken(secret, "ops", crypto.RoleImporter, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	expired, _, err := crypto.GenerateToken(secret, "ops", crypto.RoleImporter, -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/books/import", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	if gotUser != "ops" || gotRole != crypto.RoleImporter {
		t.Errorf("Expected claims in context, got %q/%q", gotUser, gotRole)
	}
}
