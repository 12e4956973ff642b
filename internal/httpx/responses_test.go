package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	JSONSuccess(w, r, map[string]string{"key": "value"}, map[string]interface{}{"total": 10})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type application/json")
	}

	var response struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    map[string]any    `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Success {
		t.Error("Expected success to be true")
	}
	if response.Data["key"] != "value" {
		t.Errorf("Expected data to be present, got %v", response.Data)
	}
	if response.Meta["request_id"] != "req-1" || response.Meta["total"] != float64(10) {
		t.Errorf("Expected merged meta, got %v", response.Meta)
	}
}

func TestJSONCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONCreated(w, nil, map[string]string{"id": "1"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []ErrorDetail{
		{Field: "isbn", Message: "isbn is required"},
	}

	JSONError(w, nil, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Success {
		t.Error("Expected success to be false")
	}
	if response.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", response.Error.Code)
	}
	if len(response.Error.Details) != 1 || response.Error.Details[0].Field != "isbn" {
		t.Errorf("Expected one isbn detail, got %v", response.Error.Details)
	}
	if response.Meta != nil {
		t.Errorf("Expected no meta without a request, got %v", response.Meta)
	}
}
