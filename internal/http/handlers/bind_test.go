package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creatorlink/creatorlink/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Message string                `json:"message"`
	Fields  []handlers.FieldError `json:"fields"`
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/register", func(ctx *gin.Context) {
		var req handlers.RegisterRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	return r
}

func TestBindJSONUsesJSONFieldNames(t *testing.T) {
	r := bindRouter()

	w := postJSON(t, r, "/register", `{"name":"Ann"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Message != "Invalid request body" {
		t.Fatalf("unexpected message: %s", resp.Message)
	}

	wantRules := map[string]string{
		"email":    "required",
		"password": "required",
	}

	found := map[string]handlers.FieldError{}
	for _, fieldErr := range resp.Fields {
		found[fieldErr.Field] = fieldErr
	}

	for field, rule := range wantRules {
		fieldErr, ok := found[field]
		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Fields)
		}
		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}
		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSONRejectsBadSyntax(t *testing.T) {
	r := bindRouter()

	w := postJSON(t, r, "/register", `{"name":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if len(resp.Fields) == 0 || resp.Fields[0].Rule != "json" {
		t.Fatalf("expected a json rule error, got %+v", resp.Fields)
	}
}

func TestBindJSONReportsTypeMismatch(t *testing.T) {
	r := bindRouter()

	w := postJSON(t, r, "/register", `{"name":7,"email":"ann@x.com","password":"secret1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if len(resp.Fields) == 0 || resp.Fields[0].Rule != "type" || resp.Fields[0].Field != "name" {
		t.Fatalf("expected a type error on name, got %+v", resp.Fields)
	}
}
