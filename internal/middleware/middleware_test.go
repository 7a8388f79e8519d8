package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finflow/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error object in response")
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		wantStatus    int
	}{
		{name: "valid_api_key", configuredKey: "secret-key", requestKey: "secret-key", wantStatus: http.StatusOK},
		{name: "invalid_api_key", configuredKey: "secret-key", requestKey: "wrong-key", wantStatus: http.StatusUnauthorized},
		{name: "missing_api_key", configuredKey: "secret-key", requestKey: "", wantStatus: http.StatusUnauthorized},
		{name: "partial_match_rejected", configuredKey: "secret-key", requestKey: "secret", wantStatus: http.StatusUnauthorized},
		{name: "empty_configured_key_rejects_everything", configuredKey: "", requestKey: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(APIKeyMiddleware(tt.configuredKey))
			r.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			headers := map[string]string{}
			if tt.requestKey != "" {
				headers[APIKeyHeader] = tt.requestKey
			}
			rec := doRequest(r, headers)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if code := errorCode(t, rec); code != "UNAUTHORIZED" {
					t.Errorf("error code = %q, want UNAUTHORIZED", code)
				}
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app_error", err: apperrors.ErrTransactionNotFound, wantStatus: http.StatusNotFound, wantCode: "TRANSACTION_NOT_FOUND"},
		{name: "wrapped_app_error", err: apperrors.Wrap(apperrors.ErrStorageFailed, errors.New("disk")), wantStatus: http.StatusInternalServerError, wantCode: "STORAGE_FAILED"},
		{name: "plain_error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/test", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := doRequest(r, nil)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}

	t.Run("written_response_untouched", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusTeapot, gin.H{"status": "brewing"})
			_ = c.Error(errors.New("late"))
		})

		rec := doRequest(r, nil)

		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
	})
}

func TestRequestLogging(t *testing.T) {
	newRouter := func(seen *string) *gin.Engine {
		r := gin.New()
		r.Use(RequestLogging())
		r.GET("/test", func(c *gin.Context) {
			*seen = RequestID(c)
			c.Status(http.StatusNoContent)
		})
		return r
	}

	t.Run("generates_id", func(t *testing.T) {
		var seen string
		rec := doRequest(newRouter(&seen), nil)

		id := rec.Header().Get(requestIDHeader)
		if id == "" || id != seen {
			t.Errorf("expected generated request id in header and context, got %q / %q", id, seen)
		}
	})

	t.Run("reuses_incoming_id", func(t *testing.T) {
		var seen string
		rec := doRequest(newRouter(&seen), map[string]string{requestIDHeader: "abc-123"})

		if got := rec.Header().Get(requestIDHeader); got != "abc-123" || seen != "abc-123" {
			t.Errorf("expected incoming id to be reused, got %q / %q", got, seen)
		}
	})
}
