package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"baby-namer/model"

	"github.com/gin-gonic/gin"
)

type captureRecorder struct {
	mu   sync.Mutex
	logs []*model.CallLog
}

func (r *captureRecorder) Submit(log *model.CallLog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return true
}

func TestLogAPICall_RecordsRequestAndResponse(t *testing.T) {
	rec := &captureRecorder{}
	r := gin.New()
	r.Use(RequestID())
	r.POST("/generate-names", NewLoggingMiddleware(rec).LogAPICall(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusCreated, gin.H{"echo": string(body)})
	})

	req := httptest.NewRequest(http.MethodPost, "/generate-names", strings.NewReader(`{"fatherName":"李明"}`))
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set("X-Real-IP", "5.5.5.5")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `李明`) {
		t.Fatalf("handler should still read the request body, got %s", w.Body.String())
	}
	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 call log, got %d", len(rec.logs))
	}

	log := rec.logs[0]
	if log.RequestID != "req-1" || log.ClientKey != "5.5.5.5" || log.Path != "/generate-names" {
		t.Fatalf("unexpected call log %+v", log)
	}
	if log.Status != http.StatusCreated || !log.Succeeded() {
		t.Fatalf("expected status 201, got %d", log.Status)
	}
	if log.RequestBody != `{"fatherName":"李明"}` || !strings.Contains(log.ResponseBody, "echo") {
		t.Fatalf("expected bodies to be captured, got %+v", log)
	}
}

func TestLogAPICall_WithoutRecorder(t *testing.T) {
	r := gin.New()
	r.GET("/x", NewLoggingMiddleware(nil).LogAPICall(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(HeaderRequestID)
	if len(generated) != 36 || w.Body.String() != generated {
		t.Fatalf("expected generated uuid, header=%q body=%q", generated, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != "abc" {
		t.Fatalf("expected incoming request id to be kept")
	}
}

func TestClip_BacksOffToRuneBoundary(t *testing.T) {
	got := clip("ab" + strings.Repeat("名", maxLoggedBody))
	if !utf8.ValidString(got) {
		t.Fatalf("clipped body is not valid utf8")
	}
	if len(got) > maxLoggedBody || len(got) < maxLoggedBody-utf8.UTFMax {
		t.Fatalf("unexpected clipped length %d", len(got))
	}
}

func TestLogAPICall_RejectsOversizedBody(t *testing.T) {
	rec := &captureRecorder{}
	called := false
	r := gin.New()
	r.POST("/generate-names", NewLoggingMiddleware(rec).LogAPICall(), func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	body := strings.NewReader(strings.Repeat("a", maxRequestBody+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate-names", body))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if called {
		t.Fatalf("handler should not run for an oversized body")
	}
	if !strings.Contains(w.Body.String(), "41301") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
