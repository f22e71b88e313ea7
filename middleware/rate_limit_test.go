package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestMemoryCounter_IncrementsWithinWindow(t *testing.T) {
	counter := NewMemoryCounter()

	assert.Equal(t, 1, counter.Increment("client-a", time.Minute))
	assert.Equal(t, 2, counter.Increment("client-a", time.Minute))
	assert.Equal(t, 1, counter.Increment("client-b", time.Minute), "keys are counted independently")
}

func TestMemoryCounter_ResetsAfterWindow(t *testing.T) {
	counter := NewMemoryCounter()

	counter.Increment("client-a", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, counter.Increment("client-a", time.Millisecond))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewMemoryCounter(), 2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
	}

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}
