package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"inkwell/internal/service"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"quota exceeded", service.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		// 服務層包裝過的前置條件錯誤也要對應到 400
		{"wrapped invalid input", fmt.Errorf("%w: 尚無章節，無法出版", service.ErrInvalidInput), http.StatusBadRequest},
		{"ai unavailable", service.ErrAIUnavailable, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
