package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRecorder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{
			name:    "nothing written",
			handler: func(http.ResponseWriter, *http.Request) {},
			want:    http.StatusOK,
		},
		{
			name: "body without WriteHeader",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "ok")
			},
			want: http.StatusOK,
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			},
			want: http.StatusCreated,
		},
		{
			name: "WriteHeader after body is ignored",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "ok")
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: http.StatusOK,
		},
		{
			name: "second WriteHeader is ignored",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.WriteHeader(http.StatusOK)
			},
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rec := NewStatusRecorder(w)

			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.want, rec.Status())
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	w := httptest.NewRecorder()
	rec := NewStatusRecorder(w)

	assert.Same(t, w, rec.Unwrap())
	assert.NoError(t, http.NewResponseController(rec).Flush())
	assert.True(t, w.Flushed)
}
