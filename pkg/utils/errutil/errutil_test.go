package errutil_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	t.Run("writes status and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := goerr.New("broken jar", goerr.V("key", "jar_memories"))

		errutil.HandleHTTP(context.Background(), w, err, http.StatusInternalServerError)

		gt.Value(t, w.Code).Equal(http.StatusInternalServerError)
		gt.String(t, w.Body.String()).Contains("broken jar")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, nil, http.StatusBadRequest)
		gt.Value(t, w.Body.Len()).Equal(0)
	})

	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, errors.New("bad input"), http.StatusBadRequest)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestHandle(t *testing.T) {
	// must not panic without a sentry client
	errutil.Handle(context.Background(), goerr.New("oops"), "something failed")
	errutil.Handle(context.Background(), nil, "nothing")
}
