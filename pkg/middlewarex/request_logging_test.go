package middlewarex_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"students-erp/pkg/logx"
	"students-erp/pkg/middlewarex"
)

func TestRequestLoggingKeepsBodyReadable(t *testing.T) {
	rq := require.New(t)

	mw := middlewarex.RequestLogging(logx.NewNopSensitiveDataMasker(), 1024)

	var gotBody string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		rq.NoError(err)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"amount":"100.00","currency_code":"USD"}`
	r := httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	rq.Equal(http.StatusOK, w.Code)
	rq.Equal(body, gotBody)
}
