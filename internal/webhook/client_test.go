package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInvoiceRequest(t *testing.T) {
	var gotSchema string
	var gotFiles []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotSchema = r.FormValue("schema")
		for _, fh := range r.MultipartForm.File["delivery_notes"] {
			gotFiles = append(gotFiles, fh.Filename)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.SendInvoiceRequest(context.Background(),
		map[string]any{"client_name": "Hof"},
		[]DeliveryNote{
			{Filename: "note1.pdf", Content: strings.NewReader("%PDF-1")},
			{Filename: "note2.pdf", Content: strings.NewReader("%PDF-2")},
		})
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_name":"Hof"}`, gotSchema)
	assert.Equal(t, []string{"note1.pdf", "note2.pdf"}, gotFiles)
}

func TestSendInvoiceRequestNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).SendInvoiceRequest(context.Background(), map[string]any{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDisabledClient(t *testing.T) {
	c := New("")
	assert.False(t, c.Enabled())
	assert.Error(t, c.SendInvoiceRequest(context.Background(), nil, nil))
}
