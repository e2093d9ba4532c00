package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelist-service/internal/config"
	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/store"
	serverhttp "pricelist-service/server/http"
)

func testServer(t *testing.T, webhookURL string) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		AllowOrigins:      []string{"*"},
		MaxUploadMB:       10,
		MatchThreshold:    80,
		MatchRelaxedDelta: 10,
		WebhookURL:        webhookURL,
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(serverhttp.NewRouter(cfg, zerolog.Nop(), st))
	t.Cleanup(srv.Close)
	return srv
}

func uploadCSV(t *testing.T, url, field, filename, content string, extra map[string]string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const priceCSV = "Artikelnummer;Bezeichnung;Einheit;Preis;MwSt\n" +
	"1001;Gouda jung;kg;8,90;7\n" +
	"1002;Comté Laib 2kg;kg;21,00;7\n"

func TestImportAndPricingFlow(t *testing.T) {
	srv := testServer(t, "")

	resp := uploadCSV(t, srv.URL+"/feeddata", "file", "kaeserei.csv", priceCSV,
		map[string]string{"currency": "EUR"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[model.ImportSummary](t, resp)
	require.Len(t, sum.Imported, 1)
	assert.Equal(t, "kaeserei", sum.Imported[0].Client)
	assert.Equal(t, 2, sum.Imported[0].Items)
	assert.Empty(t, sum.Failed)

	resp, err := http.Get(srv.URL + "/clients")
	require.NoError(t, err)
	clients := decode[map[string][]string](t, resp)
	assert.Equal(t, []string{"kaeserei"}, clients["clients"])

	resp, err = http.Get(srv.URL + "/clients/kaeserei/pricing")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pricing := decode[struct {
		ClientName string           `json:"client_name"`
		Currency   string           `json:"currency"`
		Items      []map[string]any `json:"items"`
	}](t, resp)
	assert.Equal(t, "kaeserei", pricing.ClientName)
	assert.Equal(t, "EUR", pricing.Currency)
	require.Len(t, pricing.Items, 2)
	// original sheet columns survive at top level
	assert.Equal(t, "Gouda jung", pricing.Items[0]["Bezeichnung"])
	assert.Equal(t, "8,90", pricing.Items[0]["Preis"])
}

func TestImportRejectsUnsupportedFile(t *testing.T) {
	srv := testServer(t, "")
	resp := uploadCSV(t, srv.URL+"/feeddata", "file", "notes.pdf", "x", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportSheetWithoutPriceFails(t *testing.T) {
	srv := testServer(t, "")
	resp := uploadCSV(t, srv.URL+"/feeddata", "file", "leer.csv",
		"Bezeichnung;Notizen\nGouda;nett\n", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[model.ImportSummary](t, resp)
	assert.Empty(t, sum.Imported)
	require.Len(t, sum.Failed, 1)
	assert.Contains(t, sum.Failed[0].Error, "no valid rows")
}

func TestSynonymImportJSON(t *testing.T) {
	srv := testServer(t, "")
	resp := uploadCSV(t, srv.URL+"/feeddata", "file", "kaeserei.csv", priceCSV, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	body, _ := json.Marshal(map[string][]string{
		"aliases": {"Comté Wheel 2kg", "Raketenbrennstoff"},
	})
	resp, err := http.Post(srv.URL+"/clients/kaeserei/synonyms", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[model.SynonymSummary](t, resp)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Matched)
	assert.Equal(t, 1, sum.Unmatched)
	require.Len(t, sum.Entries, 2)
	assert.True(t, sum.Entries[0].Matched)
	assert.Equal(t, "1002", sum.Entries[0].SKU)
	assert.False(t, sum.Entries[1].Matched)

	resp, err = http.Get(srv.URL + "/clients/kaeserei/synonyms")
	require.NoError(t, err)
	listed := decode[struct {
		Synonyms []model.SynonymDefinition `json:"synonyms"`
	}](t, resp)
	require.Len(t, listed.Synonyms, 1)
	assert.Equal(t, "Comté Wheel 2kg", listed.Synonyms[0].Alias)
}

func TestSynonymImportUnknownClient(t *testing.T) {
	srv := testServer(t, "")
	body, _ := json.Marshal(map[string][]string{"aliases": {"x"}})
	resp, err := http.Post(srv.URL+"/clients/niemand/synonyms", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvoiceCreationForwardsToWebhook(t *testing.T) {
	var gotSchema string
	var gotNotes []string
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotSchema = r.FormValue("schema")
		for _, fh := range r.MultipartForm.File["delivery_notes"] {
			gotNotes = append(gotNotes, fh.Filename)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	srv := testServer(t, hook.URL)
	resp := uploadCSV(t, srv.URL+"/feeddata", "file", "kaeserei.csv", priceCSV, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("client_name", "kaeserei"))
	part, err := mw.CreateFormFile("delivery_notes", "lieferschein.pdf")
	require.NoError(t, err)
	_, err = io.WriteString(part, "%PDF-1.4")
	require.NoError(t, err)
	// non-PDF uploads are silently dropped
	part, err = mw.CreateFormFile("delivery_notes", "foto.png")
	require.NoError(t, err)
	_, err = io.WriteString(part, "png")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/invoicecreation", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"lieferschein.pdf"}, gotNotes)
	assert.Contains(t, gotSchema, `"client_name":"kaeserei"`)
}

func TestInvoiceCreationWithoutWebhook(t *testing.T) {
	srv := testServer(t, "")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("client_name", "kaeserei"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/invoicecreation", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestDeleteClient(t *testing.T) {
	srv := testServer(t, "")
	resp := uploadCSV(t, srv.URL+"/feeddata", "file", "kaeserei.csv", priceCSV, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/clients/kaeserei", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/clients/kaeserei/pricing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
