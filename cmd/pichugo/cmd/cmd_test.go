package cmd

import (
	"bytes"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHEET_CSV_URL", "")

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestQuote_KoreaJSON(t *testing.T) {
	out, err := run(t, "quote", "--mode", "KR", "--price", "1.0", "--people", "3", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "KR", got["mode"])
	assert.Equal(t, 3.0, got["participants"])
	assert.Equal(t, 118000.0, got["itemPrice"])
	assert.Equal(t, 37733.0, got["fees"])
	assert.Equal(t, 155733.0, got["total"])
}

func TestQuote_ChinaExplicitShipping(t *testing.T) {
	out, err := run(t, "quote", "-m", "ch", "-p", "10", "-s", "0", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 24600.0, got["itemPrice"])
	assert.Equal(t, 24607000.0, got["fees"])
}

func TestQuote_Table(t *testing.T) {
	out, err := run(t, "quote", "--price", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Rp 231.200")
}

func TestQuote_InvalidMode(t *testing.T) {
	_, err := run(t, "quote", "--mode", "JP", "--price", "1")
	assert.Error(t, err)
}

func TestRates_FromSheetFlag(t *testing.T) {
	sheet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rate_ch,2500\nbroken\n"))
	}))
	defer sheet.Close()

	out, err := run(t, "rates", "--inspect", "--sheet-url", sheet.URL)
	require.NoError(t, err)

	var got struct {
		Source  string             `json:"source"`
		Config  map[string]float64 `json:"config"`
		Skipped []map[string]any   `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "remote", got.Source)
	assert.Equal(t, 2500.0, got.Config["rate_ch"])
	assert.Len(t, got.Skipped, 1)
}

func TestRates_DefaultsWithoutSheet(t *testing.T) {
	out, err := run(t, "rates")
	require.NoError(t, err)

	var got map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 11.8, got["rate_kr"])
	assert.Equal(t, 8.0, got["ongkir_ch_default"])
}

func TestRates_TableIsSortedByKey(t *testing.T) {
	out, err := run(t, "rates", "--table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 7)

	assert.True(t, strings.HasPrefix(lines[0], "admin_go"))
	assert.Contains(t, lines[0], "7000")
	assert.True(t, strings.HasPrefix(lines[6], "rate_kr"))
	assert.Contains(t, lines[6], "11.8")
	assert.Contains(t, out, "source  default")
}
