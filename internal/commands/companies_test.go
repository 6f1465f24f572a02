package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerlink-dev/ledgerlink/internal/config"
)

// tallyWorkspace initializes a workspace whose Tally endpoint points at
// a stub server.
func tallyWorkspace(t *testing.T, responseBody string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Test Co", "HDFC Bank"))

	cfg, err := config.Load(filepath.Join(dir, configFile))
	require.NoError(t, err)
	cfg.Tally.Endpoint = srv.URL
	require.NoError(t, config.Save(filepath.Join(dir, configFile), cfg))
	return dir
}

func TestRunCompanies(t *testing.T) {
	dir := tallyWorkspace(t, `<ENVELOPE>
 <BODY><DATA><COLLECTION>
  <COMPANY><NAME>Test Co</NAME></COMPANY>
 </COLLECTION></DATA></BODY>
</ENVELOPE>`)

	require.NoError(t, runCompanies(dir))
}

func TestRunImportList_EmptyWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Test Co", "HDFC Bank"))

	require.NoError(t, runImportList(dir))
}

func TestRunImportList_ShowsWaitingStatements(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Test Co", "HDFC Bank"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "april.csv"), []byte("a,b\n"), 0o644))

	require.NoError(t, runImportList(dir))
}
