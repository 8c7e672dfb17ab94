package commands

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-holded/config"
	"github.com/gaborage/go-holded/testing/mockserver"
	"github.com/gaborage/go-holded/transport"
)

const contactsPath = "invoicing/v1/contacts"

func init() {
	color.NoColor = true
}

// run executes the command tree against srv and returns stdout.
func run(t *testing.T, srv *mockserver.Server, args ...string) (string, error) {
	t.Helper()
	opts := &GlobalOptions{
		environ: func() []string {
			return []string{
				"HOLDED_API_KEY=" + srv.APIKey(),
				"HOLDED_API_URL=" + srv.URL(),
				"HOLDED_RETRY_ATTEMPTS=2",
				"HOLDED_RETRY_DELAY_BASE=1ms",
				"HOLDED_LOG_LEVEL=disabled",
			}
		},
	}
	cmd := newRootCommand("test", opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGetPrintsIndentedJSON(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath, mockserver.JSON(http.StatusOK, []map[string]string{{"id": "c1", "name": "Acme"}}))

	out, err := run(t, srv, "get", contactsPath, "-q", "phone=600", "-q", "tags=a", "-q", "tags=b")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"c1","name":"Acme"}]`, out)
	assert.Contains(t, out, "\n  {")

	last, ok := srv.Last()
	require.True(t, ok)
	assert.Equal(t, "600", last.Query.Get("phone"))
	assert.Equal(t, []string{"a", "b"}, last.Query["tags"])
}

func TestGetPrintsYAML(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath+"/c1", mockserver.JSON(http.StatusOK, map[string]string{"id": "c1", "name": "Acme"}))

	out, err := run(t, srv, "get", contactsPath+"/c1", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "id: c1\nname: Acme\n", out)
}

func TestPostSendsBody(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodPost, contactsPath, mockserver.Ack("c9"))

	out, err := run(t, srv, "post", contactsPath, "-d", `{"name":"Acme"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "c9"`)

	last, ok := srv.Last()
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Acme"}`, string(last.Body))
}

func TestPostRejectsInvalidJSON(t *testing.T) {
	srv := mockserver.New(t)

	_, err := run(t, srv, "post", contactsPath, "-d", `{"name":`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
	assert.Empty(t, srv.Requests())
}

func TestDeletePrintsOKForEmptyBody(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodDelete, contactsPath+"/c1", mockserver.Status(http.StatusNoContent))

	out, err := run(t, srv, "delete", contactsPath+"/c1")
	require.NoError(t, err)
	assert.Equal(t, "OK (204)\n", out)
}

func TestRequestReturnsAPIError(t *testing.T) {
	srv := mockserver.New(t)
	srv.On(http.MethodGet, contactsPath+"/nope", mockserver.Error(http.StatusNotFound, "Contact not found"))

	_, err := run(t, srv, "get", contactsPath+"/nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrNotFound)
}

func TestDownloadWritesFile(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	srv := mockserver.New(t)
	srv.On(http.MethodGet, "invoicing/v1/documents/invoice/d1/pdf", mockserver.Raw(http.StatusOK, "application/pdf", pdf))
	target := filepath.Join(t.TempDir(), "out", "invoice.pdf")

	out, err := run(t, srv, "download", "invoicing/v1/documents/invoice/d1/pdf", "-f", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestConfigMasksKey(t *testing.T) {
	srv := mockserver.New(t)

	out, err := run(t, srv, "config", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "********-key")
	assert.NotContains(t, out, srv.APIKey())
	assert.Contains(t, out, "header: key")
}

func TestUnsupportedOutputFormat(t *testing.T) {
	srv := mockserver.New(t)

	_, err := run(t, srv, "get", contactsPath, "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
	assert.Empty(t, srv.Requests())
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery([]string{"page=2", "tags=a", "tags=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, transport.Query{"page": "2", "tags": []string{"a", "b"}, "empty": ""}, q)

	_, err = parseQuery([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseQuery([]string{"=x"})
	assert.Error(t, err)
}

func TestReadBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	body, err := readBody("@"+path, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))

	body, err = readBody("-", strings.NewReader(`{"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(body))

	_, err = readBody("@"+filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "d1.pdf", defaultFileName("invoicing/v1/documents/invoice/d1/pdf", ""))
	assert.Equal(t, "d1.pdf", defaultFileName("invoicing/v1/documents/invoice/d1/pdf", "pdf"))
	assert.Equal(t, "image.png", defaultFileName("invoicing/v1/products/p1/image", "png"))
	assert.Equal(t, "download", defaultFileName("/", ""))
}

func TestPrintError(t *testing.T) {
	var out bytes.Buffer
	PrintError(&out, config.NewMissingFieldError("api.key"))
	assert.Contains(t, out.String(), "Error: ")
	assert.Contains(t, out.String(), "hint: set HOLDED_API_KEY")
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("v1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "holded version v1.2.3\n"+
		"Client library "+transport.Version+"\n"+
		"Built with "+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+"\n", out.String())
}
