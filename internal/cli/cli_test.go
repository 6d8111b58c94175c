package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmalink/pharmalink/internal/apitest"
	"github.com/pharmalink/pharmalink/internal/cli"
	"github.com/pharmalink/pharmalink/internal/cli/output"
	"github.com/pharmalink/pharmalink/pkg/logger"
)

type env struct {
	srv         *apitest.Server
	sessionFile string
	lookup      envconfig.Lookuper
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	file := filepath.Join(t.TempDir(), "session.json")
	return &env{
		srv:         srv,
		sessionFile: file,
		lookup: envconfig.MapLookuper(map[string]string{
			"PHARMALINK_API_BASE_URL": srv.APIURL(),
			"PHARMALINK_SESSION_FILE": file,
		}),
	}
}

// run executes one invocation and returns its exit code, stdout and stderr.
func (e *env) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	logger.Reset()
	t.Cleanup(logger.Reset)

	var stdout, stderr bytes.Buffer
	code := cli.Run(context.Background(), cli.Options{
		Args:     append([]string{"--no-color"}, args...),
		Stdout:   &stdout,
		Stderr:   &stderr,
		Version:  "test",
		Lookuper: e.lookup,
	})
	return code, stdout.String(), stderr.String()
}

func (e *env) login(t *testing.T, email string) {
	t.Helper()
	code, out, errOut := e.run(t, "login", "--email", email, "--password", apitest.DemoPassword)
	require.Equal(t, output.ExitSuccess, code, errOut)
	require.Contains(t, out, "redirect: ")
}

func TestLogin_PersistsAcrossRuns(t *testing.T) {
	e := newEnv(t)

	code, out, _ := e.run(t, "login", "--email", apitest.PatientEmail, "--password", apitest.DemoPassword)
	require.Equal(t, output.ExitSuccess, code)
	assert.Contains(t, out, "[OK] logged in as John Patient (patient)")
	assert.Contains(t, out, "redirect: patient.html")

	info, err := os.Stat(e.sessionFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	code, out, _ = e.run(t, "whoami")
	require.Equal(t, output.ExitSuccess, code)
	assert.Contains(t, out, "John Patient")
	assert.Contains(t, out, "patient@example.com")

	code, out, _ = e.run(t, "route")
	require.Equal(t, output.ExitSuccess, code)
	assert.Equal(t, "patient.html\n", out)
}

func TestLogin_ExistingSessionRedirects(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.AdminEmail)

	code, out, _ := e.run(t, "login", "--email", apitest.PatientEmail, "--password", apitest.DemoPassword)
	assert.Equal(t, output.ExitRedirect, code)
	assert.Equal(t, "redirect: admin.html\n", out)
}

func TestLogin_JSON(t *testing.T) {
	e := newEnv(t)

	code, out, _ := e.run(t, "--json", "login", "--email", apitest.PharmacistEmail, "--password", apitest.DemoPassword)
	require.Equal(t, output.ExitSuccess, code)

	var got struct {
		User struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
		Destination string `json:"destination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "pharmacist", got.User.Role)
	assert.Equal(t, "pharmacist.html", got.Destination)
}

func TestLogin_Failures(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "login", "--email", "nobody", "--password", "x")
	assert.Equal(t, output.ExitUsage, code)
	assert.Contains(t, errOut, "email must be a valid email")

	code, out, errOut := e.run(t, "login", "--email", apitest.PatientEmail, "--password", "wrong")
	assert.Equal(t, output.ExitRedirect, code)
	assert.Contains(t, out, "redirect: login.html")
	assert.Contains(t, errOut, "please log in again")

	code, _, _ = e.run(t, "login", "--email", apitest.PatientEmail)
	assert.Equal(t, output.ExitGeneral, code, "missing required flag")
}

func TestAnonymousPagesRedirectToLogin(t *testing.T) {
	e := newEnv(t)

	for _, args := range [][]string{
		{"whoami"},
		{"patient", "reservations"},
		{"pharmacist", "dashboard"},
		{"admin", "overview"},
	} {
		code, out, _ := e.run(t, args...)
		assert.Equal(t, output.ExitRedirect, code, args)
		assert.Equal(t, "redirect: login.html\n", out, args)
	}
	assert.Empty(t, e.srv.Requests())
}

func TestWrongRoleRedirects(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.PatientEmail)

	code, out, _ := e.run(t, "admin", "dashboard")
	assert.Equal(t, output.ExitRedirect, code)
	assert.Equal(t, "redirect: login.html\n", out)

	code, _, _ = e.run(t, "whoami")
	assert.Equal(t, output.ExitSuccess, code, "a role mismatch keeps the session")
}

func TestPatientSearch(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.PatientEmail)

	code, out, errOut := e.run(t, "patient", "search", "--medication", "panadol")
	require.Equal(t, output.ExitSuccess, code, errOut)
	assert.Contains(t, out, "Pharmaceutical Access Ltd")
	assert.Contains(t, out, "Goodlife Pharmacy Westlands")
	assert.Less(t,
		strings.Index(out, "Pharmaceutical Access Ltd"),
		strings.Index(out, "Goodlife Pharmacy Westlands"),
		"cheapest first without coordinates")

	last := e.srv.LastRequest()
	assert.Equal(t, "/api/patient/pharmacies/search", last.Path)
	assert.Contains(t, last.RawQuery, "medication=panadol")

	code, _, errOut = e.run(t, "patient", "search", "--medication", "unobtainium")
	assert.Equal(t, output.ExitAPI, code)
	assert.Contains(t, errOut, "Medication not found")
}

func TestPatientSearch_JSON(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.PatientEmail)

	code, out, _ := e.run(t, "--json", "patient", "search", "--medication", "panadol")
	require.Equal(t, output.ExitSuccess, code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload, "medication")
	assert.Contains(t, payload, "pharmacies")
}

func TestRevokedTokenRedirectsAndClears(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.PharmacistEmail)
	e.srv.RevokeTokens()

	code, out, errOut := e.run(t, "pharmacist", "update-stock", "1", "--quantity", "40")
	assert.Equal(t, output.ExitRedirect, code)
	assert.Equal(t, "redirect: login.html\n", out)
	assert.Contains(t, errOut, "session expired")

	code, out, _ = e.run(t, "whoami")
	assert.Equal(t, output.ExitRedirect, code)
	assert.Equal(t, "redirect: login.html\n", out)
}

func TestInvalidIDIsUsageError(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.PatientEmail)
	before := len(e.srv.Requests())

	code, _, _ := e.run(t, "patient", "cancel", "abc")
	assert.Equal(t, output.ExitUsage, code)
	assert.Len(t, e.srv.Requests(), before)
}

func TestNetworkError(t *testing.T) {
	e := newEnv(t)
	e.srv.Close()

	code, _, errOut := e.run(t, "health")
	assert.Equal(t, output.ExitNetwork, code)
	assert.Contains(t, errOut, "cannot reach the PharmaLink service")
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	e.login(t, apitest.PatientEmail)

	code, out, _ := e.run(t, "logout")
	require.Equal(t, output.ExitSuccess, code)
	assert.Contains(t, out, "redirect: index.html")

	_, err := os.Stat(e.sessionFile)
	assert.True(t, os.IsNotExist(err))
}

func TestRouteForRoleFlag(t *testing.T) {
	e := newEnv(t)

	code, out, _ := e.run(t, "route", "--role", "admin")
	require.Equal(t, output.ExitSuccess, code)
	assert.Equal(t, "admin.html\n", out)

	code, _, errOut := e.run(t, "route", "--role", "nurse")
	assert.Equal(t, output.ExitGeneral, code)
	assert.Contains(t, errOut, "unknown role")
}

func TestMetricsFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "pharmalink.prom")

	code, _, _ := e.run(t, "--metrics-file", path, "health")
	require.Equal(t, output.ExitSuccess, code)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "pharmalink_client_requests_total")
}

func TestCorruptSessionFileRecovers(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.sessionFile, []byte("{not json"), 0o600))

	code, out, _ := e.run(t, "whoami")
	assert.Equal(t, output.ExitRedirect, code)
	assert.Equal(t, "redirect: login.html\n", out)

	code, _, errOut := e.run(t, "logout")
	require.Equal(t, output.ExitSuccess, code, errOut)

	require.NoError(t, os.WriteFile(e.sessionFile, []byte("{not json"), 0o600))
	e.login(t, apitest.PatientEmail)

	code, out, _ = e.run(t, "whoami")
	require.Equal(t, output.ExitSuccess, code)
	assert.Contains(t, out, "John Patient")
}
