package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/mcuwatch/internal/events"
	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/lock"
	"github.com/msageha/mcuwatch/internal/logging"
)

var methodNameRe = regexp.MustCompile(`<methodName>([^<]+)</methodName>`)

const structReply = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>%s</struct></value></param></params></methodResponse>`

func member(name, typ, value string) string {
	return fmt.Sprintf("<member><name>%s</name><value><%s>%s</%s></value></member>", name, typ, value, typ)
}

// fakeBridge answers conference.status and participant.status for a single
// connected participant.
func fakeBridge(t *testing.T, active bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m := methodNameRe.FindSubmatch(body)
		if m == nil {
			http.Error(w, "no method", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		switch string(m[1]) {
		case "conference.status":
			flag := "0"
			if active {
				flag = "1"
			}
			fmt.Fprintf(w, structReply, member("conferenceActive", "boolean", flag)+member("locked", "boolean", "1"))
		case "participant.status":
			fmt.Fprintf(w, structReply,
				member("callState", "string", "connected")+
					member("audioRxReceived", "int", "10")+
					member("videoRxReceived", "int", "20"))
		default:
			fmt.Fprintf(w, structReply, member("status", "string", "operation successful"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, url string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`mcu:
  url: %q
  username: "admin"
watchdog:
  lock_file: "state/mcuwatch.lock"
logging:
  level: "error"
conferences:
  - name: "board"
    locked: true
    participants:
      - name: "room-a"
        address: "10.0.0.21"
`, url)
	path := filepath.Join(dir, "mcuwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func TestDispatch_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitOK, dispatch([]string{"version"}, &out, &errOut))
	assert.Equal(t, "mcuwatch "+version+"\n", out.String())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitUsage, dispatch([]string{"frobnicate"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "unknown command: frobnicate")
}

func TestDispatch_BadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitUsage, dispatch([]string{"run", "--no-such-flag"}, &out, &errOut))
}

func TestRun_MissingConfigFails(t *testing.T) {
	var out, errOut bytes.Buffer
	code := dispatch([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, &out, &errOut)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut.String(), "config")
}

func TestRun_HealthyParticipantStoresBaseline(t *testing.T) {
	srv := fakeBridge(t, true)
	path := writeConfig(t, srv.URL)

	var out, errOut bytes.Buffer
	require.Equal(t, exitOK, dispatch([]string{"run", "--config", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "1 conferences, 1 participants, 0 actions, 0 faults")

	relock := lock.NewRunLock(filepath.Join(filepath.Dir(path), "state", "mcuwatch.lock"))
	require.NoError(t, relock.TryLock(), "the run must release its lock")
	require.NoError(t, relock.Unlock())

	out.Reset()
	require.Equal(t, exitOK, dispatch([]string{"state", "--config", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "room-a:")
	assert.Contains(t, out.String(), "audio: 10")
	assert.Contains(t, out.String(), "video: 20")
}

func TestRun_InactiveConferenceIsJournaled(t *testing.T) {
	srv := fakeBridge(t, false)
	path := writeConfig(t, srv.URL)

	var out, errOut bytes.Buffer
	require.Equal(t, exitOK, dispatch([]string{"run", "-c", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "1 faults")

	out.Reset()
	require.Equal(t, exitOK, dispatch([]string{"faults", "--config", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "application")
	assert.Contains(t, out.String(), "board")
	assert.Contains(t, out.String(), "not active")

	out.Reset()
	require.Equal(t, exitOK, dispatch([]string{"faults", "--verify", "--config", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "1 entries, 1 valid")
}

func TestRun_CorruptBaselinesIsOneDataFault(t *testing.T) {
	srv := fakeBridge(t, true)
	path := writeConfig(t, srv.URL)
	dir := filepath.Dir(path)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "state"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state", "baselines.yaml"), []byte("conferences: [\n"), 0644))

	var out, errOut bytes.Buffer
	assert.Equal(t, exitFailure, dispatch([]string{"run", "--config", path}, &out, &errOut))
	assert.Contains(t, errOut.String(), "data fault")

	entries, err := events.ReadJournal(filepath.Join(dir, "logs", FaultJournalFile))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fault.KindData.String(), entries[0].Kind)
	assert.NotEmpty(t, entries[0].RunID)

	_, err = os.Stat(filepath.Join(dir, "state", "baselines.yaml"))
	assert.True(t, os.IsNotExist(err), "corrupt state should be quarantined")
}

func TestRun_LockHeldIsJournaled(t *testing.T) {
	srv := fakeBridge(t, true)
	path := writeConfig(t, srv.URL)
	dir := filepath.Dir(path)

	held := lock.NewRunLock(filepath.Join(dir, "state", "mcuwatch.lock"))
	require.NoError(t, held.TryLock())
	t.Cleanup(func() { _ = held.Unlock() })

	var out, errOut bytes.Buffer
	assert.Equal(t, exitFailure, dispatch([]string{"run", "--config", path}, &out, &errOut))
	assert.Contains(t, errOut.String(), lock.ErrLocked.Error())

	entries, err := events.ReadJournal(filepath.Join(dir, "logs", FaultJournalFile))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "acquire run lock", entries[0].Operation)

	errLog, err := os.ReadFile(filepath.Join(dir, "logs", logging.ErrorLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "another run holds the lock")
}

func TestStatus_JSON(t *testing.T) {
	srv := fakeBridge(t, true)
	path := writeConfig(t, srv.URL)

	var out, errOut bytes.Buffer
	require.Equal(t, exitOK, dispatch([]string{"status", "--json", "--config", path}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), `"name": "board"`)
	assert.Contains(t, out.String(), `"entry": "connected_healthy"`)
}

func TestFaults_EmptyJournal(t *testing.T) {
	path := writeConfig(t, "http://127.0.0.1:1/RPC2")

	var out, errOut bytes.Buffer
	require.Equal(t, exitOK, dispatch([]string{"faults", "--config", path}, &out, &errOut), errOut.String())
	assert.Equal(t, "no faults recorded\n", out.String())
}

func TestInit_WritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	var out, errOut bytes.Buffer
	require.Equal(t, exitOK, dispatch([]string{"init", dir, "--mcu-url", "https://codian.internal/RPC2"}, &out, &errOut), errOut.String())
	assert.Contains(t, out.String(), "Initialized mcuwatch in")

	data, err := os.ReadFile(filepath.Join(dir, "mcuwatch.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://codian.internal/RPC2")

	assert.Equal(t, exitFailure, dispatch([]string{"init", dir}, &out, &errOut))
}
