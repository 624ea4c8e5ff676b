package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/feignbridge/pkg/agent"
	"github.com/getmockd/feignbridge/pkg/agentclient"
	"github.com/getmockd/feignbridge/pkg/config"
)

// --- Helpers ---

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func startAgent(t *testing.T) (*agent.Receiver, string, int) {
	t.Helper()
	recv := agent.New(nil)
	ts := httptest.NewServer(recv.Handler())
	t.Cleanup(ts.Close)
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return recv, u.Hostname(), port
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

const descriptors = `{
  "classes": [
    {"name": "com.x.User", "fields": [
      {"name": "id", "type": "long"},
      {"name": "name", "type": "java.lang.String"}
    ]}
  ],
  "clients": [
    {"name": "com.x.UserClient", "methods": [
      {"name": "get", "params": ["java.lang.Long"], "returns": "com.x.User"}
    ]}
  ]
}`

// --- Tests ---

func TestCommandsRegistered(t *testing.T) {
	want := []string{"agent", "config", "ping", "push", "serve", "signature", "synth", "version"}
	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestSignature(t *testing.T) {
	out, err := execute(t, "signature", "com.x.C#find( java.util.List<java.lang.Long>, int )")
	require.NoError(t, err)
	assert.Equal(t, "com.x.C#find(java.util.List,int)\n", out)

	out, err = execute(t, "signature", "--json", "com.x.C#get()")
	require.NoError(t, err)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "com.x.C", results[0]["owner"])
	assert.Equal(t, "get", results[0]["method"])

	_, err = execute(t, "signature", "nope")
	assert.Error(t, err)
}

func TestSynth(t *testing.T) {
	desc := writeFile(t, "types.json", descriptors)

	out, err := execute(t, "synth", "-d", desc, "com.x.User")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 0,\n  \"name\": \"string\"\n}\n", out)

	out, err = execute(t, "synth", "-d", desc, "--signature", "com.x.UserClient#get(java.lang.Long)", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "id: 0\nname: string\n", out)

	out, err = execute(t, "synth", "-d", desc, "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "com.x.UserClient#get(java.lang.Long)")
	assert.Contains(t, out, "com.x.User")

	out, err = execute(t, "synth", "java.util.List<java.util.List<java.lang.String>>", "--max-depth", "1")
	require.NoError(t, err)
	assert.Equal(t, "[\n  [\n    null\n  ]\n]\n", out)
}

func TestSynth_Errors(t *testing.T) {
	_, err := execute(t, "synth")
	assert.True(t, errors.Is(err, ErrNoType))

	_, err = execute(t, "synth", "int", "--format", "xml")
	assert.Error(t, err)

	_, err = execute(t, "synth", "--signature", "a.B#missing()")
	assert.Error(t, err)

	_, err = execute(t, "synth", "-d", filepath.Join(t.TempDir(), "missing.json"), "int")
	assert.Error(t, err)

	_, err = execute(t, "synth", "int", "--max-depth", "11")
	assert.ErrorContains(t, err, "exceeds limit")
}

func TestPing(t *testing.T) {
	recv, host, port := startAgent(t)

	out, err := execute(t, "ping", "--agent-host", host, "--agent-port", strconv.Itoa(port))
	require.NoError(t, err)
	assert.Equal(t, agentclient.ReplyPong+"\n", out)

	recv.SetReady(false)
	out, err = execute(t, "ping", "--json", "--agent-host", host, "--agent-port", strconv.Itoa(port))
	assert.True(t, errors.Is(err, ErrAgentNotReady))
	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "failure", result["outcome"])
}

func TestPing_NoPort(t *testing.T) {
	out, err := execute(t, "ping")
	assert.True(t, errors.Is(err, ErrAgentNotReady))
	assert.Equal(t, agentclient.ReplyNotStarted+"\n", out)
}

func TestPush(t *testing.T) {
	recv, host, port := startAgent(t)
	cfgPath := writeFile(t, "bridge.yaml", fmt.Sprintf(`agent:
  host: %s
  port: %d
mocks:
  "com.x.UserClient#get( java.lang.Long )": |
    {
      "id": 7
    }
  "com.x.UserClient#list()": ""
`, host, port))

	out, err := execute(t, "push", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "sent 1, failed 0, skipped 1\n", out)

	text, ok := recv.Mock("com.x.UserClient#get(java.lang.Long)")
	require.True(t, ok)
	assert.Equal(t, `{ "id": 7 }`, text)
	assert.Equal(t, []string{"com.x.UserClient#get(java.lang.Long)"}, recv.Signatures())
}

func TestPush_Failure(t *testing.T) {
	cfgPath := writeFile(t, "bridge.yaml", `mocks:
  "a.B#c()": "{}"
`)
	out, err := execute(t, "push", "--config", cfgPath, "--json")
	assert.True(t, errors.Is(err, ErrPushFailed))
	assert.Contains(t, out, `"failed": 1`)
}

func TestConfig(t *testing.T) {
	cfgPath := writeFile(t, "bridge.yaml", "agent:\n  port: 4321\n")

	out, err := execute(t, "config", "--config", cfgPath, "--log-level", "debug")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+cfgPath+"\n"))
	assert.Contains(t, out, "port: 4321")
	assert.Contains(t, out, "level: debug")

	bad := writeFile(t, "bad.yaml", "agent:\n  nope: 1\n")
	_, err = execute(t, "config", "--config", bad)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.NotEmpty(t, v.Version)
	assert.NotEmpty(t, v.Go)
}
