package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/config"
)

const primary = "https://ipfs.example.io/ipfs/"

func runCLI(t *testing.T, ctx context.Context, stdin string, args ...string) (int, string, string) {
	t.Helper()
	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	var out, errOut bytes.Buffer
	code := run(ctx, args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Convert(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, primary)
	ctx := context.Background()

	code, out, errOut := runCLI(t, ctx, "", "gateway", "ipfs://bafyA", "https://ipfs.io/ipfs/bafyB/x.png")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, primary+"bafyA\n"+primary+"bafyB/x.png\n", out)

	code, out, _ = runCLI(t, ctx, "", "ipfs", "https://cf-ipfs.com/ipfs/bafyC")
	require.Equal(t, 0, code)
	assert.Equal(t, "ipfs://bafyC\n", out)

	code, out, _ = runCLI(t, ctx, "", "cid", primary+"bafyD?filename=a.png")
	require.Equal(t, 0, code)
	assert.Equal(t, "bafyD?filename=a.png\n", out)
}

func TestRun_GatewayFlagOverridesEnv(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, primary)
	code, out, errOut := runCLI(t, context.Background(), "", "--gateway", "https://gw.test/ipfs/", "gateway", "ipfs://bafyA")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "https://gw.test/ipfs/bafyA\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, primary)
	ctx := context.Background()

	code, _, errOut := runCLI(t, ctx, "", "gateway")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "requires at least 1")

	code, _, _ = runCLI(t, ctx, "", "parse", "a", "b")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, ctx, "", "gateway", "--no-such-flag", "x")
	assert.Equal(t, 2, code)

	code, _, errOut = runCLI(t, ctx, "", "bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "bogus"`)
}

func TestRun_NoArgsPrintsHelp(t *testing.T) {
	code, out, _ := runCLI(t, context.Background(), "")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "serve")
}

func TestRun_MissingGateway(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, "")
	t.Setenv("XLOG_GATEWAY_PRIMARY", "")
	code, _, errOut := runCLI(t, context.Background(), "", "gateway", "ipfs://x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, config.EnvPrimaryGateway)
}

func TestRun_Parse(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, primary)
	id := cidutil.CIDv1RawSHA256([]byte("avatar"))

	code, out, errOut := runCLI(t, context.Background(), "", "parse", "https://ipfs.io/ipfs/"+id+"/a.png")
	require.Equal(t, 0, code, errOut)

	var got parsed
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, id, got.CID)
	assert.Equal(t, uint64(1), got.Version)
	assert.Equal(t, "/a.png", got.Path)
	assert.Equal(t, "ipfs://"+id+"/a.png", got.IPFS)
	assert.Equal(t, primary+id+"/a.png", got.Gateway)

	code, _, _ = runCLI(t, context.Background(), "", "parse", "https://example.com/a.png")
	assert.Equal(t, 1, code)
}

func TestRun_CSS(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, primary)
	css := `body { background: url(ipfs://bafyA); }`

	code, out, errOut := runCLI(t, context.Background(), css, "css", "-")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `body { background: url(`+primary+`bafyA); }`, out)

	file := filepath.Join(t.TempDir(), "site.css")
	require.NoError(t, os.WriteFile(file, []byte(css), 0o644))
	code, out, _ = runCLI(t, context.Background(), "", "css", "--data-url", file)
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "data:text/css;base64,"))
}

func TestRun_Fetch(t *testing.T) {
	data := []byte("block from the gateway")
	id, err := cidutil.CIDv1RawSHA256CID(data)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/ipfs/") != id.String() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	t.Setenv(config.EnvPrimaryGateway, srv.URL+"/ipfs/")
	t.Setenv("XLOG_STORAGE_FALLBACK", "false")
	ctx := context.Background()

	code, out, errOut := runCLI(t, ctx, "", "fetch", "ipfs://"+id.String())
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, string(data), out)

	file := filepath.Join(t.TempDir(), "block")
	code, _, errOut = runCLI(t, ctx, "", "fetch", "-o", file, srv.URL+"/ipfs/"+id.String())
	require.Equal(t, 0, code, errOut)
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, data, b)

	code, _, _ = runCLI(t, ctx, "", "fetch", "ipfs://"+id.String()+"/a.png")
	assert.Equal(t, 2, code)

	missing := cidutil.CIDv1RawSHA256([]byte("missing"))
	code, _, errOut = runCLI(t, ctx, "", "fetch", "ipfs://"+missing)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, missing)
}

func TestRun_ServeStopsOnCancel(t *testing.T) {
	t.Setenv(config.EnvPrimaryGateway, primary)
	t.Setenv("XLOG_SERVER_HTTP_ADDR", "127.0.0.1:0")
	t.Setenv("XLOG_SERVER_GRPC_ADDR", "127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	code, _, errOut := runCLI(t, ctx, "", "serve")
	assert.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "serving")
}
