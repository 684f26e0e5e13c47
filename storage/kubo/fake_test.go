package kubo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/2096779623/xLog/cidutil"
)

// When these are set the test binary stands in for the ipfs CLI, keeping
// blocks as files named by CID under the given directory.
const (
	envFakeRepo    = "XLOG_FAKE_KUBO_REPO"
	envFakeCorrupt = "XLOG_FAKE_KUBO_CORRUPT"
)

func TestMain(m *testing.M) {
	if dir := os.Getenv(envFakeRepo); dir != "" {
		os.Exit(fakeIPFS(dir, os.Args[1:]))
	}
	os.Exit(m.Run())
}

func fakeIPFS(dir string, args []string) int {
	if len(args) < 2 || args[0] != "block" {
		fmt.Fprintf(os.Stderr, "Error: unknown command %v\n", args)
		return 1
	}
	last := args[len(args)-1]
	switch args[1] {
	case "put":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		id := cidutil.CIDv1RawSHA256(data)
		if err := os.WriteFile(filepath.Join(dir, id), data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Println(id)
		return 0
	case "get", "stat":
		id, err := cid.Decode(last)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid cid:", err)
			return 1
		}
		data, err := os.ReadFile(filepath.Join(dir, id.String()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: block was not found locally (offline): ipld: could not find %s\n", id)
			return 1
		}
		if args[1] == "stat" {
			fmt.Printf("Key: %s\nSize: %d\n", id, len(data))
			return 0
		}
		if os.Getenv(envFakeCorrupt) != "" {
			data = append(data, '!')
		}
		_, _ = os.Stdout.Write(data)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown block subcommand %q\n", args[1])
		return 1
	}
}

// newFake returns a CAS that runs this test binary as its ipfs CLI.
func newFake(t *testing.T, extraEnv ...string) *CAS {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("executable: %v", err)
	}
	env := append(os.Environ(), envFakeRepo+"="+t.TempDir())
	return New(Options{Bin: exe, Env: append(env, extraEnv...)})
}
