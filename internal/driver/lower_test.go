package driver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"sstlower/internal/diag"
	"sstlower/internal/virjson"
)

const testKrate = `{
  "functions": [
    {
      "name": "inc",
      "mode": "exec",
      "params": [{"name": "x", "typ": "u8"}],
      "ret": {"name": "result", "typ": "u8"},
      "body": {"kind": "binary", "op": "add", "mode": "exec", "typ": "u8",
               "left": {"kind": "var", "name": "x", "typ": "u8"},
               "right": {"kind": "const", "nat": "1", "typ": "u8"}}
    },
    {
      "name": "broken",
      "mode": "exec",
      "body": {"kind": "call", "fun": "missing", "typ": "()", "args": []}
    }
  ]
}`

func decodeKrate(t *testing.T) *virjson.Result {
	t.Helper()
	in, err := virjson.Decode(nil, []byte(testKrate), "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return in
}

func TestLowerKrate(t *testing.T) {
	res, err := LowerKrate(context.Background(), decodeKrate(t), Options{Jobs: 2, MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Funcs) != 2 || res.Funcs[0].Name != "broken" || res.Funcs[1].Name != "inc" {
		t.Fatalf("unexpected order: %+v", res.Funcs)
	}
	broken, inc := res.Funcs[0], res.Funcs[1]
	if !broken.Failed() || broken.SST != nil {
		t.Fatalf("broken should fail: %+v", broken)
	}
	if broken.Diags[0].Code != diag.LowerUnknownFunction {
		t.Fatalf("code = %v", broken.Diags[0].Code)
	}
	if inc.Failed() || inc.SST == nil {
		t.Fatalf("inc failed: %+v", inc.Diags)
	}
	if !strings.Contains(inc.Dump, "possible arithmetic underflow/overflow") {
		t.Fatalf("missing overflow check:\n%s", inc.Dump)
	}
	if res.Bag.Len() != 1 || !res.Bag.HasErrors() {
		t.Fatalf("bag has %d items", res.Bag.Len())
	}
}

func TestLowerKrateViewAsSpec(t *testing.T) {
	res, err := LowerKrate(context.Background(), decodeKrate(t), Options{ViewAsSpec: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.Funcs[1].Dump, "assert") {
		t.Fatalf("spec view must not check overflow:\n%s", res.Funcs[1].Dump)
	}
}

func TestLowerKrateCache(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}
	first, err := LowerKrate(context.Background(), decodeKrate(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LowerKrate(context.Background(), decodeKrate(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range second.Funcs {
		got, want := second.Funcs[i], first.Funcs[i]
		if !got.Cached || want.Cached {
			t.Fatalf("%s: cached = %v, first run cached = %v", got.Name, got.Cached, want.Cached)
		}
		if got.Dump != want.Dump || len(got.Diags) != len(want.Diags) {
			t.Fatalf("%s: cached result differs", got.Name)
		}
	}
	if second.Funcs[0].Diags[0].Code != diag.LowerUnknownFunction {
		t.Fatalf("cached diagnostic lost its code")
	}

	// a different option set misses the cache
	third, err := LowerKrate(context.Background(), decodeKrate(t), Options{Cache: cache, ViewAsSpec: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.Funcs[1].Cached {
		t.Fatal("view-as-spec run hit the exec cache entry")
	}
}

func TestCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Digest{1}
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion, Name: "f", Dump: "x"}); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if ok, err := cache.Get(key, &out); !ok || err != nil || out.Dump != "x" {
		t.Fatalf("get: %v %v %+v", ok, err, out)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("entry survived DropAll: %v %v", ok, err)
	}
}

func TestProgressEvents(t *testing.T) {
	ch := make(chan Event, 64)
	_, err := LowerKrate(context.Background(), decodeKrate(t), Options{Progress: ChannelSink{Ch: ch}})
	if err != nil {
		t.Fatal(err)
	}
	close(ch)
	last := map[string]Status{}
	var krateDone bool
	for ev := range ch {
		if ev.Func == "" {
			krateDone = ev.Status == StatusDone
			continue
		}
		last[string(ev.Func)] = ev.Status
	}
	if !krateDone {
		t.Fatal("missing krate completion event")
	}
	if last["inc"] != StatusDone || last["broken"] != StatusError {
		t.Fatalf("final statuses: %v", last)
	}
}

func TestLowerKrateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LowerKrate(ctx, decodeKrate(t), Options{}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestLowerFile(t *testing.T) {
	res, err := LowerFile(context.Background(), filepath.Join("..", "virjson", "testdata", "krate.json"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.FileSet == nil || res.FileSet.Len() != 1 {
		t.Fatalf("file set not populated")
	}
	if len(res.Funcs) != 3 {
		t.Fatalf("got %d functions", len(res.Funcs))
	}
	for _, fr := range res.Funcs {
		if fr.Failed() {
			t.Errorf("%s: %+v", fr.Name, fr.Diags)
		}
	}
}
