package lint

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/woozymasta/cratesel"
	"github.com/woozymasta/cratesel/internal/cache"
)

type entry struct {
	name string
	body string
	typ  byte
}

func tarball(t *testing.T, entries ...entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)

	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Typeflag: e.typ, Mode: 0o644, Size: int64(len(e.body))}
		switch e.typ {
		case tar.TypeDir:
			hdr.Mode, hdr.Size = 0o755, 0
		case tar.TypeSymlink:
			hdr.Linkname, hdr.Size = e.body, 0
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}

		if hdr.Size > 0 {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func id(s string) cratesel.PackageID {
	p, ok := cratesel.ParsePackageID(s)
	if !ok {
		panic("bad id " + s)
	}

	return p
}

const serdeManifest = `[package]
name = "serde"
version = "1.0.0"

[workspace]
members = ["derive"]

[dependencies]
serde_derive = { path = "derive", version = "=1.0.0" }
itoa = "1"

[target.'cfg(unix)'.dependencies]
libc = { path = "../libc" }
`

func TestNormalizeLint(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"needless-return":        "clippy::needless_return",
		"clippy::len_zero":       "clippy::len_zero",
		" missing_docs ":         "clippy::missing_docs",
		"clippy::too-many-lines": "clippy::too_many_lines",
	}

	for in, want := range cases {
		if got := NormalizeLint(in); got != want {
			t.Fatalf("NormalizeLint(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	data := tarball(t,
		entry{name: "serde-1.0.0/", typ: tar.TypeDir},
		entry{name: "serde-1.0.0/Cargo.toml", body: "[package]\n", typ: tar.TypeReg},
		entry{name: "serde-1.0.0/src/lib.rs", body: "pub fn f() {}\n", typ: tar.TypeReg},
		entry{name: "serde-1.0.0/link", body: "/etc/passwd", typ: tar.TypeSymlink},
	)

	if err := Extract(fs, bytes.NewReader(data), "/work"); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	body, err := fs.ReadFile("/work/serde-1.0.0/src/lib.rs")
	if err != nil || string(body) != "pub fn f() {}\n" {
		t.Fatalf("lib.rs = %q, %v", body, err)
	}

	if ok, _ := fs.Exists("/work/serde-1.0.0/link"); ok {
		t.Fatal("symlink entry was created")
	}
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	data := tarball(t, entry{name: "../evil", body: "x", typ: tar.TypeReg})
	if err := Extract(fs, bytes.NewReader(data), "/work"); !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("escaping entry: err = %v; want ErrUnsafePath", err)
	}

	if ok, _ := afero.Exists(fs, "/evil"); ok {
		t.Fatal("escaping entry was written")
	}

	if err := Extract(fs, strings.NewReader("not gzip"), "/work"); err == nil {
		t.Fatal("plain text accepted as an archive")
	}
}

func TestPrepareManifest(t *testing.T) {
	t.Parallel()

	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	if err := fs.WriteFile("/c/Cargo.toml", []byte(serdeManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := PrepareManifest(fs, "/c/Cargo.toml")
	if err != nil || !changed {
		t.Fatalf("PrepareManifest = %v, %v; want true, nil", changed, err)
	}

	body, err := fs.ReadFile("/c/Cargo.toml")
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]any{}
	if _, err := toml.Decode(string(body), &got); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}

	want := map[string]any{
		"package": map[string]any{"name": "serde", "version": "1.0.0"},
		"dependencies": map[string]any{
			"serde_derive": map[string]any{"version": "=1.0.0"},
			"itoa":         "1",
		},
		"target": map[string]any{
			"cfg(unix)": map[string]any{
				"dependencies": map[string]any{"libc": map[string]any{"version": "*"}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("manifest (-want +got):\n%s", diff)
	}
}

func TestPrepareManifest_Unchanged(t *testing.T) {
	t.Parallel()

	const body = "[package]\nname = \"itoa\"\n\n[dependencies]\nserde = { version = \"1\", optional = true }\n"

	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	if err := fs.WriteFile("/c/Cargo.toml", []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := PrepareManifest(fs, "/c/Cargo.toml")
	if err != nil || changed {
		t.Fatalf("PrepareManifest = %v, %v; want false, nil", changed, err)
	}

	got, _ := fs.ReadFile("/c/Cargo.toml")
	if string(got) != body {
		t.Fatalf("manifest rewritten:\n%s", got)
	}

	if _, err := PrepareManifest(fs, "/missing/Cargo.toml"); err == nil {
		t.Fatal("missing manifest accepted")
	}
}

func TestToolchain(t *testing.T) {
	t.Parallel()

	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	files := map[string]string{
		"/toml/rust-toolchain.toml": "[toolchain]\nchannel = \"nightly-2024-05-02\"\ncomponents = [\"rustc-dev\"]\n",
		"/legacy/rust-toolchain":    "nightly-2021-06-17\n",
		"/nochan/rust-toolchain":    "[toolchain]\ncomponents = [\"rustc-dev\"]\n",
	}

	for name, body := range files {
		if err := fs.WriteFile(name, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cases := map[string]string{
		"/toml":   "nightly-2024-05-02",
		"/legacy": "nightly-2021-06-17",
	}

	for dir, want := range cases {
		got, err := Toolchain(fs, dir)
		if err != nil || got != want {
			t.Fatalf("Toolchain(%s) = %q, %v; want %q", dir, got, err, want)
		}
	}

	for _, dir := range []string{"/nochan", "/empty"} {
		if _, err := Toolchain(fs, dir); !errors.Is(err, ErrNoToolchain) {
			t.Fatalf("Toolchain(%s): err = %v; want ErrNoToolchain", dir, err)
		}
	}
}

func TestClippy_Args(t *testing.T) {
	t.Parallel()

	job := Job{Manifest: "/w/serde-1.0.0/Cargo.toml", TargetDir: "/w/target", Lints: []string{"clippy::len_zero"}}
	tail := []string{
		"--manifest-path", "/w/serde-1.0.0/Cargo.toml", "--quiet", "--message-format=json",
		"--target-dir", "/w/target", "--",
		"--cap-lints", "warn", "--allow", "clippy::all", "-C", "incremental=false",
		"--warn", "clippy::len_zero",
	}

	got := Clippy{}.args(job)
	if want := append([]string{"clippy"}, tail...); !reflect.DeepEqual(got, want) {
		t.Fatalf("installed args = %q; want %q", got, want)
	}

	got = Clippy{Dir: "/src/clippy", Toolchain: "nightly-2024-05-02"}.args(job)
	want := append([]string{
		"+nightly-2024-05-02", "--quiet", "run", "--manifest-path=" + filepath.Join("/src/clippy", "Cargo.toml"),
		"--release", "--bin", "cargo-clippy", "--", "--",
	}, tail...)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("checkout args = %q; want %q", got, want)
	}
}

// fakeChecker answers with canned cargo output per crate directory and
// verifies the unpacked crate was prepared.
type fakeChecker struct {
	fs   afero.Afero
	out  map[string]string
	fail map[string]bool
	jobs []Job
}

func (c *fakeChecker) Check(_ context.Context, job Job) ([]byte, error) {
	c.jobs = append(c.jobs, job)
	dir := filepath.Dir(job.Manifest)

	for _, name := range []string{"Cargo.lock", filepath.Join(".cargo", "config.toml")} {
		if ok, _ := c.fs.Exists(filepath.Join(dir, name)); ok {
			return nil, errors.New(name + " left in place")
		}
	}

	body, err := c.fs.ReadFile(job.Manifest)
	if err != nil {
		return nil, err
	}

	if strings.Contains(string(body), "path") || strings.Contains(string(body), "workspace") {
		return nil, errors.New("manifest not prepared:\n" + string(body))
	}

	out := []byte(c.out[filepath.Base(dir)])
	if c.fail[filepath.Base(dir)] {
		return out, errors.New("exit status 101")
	}

	return out, nil
}

func compilerMessage(code, level, rendered string) string {
	c := "null"
	if code != "" {
		c = `{"code":"` + code + `","explanation":null}`
	}

	return `{"reason":"compiler-message","package_id":"x","message":{"rendered":"` +
		rendered + `\n","level":"` + level + `","code":` + c + `}}` + "\n"
}

func newTestLinter(t *testing.T) (*Linter, *fakeChecker, afero.Afero) {
	t.Helper()

	fs := afero.Afero{Fs: afero.NewMemMapFs()}
	c := cache.New(fs, "/cargo", "")

	archives := map[string][]byte{
		"serde-1.0.0": tarball(t,
			entry{name: "serde-1.0.0/Cargo.toml", body: serdeManifest, typ: tar.TypeReg},
			entry{name: "serde-1.0.0/Cargo.lock", body: "# lock", typ: tar.TypeReg},
			entry{name: "serde-1.0.0/.cargo/config.toml", body: "[build]\n", typ: tar.TypeReg},
			entry{name: "serde-1.0.0/src/lib.rs", body: "", typ: tar.TypeReg},
		),
		"rand-0.8.5": tarball(t,
			entry{name: "rand-0.8.5/Cargo.toml", body: "[package]\nname = \"rand\"\n", typ: tar.TypeReg},
		),
		"bad-1.0.0": tarball(t,
			entry{name: "bad-1.0.0/Cargo.toml", body: "[package]\nname = \"bad\"\n", typ: tar.TypeReg},
		),
	}

	for name, data := range archives {
		if err := c.FS.WriteFile(c.Path(id(name)), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	chk := &fakeChecker{
		fs: fs,
		out: map[string]string{
			"serde-1.0.0": "Compiling serde v1.0.0\n" +
				compilerMessage("clippy::needless_return", "warning", "warning: a") +
				compilerMessage("unused_variables", "warning", "warning: unused") +
				compilerMessage("clippy::len_zero", "warning", "warning: b") +
				`{"reason":"build-finished","success":true}` + "\n",
			"rand-0.8.5": compilerMessage("clippy::redundant_clone", "warning", "warning: clone"),
			"bad-1.0.0":  compilerMessage("E0432", "error", "error: unresolved import"),
		},
		fail: map[string]bool{"bad-1.0.0": true},
	}

	return &Linter{Cache: c, Checker: chk, FS: fs}, chk, fs
}

func TestLinter_Run(t *testing.T) {
	t.Parallel()

	l, chk, fs := newTestLinter(t)
	l.Lints = []string{"needless-return", "clippy::len_zero", "missing_docs_in_private_items"}

	var out bytes.Buffer
	rep, err := l.Run(context.Background(), []cratesel.PackageID{id("serde-1.0.0"), id("rand-0.8.5"), id("bad-1.0.0"), id("gone-1.0.0")}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Checked != 2 || rep.Failed != 2 {
		t.Fatalf("checked %d, failed %d; want 2, 2", rep.Checked, rep.Failed)
	}

	if err := rep.WriteSummary(&out); err != nil {
		t.Fatal(err)
	}

	want := "serde-1.0.0: 2 warnings\n\nwarning: a\nwarning: b\n\n" +
		"\nReport summary:\n\n" +
		"serde-1.0.0: 2 warnings\n\n" +
		"clippy::len_zero: 1 occurrences\n" +
		"clippy::missing_docs_in_private_items: 0 occurrences\n" +
		"clippy::needless_return: 1 occurrences\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("report (-want +got):\n%s", diff)
	}

	wantLints := []string{"clippy::len_zero", "clippy::missing_docs_in_private_items", "clippy::needless_return"}
	for _, j := range chk.jobs {
		if !reflect.DeepEqual(j.Lints, wantLints) {
			t.Fatalf("job lints = %q; want %q", j.Lints, wantLints)
		}

		if filepath.Base(j.TargetDir) != "target" {
			t.Fatalf("target dir = %q", j.TargetDir)
		}
	}

	entries, _ := fs.ReadDir(os.TempDir())
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "cratesel-lint-") {
			t.Fatalf("workspace %s left behind", e.Name())
		}
	}
}

func TestLinter_RunAllLints(t *testing.T) {
	t.Parallel()

	l, chk, _ := newTestLinter(t)

	var out bytes.Buffer
	rep, err := l.Run(context.Background(), []cratesel.PackageID{id("rand-0.8.5"), id("serde-1.0.0")}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]int{"clippy::needless_return": 1, "clippy::len_zero": 1, "clippy::redundant_clone": 1}
	if diff := cmp.Diff(want, rep.Lints); diff != "" {
		t.Fatalf("lints (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]int{"rand-0.8.5": 1, "serde-1.0.0": 2}, rep.Crates); diff != "" {
		t.Fatalf("crates (-want +got):\n%s", diff)
	}

	if !strings.HasPrefix(out.String(), "rand-0.8.5: 1 warnings\n\nwarning: clone\n\nserde-1.0.0: 2 warnings\n") {
		t.Fatalf("crate sections out of order:\n%s", out.String())
	}

	for _, j := range chk.jobs {
		if j.Lints != nil {
			t.Fatalf("job lints = %q; want none", j.Lints)
		}
	}
}

func TestLinter_FailureMessage(t *testing.T) {
	t.Parallel()

	err := failure([]byte(compilerMessage("E0432", "error", "error: unresolved import")+
		compilerMessage("clippy::len_zero", "warning", "warning: b")), errors.New("exit status 101"))

	if got := err.Error(); got != "exit status 101\nerror: unresolved import" {
		t.Fatalf("failure = %q", got)
	}
}

func TestLinter_Canceled(t *testing.T) {
	t.Parallel()

	l, chk, _ := newTestLinter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Run(ctx, []cratesel.PackageID{id("serde-1.0.0")}, &bytes.Buffer{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}

	if len(chk.jobs) != 0 {
		t.Fatalf("%d jobs ran after cancel", len(chk.jobs))
	}
}
