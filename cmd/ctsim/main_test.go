package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// binaryPath holds the path to the compiled ctsim binary. Set in TestMain.
var binaryPath string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "ctsim-test-bin-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "ctsim")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		binaryPath = ""
		os.Exit(m.Run())
	}

	os.Exit(m.Run())
}

func skipIfNoBinary(t *testing.T) {
	t.Helper()
	if binaryPath == "" {
		t.Skip("ctsim binary not built; skipping")
	}
}

func runCtsim(t *testing.T, args ...string) (stdout, stderr []byte, err error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

func TestRasterize_WritesImage(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "phantom.img")

	_, stderr, err := runCtsim(t, "rasterize", "--phantom", "shepplogan", "--nx", "32", "--ny", "32", "--out", out)
	if err != nil {
		t.Fatalf("rasterize failed: %v\nstderr: %s", err, stderr)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output image is empty")
	}
}

func TestRasterize_UnknownPhantom(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "phantom.img")

	_, _, err := runCtsim(t, "rasterize", "--phantom", "not-a-real-phantom", "--out", out)
	if err == nil {
		t.Fatal("expected non-zero exit for unknown phantom name")
	}
}

func TestProject_WritesProjectionFile(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "phantom.pj")

	_, stderr, err := runCtsim(t, "project",
		"--phantom", "shepplogan", "--ndet", "65", "--nview", "40", "--out", out)
	if err != nil {
		t.Fatalf("project failed: %v\nstderr: %s", err, stderr)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output projection file is empty")
	}
}

func TestProject_UnknownGeometry(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "phantom.pj")

	_, _, err := runCtsim(t, "project", "--geometry", "hexagonal", "--out", out)
	if err == nil {
		t.Fatal("expected non-zero exit for unknown geometry name")
	}
}

func TestReconstruct_EndToEnd(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	pj := filepath.Join(dir, "phantom.pj")
	recon := filepath.Join(dir, "recon.img")

	_, stderr, err := runCtsim(t, "project",
		"--phantom", "shepplogan", "--ndet", "65", "--nview", "40", "--out", pj)
	if err != nil {
		t.Fatalf("project setup failed: %v\nstderr: %s", err, stderr)
	}

	_, stderr, err = runCtsim(t, "reconstruct", pj,
		"--nx", "32", "--ny", "32", "--filter", "shepplogan", "--backproject", "trig", "--out", recon)
	if err != nil {
		t.Fatalf("reconstruct failed: %v\nstderr: %s", err, stderr)
	}

	info, err := os.Stat(recon)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output image is empty")
	}
}

func TestReconstruct_UnknownFilter(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	pj := filepath.Join(dir, "phantom.pj")
	recon := filepath.Join(dir, "recon.img")

	_, stderr, err := runCtsim(t, "project", "--out", pj)
	if err != nil {
		t.Fatalf("project setup failed: %v\nstderr: %s", err, stderr)
	}

	_, _, err = runCtsim(t, "reconstruct", pj, "--filter", "not-a-filter", "--out", recon)
	if err == nil {
		t.Fatal("expected non-zero exit for unknown filter name")
	}
}

func TestStats_SingleImage(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	img := filepath.Join(dir, "phantom.img")

	_, stderr, err := runCtsim(t, "rasterize", "--nx", "16", "--ny", "16", "--out", img)
	if err != nil {
		t.Fatalf("rasterize setup failed: %v\nstderr: %s", err, stderr)
	}

	stdout, stderr, err := runCtsim(t, "stats", img)
	if err != nil {
		t.Fatalf("stats failed: %v\nstderr: %s", err, stderr)
	}
	if len(stdout) == 0 {
		t.Fatal("expected stats output")
	}
}

func TestStats_WithReference(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	img := filepath.Join(dir, "phantom.img")

	_, stderr, err := runCtsim(t, "rasterize", "--nx", "16", "--ny", "16", "--out", img)
	if err != nil {
		t.Fatalf("rasterize setup failed: %v\nstderr: %s", err, stderr)
	}

	stdout, stderr, err := runCtsim(t, "stats", img, "--ref", img)
	if err != nil {
		t.Fatalf("stats --ref failed: %v\nstderr: %s", err, stderr)
	}
	if !bytes.Contains(stdout, []byte("d=0")) {
		t.Errorf("expected d=0 comparing an image to itself, got: %s", stdout)
	}
}

func TestStats_MissingFile(t *testing.T) {
	skipIfNoBinary(t)
	_, _, err := runCtsim(t, "stats", "/nonexistent/file.img")
	if err == nil {
		t.Fatal("expected non-zero exit for missing input file")
	}
}

func TestNoArgs_ShowsHelp(t *testing.T) {
	skipIfNoBinary(t)
	stdout, _, err := runCtsim(t)
	if err != nil {
		t.Fatalf("expected zero exit when run with no arguments, got: %v", err)
	}
	if !bytes.Contains(stdout, []byte("rasterize")) {
		t.Errorf("expected root help to list the rasterize subcommand, got: %s", stdout)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	skipIfNoBinary(t)
	_, _, err := runCtsim(t, "not-a-command")
	if err == nil {
		t.Fatal("expected non-zero exit for unknown subcommand")
	}
}
