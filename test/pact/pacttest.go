//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "namegen-api"
	ConsumerName = "brand-studio"

	StateGuestBaseline = "guest generations baseline"
	StateCatalog       = "category catalog available"
)

const (
	GuestToken = "pact-guest"
	GuestLimit = 5
)

// ExampleNames is the canned upstream answer the provider serves during verification.
var ExampleNames = []string{"Lumen", "Vesta", "Orbit", "Kindle", "Nimbus", "Quill", "Tandem", "Verve"}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the brand studio consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleGenerateRequest provides stable test data for generation interactions.
func ExampleGenerateRequest() map[string]any {
	return map[string]any{
		"keywords": []string{"bright", "future", "nest"},
		"category": "ecommerce.shopify",
		"language": "en",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
