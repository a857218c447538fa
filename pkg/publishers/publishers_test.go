package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistryFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return file
}

func TestLoadRegistryAllTypes(t *testing.T) {
	file := writeRegistryFile(t, "publishers.yaml", `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/webhook
      headers:
        X-Token: abc
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/reports
      region: us-east-1
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:123:reports
      region: us-east-1
  - id: gcp
    type: pubsub
    enabled: false
    pubsub:
      project_id: my-project
      topic: reports
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	if got := len(reg.All()); got != 4 {
		t.Fatalf("expected 4 publishers, got %d", got)
	}
	if got := len(reg.Enabled()); got != 3 {
		t.Fatalf("expected 3 enabled publishers, got %d", got)
	}

	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("hook publisher not loaded")
	}
	if hook.HTTP.Method != "POST" {
		t.Fatalf("http method should default to POST, got %s", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http timeout should default, got %d", hook.HTTP.TimeoutSeconds)
	}

	gcp, _ := reg.ByID("gcp")
	if gcp.EnabledValue() {
		t.Fatalf("gcp publisher should be disabled")
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "missing sns topic",
			content: `
publishers:
  - id: topic
    type: sns
    sns:
      region: us-east-1
`,
		},
		{
			name: "missing pubsub project",
			content: `
publishers:
  - id: gcp
    type: pubsub
    pubsub:
      topic: reports
`,
		},
		{
			name: "duplicate id",
			content: `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/a
  - id: hook
    type: http
    http:
      url: https://example.com/b
`,
		},
	}

	for _, tc := range cases {
		file := writeRegistryFile(t, "publishers.yaml", tc.content)
		if _, err := LoadRegistry(file); err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestDefaultRegistryKnowsAllTypes(t *testing.T) {
	reg := DefaultRegistry().(*registry)
	for _, typ := range []string{TypeHTTP, TypeSQS, TypeSNS, TypePubSub} {
		if reg.builders[typ] == nil {
			t.Fatalf("no builder registered for %q", typ)
		}
	}
}
