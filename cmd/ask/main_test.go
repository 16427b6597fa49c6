package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_AnswersArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	data := "Date,Open,High,Low,Close\n2024-01-01,10,11,9,10\n2024-01-02,10,13,9,12.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := run(context.Background(), path, 0, 1, "ACME", false, []string{"what", "is", "the", "price"}, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "$12.50") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_ReadsQuestionsFromInput(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("highest\n\nlowest\nquit\nprice\n")

	if err := run(context.Background(), "", 30, 2, "DEMO", true, nil, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"DEMO summary", "highest price", "lowest price"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "latest close") {
		t.Error("questions after quit should be ignored")
	}
}

func TestRun_RequiresData(t *testing.T) {
	if err := run(context.Background(), "", 0, 1, "X", false, nil, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Error("expected error without data source")
	}
}
