package llm

import (
	"context"
	"testing"
	"time"
)

type countingClient struct {
	calls int
}

func (c *countingClient) Generate(ctx context.Context, prompt string, parts []Part) (string, error) {
	c.calls++
	return "ok", nil
}

func (c *countingClient) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	c.calls++
	return text, nil
}

func (c *countingClient) Suggest(ctx context.Context, document string) ([]Edit, error) {
	c.calls++
	return nil, nil
}

func (c *countingClient) Name() string { return "counting" }

func TestPacedDisabledReturnsSameClient(t *testing.T) {
	inner := &countingClient{}
	if got := Paced(inner, 0); got != Client(inner) {
		t.Fatalf("expected unwrapped client, got %T", got)
	}
}

func TestPacedBlocksSecondCallUntilContextExpires(t *testing.T) {
	inner := &countingClient{}
	paced := Paced(inner, 1)

	if _, err := paced.Rewrite(context.Background(), "a", "b"); err != nil {
		t.Fatalf("first call should pass immediately: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := paced.Suggest(ctx, "doc"); err == nil {
		t.Fatal("second call inside the same minute should wait and hit the deadline")
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single backend call, got %d", inner.calls)
	}
	if paced.Name() != "counting" {
		t.Fatalf("name should delegate, got %q", paced.Name())
	}
}
