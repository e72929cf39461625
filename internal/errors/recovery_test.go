package errors

import (
	"context"
	goerrors "errors"
	"strings"
	"testing"
)

func TestSafeCall_PassesThroughError(t *testing.T) {
	want := goerrors.New("boom")
	err := SafeCall(context.Background(), func(ctx context.Context) error {
		return want
	})
	if err != want {
		t.Errorf("expected callback error returned, got %v", err)
	}
}

func TestSafeCall_NilOnSuccess(t *testing.T) {
	err := SafeCall(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestSafeCall_ConvertsPanic(t *testing.T) {
	err := SafeCall(context.Background(), func(ctx context.Context) error {
		panic("something broke")
	})

	var panicErr *PanicError
	if !goerrors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Value != "something broke" {
		t.Errorf("expected panic value preserved, got %v", panicErr.Value)
	}
	if panicErr.Stacktrace == "" {
		t.Error("expected a stack trace")
	}
	if !strings.Contains(panicErr.Error(), "panic recovered") {
		t.Errorf("unexpected error text: %s", panicErr.Error())
	}
}

func TestFormatPanicForLog(t *testing.T) {
	p := &PanicError{Value: "oops", Stacktrace: "goroutine 1"}
	got := FormatPanicForLog(p)
	if !strings.Contains(got, "oops") || !strings.Contains(got, "goroutine 1") {
		t.Errorf("expected value and trace in output, got %s", got)
	}
}
