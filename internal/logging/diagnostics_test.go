package logging

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDiagnostics_AddDeduplicates(t *testing.T) {
	d := NewDiagnostics()

	first := Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeUnmappedCategory,
		Message:  "no factor key",
		Fields:   map[string]string{"category": "Kerosene", "year": "2025"},
	}
	assert.True(t, d.Add(first))
	assert.False(t, d.Add(first))

	second := first
	second.Fields = map[string]string{"category": "Kerosene", "year": "2026"}
	assert.True(t, d.Add(second))

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 2, d.Count(CodeUnmappedCategory))
	assert.Equal(t, 0, d.Count(CodeUnitMismatch))
}

func TestDiagnostics_NilSafe(t *testing.T) {
	var d *Diagnostics
	assert.False(t, d.Add(Diagnostic{Code: "x"}))
	assert.Nil(t, d.Items())
	assert.Equal(t, 0, d.Len())
}

func TestDiagnostics_Concurrent(t *testing.T) {
	d := NewDiagnostics()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.Add(Diagnostic{Code: "c", Message: "m", Fields: map[string]string{"i": string(rune('a' + i%26))}})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 26, d.Len())
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	d := NewDiagnostics()
	ctx := ContextWithDiagnostics(l.WithContext(context.Background()), d)

	diag := Diagnostic{Severity: SeverityError, Code: CodeUnitMismatch, Message: "unit mismatch"}
	Report(ctx, diag)
	Report(ctx, diag)

	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("unit mismatch")))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Same(t, d, DiagnosticsFromContext(ctx))
	assert.Nil(t, DiagnosticsFromContext(context.Background()))
}
