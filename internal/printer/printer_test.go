package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Section("Config")
	p.Successf("endpoint %s", "ok")
	p.Warnf("static provider")
	p.Errorf("%d error(s)", 2)
	p.Printf("  Item: %s", "provider.name")

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Config\n")
	assert.Contains(t, out, "endpoint ok\n")
	assert.Contains(t, out, "! static provider\n")
	assert.Contains(t, out, "2 error(s)\n")
	assert.Contains(t, out, "  Item: provider.name\n")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	assert.Same(t, p, Ctx(NewContext(context.Background(), p)))
	assert.NotNil(t, Ctx(context.Background()))
}
