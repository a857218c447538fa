package wcl

import (
	"net/url"
	"strings"
	"testing"
)

func encodeToString(p *Params) string {
	var b strings.Builder
	p.encode(&b)
	return b.String()
}

func TestParamsEncodePreservesInsertionOrder(t *testing.T) {
	p := NewParams().Set("metric", "dps").Set("class", 11).Set("page", 2)

	got := encodeToString(p)
	want := "metric=dps&class=11&page=2"
	if got != want {
		t.Fatalf("encode = %q, want %q", got, want)
	}
}

func TestParamsSetReplacesInPlace(t *testing.T) {
	p := NewParams().Set("metric", "dps").Set("class", 11)
	p.Set("metric", "hps")

	got := encodeToString(p)
	want := "metric=hps&class=11"
	if got != want {
		t.Fatalf("encode = %q, want %q", got, want)
	}
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
}

func TestParamsEncodeEscapesValues(t *testing.T) {
	p := NewParams().Set("filter", `type="cast" and ability.id=100%`)

	got := encodeToString(p)
	if strings.ContainsAny(got, ` "`) {
		t.Fatalf("encoded value contains reserved characters: %q", got)
	}

	parts := strings.SplitN(got, "=", 2)
	decoded, err := url.QueryUnescape(parts[1])
	if err != nil {
		t.Fatalf("QueryUnescape: %v", err)
	}
	if decoded != `type="cast" and ability.id=100%` {
		t.Fatalf("round trip = %q", decoded)
	}
}

func TestParamsEncodeNoSeparatorAtEdges(t *testing.T) {
	p := NewParams().Set("start", 1234).Set("end", 5678)

	got := encodeToString(p)
	if strings.HasPrefix(got, "&") || strings.HasSuffix(got, "&") {
		t.Fatalf("encode has leading/trailing separator: %q", got)
	}
	if strings.Count(got, "&") != 1 {
		t.Fatalf("expected exactly one separator in %q", got)
	}
}

func TestNilParamsAreEmpty(t *testing.T) {
	var p *Params
	if p.Len() != 0 {
		t.Fatalf("nil Params Len = %d", p.Len())
	}
	if got := encodeToString(p); got != "" {
		t.Fatalf("nil Params encode = %q", got)
	}
}
