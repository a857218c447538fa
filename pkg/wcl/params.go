package wcl

import (
	"fmt"
	"net/url"
	"strings"
)

// Params holds optional query parameters for an API call. Pairs keep their
// insertion order when encoded, so the produced query string is reproducible.
type Params struct {
	pairs []paramPair
}

type paramPair struct {
	key   string
	value string
}

// NewParams returns an empty parameter set. Set calls chain:
//
//	wcl.NewParams().Set("metric", "dps").Set("class", 11)
func NewParams() *Params {
	return &Params{}
}

// Set adds the parameter, stringifying the value. Setting a key that is
// already present replaces its value in place without changing its position.
func (p *Params) Set(key string, value any) *Params {
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = fmt.Sprint(value)
			return p
		}
	}
	p.pairs = append(p.pairs, paramPair{key: key, value: fmt.Sprint(value)})
	return p
}

// Get returns the value stored for key and whether it was set.
func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// Len returns the number of parameters set.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.pairs)
}

// encode writes the pairs as percent-encoded key=value terms joined by a
// single '&', with no leading or trailing separator.
func (p *Params) encode(b *strings.Builder) {
	if p == nil {
		return
	}
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
}
