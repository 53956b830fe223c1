package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Parser turns raw request bodies into Descriptors.
type Parser struct {
	facetName string
	timeField string
	nowFn     func() time.Time
}

// NewParser creates a parser accepting a single facet named facetName with a
// range filter on timeField. Empty arguments fall back to the defaults.
func NewParser(facetName, timeField string) *Parser {
	if facetName == "" {
		facetName = DefaultFacetName
	}
	if timeField == "" {
		timeField = DefaultTimeField
	}
	return &Parser{
		facetName: facetName,
		timeField: timeField,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// FacetName returns the accepted aggregation name.
func (p *Parser) FacetName() string {
	return p.facetName
}

// Parse validates body and extracts its Descriptor.
// Both "now" bounds resolve to the same instant.
func (p *Parser) Parse(body []byte) (*Descriptor, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, invalidQueryf("empty request source")
	}

	root, err := decode(body)
	if err != nil {
		return nil, invalidQueryf("malformed request source: %v", err)
	}
	if _, ok := root.(map[string]interface{}); !ok {
		return nil, invalidQueryf("request source must be a JSON object")
	}

	if err := p.checkFacets(root); err != nil {
		return nil, err
	}

	rangeNode, ok := findValue(root, p.timeField).(map[string]interface{})
	if !ok {
		return nil, invalidQueryf("no %s range found in request", p.timeField)
	}

	rawFrom, fromKey := firstPresent(rangeNode, lowerBoundKeys)
	rawTo, toKey := firstPresent(rangeNode, upperBoundKeys)
	if fromKey == "" || toKey == "" {
		return nil, invalidQueryf("%s range must define both a lower and an upper bound", p.timeField)
	}

	now := p.nowFn()
	from, err := resolveBound(rawFrom, now)
	if err != nil {
		return nil, invalidQueryf("invalid %s.%s: %v", p.timeField, fromKey, err)
	}
	to, err := resolveBound(rawTo, now)
	if err != nil {
		return nil, invalidQueryf("invalid %s.%s: %v", p.timeField, toKey, err)
	}
	if from.After(to) {
		return nil, invalidQueryf("%s lower bound %s is after upper bound %s",
			p.timeField, from.Format(time.RFC3339Nano), to.Format(time.RFC3339Nano))
	}

	// Bound values are masked, not removed, so gt/gte and lt/lte stay
	// distinct in the key.
	for _, keys := range [][]string{lowerBoundKeys, upperBoundKeys} {
		for _, key := range keys {
			if _, ok := rangeNode[key]; ok {
				rangeNode[key] = boundPlaceholder
			}
		}
	}

	normalized, err := json.Marshal(root)
	if err != nil {
		return nil, invalidQueryf("serialize request source: %v", err)
	}

	return &Descriptor{
		From:          from,
		To:            to,
		FromExclusive: lowerExclusive(rangeNode, fromKey),
		NormalizedKey: string(normalized),
	}, nil
}

func (p *Parser) checkFacets(root interface{}) error {
	facets, ok := findValue(root, facetsField).(map[string]interface{})
	if !ok || len(facets) == 0 {
		return invalidQueryf("no facets found in request")
	}

	names := make([]string, 0, len(facets))
	for name := range facets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name != p.facetName {
			return invalidQueryf("unexpected facet name: %s", name)
		}
	}
	if len(names) > 1 {
		return invalidQueryf("exactly one facet is supported, got %d", len(names))
	}
	return nil
}

// lowerExclusive reports whether the lower bound excludes its own instant:
// "gt", or "from" with include_lower set to false.
func lowerExclusive(rangeNode map[string]interface{}, fromKey string) bool {
	switch fromKey {
	case "gt":
		return true
	case "from":
		include, ok := rangeNode[includeLowerField].(bool)
		return ok && !include
	}
	return false
}

func decode(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return root, nil
}

var errTrailingData = errors.New("unexpected data after top-level value")

// findValue returns the first value stored under key, searching depth first.
// At each object the direct child wins over nested matches; sibling keys are
// visited in sorted order so the result does not depend on map iteration.
func findValue(node interface{}, key string) interface{} {
	switch n := node.(type) {
	case map[string]interface{}:
		if v, ok := n[key]; ok {
			return v
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := findValue(n[k], key); v != nil {
				return v
			}
		}
	case []interface{}:
		for _, elem := range n {
			if v := findValue(elem, key); v != nil {
				return v
			}
		}
	}
	return nil
}

func firstPresent(node map[string]interface{}, keys []string) (interface{}, string) {
	for _, key := range keys {
		v, ok := node[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, key
	}
	return nil, ""
}

// resolveBound accepts epoch milliseconds (number or numeric string),
// RFC3339 timestamps and the "now" sentinel.
func resolveBound(raw interface{}, now time.Time) (time.Time, error) {
	switch v := raw.(type) {
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		if s == Now {
			return now, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported bound value of type %T", raw)
	}
}
