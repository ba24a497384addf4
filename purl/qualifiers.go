package purl

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// QualifierKeyPattern describes a valid, already-lowercased qualifier key:
// ASCII letters, digits, '.', '-' and '_', not starting with a digit or an
// underscore.
var QualifierKeyPattern = regexp.MustCompile(`^[a-z.-][a-z0-9._-]*$`)

// Qualifier is a single key=value pair in the package url.
type Qualifier struct {
	Key   string
	Value string
}

func (q Qualifier) String() string {
	return q.Key + "=" + encodeComponent(q.Value, encodeQualifierValue)
}

// Qualifiers is an ordered list of key=value pairs. A normalized instance is
// sorted in ascending key order with unique, lowercase keys and no empty
// values.
type Qualifiers []Qualifier

// QualifiersFromMap constructs a Qualifiers slice from a string map, sorted
// in increasing key order so the result is deterministic despite map
// iteration order.
func QualifiersFromMap(mm map[string]string) Qualifiers {
	qq := make(Qualifiers, 0, len(mm))
	for k, v := range mm {
		qq = append(qq, Qualifier{Key: k, Value: v})
	}
	sort.Slice(qq, func(i, j int) bool { return qq[i].Key < qq[j].Key })
	return qq
}

// Map converts the qualifiers to a string map.
func (qq Qualifiers) Map() map[string]string {
	m := make(map[string]string, len(qq))
	for _, q := range qq {
		m[q.Key] = q.Value
	}
	return m
}

// Get returns the value for key and whether the key is present.
func (qq Qualifiers) Get(key string) (string, bool) {
	for _, q := range qq {
		if q.Key == key {
			return q.Value, true
		}
	}
	return "", false
}

func (qq Qualifiers) String() string {
	kvPairs := make([]string, 0, len(qq))
	for _, q := range qq {
		kvPairs = append(kvPairs, q.String())
	}
	return strings.Join(kvPairs, "&")
}

// normalize lowercases and validates every key, sorts the pairs by key,
// rejects duplicates, and drops empty values. Duplicates are detected before
// empty values are dropped, so a repeated key is an error even when one of
// the occurrences is empty.
func (qq *Qualifiers) normalize() error {
	qs := make(Qualifiers, len(*qq))
	copy(qs, *qq)

	for i, q := range qs {
		if q.Key == "" {
			return fmt.Errorf("%w: empty qualifier key", ErrInvalidCharacter)
		}
		key := strings.ToLower(q.Key)
		if !QualifierKeyPattern.MatchString(key) {
			return fmt.Errorf("%w: qualifier key %q", ErrInvalidCharacter, key)
		}
		qs[i].Key = key
	}

	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Key < qs[j].Key })

	for i := 1; i < len(qs); i++ {
		if qs[i-1].Key == qs[i].Key {
			return fmt.Errorf("%w: %q", ErrDuplicateQualifierKey, qs[i].Key)
		}
	}

	// An empty value is equivalent to the key being absent.
	normed := qs[:0]
	for _, q := range qs {
		if q.Value != "" {
			normed = append(normed, q)
		}
	}

	*qq = normed
	return nil
}

// parseQualifiers parses the raw key=value&key=value portion of a purl.
func parseQualifiers(rawQuery string) (Qualifiers, error) {
	var qq Qualifiers
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		if err := checkRawComponent(pair); err != nil {
			return nil, err
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := decodeComponent(rawKey)
		if err != nil {
			return nil, fmt.Errorf("qualifier key: %w", err)
		}
		value, err := decodeComponent(rawValue)
		if err != nil {
			return nil, fmt.Errorf("qualifier %q value: %w", key, err)
		}

		qq = append(qq, Qualifier{Key: key, Value: value})
	}

	if err := qq.normalize(); err != nil {
		return nil, err
	}
	return qq, nil
}
