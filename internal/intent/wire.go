package intent

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Scheme prefixes the wire form of an intent.
const Scheme = "intent"

const extraPrefix = "e."

// ErrMalformed is returned by Decode for strings that are not intents.
var ErrMalformed = errors.New("malformed intent")

// Encode renders i as "intent:<target>?action=..&category=..&flags=N&e.<key>=<value>".
// Every byte of target, action, category and extras is percent-encoded, so
// Decode(Encode(i)) reproduces i exactly.
func Encode(i Intent) string {
	q := url.Values{}
	if i.Action != "" {
		q.Set("action", i.Action)
	}
	if i.Category != "" {
		q.Set("category", i.Category)
	}
	if i.Flags != 0 {
		q.Set("flags", strconv.FormatUint(uint64(i.Flags), 10))
	}
	for k, v := range i.Extras {
		q.Set(extraPrefix+k, v)
	}

	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteByte(':')
	b.WriteString(url.PathEscape(i.Target))
	if len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}
	return b.String()
}

// Decode parses the output of Encode.
func Decode(s string) (Intent, error) {
	rest, ok := strings.CutPrefix(s, Scheme+":")
	if !ok {
		return Intent{}, fmt.Errorf("%w: missing %q scheme", ErrMalformed, Scheme)
	}

	rawTarget, rawQuery, _ := strings.Cut(rest, "?")
	target, err := url.PathUnescape(rawTarget)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: target: %v", ErrMalformed, err)
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: query: %v", ErrMalformed, err)
	}

	i := Intent{
		Target:   target,
		Action:   q.Get("action"),
		Category: q.Get("category"),
	}
	if raw := q.Get("flags"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Intent{}, fmt.Errorf("%w: flags %q", ErrMalformed, raw)
		}
		i.Flags = Flag(n)
	}
	for k, vs := range q {
		key, ok := strings.CutPrefix(k, extraPrefix)
		if !ok || len(vs) == 0 {
			continue
		}
		if i.Extras == nil {
			i.Extras = make(map[string]string)
		}
		i.Extras[key] = vs[0]
	}
	return i, nil
}
