package jsonschema

import (
	"errors"
	"maps"
	"net/netip"
	"net/url"
	"regexp"
	"regexp/syntax"
	"strconv"
	"strings"
	"time"

	"github.com/yosida95/uritemplate/v3"
	"golang.org/x/net/idna"
)

// draftNames lists the name a format goes by in each draft. An empty name
// means the draft does not define the format.
type draftNames struct {
	draft3, draft4, draft6, draft7 string
}

func allDrafts(name string) draftNames {
	return draftNames{name, name, name, name}
}

var draftFormats = map[string]map[string]formatEntry{
	"draft3": {},
	"draft4": {},
	"draft6": {},
	"draft7": {},
}

// checksDrafts registers fn in the per-draft tables and, under its newest
// name, in the process-wide table.
func checksDrafts(names draftNames, fn FormatFunc, raises ...ErrorMatcher) {
	entry := formatEntry{fn: fn, raises: raises}
	for draft, name := range map[string]string{
		"draft3": names.draft3, "draft4": names.draft4,
		"draft6": names.draft6, "draft7": names.draft7,
	} {
		if name != "" {
			draftFormats[draft][name] = entry
		}
	}
	for _, name := range []string{names.draft7, names.draft6, names.draft4, names.draft3} {
		if name != "" {
			RegisterFormat(name, fn, raises...)
			break
		}
	}
}

func draftFormatChecker(draft string) *FormatChecker {
	return &FormatChecker{checkers: maps.Clone(draftFormats[draft])}
}

// Draft3FormatChecker checks the formats defined by draft 3.
func Draft3FormatChecker() *FormatChecker { return draftFormatChecker("draft3") }

// Draft4FormatChecker checks the formats defined by draft 4.
func Draft4FormatChecker() *FormatChecker { return draftFormatChecker("draft4") }

// Draft6FormatChecker checks the formats defined by draft 6.
func Draft6FormatChecker() *FormatChecker { return draftFormatChecker("draft6") }

// Draft7FormatChecker checks the formats defined by draft 7.
func Draft7FormatChecker() *FormatChecker { return draftFormatChecker("draft7") }

// stringFormat adapts a predicate over strings; other instances conform.
func stringFormat(fn func(string) (bool, error)) FormatFunc {
	return func(instance any) (bool, error) {
		s, ok := instance.(string)
		if !ok {
			return true, nil
		}
		return fn(s)
	}
}

var (
	ipv4Re     = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	hostNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\.\-]{1,255}$`)
	hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	errInvalidPointer = errors.New("invalid JSON pointer")
	errInvalidColor   = errors.New("invalid CSS color")
)

var css21Colors = map[string]bool{
	"aqua": true, "black": true, "blue": true, "fuchsia": true, "gray": true,
	"green": true, "lime": true, "maroon": true, "navy": true, "olive": true,
	"orange": true, "purple": true, "red": true, "silver": true, "teal": true,
	"white": true, "yellow": true,
}

func init() {
	isEmail := stringFormat(func(s string) (bool, error) {
		return strings.Contains(s, "@"), nil
	})
	checksDrafts(allDrafts("email"), isEmail)
	checksDrafts(allDrafts("idn-email"), isEmail)

	checksDrafts(draftNames{"ip-address", "ipv4", "ipv4", "ipv4"}, stringFormat(func(s string) (bool, error) {
		if !ipv4Re.MatchString(s) {
			return false, nil
		}
		for _, part := range strings.Split(s, ".") {
			if n, _ := strconv.Atoi(part); n > 255 {
				return false, nil
			}
		}
		return true, nil
	}))

	checksDrafts(allDrafts("ipv6"), stringFormat(func(s string) (bool, error) {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return false, err
		}
		return addr.Is6() && addr.Zone() == "", nil
	}), AnyError)

	checksDrafts(draftNames{"host-name", "hostname", "hostname", "hostname"}, stringFormat(func(s string) (bool, error) {
		if !hostNameRe.MatchString(s) {
			return false, nil
		}
		for _, label := range strings.Split(s, ".") {
			if len(label) > 63 {
				return false, nil
			}
		}
		return true, nil
	}))

	checksDrafts(draftNames{draft7: "idn-hostname"}, stringFormat(func(s string) (bool, error) {
		_, err := idna.Lookup.ToASCII(s)
		return err == nil, err
	}), AnyError)

	checksDrafts(allDrafts("uri"), stringFormat(func(s string) (bool, error) {
		u, err := url.Parse(s)
		if err != nil {
			return false, err
		}
		return u.IsAbs(), nil
	}), As[*url.Error]())

	isReference := stringFormat(func(s string) (bool, error) {
		_, err := url.Parse(s)
		return err == nil, err
	})
	checksDrafts(draftNames{draft6: "uri-reference", draft7: "uri-reference"}, isReference, As[*url.Error]())
	checksDrafts(draftNames{draft7: "iri-reference"}, isReference, As[*url.Error]())
	checksDrafts(draftNames{draft7: "iri"}, stringFormat(func(s string) (bool, error) {
		u, err := url.Parse(s)
		if err != nil {
			return false, err
		}
		return u.IsAbs(), nil
	}), As[*url.Error]())

	isDateTime := func(s string) (bool, error) {
		_, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s))
		return err == nil, nil
	}
	checksDrafts(allDrafts("date-time"), stringFormat(isDateTime))
	checksDrafts(draftNames{draft7: "time"}, stringFormat(func(s string) (bool, error) {
		return isDateTime("1970-01-01T" + s)
	}))

	checksDrafts(allDrafts("regex"), stringFormat(func(s string) (bool, error) {
		_, err := regexp.Compile(s)
		return err == nil, err
	}), As[*syntax.Error]())

	checksDrafts(draftNames{draft3: "date", draft7: "date"}, stringFormat(func(s string) (bool, error) {
		_, err := time.Parse(time.DateOnly, s)
		return err == nil, err
	}), As[*time.ParseError]())

	checksDrafts(draftNames{draft3: "time"}, stringFormat(func(s string) (bool, error) {
		_, err := time.Parse(time.TimeOnly, s)
		return err == nil, err
	}), As[*time.ParseError]())

	checksDrafts(draftNames{draft3: "color"}, stringFormat(func(s string) (bool, error) {
		if css21Colors[strings.ToLower(s)] || hexColorRe.MatchString(s) {
			return true, nil
		}
		return false, errInvalidColor
	}), Is(errInvalidColor))

	checksDrafts(draftNames{draft6: "json-pointer", draft7: "json-pointer"}, stringFormat(func(s string) (bool, error) {
		err := checkPointer(s)
		return err == nil, err
	}), Is(errInvalidPointer))

	checksDrafts(draftNames{draft7: "relative-json-pointer"}, stringFormat(func(s string) (bool, error) {
		digits := 0
		for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
			digits++
		}
		if digits == 0 {
			return false, nil
		}
		rest := s[digits:]
		if rest == "#" {
			return true, nil
		}
		err := checkPointer(rest)
		return err == nil, err
	}), Is(errInvalidPointer))

	checksDrafts(draftNames{draft6: "uri-template", draft7: "uri-template"}, stringFormat(func(s string) (bool, error) {
		_, err := uritemplate.New(s)
		return err == nil, err
	}), AnyError)
}

// checkPointer validates RFC 6901 syntax: empty, or "/"-prefixed reference
// tokens in which "~" is always followed by "0" or "1".
func checkPointer(s string) error {
	if s == "" {
		return nil
	}
	if s[0] != '/' {
		return errInvalidPointer
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			continue
		}
		if i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1') {
			return errInvalidPointer
		}
	}
	return nil
}
