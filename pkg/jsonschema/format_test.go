package jsonschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatChecker_UnknownFormatConforms(t *testing.T) {
	fc := NewFormatChecker()
	require.NoError(t, fc.Check("whatever", "no-such-format"))
}

func TestFormatChecker_DeclaredAndUndeclaredErrors(t *testing.T) {
	errBad := errors.New("bad")
	errBroken := errors.New("broken")
	fc := &FormatChecker{}
	fc.Checks("strict", func(v any) (bool, error) {
		switch v {
		case "bad":
			return false, errBad
		case "broken":
			return false, errBroken
		case "false":
			return false, nil
		}
		return true, nil
	}, Is(errBad))

	require.NoError(t, fc.Check("ok", "strict"))

	err := fc.Check("bad", "strict")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, `"bad" is not a "strict"`, fe.Message)
	assert.ErrorIs(t, err, errBad)

	err = fc.Check("false", "strict")
	require.ErrorAs(t, err, &fe)
	assert.NoError(t, fe.Cause)

	err = fc.Check("broken", "strict")
	require.Error(t, err)
	assert.False(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, errBroken)

	ok, err := fc.Conforms("bad", "strict")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = fc.Conforms("broken", "strict")
	assert.ErrorIs(t, err, errBroken)
}

func TestFormatChecker_UndeclaredErrorAbortsValidation(t *testing.T) {
	boom := errors.New("boom")
	fc := NewFormatChecker().Checks("explode", func(any) (bool, error) { return false, boom })

	_, err := Draft7().New(map[string]any{"format": "explode"}, WithFormatChecker(fc)).IsValid("x")
	assert.ErrorIs(t, err, boom)
}

func TestNewFormatChecker_Snapshot(t *testing.T) {
	before := NewFormatChecker()
	RegisterFormat("test-snapshot", func(any) (bool, error) { return false, nil })
	after := NewFormatChecker()

	assert.NotContains(t, before.Formats(), "test-snapshot")
	assert.Contains(t, after.Formats(), "test-snapshot")

	only := NewFormatChecker("test-snapshot", "email", "not-registered")
	assert.Equal(t, []string{"email", "test-snapshot"}, only.Formats())

	local := NewFormatChecker("email").Checks("local-only", func(any) (bool, error) { return true, nil })
	assert.Contains(t, local.Formats(), "local-only")
	assert.NotContains(t, NewFormatChecker().Formats(), "local-only")
}

func TestDraftFormatCheckers_Names(t *testing.T) {
	assert.Contains(t, Draft3FormatChecker().Formats(), "ip-address")
	assert.Contains(t, Draft3FormatChecker().Formats(), "host-name")
	assert.Contains(t, Draft3FormatChecker().Formats(), "color")
	assert.NotContains(t, Draft3FormatChecker().Formats(), "ipv4")

	assert.Contains(t, Draft4FormatChecker().Formats(), "ipv4")
	assert.NotContains(t, Draft4FormatChecker().Formats(), "json-pointer")

	assert.Contains(t, Draft6FormatChecker().Formats(), "uri-template")
	assert.NotContains(t, Draft6FormatChecker().Formats(), "idn-hostname")

	for _, name := range []string{"idn-hostname", "relative-json-pointer", "iri", "date", "time"} {
		assert.Contains(t, Draft7FormatChecker().Formats(), name)
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		checker  *FormatChecker
		format   string
		instance any
		want     bool
	}{
		{Draft7FormatChecker(), "email", "a@b", true},
		{Draft7FormatChecker(), "email", "ab", false},
		{Draft7FormatChecker(), "email", 12, true},
		{Draft7FormatChecker(), "ipv4", "192.168.0.1", true},
		{Draft7FormatChecker(), "ipv4", "256.0.0.1", false},
		{Draft7FormatChecker(), "ipv4", "1.2.3", false},
		{Draft3FormatChecker(), "ip-address", "10.0.0.1", true},
		{Draft7FormatChecker(), "ipv6", "::1", true},
		{Draft7FormatChecker(), "ipv6", "1.2.3.4", false},
		{Draft7FormatChecker(), "ipv6", "12345::", false},
		{Draft7FormatChecker(), "hostname", "example.com", true},
		{Draft7FormatChecker(), "hostname", "-bad", false},
		{Draft7FormatChecker(), "idn-hostname", "bücher.example", true},
		{Draft7FormatChecker(), "uri", "http://example.com/x", true},
		{Draft7FormatChecker(), "uri", "relative/path", false},
		{Draft7FormatChecker(), "uri-reference", "relative/path", true},
		{Draft7FormatChecker(), "uri-reference", "http://[::1", false},
		{Draft7FormatChecker(), "date-time", "2020-01-02T03:04:05Z", true},
		{Draft7FormatChecker(), "date-time", "2020-01-02t03:04:05.5+01:00", true},
		{Draft7FormatChecker(), "date-time", "2020-01-02", false},
		{Draft7FormatChecker(), "date", "2020-02-29", true},
		{Draft7FormatChecker(), "date", "2020-02-30", false},
		{Draft7FormatChecker(), "time", "03:04:05Z", true},
		{Draft7FormatChecker(), "time", "03:04:05", false},
		{Draft3FormatChecker(), "time", "03:04:05", true},
		{Draft7FormatChecker(), "regex", "^a+$", true},
		{Draft7FormatChecker(), "regex", "(", false},
		{Draft3FormatChecker(), "color", "Red", true},
		{Draft3FormatChecker(), "color", "#abc", true},
		{Draft3FormatChecker(), "color", "#abcd", false},
		{Draft7FormatChecker(), "json-pointer", "/a~0b/c~1d", true},
		{Draft7FormatChecker(), "json-pointer", "", true},
		{Draft7FormatChecker(), "json-pointer", "a/b", false},
		{Draft7FormatChecker(), "json-pointer", "/a~2", false},
		{Draft7FormatChecker(), "relative-json-pointer", "0/a", true},
		{Draft7FormatChecker(), "relative-json-pointer", "2#", true},
		{Draft7FormatChecker(), "relative-json-pointer", "/a", false},
		{Draft7FormatChecker(), "uri-template", "http://example.com/{id}", true},
		{Draft7FormatChecker(), "uri-template", "http://example.com/{id", false},
	}
	for _, tt := range tests {
		t.Run(tt.format+" "+repr(tt.instance), func(t *testing.T) {
			ok, err := tt.checker.Conforms(tt.instance, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
