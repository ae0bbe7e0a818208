// Package features reads the compiled client feature table
// (features.xml.compiled) and answers whether a named feature is enabled
// under one of the settings it defines.
//
// Layout (all integers LE):
//
//	u16 settingCount
//	  { u16 len, name^0x80 } { u16 len, locale^0x80 } u8 generation u8 season u8 flags
//	u16 featureCount
//	  u32 nameHash { u16 len, default^0x80 } { u16 len, enable^0x80 } { u16 len, disable^0x80 }
//
// flags: subseason in bits 2..7, test in bit 0, development in bit 1.
package features

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/udisondev/rewpa/internal/packet"
)

// MaxStringLength is the upper bound of any obfuscated string in the table.
const MaxStringLength = 0x100

// xorKey obfuscates every string byte in the table.
const xorKey = 0x80

var (
	// ErrUnsupportedSetting is returned when the requested setting is absent.
	ErrUnsupportedSetting = errors.New("unknown feature setting")
	// ErrInvalidLength is returned for string length prefixes outside the allowed range.
	ErrInvalidLength = errors.New("invalid string length")
	// ErrMalformedExpression is returned when a G<n>S<n> expression cannot be parsed.
	ErrMalformedExpression = errors.New("malformed feature expression")
)

var (
	gsPattern      = regexp.MustCompile(`G(?P<g>[0-9]+)S(?P<s>[0-9]+)`)
	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Setting is one row of the settings table, e.g. "Regular, USA".
type Setting struct {
	Name        string
	Locale      string
	Generation  byte
	Season      byte
	Subseason   byte
	Test        bool
	Development bool
}

// GS returns the ordering key generation*100 + season.
func (s Setting) GS() int {
	return int(s.Generation)*100 + int(s.Season)
}

// Feature is one row of the features table. Only the hash of the
// feature name is stored, lookups by name go through StringHash.
type Feature struct {
	Hash    uint32
	Default string
	Enable  string
	Disable string
}

// File is a decoded feature table bound to its active setting.
// Immutable after Load; safe for concurrent use.
type File struct {
	setting  Setting
	settings []Setting
	features map[uint32]Feature
	count    int

	// locale-scoped override matcher, compiled once for the active setting
	localeExpr *regexp.Regexp
}

// StringHash is the rolling hash the client uses for feature names:
// seed 5381, multiplier 33, over UTF-16 code units, 32-bit wraparound.
func StringHash(s string) uint32 {
	h := uint32(5381)
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*33 + uint32(u)
	}
	return h
}

// Read reads the whole table from r and calls Load.
func Read(r io.Reader, settingName string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading features: %w", err)
	}
	return Load(data, settingName)
}

// Load decodes a compiled feature table and selects the setting named
// settingName as the active one.
func Load(data []byte, settingName string) (*File, error) {
	r := packet.NewReader(data)

	settingCount, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading setting count: %w", err)
	}

	f := &File{
		settings: make([]Setting, 0, settingCount),
	}

	for i := range int(settingCount) {
		s, err := readSetting(r)
		if err != nil {
			return nil, fmt.Errorf("reading setting %d: %w", i, err)
		}
		f.settings = append(f.settings, s)
	}

	found := false
	for _, s := range f.settings {
		if s.Name == settingName {
			f.setting = s
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSetting, settingName)
	}

	featureCount, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading feature count: %w", err)
	}

	f.features = make(map[uint32]Feature, featureCount)
	for i := range int(featureCount) {
		ft, err := readFeature(r)
		if err != nil {
			return nil, fmt.Errorf("reading feature %d: %w", i, err)
		}
		// first row wins on hash collisions
		if _, dup := f.features[ft.Hash]; !dup {
			f.features[ft.Hash] = ft
		}
		f.count++
	}

	f.localeExpr = regexp.MustCompile(`(G[^,@]*)@` + regexp.QuoteMeta(f.setting.Locale) + `(?:[,\s]|$)`)

	return f, nil
}

func readSetting(r *packet.Reader) (Setting, error) {
	var s Setting
	var err error

	if s.Name, err = readString(r, false); err != nil {
		return s, fmt.Errorf("name: %w", err)
	}
	if s.Locale, err = readString(r, false); err != nil {
		return s, fmt.Errorf("locale: %w", err)
	}

	raw, err := r.ReadBytes(3)
	if err != nil {
		return s, fmt.Errorf("version: %w", err)
	}
	s.Generation = raw[0]
	s.Season = raw[1]
	s.Subseason = raw[2] >> 2
	s.Test = raw[2]&1 != 0
	s.Development = raw[2]&2 != 0

	return s, nil
}

func readFeature(r *packet.Reader) (Feature, error) {
	var ft Feature
	var err error

	if ft.Hash, err = r.ReadUint32(); err != nil {
		return ft, fmt.Errorf("hash: %w", err)
	}
	if ft.Default, err = readString(r, true); err != nil {
		return ft, fmt.Errorf("default: %w", err)
	}
	if ft.Enable, err = readString(r, true); err != nil {
		return ft, fmt.Errorf("enable: %w", err)
	}
	if ft.Disable, err = readString(r, true); err != nil {
		return ft, fmt.Errorf("disable: %w", err)
	}
	return ft, nil
}

// readString reads a u16 length prefix and that many obfuscated bytes.
// Settings strings must be non-empty, feature expressions may be empty.
func readString(r *packet.Reader, allowEmpty bool) (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	if n > MaxStringLength || (n == 0 && !allowEmpty) {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if n == 0 {
		return "", nil
	}

	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(Deobfuscate(raw)), nil
}

// Deobfuscate returns a copy of b with every byte XORed with 0x80.
// The operation is its own inverse.
func Deobfuscate(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[i] = b[i] ^ xorKey
	}
	return out
}

// Setting returns the active setting.
func (f *File) Setting() Setting {
	return f.setting
}

// Settings returns all settings defined in the table, in file order.
func (f *File) Settings() []Setting {
	out := make([]Setting, len(f.settings))
	copy(out, f.settings)
	return out
}

// FeatureCount returns the number of feature rows read from the table.
func (f *File) FeatureCount() int {
	return f.count
}

// Lookup returns the feature row for name, if any.
func (f *File) Lookup(name string) (Feature, bool) {
	ft, ok := f.features[StringHash(name)]
	return ft, ok
}

// IsEnabled reports whether featureName is enabled under the active setting.
//
//   - blank name: always enabled
//   - leading '-': result is negated
//   - all digits: active GS >= value
//   - otherwise: hashed lookup, unknown features are disabled
func (f *File) IsEnabled(featureName string) (bool, error) {
	if strings.TrimSpace(featureName) == "" {
		return true, nil
	}

	negate := strings.HasPrefix(featureName, "-")
	featureName = strings.Trim(featureName, "-")

	var result bool
	if numericPattern.MatchString(featureName) {
		threshold, err := strconv.Atoi(featureName)
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrMalformedExpression, featureName)
		}
		result = f.setting.GS() >= threshold
	} else if ft, ok := f.features[StringHash(featureName)]; ok {
		enabled, err := f.resolve(ft)
		if err != nil {
			return false, fmt.Errorf("feature %q: %w", featureName, err)
		}
		result = enabled
	}

	if negate {
		return !result, nil
	}
	return result, nil
}

// resolve applies default, then enable, then disable; the last matching
// rule wins, so disable takes precedence over enable.
func (f *File) resolve(ft Feature) (bool, error) {
	gs := f.setting.GS()
	enabled := false

	if strings.TrimSpace(ft.Default) != "" {
		threshold, err := ParseGS(ft.Default)
		if err != nil {
			return false, fmt.Errorf("default: %w", err)
		}
		enabled = gs >= threshold
	}

	if strings.TrimSpace(ft.Enable) != "" {
		if m := f.localeExpr.FindStringSubmatch(ft.Enable); m != nil {
			threshold, err := ParseGS(m[1])
			if err != nil {
				return false, fmt.Errorf("enable: %w", err)
			}
			enabled = gs >= threshold
		}
	}

	if strings.TrimSpace(ft.Disable) != "" {
		if m := f.localeExpr.FindStringSubmatch(ft.Disable); m != nil {
			threshold, err := ParseGS(m[1])
			if err != nil {
				return false, fmt.Errorf("disable: %w", err)
			}
			enabled = gs < threshold
		}
	}

	return enabled, nil
}

// ParseGS extracts generation*100 + season from an expression such as
// "G4S0" or "G12S1@usa".
func ParseGS(expr string) (int, error) {
	m := gsPattern.FindStringSubmatch(expr)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedExpression, expr)
	}

	g, err := strconv.Atoi(m[gsPattern.SubexpIndex("g")])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedExpression, expr)
	}
	s, err := strconv.Atoi(m[gsPattern.SubexpIndex("s")])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedExpression, expr)
	}

	return g*100 + s, nil
}
