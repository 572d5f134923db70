// Package validator checks and normalizes values that reach the archive from
// outside: SMTP envelope paths, relay domain lists, route parameters and
// header-derived attachment names.
package validator

import (
	"errors"
	"mime"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
	"golang.org/x/net/idna"
)

// Validation errors
var (
	ErrEmptyInput     = errors.New("input cannot be empty")
	ErrInputTooLong   = errors.New("input exceeds maximum length")
	ErrInvalidAddress = errors.New("invalid mailbox address")
	ErrInvalidDomain  = errors.New("invalid domain name")
	ErrInvalidVendor  = errors.New("invalid vendor name")
)

// Length limits
const (
	MaxAddressLength  = 254 // RFC 5321 path
	MaxDomainLength   = 253
	MaxVendorLength   = 64
	MaxFilenameLength = 255
)

// Pagination bounds for message listings
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// DefaultFilename names an attachment that carries no usable name
const DefaultFilename = "attachment"

var (
	// lower-case LDH labels, max 63 chars each
	domainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)*$`)
	vendorRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

	wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}
)

// EnvelopeAddress validates a MAIL FROM / RCPT TO path, with or without
// angle brackets, and returns its lower-cased local part and domain. The
// domain is normalized like Domain, so it can be compared with an allow list.
func EnvelopeAddress(path string) (local, domain string, err error) {
	addr := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(path), "<>")))
	if addr == "" {
		return "", "", ErrEmptyInput
	}
	if utf8.RuneCountInString(addr) > MaxAddressLength {
		return "", "", ErrInputTooLong
	}

	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return "", "", ErrInvalidAddress
	}
	if parsed.Name != "" {
		return "", "", ErrInvalidAddress
	}

	at := strings.LastIndex(parsed.Address, "@")
	if at <= 0 || at == len(parsed.Address)-1 {
		return "", "", ErrInvalidAddress
	}
	domain, err = Domain(parsed.Address[at+1:])
	if err != nil {
		return "", "", err
	}
	return parsed.Address[:at], domain, nil
}

// Domain returns the ASCII (punycode) lower-case form of a DNS name, so
// "Bücher.Example" and "xn--bcher-kva.example" compare equal.
func Domain(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return "", ErrEmptyInput
	}

	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", ErrInvalidDomain
	}
	ascii = strings.ToLower(ascii)
	if len(ascii) > MaxDomainLength {
		return "", ErrInputTooLong
	}
	if !domainRegex.MatchString(ascii) {
		return "", ErrInvalidDomain
	}
	return ascii, nil
}

// VendorName validates the vendor segment of a route. Names are short
// identifiers such as "thunderbird" or "smtp".
func VendorName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyInput
	}
	if len(name) > MaxVendorLength {
		return "", ErrInputTooLong
	}
	if !vendorRegex.MatchString(name) {
		return "", ErrInvalidVendor
	}
	return name, nil
}

// Page clamps listing bounds: a non-positive limit becomes DefaultLimit,
// limits above MaxLimit are capped and negative offsets become 0.
func Page(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Filename turns a header-derived attachment name into one that is safe to
// send in Content-Disposition and to save. Encoded words that survived
// header decoding are decoded here; directory parts, control and format
// characters (including bidi overrides used to disguise extensions) are
// dropped. An empty result yields DefaultFilename.
func Filename(name string) string {
	if strings.Contains(name, "=?") {
		if decoded, err := wordDecoder.DecodeHeader(name); err == nil {
			name = decoded
		}
	}
	name = strings.ToValidUTF8(name, "")

	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), ".")

	if utf8.RuneCountInString(name) > MaxFilenameLength {
		name = truncateKeepingExt(name)
	}
	if name == "" {
		return DefaultFilename
	}
	return name
}

// truncateKeepingExt cuts name to MaxFilenameLength runes, keeping a short
// extension intact
func truncateKeepingExt(name string) string {
	runes := []rune(name)
	ext := []rune{}
	if i := strings.LastIndex(name, "."); i > 0 {
		if e := []rune(name[i:]); len(e) <= 16 {
			ext = e
			runes = runes[:len(runes)-len(e)]
		}
	}
	keep := MaxFilenameLength - len(ext)
	if len(runes) > keep {
		runes = runes[:keep]
	}
	return string(runes) + string(ext)
}
