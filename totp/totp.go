// Package totp generates RFC 6238 time-based one-time passwords for record
// fields that carry an otpauth:// provisioning URL.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPeriod = 30
	DefaultDigits = 6
)

// Code is one generated password together with its validity window.
type Code struct {
	// Token is the zero-padded numeric code.
	Token string
	// TimeLeft is the number of seconds before the code rotates.
	TimeLeft int
	// Period is the rotation interval in seconds.
	Period int
}

// URL is a parsed otpauth:// provisioning URL.
type URL struct {
	Secret    string
	Issuer    string
	Account   string
	Algorithm string
	Digits    int
	Period    int
}

// ParseURL parses an otpauth://totp/... provisioning URL. Missing optional
// parameters fall back to the RFC defaults (SHA1, 6 digits, 30 seconds).
func ParseURL(raw string) (*URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse otpauth url: %w", err)
	}
	if u.Scheme != "otpauth" {
		return nil, fmt.Errorf("not an otpauth url: scheme %q", u.Scheme)
	}
	if u.Host != "totp" {
		return nil, fmt.Errorf("unsupported otpauth type %q", u.Host)
	}

	q := u.Query()
	out := &URL{
		Secret:    strings.TrimSpace(q.Get("secret")),
		Issuer:    q.Get("issuer"),
		Algorithm: strings.ToUpper(q.Get("algorithm")),
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
	}
	if out.Secret == "" {
		return nil, fmt.Errorf("otpauth url has no secret")
	}
	if out.Algorithm == "" {
		out.Algorithm = "SHA1"
	}

	if label := strings.TrimPrefix(u.Path, "/"); label != "" {
		if issuer, account, ok := strings.Cut(label, ":"); ok {
			if out.Issuer == "" {
				out.Issuer = issuer
			}
			out.Account = account
		} else {
			out.Account = label
		}
	}

	if d := q.Get("digits"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 6 || n > 8 {
			return nil, fmt.Errorf("invalid digits %q", d)
		}
		out.Digits = n
	}
	if p := q.Get("period"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid period %q", p)
		}
		out.Period = n
	}

	return out, nil
}

// Generate returns the current code for an otpauth URL.
func Generate(rawURL string) (*Code, error) {
	return GenerateAt(rawURL, time.Now().Unix())
}

// GenerateAt returns the code for an otpauth URL at the given unix time.
func GenerateAt(rawURL string, unixTime int64) (*Code, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return generate(u.Secret, u.Algorithm, u.Digits, u.Period, unixTime)
}

// GenerateCode computes a code directly from a base32 secret with explicit
// parameters.
func GenerateCode(secret, algorithm string, digits, period int, unixTime int64) (*Code, error) {
	return generate(secret, algorithm, digits, period, unixTime)
}

func generate(secret, algorithm string, digits, period int, unixTime int64) (*Code, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("decode totp secret: %w", err)
	}
	defer zero(key)

	var newHash func() hash.Hash
	switch algorithm {
	case "", "SHA1":
		newHash = sha1.New
	case "SHA256":
		newHash = sha256.New
	case "SHA512":
		newHash = sha512.New
	default:
		return nil, fmt.Errorf("unsupported totp algorithm %q", algorithm)
	}

	if digits <= 0 {
		digits = DefaultDigits
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	counter := uint64(unixTime / int64(period))
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(newHash, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0F
	trunc := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF

	mod := uint32(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return &Code{
		Token:    fmt.Sprintf("%0*d", digits, trunc%mod),
		TimeLeft: period - int(unixTime%int64(period)),
		Period:   period,
	}, nil
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	return base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(secret, "="))
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
