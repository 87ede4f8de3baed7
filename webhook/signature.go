package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SignatureHeader is the default header carrying the delivery signature. It
// is a convention of this package, not a documented Walver header.
const SignatureHeader = "X-Walver-Signature"

var ErrInvalidSignature = errors.New("invalid webhook signature")

// SignatureVerifier checks that a delivery was signed with the verification's
// secret.
type SignatureVerifier interface {
	Verify(header http.Header, body []byte) error
}

// HMACVerifier expects the hex encoded HMAC-SHA256 of the raw body, optionally
// prefixed with "sha256=".
type HMACVerifier struct {
	secret []byte
	header string
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), header: SignatureHeader}
}

// WithHeader reads the signature from name instead of SignatureHeader.
func (v *HMACVerifier) WithHeader(name string) *HMACVerifier {
	v.header = name
	return v
}

func (v *HMACVerifier) Verify(header http.Header, body []byte) error {
	signature := strings.TrimPrefix(header.Get(v.header), "sha256=")
	if signature == "" {
		return fmt.Errorf("%w: missing %s header", ErrInvalidSignature, v.header)
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex encoded", ErrInvalidSignature)
	}

	if !hmac.Equal(got, computeHMAC(v.secret, body)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}
	return nil
}

// SignHMAC returns the value a sender puts in SignatureHeader.
func SignHMAC(secret string, body []byte) string {
	return hex.EncodeToString(computeHMAC([]byte(secret), body))
}

func computeHMAC(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}

// deliveryClaims are the claims of a JWT signed delivery.
type deliveryClaims struct {
	BodySHA256 string `json:"body_sha256"`
	jwt.RegisteredClaims
}

// JWTVerifier expects an HS256 JWT (optionally as "Bearer <token>") whose
// body_sha256 claim is the hex SHA-256 of the raw body.
type JWTVerifier struct {
	secret []byte
	header string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), header: SignatureHeader}
}

// WithHeader reads the token from name instead of SignatureHeader.
func (v *JWTVerifier) WithHeader(name string) *JWTVerifier {
	v.header = name
	return v
}

func (v *JWTVerifier) Verify(header http.Header, body []byte) error {
	tokenString := strings.TrimSpace(strings.TrimPrefix(header.Get(v.header), "Bearer "))
	if tokenString == "" {
		return fmt.Errorf("%w: missing %s header", ErrInvalidSignature, v.header)
	}

	claims := &deliveryClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !token.Valid {
		return fmt.Errorf("%w: token is not valid", ErrInvalidSignature)
	}

	sum := sha256.Sum256(body)
	expected := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(claims.BodySHA256), []byte(expected)) != 1 {
		return fmt.Errorf("%w: body hash mismatch", ErrInvalidSignature)
	}
	return nil
}

func (v *JWTVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Header["alg"])
	}
	return v.secret, nil
}

// SignJWT returns a token a sender puts in SignatureHeader. The token expires
// after ttl.
func SignJWT(secret string, body []byte, ttl time.Duration) (string, error) {
	sum := sha256.Sum256(body)
	now := time.Now()

	claims := deliveryClaims{
		BodySHA256: hex.EncodeToString(sum[:]),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "walver",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewSignatureVerifier returns the verifier for a scheme name: "hmac-sha256"
// (the default when empty) or "jwt". An empty header means SignatureHeader.
func NewSignatureVerifier(scheme, secret, header string) (SignatureVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is required")
	}
	if header == "" {
		header = SignatureHeader
	}
	switch strings.ToLower(scheme) {
	case "", "hmac", "hmac-sha256":
		return NewHMACVerifier(secret).WithHeader(header), nil
	case "jwt":
		return NewJWTVerifier(secret).WithHeader(header), nil
	default:
		return nil, fmt.Errorf("%v is not a valid signature scheme", scheme)
	}
}
