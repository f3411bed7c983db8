// Package crypto implements password hashing and the request signing used
// between API clients and the server.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HashPassword hashes a given password using bcrypt.
func HashPassword(password string, cost int) (string, error) {
	result, err := bcrypt.GenerateFromPassword([]byte(password), cost)

	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(result), nil
}

func CompareHashAndPassword(hash, password string) (bool, error) {
	decoded, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false, err
	}

	err = bcrypt.CompareHashAndPassword(decoded, []byte(password))

	return err == nil, err
}

// ApplicationID derives the public identifier of an application from its
// secret auth token.
func ApplicationID(authToken string) string {
	sum := sha1.Sum([]byte(authToken))
	return hex.EncodeToString(sum[:])
}

// SecurityToken signs a request body at the given unix timestamp.
func SecurityToken(authToken string, timestamp int64, body []byte) string {
	h := hmac.New(sha1.New, []byte(authToken))
	h.Write([]byte(strconv.FormatInt(timestamp, 10)))
	h.Write([]byte(":"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// ValidSecurityToken checks token against the expected signature in constant time.
func ValidSecurityToken(authToken string, timestamp int64, body []byte, token string) bool {
	expected := SecurityToken(authToken, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(token))
}

// RandomToken returns a random alphanumeric string of length n.
func RandomToken(n int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	token := make([]byte, n)
	for i := range token {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		token[i] = tokenAlphabet[idx.Int64()]
	}
	return string(token), nil
}
