package main

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

const alnumCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateKeys returns n distinct keys of the given kind.
func generateKeys(kind string, n int) ([]string, error) {
	gen, ok := generators[kind]
	if !ok {
		return nil, errors.Errorf("unknown key kind %q", kind)
	}

	keys := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for i := 0; len(keys) < n; i++ {
		k, err := gen(i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

var generators = map[string]func(i int) (string, error){
	"numeric": func(i int) (string, error) { return strconv.Itoa(i), nil },
	"uuid":    func(int) (string, error) { return generateUUID() },
	"alnum":   func(int) (string, error) { return generateAlphanumeric(24) },
}

// generateUUID returns a random version 4 UUID in canonical text form
func generateUUID() (string, error) {
	u := make([]byte, 16)
	if _, err := rand.Read(u); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	u[6] = (u[6] & 0x0F) | 0x40
	u[8] = (u[8] & 0x3F) | 0x80

	s := hex.EncodeToString(u)
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:], nil
}

// generateAlphanumeric creates a random alphanumeric string of given length
func generateAlphanumeric(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alnumCharset))))
		if err != nil {
			return "", errors.Wrap(err, "rand.Int")
		}
		result[i] = alnumCharset[n.Int64()]
	}
	return string(result), nil
}
