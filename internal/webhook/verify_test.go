package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func signPayload(t *testing.T, secret, msgID, timestamp string, payload []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(secret[len("whsec_"):])
	require.NoError(t, err)
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedHeaders(t *testing.T, msgID string, ts time.Time, payload []byte) http.Header {
	t.Helper()
	timestamp := strconv.FormatInt(ts.Unix(), 10)
	h := http.Header{}
	h.Set(HeaderID, msgID)
	h.Set(HeaderTimestamp, timestamp)
	h.Set(HeaderSignature, "v1,"+signPayload(t, testSecret, msgID, timestamp, payload))
	return h
}

func TestVerifier_ValidSignature(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{"type":"identity.created","data":{"id":"ext_1"}}`)
	h := signedHeaders(t, "msg_1", time.Now(), payload)

	assert.NoError(t, v.Verify(h, payload))
}

func TestVerifier_TamperedPayload(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{"type":"identity.created"}`)
	h := signedHeaders(t, "msg_1", time.Now(), payload)

	err = v.Verify(h, []byte(`{"type":"identity.deleted"}`))
	assert.ErrorIs(t, err, ErrNoMatchingSig)
}

func TestVerifier_MissingHeaders(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	err = v.Verify(http.Header{}, []byte(`{}`))
	assert.ErrorIs(t, err, ErrMissingHeaders)
}

func TestVerifier_StaleTimestamp(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{}`)
	h := signedHeaders(t, "msg_1", time.Now().Add(-time.Hour), payload)

	err = v.Verify(h, payload)
	assert.ErrorIs(t, err, ErrTimestampTooOld)
}

func TestVerifier_IgnoresUnknownSchemes(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{}`)
	h := signedHeaders(t, "msg_1", time.Now(), payload)
	// Prepend an unknown scheme entry; the v1 entry must still match
	h.Set(HeaderSignature, "v2,bogus "+h.Get(HeaderSignature))

	assert.NoError(t, v.Verify(h, payload))
}

func TestVerifier_RawSecret(t *testing.T) {
	v, err := NewVerifier("plain-secret")
	require.NoError(t, err)

	payload := []byte(`{}`)
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte("plain-secret"))
	fmt.Fprintf(mac, "msg_1.%s.", timestamp)
	mac.Write(payload)

	h := http.Header{}
	h.Set(HeaderID, "msg_1")
	h.Set(HeaderTimestamp, timestamp)
	h.Set(HeaderSignature, "v1,"+base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	assert.NoError(t, v.Verify(h, payload))
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.Error(t, err)
}
