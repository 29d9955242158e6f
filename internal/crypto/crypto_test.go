package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *Encryptor {
	key, err := GenerateKey()
	require.NoError(t, err)

	enc, err := NewEncryptorFromBase64(key)
	require.NoError(t, err)
	return enc
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	enc := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("my-secret-token")
	require.NoError(t, err)
	assert.NotEqual(t, "my-secret-token", ciphertext)

	plaintext, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "my-secret-token", plaintext)
}

func TestEncrypt_EmptyPassthrough(t *testing.T) {
	enc := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", ciphertext)

	plaintext, err := enc.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	enc := newTestEncryptor(t)

	first, err := enc.Encrypt("same input")
	require.NoError(t, err)
	second, err := enc.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh nonce per encryption")
}

func TestNewEncryptor_RejectsWrongKeySize(t *testing.T) {
	_, err := NewEncryptor([]byte("too short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = NewEncryptor(make([]byte, 64))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestNewEncryptorFromBase64_RejectsGarbage(t *testing.T) {
	_, err := NewEncryptorFromBase64("not base64 at all!!!")
	assert.Error(t, err)
}

func TestDecrypt_WrongKey(t *testing.T) {
	first := newTestEncryptor(t)
	second := newTestEncryptor(t)

	ciphertext, err := first.Encrypt("secret")
	require.NoError(t, err)

	_, err = second.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	enc := newTestEncryptor(t)

	ciphertext, err := enc.Encrypt("secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = enc.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_TooShort(t *testing.T) {
	enc := newTestEncryptor(t)

	short := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	_, err := enc.Decrypt(short)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestGenerateKey_Is32Bytes(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, KeySize)
}
