package crypto_util

import (
	"bytes"
	"testing"
)

func TestAESGCM(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef") // 32 字节用于 AES-256
	plaintext := []byte("这是一条用于 AES-GCM 测试的秘密消息")

	ciphertext, err := EncryptAESGCM(key, plaintext, nil)
	if err != nil {
		t.Fatalf("EncryptAESGCM 失败: %v", err)
	}
	if len(ciphertext) != GCMNonceSize+len(plaintext)+GCMTagSize {
		t.Errorf("密文长度 = %d, 期望 %d", len(ciphertext), GCMNonceSize+len(plaintext)+GCMTagSize)
	}

	decrypted, err := DecryptAESGCM(key, ciphertext, nil)
	if err != nil {
		t.Fatalf("DecryptAESGCM 失败: %v", err)
	}

	if !bytes.Equal(plaintext, decrypted) {
		t.Errorf("解密后的消息与明文不匹配。\n得到: %s\n期望: %s", decrypted, plaintext)
	}
}

func TestAESGCM_AdditionalData(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	ciphertext, err := EncryptAESGCM(key, []byte("secret"), []byte("salt-a"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecryptAESGCM(key, ciphertext, []byte("salt-b")); err != ErrAuthFailed {
		t.Errorf("附加数据不一致时期望 ErrAuthFailed, 得到 %v", err)
	}
}

func TestAESGCM_Tampered(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	ciphertext, err := EncryptAESGCM(key, []byte("hello"), nil)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff

	if _, err := DecryptAESGCM(key, ciphertext, nil); err != ErrAuthFailed {
		t.Errorf("篡改后的密文期望 ErrAuthFailed, 得到 %v", err)
	}
}

func TestAESGCM_TooShort(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	if _, err := DecryptAESGCM(key, []byte{1, 2, 3}, nil); err != ErrCiphertextTooShort {
		t.Errorf("期望 ErrCiphertextTooShort, 得到 %v", err)
	}
}

func TestAESGCM_InvalidKey(t *testing.T) {
	key := []byte("shortkey")
	_, err := EncryptAESGCM(key, []byte("test"), nil)
	if err == nil {
		t.Error("期望因密钥长度无效而报错，但未收到错误")
	}
}
