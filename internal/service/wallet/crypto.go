package wallet

import (
	"fmt"

	"mth-wallet/internal/model"
	"mth-wallet/pkg/keys"
	"mth-wallet/pkg/keystore"
	"mth-wallet/pkg/monitor"
	"mth-wallet/pkg/safe_random"
)

// sealAccount 用新的盐加密私钥并生成账户
func (m *Manager) sealAccount(kp *keys.KeyPair, enc model.EncryptionParams, index *uint32) (*model.Account, error) {
	if m.password == "" {
		return nil, keystore.ErrPasswordRequired
	}
	cipher, err := keystore.ForParams(enc.Cipher, enc.Iterations)
	if err != nil {
		return nil, err
	}
	salt, err := safe_random.NewSalt()
	if err != nil {
		return nil, err
	}
	ciphertext, err := cipher.Encrypt(kp.PrivateKey[:], m.password, salt)
	if err != nil {
		return nil, err
	}
	return model.NewAccount(kp.PublicKey[:], ciphertext, salt, index)
}

// openAccount 解密私钥并确认它与账户公钥一致。调用方负责 Zero。
// 异或加密对任何密码都能"解密"，公钥比对是唯一的密码校验。
func (m *Manager) openAccount(a *model.Account, enc model.EncryptionParams) (*keys.KeyPair, error) {
	if m.password == "" {
		return nil, keystore.ErrPasswordRequired
	}
	cipher, err := keystore.ForParams(enc.Cipher, enc.Iterations)
	if err != nil {
		return nil, err
	}
	plain, err := cipher.Decrypt(a.PrivateKeyEncrypted, m.password, a.Salt)
	if err != nil {
		monitor.Business.DecryptFailsTotal.Inc()
		return nil, err
	}
	defer clear(plain)

	kp, err := keys.FromPrivateKey(plain)
	if err != nil || !kp.MatchesPublicKey(a.PublicKey) {
		kp.Zero()
		monitor.Business.DecryptFailsTotal.Inc()
		return nil, fmt.Errorf("account %s: %w", a.Address, keystore.ErrDecrypt)
	}
	return kp, nil
}

// upgradeEncryption 把旧的异或加密账户重新用 AES-GCM 加密，每个账户换新盐。
// 在任何写回之前对副本调用，旧格式文件因此只会被读取，不会以旧格式写出。
func (m *Manager) upgradeEncryption(c *model.Collection) error {
	if c.Encryption.Cipher == keystore.CipherAESGCM && c.Version == model.Version {
		return nil
	}
	target := model.EncryptionParams{Cipher: keystore.CipherAESGCM, KDF: keystore.KDFPBKDF2, Iterations: m.iterations}
	for _, a := range c.All() {
		kp, err := m.openAccount(a, c.Encryption)
		if err != nil {
			return err
		}
		sealed, err := m.sealAccount(kp, target, a.DerivationIndex)
		kp.Zero()
		if err != nil {
			return err
		}
		a.PrivateKeyEncrypted = sealed.PrivateKeyEncrypted
		a.Salt = sealed.Salt
	}
	c.Encryption = target
	c.Version = model.Version
	return nil
}
