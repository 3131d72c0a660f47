package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mth-wallet/internal/model"
	"mth-wallet/internal/storage"
	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/keys"
	"mth-wallet/pkg/keystore"
	"mth-wallet/pkg/monitor"
	"mth-wallet/pkg/signer"
	"mth-wallet/pkg/utils/hexstr"

	"go.uber.org/zap"
)

// Store 钱包持久化
type Store interface {
	Save(name string, c *model.Collection) error
	Load(name string) (*model.Collection, error)
	List() ([]string, error)
	Exists(name string) (bool, error)
	Delete(name string) error
	Backup(name, dest string) error
	Restore(src, name string) (*model.Collection, error)
}

type Options struct {
	// Password 加解密私钥的口令。为空时只能执行不涉及私钥的命令。
	Password string
	// Scheme 新建钱包使用的派生方案，默认 bip44
	Scheme keys.Scheme
	// KDFIterations 新加密私钥时的 PBKDF2 迭代次数，默认 keystore.DefaultIterations
	KDFIterations int
	Logger        *zap.Logger
}

// Manager 持有当前加载的钱包。所有命令都在同一把锁下执行：
// 修改在副本上进行，保存成功后才替换内存中的快照。
type Manager struct {
	mu         sync.Mutex
	store      Store
	password   string
	scheme     keys.Scheme
	iterations int
	log        *zap.Logger

	name   string
	wallet *model.Collection
}

func NewManager(store Store, opts Options) (*Manager, error) {
	scheme, err := keys.ParseScheme(string(opts.Scheme))
	if err != nil {
		return nil, classify(err)
	}
	iterations := opts.KDFIterations
	if iterations <= 0 {
		iterations = keystore.DefaultIterations
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:      store,
		password:   opts.Password,
		scheme:     scheme,
		iterations: iterations,
		log:        log,
	}, nil
}

// SetPassword 替换口令，例如 CLI 在交互输入之后
func (m *Manager) SetPassword(password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.password = password
}

// CurrentWallet 返回当前加载的钱包名，未加载时为空
func (m *Manager) CurrentWallet() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

func observe(command string, start time.Time, err *error) {
	monitor.ObserveCommand(command, time.Since(start).Seconds(), *err)
}

// CreateWallet 生成新助记词并创建只有一个账户的钱包。同名钱包已存在时失败，原文件不受影响。
func (m *Manager) CreateWallet(ctx context.Context, name string) (res *CreateWalletResult, err error) {
	defer observe("create_wallet", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	mnemonic, err := keys.GenerateMnemonic()
	if err != nil {
		return nil, errno.ErrCrypto.Wrap(err)
	}
	acc, err := m.createLocked(name, mnemonic)
	if err != nil {
		return nil, err
	}
	m.log.Info("wallet created", zap.String("wallet", name), zap.String("address", acc.Address))
	return &CreateWalletResult{
		Mnemonic:  mnemonic,
		Address:   acc.Address,
		PublicKey: acc.PublicKey.Hex(),
	}, nil
}

// ImportWallet 用已有助记词创建钱包，第 0 个账户被选中
func (m *Manager) ImportWallet(ctx context.Context, name, mnemonic string) (res *ImportWalletResult, err error) {
	defer observe("import_wallet", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, err := m.createLocked(name, mnemonic)
	if err != nil {
		return nil, err
	}
	m.log.Info("wallet imported", zap.String("wallet", name), zap.String("address", acc.Address))
	return &ImportWalletResult{
		Address:       acc.Address,
		PublicKey:     acc.PublicKey.Hex(),
		TotalAccounts: 1,
	}, nil
}

func (m *Manager) createLocked(name, mnemonic string) (*model.Account, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, classify(err)
	}
	if m.password == "" {
		return nil, errno.ErrPasswordRequired
	}
	exists, err := m.store.Exists(name)
	if err != nil {
		return nil, classify(err)
	}
	if exists {
		return nil, errno.ErrWalletExists.WithMessage(fmt.Sprintf("wallet %q already exists", name))
	}

	deriver, err := keys.NewDeriver(m.scheme)
	if err != nil {
		return nil, classify(err)
	}
	kp, err := deriver.Derive(mnemonic, 0)
	if err != nil {
		return nil, classify(err)
	}
	defer kp.Zero()

	enc := model.EncryptionParams{Cipher: keystore.CipherAESGCM, KDF: keystore.KDFPBKDF2, Iterations: m.iterations}
	var index uint32
	acc, err := m.sealAccount(kp, enc, &index)
	if err != nil {
		return nil, classify(err)
	}

	c := model.NewCollection(string(deriver.Scheme()), enc)
	c.Append(acc)
	if err := m.store.Save(name, c); err != nil {
		return nil, classify(err)
	}
	m.name, m.wallet = name, c
	return acc, nil
}

// LoadWallet 加载钱包并设为当前钱包。文件不存在时返回 false，当前钱包保持不变。
func (m *Manager) LoadWallet(ctx context.Context, name string) (ok bool, err error) {
	defer observe("load_wallet", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.store.Load(name)
	if err != nil {
		return false, classify(err)
	}
	if c == nil {
		return false, nil
	}
	if _, err := keys.ParseScheme(c.Derivation); err != nil {
		return false, errno.ErrInvariant.Wrap(err)
	}
	m.name, m.wallet = name, c
	monitor.Business.AccountsGauge.WithLabelValues(name).Set(float64(c.Len()))
	m.log.Info("wallet loaded", zap.String("wallet", name), zap.Int("accounts", c.Len()), zap.String("version", c.Version))
	return true, nil
}

// ListWallets 按名称排序返回数据目录中的钱包
func (m *Manager) ListWallets(ctx context.Context) (names []string, err error) {
	defer observe("list_wallets", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	names, err = m.store.List()
	if err != nil {
		return nil, classify(err)
	}
	return names, nil
}

func (m *Manager) ListAccounts(ctx context.Context) (out []AccountInfo, err error) {
	defer observe("list_accounts", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallet == nil {
		return nil, errno.ErrNoWalletLoaded
	}
	out = make([]AccountInfo, 0, m.wallet.Len())
	for i, a := range m.wallet.All() {
		out = append(out, accountInfo(i, a, m.wallet.Derivation))
	}
	return out, nil
}

// SelectAccount 选中第 index 个账户并保存。越界时选择不变。
func (m *Manager) SelectAccount(ctx context.Context, index int) (err error) {
	defer observe("select_account", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.mutate(func(c *model.Collection) error {
		return c.Select(index)
	})
	if err != nil {
		return err
	}
	m.log.Info("account selected", zap.String("wallet", m.name), zap.Int("index", index))
	return nil
}

// GetSelectedAccount 返回选中的账户，钱包为空时为 nil
func (m *Manager) GetSelectedAccount(ctx context.Context) (info *AccountInfo, err error) {
	defer observe("get_selected_account", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallet == nil {
		return nil, errno.ErrNoWalletLoaded
	}
	a, ok := m.wallet.Selected()
	if !ok {
		return nil, nil
	}
	res := accountInfo(m.wallet.SelectedIndex(), a, m.wallet.Derivation)
	return &res, nil
}

// AddAccount 在下一个派生索引上追加账户，不改变选择
func (m *Manager) AddAccount(ctx context.Context, mnemonic string) (info *AccountInfo, err error) {
	defer observe("add_account", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallet == nil {
		return nil, errno.ErrNoWalletLoaded
	}
	deriver, err := keys.NewDeriver(keys.Scheme(m.wallet.Derivation))
	if err != nil {
		return nil, errno.ErrInvariant.Wrap(err)
	}

	err = m.mutate(func(c *model.Collection) error {
		index := c.NextDerivationIndex()
		kp, err := deriver.Derive(mnemonic, index)
		if err != nil {
			return err
		}
		defer kp.Zero()
		return m.appendKey(c, kp, &index)
	})
	if err != nil {
		return nil, err
	}

	i := m.wallet.Len() - 1
	res := accountInfo(i, m.wallet.Accounts[i], m.wallet.Derivation)
	m.log.Info("account added", zap.String("wallet", m.name), zap.String("address", res.Address), zap.Int("index", i))
	return &res, nil
}

// ImportPrivateKey 把外部私钥作为不带派生索引的账户追加到当前钱包
func (m *Manager) ImportPrivateKey(ctx context.Context, privateKeyHex string) (info *AccountInfo, err error) {
	defer observe("import_private_key", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallet == nil {
		return nil, errno.ErrNoWalletLoaded
	}
	kp, err := keys.ImportPrivateKey(privateKeyHex)
	if err != nil {
		return nil, classify(err)
	}
	defer kp.Zero()

	if err := m.mutate(func(c *model.Collection) error {
		return m.appendKey(c, kp, nil)
	}); err != nil {
		return nil, err
	}

	i := m.wallet.Len() - 1
	res := accountInfo(i, m.wallet.Accounts[i], m.wallet.Derivation)
	m.log.Info("private key imported", zap.String("wallet", m.name), zap.String("address", res.Address))
	return &res, nil
}

func (m *Manager) appendKey(c *model.Collection, kp *keys.KeyPair, index *uint32) error {
	addr := kp.Address().Hex()
	if c.IndexOfAddress(addr) >= 0 {
		return errno.ErrDuplicateAccount.WithMessage(fmt.Sprintf("account %s already exists", addr))
	}
	acc, err := m.sealAccount(kp, c.Encryption, index)
	if err != nil {
		return err
	}
	c.Append(acc)
	return nil
}

// RemoveAccount 删除账户。不能删除最后一个账户。
func (m *Manager) RemoveAccount(ctx context.Context, index int) (err error) {
	defer observe("remove_account", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed string
	err = m.mutate(func(c *model.Collection) error {
		if index >= 0 && index < c.Len() {
			removed = c.Accounts[index].Address
		}
		return c.Remove(index)
	})
	if err != nil {
		return err
	}
	m.log.Info("account removed", zap.String("wallet", m.name), zap.String("address", removed))
	return nil
}

// SignTransaction 用选中账户对 SHA-256(data) 签名。不更新 last_used，也不写文件。
func (m *Manager) SignTransaction(ctx context.Context, hexData string) (res *SignResult, err error) {
	defer observe("sign_transaction", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := hexstr.Decode(hexData)
	if err != nil {
		return nil, classify(err)
	}
	a, err := m.selectedLocked()
	if err != nil {
		return nil, err
	}
	kp, err := m.openAccount(a, m.wallet.Encryption)
	if err != nil {
		return nil, classify(err)
	}
	defer kp.Zero()

	sig, hash, err := signer.SignPayload(data, kp.PrivateKey[:])
	monitor.ObserveSignature("sign", err == nil)
	if err != nil {
		return nil, classify(err)
	}
	m.log.Info("transaction signed", zap.String("wallet", m.name), zap.String("address", a.Address), zap.String("hash", hexstr.Encode(hash[:])))
	return &SignResult{
		Signature: sig.Hex(),
		PublicKey: a.PublicKey.Hex(),
		Address:   a.Address,
		Hash:      hexstr.Encode(hash[:]),
	}, nil
}

// VerifySignature 校验 data 的签名。publicKeyHex 为空时使用选中账户的公钥。
// 格式错误的签名或公钥返回 false，而不是错误。
func (m *Manager) VerifySignature(ctx context.Context, hexData, signatureHex, publicKeyHex string) (ok bool, err error) {
	defer observe("verify_signature", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := hexstr.Decode(hexData)
	if err != nil {
		return false, classify(err)
	}

	var pub []byte
	if publicKeyHex == "" {
		a, err := m.selectedLocked()
		if err != nil {
			return false, err
		}
		pub = a.PublicKey
	} else if pub, err = hexstr.Decode(publicKeyHex); err != nil {
		return false, nil
	}

	sig, err := signer.ParseSignature(signatureHex)
	if err != nil {
		monitor.ObserveSignature("verify", false)
		return false, nil
	}
	ok = signer.VerifyPayload(data, sig, pub)
	monitor.ObserveSignature("verify", ok)
	return ok, nil
}

// ExportPrivateKey 返回选中账户的明文私钥 (0x 十六进制)
func (m *Manager) ExportPrivateKey(ctx context.Context) (key string, err error) {
	defer observe("export_private_key", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.selectedLocked()
	if err != nil {
		return "", err
	}
	kp, err := m.openAccount(a, m.wallet.Encryption)
	if err != nil {
		return "", classify(err)
	}
	defer kp.Zero()

	m.log.Warn("private key exported", zap.String("wallet", m.name), zap.String("address", a.Address))
	return kp.PrivateKeyHex(), nil
}

func (m *Manager) GetWalletInfo(ctx context.Context) (info *WalletInfo, err error) {
	defer observe("get_wallet_info", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallet == nil {
		return nil, errno.ErrNoWalletLoaded
	}
	info = &WalletInfo{
		Name:          m.name,
		TotalAccounts: m.wallet.Len(),
		CreatedAt:     m.wallet.CreatedAt,
		LastModified:  m.wallet.LastModified,
		Version:       m.wallet.Version,
		Derivation:    m.wallet.Derivation,
	}
	if a, ok := m.wallet.Selected(); ok {
		info.SelectedAddress = a.Address
	}
	return info, nil
}

// DeleteWallet 删除钱包文件。删除的是当前钱包时同时卸载它。
func (m *Manager) DeleteWallet(ctx context.Context, name string) (err error) {
	defer observe("delete_wallet", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(name); err != nil {
		return classify(err)
	}
	if m.name == name {
		m.name, m.wallet = "", nil
		monitor.Business.AccountsGauge.DeleteLabelValues(name)
	}
	m.log.Info("wallet deleted", zap.String("wallet", name))
	return nil
}

// BackupWallet 把当前钱包文件复制到 dest
func (m *Manager) BackupWallet(ctx context.Context, dest string) (err error) {
	defer observe("backup_wallet", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.wallet == nil {
		return errno.ErrNoWalletLoaded
	}
	if err := m.store.Backup(m.name, dest); err != nil {
		return classify(err)
	}
	return nil
}

// RestoreWallet 从备份文件恢复为钱包 name。备份先经过完整校验，损坏时不覆盖目标。
func (m *Manager) RestoreWallet(ctx context.Context, src, name string) (err error) {
	defer observe("restore_wallet", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.store.Restore(src, name)
	if err != nil {
		return classify(err)
	}
	if m.name == name {
		m.wallet = c
		monitor.Business.AccountsGauge.WithLabelValues(name).Set(float64(c.Len()))
	}
	m.log.Info("wallet restored", zap.String("wallet", name), zap.Int("accounts", c.Len()))
	return nil
}

func (m *Manager) selectedLocked() (*model.Account, error) {
	if m.wallet == nil {
		return nil, errno.ErrNoWalletLoaded
	}
	a, ok := m.wallet.Selected()
	if !ok {
		return nil, errno.ErrInvariant.WithMessage("wallet has no selected account")
	}
	return a, nil
}

// mutate 在副本上执行 fn，校验并保存成功后替换当前快照。
// 任一步失败时内存与磁盘都保持原状。
func (m *Manager) mutate(fn func(c *model.Collection) error) error {
	if m.wallet == nil {
		return errno.ErrNoWalletLoaded
	}
	next := m.wallet.Clone()
	if err := m.upgradeEncryption(next); err != nil {
		return classify(err)
	}
	if err := fn(next); err != nil {
		return classify(err)
	}
	if err := next.Validate(); err != nil {
		return classify(err)
	}
	if err := m.store.Save(m.name, next); err != nil {
		return classify(err)
	}
	m.wallet = next
	monitor.Business.AccountsGauge.WithLabelValues(m.name).Set(float64(next.Len()))
	return nil
}
