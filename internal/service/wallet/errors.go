package wallet

import (
	"errors"

	"mth-wallet/internal/model"
	"mth-wallet/internal/storage"
	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/keys"
	"mth-wallet/pkg/keystore"
	"mth-wallet/pkg/signer"
	"mth-wallet/pkg/utils/hexstr"
)

// classify 把底层错误归入 errno 分类，已经分类的错误原样返回
func classify(err error) error {
	if err == nil {
		return nil
	}
	var typed errno.Errno
	if errors.As(err, &typed) {
		return err
	}

	switch {
	case errors.Is(err, keystore.ErrPasswordRequired):
		return errno.ErrPasswordRequired.Wrap(err)
	case errors.Is(err, keys.ErrInvalidMnemonic),
		errors.Is(err, keys.ErrInvalidHex),
		errors.Is(err, keys.ErrUnknownScheme),
		errors.Is(err, hexstr.ErrInvalidHex),
		errors.Is(err, model.ErrIndexOutOfBounds),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, signer.ErrInvalidSignatureEncoding):
		return errno.ErrValidation.Wrap(err)
	case errors.Is(err, model.ErrLastAccount),
		errors.Is(err, model.ErrInvariantViolation),
		errors.Is(err, storage.ErrCorrupted):
		return errno.ErrInvariant.Wrap(err)
	case errors.Is(err, storage.ErrNotFound):
		return errno.ErrWalletNotFound.Wrap(err)
	case errors.Is(err, keys.ErrInvalidScalar),
		errors.Is(err, keystore.ErrDecrypt),
		errors.Is(err, keystore.ErrInvalidSalt),
		errors.Is(err, keystore.ErrUnknownCipher),
		errors.Is(err, signer.ErrInvalidKey),
		errors.Is(err, signer.ErrInvalidHash):
		return errno.ErrCrypto.Wrap(err)
	}
	return errno.ErrIO.Wrap(err)
}
