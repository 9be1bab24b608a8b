// Package walletauth authenticates HTTP callers by an EIP-191 personal signature.
//
// Clients send three headers:
//
//	X-Wallet-Address:   0x-prefixed account address
//	X-Wallet-Message:   "presale-auth:<unix seconds>:<METHOD>:<path>:<0x keccak256 of body>"
//	X-Wallet-Signature: 0x-prefixed 65 byte signature of the message
//
// The recovered signer must match the claimed address, the timestamp must be recent
// and the message must name the request it is sent with. A signed message is
// therefore only good for one route and one body.
package walletauth

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/principal"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderAddress   = "X-Wallet-Address"
	HeaderMessage   = "X-Wallet-Message"
	HeaderSignature = "X-Wallet-Signature"

	MessagePrefix = "presale-auth:"

	DefaultMaxAge  = 5 * time.Minute
	DefaultMaxSkew = time.Minute
)

var (
	ErrMissingCredentials = errors.New("missing wallet credentials")
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrInvalidMessage     = errors.New("invalid auth message")
	ErrExpiredMessage     = errors.New("auth message expired")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrSignerMismatch     = errors.New("signature does not match claimed address")
)

type Config struct {
	MaxAge  time.Duration `mapstructure:"max_age"`
	MaxSkew time.Duration `mapstructure:"max_skew"`

	// Now is used for tests. Defaults to time.Now.
	Now func() time.Time `mapstructure:"-"`
}

// Request is the part of an HTTP request an auth message is bound to.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// New returns a fiber handler that rejects unauthenticated requests with 401 and
// stores the verified caller in the request's user context (see [principal.Caller]).
func New(config Config) fiber.Handler {
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultMaxAge
	}
	if config.MaxSkew <= 0 {
		config.MaxSkew = DefaultMaxSkew
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		req := Request{Method: c.Method(), Path: c.Path(), Body: c.Body()}
		caller, err := Verify(c.Get(HeaderAddress), c.Get(HeaderMessage), c.Get(HeaderSignature), req, config.Now(), config.MaxAge, config.MaxSkew)
		if err != nil {
			logger.WarnContext(ctx, "wallet authentication failed",
				slog.String("event", "walletauth/rejected"),
				slog.String("address", c.Get(HeaderAddress)),
				slog.String("reason", err.Error()),
			)
			return errors.WithStack(c.Status(fiber.StatusUnauthorized).JSON(map[string]any{
				"error": err.Error(),
				"code":  "Unauthenticated",
			}))
		}

		ctx = principal.WithCaller(ctx, caller)
		ctx = logger.WithContext(ctx, "caller", caller.Hex())
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Verify checks an inline auth message signed with personal_sign for req and
// returns the signer.
func Verify(address, message, signature string, req Request, now time.Time, maxAge, maxSkew time.Duration) (common.Address, error) {
	if address == "" || message == "" || signature == "" {
		return common.Address{}, errors.WithStack(ErrMissingCredentials)
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, errors.WithStack(ErrInvalidAddress)
	}
	claimed := common.HexToAddress(address)

	if !strings.HasPrefix(message, MessagePrefix) {
		return common.Address{}, errors.WithStack(ErrInvalidMessage)
	}
	rawTs, _, _ := strings.Cut(strings.TrimPrefix(message, MessagePrefix), ":")
	ts, err := strconv.ParseInt(rawTs, 10, 64)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidMessage, "timestamp is not a number")
	}
	signedAt := time.Unix(ts, 0)
	if message != NewMessage(signedAt, req) {
		return common.Address{}, errors.Wrapf(ErrInvalidMessage, "message is not for %s %s", strings.ToUpper(req.Method), req.Path)
	}
	if now.Sub(signedAt) > maxAge || signedAt.Sub(now) > maxSkew {
		return common.Address{}, errors.WithStack(ErrExpiredMessage)
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return common.Address{}, errors.WithStack(ErrInvalidSignature)
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(HashMessage(message), sig)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	if recovered := crypto.PubkeyToAddress(*pubKey); recovered != claimed {
		return common.Address{}, errors.WithStack(ErrSignerMismatch)
	}
	return claimed, nil
}

// HashMessage returns the EIP-191 personal message hash of message.
func HashMessage(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// NewMessage returns the auth message to sign for req at the given time.
func NewMessage(at time.Time, req Request) string {
	return MessagePrefix + strconv.FormatInt(at.Unix(), 10) +
		":" + strings.ToUpper(req.Method) +
		":" + req.Path +
		":" + hexutil.Encode(crypto.Keccak256(req.Body))
}
